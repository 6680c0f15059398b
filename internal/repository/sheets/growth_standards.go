package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/config"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

const standardsRange = "GrowthStandards!A:C"

// GrowthStandardRepository serves species growth curves from a Google Sheet
// maintained by the agronomy team. The sheet holds one row per (species, day)
// with the expected weight in grams; rows are parsed defensively and cached in
// memory until Reload is called.
type GrowthStandardRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger

	mu     sync.RWMutex
	curves map[models.Species]analytics.Curve
}

// NewGrowthStandardRepository builds the repository and performs the initial
// sheet load.
func NewGrowthStandardRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GrowthStandardRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	repo := &GrowthStandardRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
		curves:        make(map[models.Species]analytics.Curve),
	}

	if err := repo.Reload(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// CurveFor returns the cached curve for a species. A species absent from the
// sheet yields an empty curve, which downstream math treats as "no standard".
func (r *GrowthStandardRepository) CurveFor(_ context.Context, species models.Species) (analytics.Curve, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.curves[species], nil
}

// Reload re-reads the sheet and swaps the cached curves.
func (r *GrowthStandardRepository) Reload(ctx context.Context) error {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, standardsRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read range %s: %w", standardsRange, err)
	}

	bySpecies := make(map[models.Species][]models.GrowthStandard)
	for i, row := range resp.Values {
		if len(row) < 3 {
			continue
		}

		species := models.Species(fmt.Sprint(row[0]))
		day, err := parseInt(row[1])
		if err != nil || day < 0 {
			r.logger.Debug("skip standards row with invalid day", zap.Int("row", i), zap.Any("value", row[1]))
			continue
		}
		weight, err := parseFloat(row[2])
		if err != nil || weight < 0 {
			r.logger.Debug("skip standards row with invalid weight", zap.Int("row", i), zap.Any("value", row[2]))
			continue
		}

		bySpecies[species] = append(bySpecies[species], models.GrowthStandard{
			Species:         species,
			Day:             day,
			ExpectedWeightG: weight,
		})
	}

	curves := make(map[models.Species]analytics.Curve, len(bySpecies))
	for species, rows := range bySpecies {
		curves[species] = analytics.NewCurve(rows)
	}

	r.mu.Lock()
	r.curves = curves
	r.mu.Unlock()

	r.logger.Info("growth standards loaded", zap.Int("species", len(curves)))
	return nil
}

func parseInt(value interface{}) (int, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.Atoi(str)
}

func parseFloat(value interface{}) (float64, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}
