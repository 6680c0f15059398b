package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/alerting"
	"github.com/mamadbah2/farmpulse/internal/config"
)

// Scheduler runs the periodic alert sweep across all farms.
type Scheduler struct {
	cron   *cron.Cron
	engine *alerting.Engine
	cfg    config.SweepConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance. The sweep runs in the
// configured timezone so "6 in the morning" means farm-local morning.
func NewScheduler(cfg config.SweepConfig, engine *alerting.Engine, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []cron.Option
	if location, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(location))
	} else {
		logger.Warn("invalid timezone, scheduler falls back to local time",
			zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:   cron.New(opts...),
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSweep)
	if err != nil {
		s.logger.Error("failed to schedule alert sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runSweep() {
	s.logger.Info("running alert sweep")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dispatched, err := s.engine.EvaluateAllFarms(ctx, time.Now().UTC())
	if err != nil {
		// Partial failures are expected; the sweep already isolated them per farm.
		s.logger.Error("alert sweep finished with errors", zap.Error(err))
	}

	s.logger.Info("alert sweep finished", zap.Int("dispatched", len(dispatched)))
}
