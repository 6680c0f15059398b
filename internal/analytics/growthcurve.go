package analytics

import (
	"sort"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// Curve is a species growth-standard table prepared for day lookups. Points
// are held sorted by day; weights are monotonically non-decreasing by
// construction of the reference data.
type Curve struct {
	points []models.GrowthStandard
}

// NewCurve builds a Curve from reference rows. The input is copied and sorted;
// rows with negative days are discarded.
func NewCurve(standards []models.GrowthStandard) Curve {
	points := make([]models.GrowthStandard, 0, len(standards))
	for _, s := range standards {
		if s.Day < 0 {
			continue
		}
		points = append(points, s)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return Curve{points: points}
}

// Empty reports whether the curve has no reference rows.
func (c Curve) Empty() bool {
	return len(c.points) == 0
}

// ExpectedAt returns the expected weight in grams at the given day of life,
// linearly interpolated between the nearest bracketing reference rows and
// clamped to the curve endpoints outside the covered range. An empty curve
// yields 0.
func (c Curve) ExpectedAt(day int) float64 {
	if len(c.points) == 0 {
		return 0
	}
	first := c.points[0]
	if day <= first.Day {
		return first.ExpectedWeightG
	}
	last := c.points[len(c.points)-1]
	if day >= last.Day {
		return last.ExpectedWeightG
	}

	// Find the first row at or past the requested day.
	idx := sort.Search(len(c.points), func(i int) bool { return c.points[i].Day >= day })
	upper := c.points[idx]
	if upper.Day == day {
		return upper.ExpectedWeightG
	}
	lower := c.points[idx-1]

	span := float64(upper.Day - lower.Day)
	if span <= 0 {
		return lower.ExpectedWeightG
	}
	fraction := float64(day-lower.Day) / span
	return lower.ExpectedWeightG + (upper.ExpectedWeightG-lower.ExpectedWeightG)*fraction
}

// meanDailyGain returns the average gain per day across the whole curve,
// strictly positive for any curve ending above zero weight.
func (c Curve) meanDailyGain() float64 {
	if len(c.points) == 0 {
		return 0
	}
	last := c.points[len(c.points)-1]
	days := last.Day
	if days < 1 {
		days = 1
	}
	return last.ExpectedWeightG / float64(days)
}
