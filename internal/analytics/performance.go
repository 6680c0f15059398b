package analytics

// GrowthStatus classifies a performance index against the growth standard.
type GrowthStatus string

const (
	StatusBehind  GrowthStatus = "behind"
	StatusOnTrack GrowthStatus = "on_track"
	StatusAhead   GrowthStatus = "ahead"
)

// PerformanceIndex returns the actual weight as a percentage of the expected
// weight for the same age. Callers must guarantee expectedWeightG > 0; if
// violated the function returns 0 rather than NaN so display code stays safe.
func PerformanceIndex(actualWeightG, expectedWeightG float64) float64 {
	if expectedWeightG <= 0 {
		return 0
	}
	return actualWeightG / expectedWeightG * 100
}

// ClassifyStatus maps a performance index to a growth status. The 95 and 105
// boundaries are inclusive of on_track.
func ClassifyStatus(performanceIndex float64) GrowthStatus {
	switch {
	case performanceIndex < 95:
		return StatusBehind
	case performanceIndex > 105:
		return StatusAhead
	default:
		return StatusOnTrack
	}
}

// DeviationPercent returns the signed deviation of actual from expected as a
// percentage of expected, 0 when expected is not positive (same fail-soft
// policy as PerformanceIndex).
func DeviationPercent(actualWeightG, expectedWeightG float64) float64 {
	if expectedWeightG <= 0 {
		return 0
	}
	return (actualWeightG - expectedWeightG) / expectedWeightG * 100
}
