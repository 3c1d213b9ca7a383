package util

import (
	"github.com/pagepulse/pagepulse/pkg/models"
)

// CalculateScore maps a raw metric value onto a 0-1 score by linear
// interpolation between a good and a poor threshold. Values at or below good
// score 1, values at or above poor score 0. Callers must pass poor > good.
func CalculateScore(value, goodThreshold, poorThreshold float64) float64 {
	if value <= goodThreshold {
		return 1
	}
	if value >= poorThreshold {
		return 0
	}
	return 1 - (value-goodThreshold)/(poorThreshold-goodThreshold)
}

// SeverityThresholds are inclusive lower bounds for the moderate, serious and
// critical buckets. Anything below moderate is minor.
type SeverityThresholds struct {
	Moderate float64
	Serious  float64
	Critical float64
}

// Default bucketing used when a diagnostic category does not override them.
var (
	DefaultByteThresholds = SeverityThresholds{Moderate: 100000, Serious: 300000, Critical: 500000}
	DefaultTimeThresholds = SeverityThresholds{Moderate: 300, Serious: 800, Critical: 1500}
)

// SeverityFor buckets a magnitude against thresholds, checking the critical
// bound first so overlapping bounds resolve to the worse severity.
func SeverityFor(value float64, t SeverityThresholds) models.Severity {
	switch {
	case value >= t.Critical:
		return models.SeverityCritical
	case value >= t.Serious:
		return models.SeveritySerious
	case value >= t.Moderate:
		return models.SeverityModerate
	default:
		return models.SeverityMinor
	}
}

// SeverityByBytes buckets a wasted-byte count with the default byte bands.
func SeverityByBytes(bytes float64) models.Severity {
	return SeverityFor(bytes, DefaultByteThresholds)
}

// SeverityByTime buckets a millisecond cost with the default time bands.
func SeverityByTime(ms float64) models.Severity {
	return SeverityFor(ms, DefaultTimeThresholds)
}
