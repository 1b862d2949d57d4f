package services

import (
	"math"

	"covid-dashboard/models"
)

// LogEpsilon is added to every value on a log axis so zeros stay plottable.
const LogEpsilon = 1e-5

// Scale prepares values for a linear or logarithmic axis. Linear mode is the
// identity with a [min, max] domain. Log mode shifts every value by
// LogEpsilon, raises anything still non-positive to LogEpsilon, and uses a
// clamped [1, ceil(max)] domain. The input slice is never modified.
func Scale(values []float64, log bool) models.Scaled {
	out := models.Scaled{Values: make([]float64, len(values)), Log: log, Clamp: log}
	if len(values) == 0 {
		if log {
			out.Domain = models.Domain{Min: 1, Max: 1}
		}
		return out
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		if log {
			v += LogEpsilon
			if v <= 0 {
				v = LogEpsilon
			}
		}
		out.Values[i] = v
	}

	if !log {
		out.Domain = models.Domain{Min: lo, Max: hi}
		return out
	}
	out.Domain = LogDomain(hi)
	return out
}

// LogDomain returns the clamped log-axis domain for a series peaking at peak.
func LogDomain(peak float64) models.Domain {
	return models.Domain{Min: 1, Max: math.Max(1, math.Ceil(peak))}
}

// ScalePoints returns a scaled copy of points and their shared domain.
func ScalePoints(points []models.AggregatePoint, log bool) ([]models.AggregatePoint, models.Domain) {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	s := Scale(values, log)
	out := make([]models.AggregatePoint, len(points))
	for i, p := range points {
		p.Value = s.Values[i]
		out[i] = p
	}
	return out, s.Domain
}
