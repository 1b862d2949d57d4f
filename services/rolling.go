package services

import (
	"time"

	"covid-dashboard/models"
)

// RollingWindow is the trailing span of the active-case average.
const RollingWindow = 7 * 24 * time.Hour

// RollingMean computes, for every row, the mean of the same country's rows
// dated in (date-window, date]. The window is calendar time: a reporting gap
// leaves fewer rows in the window rather than pulling older rows in.
func RollingMean(rows []models.Observation, window time.Duration) []models.Observation {
	byCountry := make(map[string][]models.Observation)
	var order []string
	for _, r := range rows {
		if _, ok := byCountry[r.Country]; !ok {
			order = append(order, r.Country)
		}
		byCountry[r.Country] = append(byCountry[r.Country], r)
	}

	out := make([]models.Observation, 0, len(rows))
	for _, c := range order {
		series := byCountry[c]
		SortObservations(series)

		start := 0
		var sum float64
		for i, r := range series {
			sum += r.Value
			cutoff := r.Date.Add(-window)
			for start < i && !series[start].Date.After(cutoff) {
				sum -= series[start].Value
				start++
			}
			out = append(out, models.Observation{
				Country: c,
				Date:    r.Date,
				Value:   sum / float64(i-start+1),
			})
		}
	}
	SortObservations(out)
	return out
}
