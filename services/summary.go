package services

import (
	"time"

	"covid-dashboard/models"
)

// Summary holds the headline figures of a country overview: the latest
// cumulative values and their change since the previous report.
type Summary struct {
	Country string
	AsOf    time.Time

	Confirmed float64
	Deaths    float64
	Recovered float64
	Active    float64

	NewConfirmed float64
	NewDeaths    float64
	NewRecovered float64
	ActiveChange float64

	// FatalityRate is nil when the latest confirmed count is zero.
	FatalityRate *float64
	// NewCasesShare is NewConfirmed as a percentage of Confirmed.
	NewCasesShare *float64
}

// Summarize computes the summary from date-ordered derived records. With a
// single record the changes are zero.
func Summarize(country string, records []models.DerivedRecord) Summary {
	s := Summary{Country: country}
	if len(records) == 0 {
		return s
	}

	last := records[len(records)-1]
	s.AsOf = last.Date
	s.Confirmed = last.Confirmed
	s.Deaths = last.Deaths
	s.Recovered = last.Recovered
	s.Active = last.Active
	s.FatalityRate = last.FatalityRate

	if len(records) > 1 {
		prev := records[len(records)-2]
		s.NewConfirmed = last.Confirmed - prev.Confirmed
		s.NewDeaths = last.Deaths - prev.Deaths
		s.NewRecovered = last.Recovered - prev.Recovered
		s.ActiveChange = last.Active - prev.Active
	}
	if last.Confirmed > 0 {
		share := s.NewConfirmed / last.Confirmed * 100
		s.NewCasesShare = &share
	}
	return s
}
