package services

import (
	"log/slog"
	"sort"
	"time"

	"covid-dashboard/models"
)

type joinKey struct {
	country string
	date    time.Time
}

// Deriver joins the three case-count series and computes active cases and
// the fatality rate.
type Deriver struct {
	logger *slog.Logger
}

// NewDeriver creates a Deriver with the given logger.
func NewDeriver(logger *slog.Logger) *Deriver {
	return &Deriver{logger: logger}
}

// Derive inner-joins confirmed, deaths and recovered on (country, date).
// A key missing from any of the three inputs yields no record. Output is
// ordered by date, then country.
func (d *Deriver) Derive(confirmed, deaths, recovered models.LongSeries) []models.DerivedRecord {
	deathsByKey := index(deaths)
	recoveredByKey := index(recovered)

	out := make([]models.DerivedRecord, 0, len(confirmed.Rows))
	seen := make(map[joinKey]struct{}, len(confirmed.Rows))
	for _, c := range confirmed.Rows {
		k := joinKey{c.Country, c.Date}
		if _, dup := seen[k]; dup {
			continue
		}
		de, ok := deathsByKey[k]
		if !ok {
			continue
		}
		re, ok := recoveredByKey[k]
		if !ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, NewDerivedRecord(c.Country, c.Date, c.Value, de, re))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Country < out[j].Country
	})

	if dropped := len(confirmed.Rows) - len(out); dropped > 0 {
		d.logger.Debug("incomplete keys excluded from join", "dropped", dropped, "kept", len(out))
	}
	return out
}

// NewDerivedRecord computes the derived metrics for one (country, date).
func NewDerivedRecord(country string, date time.Time, confirmed, deaths, recovered float64) models.DerivedRecord {
	rec := models.DerivedRecord{
		Country:   country,
		Date:      date,
		Confirmed: confirmed,
		Deaths:    deaths,
		Recovered: recovered,
		Active:    confirmed - deaths - recovered,
	}
	if confirmed > 0 {
		rate := deaths / confirmed * 100
		rec.FatalityRate = &rate
	}
	return rec
}

func index(s models.LongSeries) map[joinKey]float64 {
	m := make(map[joinKey]float64, len(s.Rows))
	for _, o := range s.Rows {
		k := joinKey{o.Country, o.Date}
		if _, dup := m[k]; !dup {
			m[k] = o.Value
		}
	}
	return m
}
