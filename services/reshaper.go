package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"covid-dashboard/models"
)

// dateLayouts are tried in order when parsing a date column header. The case
// sources emit M/D/YY; the others cover re-exports of the same files.
var dateLayouts = []string{
	"1/2/06",
	"1/2/2006",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseDate parses s with the first matching layout in dateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Reshaper pivots wide series tables into long form.
type Reshaper struct {
	logger *slog.Logger
}

// NewReshaper creates a Reshaper with the given logger.
func NewReshaper(logger *slog.Logger) *Reshaper {
	return &Reshaper{logger: logger}
}

// ToLong pivots every date column of table into (country, date, value) rows
// labelled with label. Columns whose header is not a date are skipped, as
// are missing cells. The result is sorted by date, then country.
func (r *Reshaper) ToLong(table *models.SeriesTable, label string) (models.LongSeries, error) {
	out := models.LongSeries{Label: label}
	if table == nil {
		return out, errors.New("reshape: nil table")
	}

	dates := make([]time.Time, len(table.Columns))
	valid := make([]bool, len(table.Columns))
	parsed := 0
	for i, col := range table.Columns {
		d, err := ParseDate(col)
		if err != nil {
			r.logger.Warn("skipping non-date column", "table", table.Metric, "column", col)
			continue
		}
		dates[i], valid[i] = d, true
		parsed++
	}
	if parsed == 0 && len(table.Columns) > 0 {
		return out, &models.ParseError{
			Source: string(table.Metric),
			Err:    errors.New("no date columns"),
		}
	}

	out.Rows = make([]models.Observation, 0, parsed*len(table.Rows))
	for _, row := range table.Rows {
		for i, cell := range row.Values {
			if i >= len(valid) || !valid[i] || !cell.OK {
				continue
			}
			out.Rows = append(out.Rows, models.Observation{
				Country: row.Country,
				Date:    dates[i],
				Value:   cell.V,
			})
		}
	}

	SortObservations(out.Rows)
	return out, nil
}

// SortObservations orders rows by date, then country.
func SortObservations(rows []models.Observation) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Country < rows[j].Country
	})
}
