package sources

import (
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"covid-dashboard/models"
)

const caseCountryColumn = "Country/Region"

// caseDroppedColumns are descriptive columns of the case-count files that
// nothing downstream needs.
var caseDroppedColumns = map[string]struct{}{
	"Province/State": {},
	"Lat":            {},
	"Long":           {},
	"Long_":          {},
}

// parseCaseTable turns a wide case-count CSV into a SeriesTable with one row
// per country. Sub-national rows are summed into the national total. A cell
// stays missing only when no contributing row had a value for it.
func parseCaseTable(logger *slog.Logger, metric models.Metric, records [][]string, geo models.CountryGeo) (*models.SeriesTable, error) {
	if len(records) == 0 {
		return nil, &models.ParseError{Source: string(metric), Err: errors.New("empty file")}
	}

	header := records[0]
	countryIdx := -1
	var dateIdx []int
	var columns []string
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == caseCountryColumn {
			countryIdx = i
			continue
		}
		if _, drop := caseDroppedColumns[h]; drop {
			continue
		}
		dateIdx = append(dateIdx, i)
		columns = append(columns, h)
	}
	if countryIdx < 0 {
		return nil, &models.ParseError{Source: string(metric), Column: caseCountryColumn, Err: errors.New("missing column")}
	}

	byCountry := make(map[string]*models.SeriesRow)
	badCells, badRows := 0, 0
	for n, rec := range records[1:] {
		if len(rec) != len(header) {
			badRows++
			logger.Warn("skipping malformed row", "source", metric, "row", n+2, "fields", len(rec), "want", len(header))
			continue
		}
		country := strings.TrimSpace(rec[countryIdx])
		if country == "" {
			badRows++
			continue
		}

		row := byCountry[country]
		if row == nil {
			g, _ := geo.Lookup(country)
			row = &models.SeriesRow{Country: country, Geo: g, Values: make([]models.Value, len(dateIdx))}
			byCountry[country] = row
		}
		for j, idx := range dateIdx {
			v, ok := parseNumber(rec[idx])
			if !ok {
				if strings.TrimSpace(rec[idx]) != "" {
					badCells++
				}
				continue
			}
			row.Values[j].V += v
			row.Values[j].OK = true
		}
	}
	if badCells > 0 {
		logger.Warn("unparseable cells treated as missing", "source", metric, "count", badCells)
	}

	table := &models.SeriesTable{Metric: metric, Columns: columns, Rows: make([]*models.SeriesRow, 0, len(byCountry))}
	for _, row := range byCountry {
		table.Rows = append(table.Rows, row)
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i].Country < table.Rows[j].Country })

	logger.Debug("parsed case table", "source", metric, "countries", len(table.Rows), "dates", len(columns), "skipped_rows", badRows)
	return table, nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
