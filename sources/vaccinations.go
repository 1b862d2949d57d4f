package sources

import (
	"errors"
	"log/slog"
	"strings"

	"covid-dashboard/models"
	"covid-dashboard/services"
)

// parseVaccinations melts the vaccination CSV into one record per non-empty
// metric cell. Locations are resolved to canonical keys here, once, before
// the geo join. Rows with an unparseable date are skipped.
func parseVaccinations(logger *slog.Logger, records [][]string, resolver *services.NameResolver, geo models.CountryGeo) ([]models.VaccinationRecord, error) {
	const source = "vaccinations"
	if len(records) == 0 {
		return nil, &models.ParseError{Source: source, Err: errors.New("empty file")}
	}

	header := records[0]
	locIdx, dateIdx := -1, -1
	metricIdx := make(map[models.Metric]int)
	for i, h := range header {
		switch h = strings.TrimSpace(h); h {
		case "location":
			locIdx = i
		case "date":
			dateIdx = i
		default:
			if m := models.Metric(h); m.IsVaccination() {
				metricIdx[m] = i
			}
		}
	}
	if locIdx < 0 {
		return nil, &models.ParseError{Source: source, Column: "location", Err: errors.New("missing column")}
	}
	if dateIdx < 0 {
		return nil, &models.ParseError{Source: source, Column: "date", Err: errors.New("missing column")}
	}

	var out []models.VaccinationRecord
	badDates, badCells := 0, 0
	for n, rec := range records[1:] {
		if len(rec) != len(header) {
			logger.Warn("skipping malformed row", "source", source, "row", n+2)
			continue
		}
		date, err := services.ParseDate(rec[dateIdx])
		if err != nil {
			badDates++
			continue
		}
		location := resolver.Resolve(rec[locIdx])
		if location == "" {
			continue
		}
		g, _ := geo.Lookup(location)

		for _, m := range models.VaccinationMetrics {
			idx, ok := metricIdx[m]
			if !ok {
				continue
			}
			v, ok := parseNumber(rec[idx])
			if !ok {
				if strings.TrimSpace(rec[idx]) != "" {
					badCells++
				}
				continue
			}
			out = append(out, models.VaccinationRecord{Location: location, Date: date, Geo: g, Metric: m, Value: v})
		}
	}
	if badDates > 0 || badCells > 0 {
		logger.Warn("vaccination rows partially skipped", "bad_dates", badDates, "bad_cells", badCells)
	}
	return out, nil
}
