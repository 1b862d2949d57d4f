package storage

import (
	"log/slog"
	"strings"

	"covid-dashboard/models"
)

// GeoEntry is one row of the reference lookup.
type GeoEntry struct {
	Country   string
	Region    string
	Continent string
}

// BuildCountryGeo assembles the lookup. A country listed with conflicting
// region or continent is ambiguous and left out, so it resolves to nothing
// instead of to an arbitrary pick. Rows missing region or continent are
// skipped.
func BuildCountryGeo(logger *slog.Logger, entries []GeoEntry) models.CountryGeo {
	geo := make(models.CountryGeo, len(entries))
	ambiguous := make(map[string]struct{})

	for _, e := range entries {
		country := strings.TrimSpace(e.Country)
		g := models.Geo{Region: strings.TrimSpace(e.Region), Continent: strings.TrimSpace(e.Continent)}
		if country == "" || !g.Known() {
			logger.Debug("skipping incomplete geo entry", "country", country)
			continue
		}
		if _, bad := ambiguous[country]; bad {
			continue
		}
		if prev, ok := geo[country]; ok && prev != g {
			logger.Warn("conflicting geo entries, country left unresolved",
				"country", country, "first", prev.Region, "second", g.Region)
			delete(geo, country)
			ambiguous[country] = struct{}{}
			continue
		}
		geo[country] = g
	}
	return geo
}
