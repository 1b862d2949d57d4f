package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"covid-dashboard/models"
)

// CSVGeoSource reads the reference lookup from a local CSV file with the
// columns country, region and continent (header names are matched
// case-insensitively; "Country/Region" is accepted for the first).
type CSVGeoSource struct {
	path     string
	encoding string
	logger   *slog.Logger
}

// NewCSVGeoSource creates a source for path. encoding is "latin1" or "utf8".
func NewCSVGeoSource(path, encoding string, logger *slog.Logger) *CSVGeoSource {
	return &CSVGeoSource{path: path, encoding: encoding, logger: logger}
}

// LoadGeo implements GeoSource.
func (s *CSVGeoSource) LoadGeo(_ context.Context) (models.CountryGeo, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("geo csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	entries, err := ReadGeoCSV(f, s.encoding)
	if err != nil {
		return nil, err
	}
	geo := BuildCountryGeo(s.logger, entries)
	s.logger.Info("loaded country geo", "path", s.path, "countries", len(geo))
	return geo, nil
}

// ReadGeoCSV parses geo entries from r.
func ReadGeoCSV(r io.Reader, encoding string) ([]GeoEntry, error) {
	if encoding == "latin1" {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("geo csv: read: %w", err)
	}
	if len(records) == 0 {
		return nil, &models.ParseError{Source: "geo", Err: errors.New("empty file")}
	}

	countryIdx, regionIdx, continentIdx := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "country", "country/region":
			countryIdx = i
		case "region":
			regionIdx = i
		case "continent":
			continentIdx = i
		}
	}
	for col, idx := range map[string]int{"country": countryIdx, "region": regionIdx, "continent": continentIdx} {
		if idx < 0 {
			return nil, &models.ParseError{Source: "geo", Column: col, Err: errors.New("missing column")}
		}
	}

	entries := make([]GeoEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) <= max(countryIdx, regionIdx, continentIdx) {
			continue
		}
		entries = append(entries, GeoEntry{
			Country:   rec[countryIdx],
			Region:    rec[regionIdx],
			Continent: rec[continentIdx],
		})
	}
	return entries, nil
}
