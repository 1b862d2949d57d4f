package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"covid-dashboard/models"
)

// PostgresGeoSource reads the reference lookup from a country_geo table.
// The table is treated as read-only.
type PostgresGeoSource struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresGeoSource opens a connection to PostgreSQL and waits for it to
// answer.
func NewPostgresGeoSource(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresGeoSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresGeoSource{db: db, logger: logger}, nil
}

// LoadGeo implements GeoSource.
func (s *PostgresGeoSource) LoadGeo(ctx context.Context) (models.CountryGeo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country, region, continent
		FROM country_geo
		ORDER BY country
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch geo: %w", err)
	}
	defer rows.Close()

	var entries []GeoEntry
	for rows.Next() {
		var e GeoEntry
		var region, continent sql.NullString
		if err := rows.Scan(&e.Country, &region, &continent); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		e.Region, e.Continent = region.String, continent.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate geo: %w", err)
	}

	geo := BuildCountryGeo(s.logger, entries)
	s.logger.Info("loaded country geo from postgres", "countries", len(geo))
	return geo, nil
}

func (s *PostgresGeoSource) Close() error {
	return s.db.Close()
}
