package storage

import (
	"context"

	"covid-dashboard/models"
)

// GeoSource loads the static country → region/continent reference.
type GeoSource interface {
	LoadGeo(ctx context.Context) (models.CountryGeo, error)
}

// SeriesWriter is the interface for handing plot-ready tuples to a renderer.
type SeriesWriter interface {
	WriteSeries(view, series string, points []models.AggregatePoint) error
	Close() error
}
