package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"covid-dashboard/config"
	"covid-dashboard/models"
	"covid-dashboard/services"
	"covid-dashboard/storage"
	"covid-dashboard/utils"
)

const snapshotKey = "snapshot"

// Loader fetches the case-count and vaccination sources, merges them with
// the geo reference and caches the result.
//
// The cache is process-wide state owned by the Loader: it is filled on the
// first Load or the first Load after the TTL expires, and read-only in
// between, so every caller inside one window sees the same snapshot. When a
// refresh fails the last good snapshot keeps being served.
type Loader struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *http.Client
	geoSrc   storage.GeoSource
	resolver *services.NameResolver
	retry    *utils.RetryConfig
	pool     *utils.TaskPool

	cache *ttlcache.Cache[string, *models.Snapshot]
	group singleflight.Group

	mu   sync.RWMutex
	geo  models.CountryGeo
	last *models.Snapshot

	now func() time.Time
}

// Option customises a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithNameResolver replaces the vaccination alias table.
func WithNameResolver(r *services.NameResolver) Option {
	return func(l *Loader) { l.resolver = r }
}

// New creates a ready-to-use Loader.
func New(cfg *config.Config, logger *slog.Logger, geoSrc storage.GeoSource, opts ...Option) *Loader {
	l := &Loader{
		cfg:      cfg,
		logger:   logger.With("component", "loader"),
		client:   &http.Client{},
		geoSrc:   geoSrc,
		resolver: services.NewNameResolver(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Logger:      logger,
		},
		pool: utils.NewTaskPool(cfg.MaxConcurrency),
		cache: ttlcache.New[string, *models.Snapshot](
			ttlcache.WithTTL[string, *models.Snapshot](cfg.CacheTTL),
			ttlcache.WithDisableTouchOnHit[string, *models.Snapshot](),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cached snapshot, refreshing it when the TTL has expired.
// It fails with models.ErrDataUnavailable only when a refresh fails and no
// earlier snapshot exists.
func (l *Loader) Load(ctx context.Context) (*models.Snapshot, error) {
	if item := l.cache.Get(snapshotKey); item != nil {
		return item.Value(), nil
	}

	v, err, _ := l.group.Do(snapshotKey, func() (any, error) {
		if item := l.cache.Get(snapshotKey); item != nil {
			return item.Value(), nil
		}

		snap, err := l.refresh(ctx)
		if err != nil {
			l.mu.RLock()
			last := l.last
			l.mu.RUnlock()
			if last != nil {
				l.logger.Warn("refresh failed, serving stale snapshot",
					"age", l.now().Sub(last.FetchedAt).Round(time.Second), "error", err)
				return last, nil
			}
			return nil, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
		}

		l.cache.Set(snapshotKey, snap, ttlcache.DefaultTTL)
		l.mu.Lock()
		l.last = snap
		l.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Snapshot), nil
}

// Close releases the fetch workers.
func (l *Loader) Close() {
	l.pool.Stop()
}

func (l *Loader) refresh(ctx context.Context) (*models.Snapshot, error) {
	start := l.now()
	l.logger.Info("refreshing sources")

	geo, err := l.countryGeo(ctx)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{Geo: geo}
	caseJob := func(metric models.Metric, url string, dst **models.SeriesTable) func() error {
		return func() error {
			records, err := l.fetchCSV(ctx, string(metric), url)
			if err != nil {
				return err
			}
			table, err := parseCaseTable(l.logger, metric, records, geo)
			if err != nil {
				return err
			}
			*dst = table
			return nil
		}
	}

	err = l.pool.Run(ctx,
		caseJob(models.MetricConfirmed, l.cfg.ConfirmedURL, &snap.Confirmed),
		caseJob(models.MetricDeaths, l.cfg.DeathsURL, &snap.Deaths),
		caseJob(models.MetricRecovered, l.cfg.RecoveredURL, &snap.Recovered),
		func() error {
			records, err := l.fetchCSV(ctx, "vaccinations", l.cfg.VaccinationsURL)
			if err != nil {
				return err
			}
			recs, err := parseVaccinations(l.logger, records, l.resolver, geo)
			if err != nil {
				return err
			}
			snap.Vaccinations = recs
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	snap.FetchedAt = l.now()
	l.logger.Info("sources refreshed",
		"countries", len(snap.Confirmed.Rows),
		"dates", len(snap.Confirmed.Columns),
		"vaccination_records", len(snap.Vaccinations),
		"took", snap.FetchedAt.Sub(start).Round(time.Millisecond))
	return snap, nil
}

// countryGeo loads the geo reference once and keeps it for the life of the
// Loader.
func (l *Loader) countryGeo(ctx context.Context) (models.CountryGeo, error) {
	l.mu.RLock()
	geo := l.geo
	l.mu.RUnlock()
	if geo != nil {
		return geo, nil
	}

	geo, err := l.geoSrc.LoadGeo(ctx)
	if err != nil {
		return nil, fmt.Errorf("load country geo: %w", err)
	}
	l.mu.Lock()
	l.geo = geo
	l.mu.Unlock()
	return geo, nil
}
