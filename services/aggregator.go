package services

import (
	"log/slog"
	"slices"
	"sort"
	"time"

	"covid-dashboard/models"
)

// AggregateRequest selects how points are grouped and in which order the
// groups and metrics appear in the output.
type AggregateRequest struct {
	GroupBy models.GroupBy
	// Groups fixes the output order and acts as a filter. When empty, every
	// group found is emitted in sorted order.
	Groups []string
	// Metrics fixes the metric order. When empty, metrics are sorted by name.
	Metrics []models.Metric
	// Label names the single group of GroupNone. Defaults to models.GlobalGroup.
	Label string
}

// Aggregator reduces metric points by group and date.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

type cellKey struct {
	date   time.Time
	group  string
	metric models.Metric
}

type acc struct {
	sum float64
	n   int
}

// Aggregate sums cumulative metrics and averages rate-like ones per group
// and date. Points whose group cannot be resolved are dropped. Output is
// ordered by date, then group, then metric.
func (a *Aggregator) Aggregate(points []models.MetricPoint, req AggregateRequest) models.AggregatedSeries {
	out := models.AggregatedSeries{GroupBy: req.GroupBy}

	var allowed map[string]struct{}
	if len(req.Groups) > 0 {
		allowed = make(map[string]struct{}, len(req.Groups))
		for _, g := range req.Groups {
			allowed[g] = struct{}{}
		}
	}
	var metricFilter map[models.Metric]struct{}
	if len(req.Metrics) > 0 {
		metricFilter = make(map[models.Metric]struct{}, len(req.Metrics))
		for _, m := range req.Metrics {
			metricFilter[m] = struct{}{}
		}
	}
	incomes := make(map[string]struct{}, len(models.IncomeClasses))
	for _, c := range models.IncomeClasses {
		incomes[c] = struct{}{}
	}

	cells := make(map[cellKey]*acc)
	dates := make(map[time.Time]struct{})
	groupsSeen := make(map[string]struct{})
	metricsSeen := make(map[models.Metric]struct{})
	unresolved := 0

	for _, p := range points {
		if metricFilter != nil {
			if _, ok := metricFilter[p.Metric]; !ok {
				continue
			}
		}
		group, ok := groupKey(p, req, incomes)
		if !ok {
			unresolved++
			continue
		}
		if allowed != nil {
			if _, ok := allowed[group]; !ok {
				continue
			}
		}

		k := cellKey{p.Date, group, p.Metric}
		c := cells[k]
		if c == nil {
			c = &acc{}
			cells[k] = c
		}
		c.sum += p.Value
		c.n++
		dates[p.Date] = struct{}{}
		groupsSeen[group] = struct{}{}
		metricsSeen[p.Metric] = struct{}{}
	}

	if unresolved > 0 {
		a.logger.Debug("points without a group excluded", "group_by", req.GroupBy, "count", unresolved)
	}

	groups := req.Groups
	if len(groups) == 0 {
		groups = sortedSet(groupsSeen)
	}
	metrics := req.Metrics
	if len(metrics) == 0 {
		metrics = make([]models.Metric, 0, len(metricsSeen))
		for m := range metricsSeen {
			metrics = append(metrics, m)
		}
		slices.Sort(metrics)
	}
	orderedDates := make([]time.Time, 0, len(dates))
	for d := range dates {
		orderedDates = append(orderedDates, d)
	}
	sort.Slice(orderedDates, func(i, j int) bool { return orderedDates[i].Before(orderedDates[j]) })

	for _, d := range orderedDates {
		for _, g := range groups {
			for _, m := range metrics {
				c := cells[cellKey{d, g, m}]
				if c == nil {
					continue
				}
				v := c.sum
				if m.Reduction() == models.ReduceMean {
					v = c.sum / float64(c.n)
				}
				out.Points = append(out.Points, models.AggregatePoint{Group: g, Date: d, Metric: m, Value: v})
			}
		}
	}
	return out
}

func groupKey(p models.MetricPoint, req AggregateRequest, incomes map[string]struct{}) (string, bool) {
	switch req.GroupBy {
	case models.GroupContinent:
		return p.Geo.Continent, p.Geo.Known()
	case models.GroupRegion:
		return p.Geo.Region, p.Geo.Known()
	case models.GroupIncome:
		_, ok := incomes[p.Key]
		return p.Key, ok
	case models.GroupCountry:
		return p.Key, p.Key != ""
	default:
		if req.Label != "" {
			return req.Label, true
		}
		return models.GlobalGroup, true
	}
}

// StatusPoints flattens derived records into metric points. Geo is resolved
// through geo; countries it does not know keep the zero Geo. An undefined
// fatality rate produces no point.
func StatusPoints(records []models.DerivedRecord, geo models.CountryGeo, metrics ...models.Metric) []models.MetricPoint {
	if len(metrics) == 0 {
		metrics = models.StatusMetrics
	}
	out := make([]models.MetricPoint, 0, len(records)*len(metrics))
	for _, r := range records {
		g, _ := geo.Lookup(r.Country)
		for _, m := range metrics {
			var v float64
			switch m {
			case models.MetricConfirmed:
				v = r.Confirmed
			case models.MetricDeaths:
				v = r.Deaths
			case models.MetricRecovered:
				v = r.Recovered
			case models.MetricActive:
				v = r.Active
			case models.MetricFatalityRate:
				if r.FatalityRate == nil {
					continue
				}
				v = *r.FatalityRate
			default:
				continue
			}
			out = append(out, models.MetricPoint{Key: r.Country, Date: r.Date, Geo: g, Metric: m, Value: v})
		}
	}
	return out
}

// LongPoints flattens a long series into metric points labelled metric.
func LongPoints(s models.LongSeries, metric models.Metric, geo models.CountryGeo) []models.MetricPoint {
	out := make([]models.MetricPoint, 0, len(s.Rows))
	for _, o := range s.Rows {
		g, _ := geo.Lookup(o.Country)
		out = append(out, models.MetricPoint{Key: o.Country, Date: o.Date, Geo: g, Metric: metric, Value: o.Value})
	}
	return out
}

// VaccinationPoints selects the records of one metric. When locations is not
// empty only those locations are kept.
func VaccinationPoints(records []models.VaccinationRecord, metric models.Metric, locations ...string) []models.MetricPoint {
	var keep map[string]struct{}
	if len(locations) > 0 {
		keep = make(map[string]struct{}, len(locations))
		for _, l := range locations {
			keep[l] = struct{}{}
		}
	}
	var out []models.MetricPoint
	for _, r := range records {
		if r.Metric != metric {
			continue
		}
		if keep != nil {
			if _, ok := keep[r.Location]; !ok {
				continue
			}
		}
		out = append(out, models.MetricPoint{Key: r.Location, Date: r.Date, Geo: r.Geo, Metric: r.Metric, Value: r.Value})
	}
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
