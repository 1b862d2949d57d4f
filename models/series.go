package models

import "time"

// Value is a single table cell. OK is false when the source cell was empty
// or could not be parsed; such cells are missing, not zero.
type Value struct {
	V  float64
	OK bool
}

// SeriesRow is one country's row in a wide case-count table.
type SeriesRow struct {
	Country string
	Geo     Geo
	Values  []Value // aligned with SeriesTable.Columns
}

// SeriesTable is a wide time series: one row per canonical country and one
// column per reporting date. Columns keep the raw header text; parsing is
// left to the reshaper.
type SeriesTable struct {
	Metric  Metric
	Columns []string
	Rows    []*SeriesRow
}

// Row returns the row for country, or nil.
func (t *SeriesTable) Row(country string) *SeriesRow {
	for _, r := range t.Rows {
		if r.Country == country {
			return r
		}
	}
	return nil
}

// Filter returns a table holding only the rows whose country is in keep.
// Rows are shared with the receiver, which is never mutated.
func (t *SeriesTable) Filter(keep []string) *SeriesTable {
	set := make(map[string]struct{}, len(keep))
	for _, c := range keep {
		set[c] = struct{}{}
	}
	out := &SeriesTable{Metric: t.Metric, Columns: t.Columns}
	for _, r := range t.Rows {
		if _, ok := set[r.Country]; ok {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Observation is one (country, date, value) row of a long series.
type Observation struct {
	Country string
	Date    time.Time
	Value   float64
}

// LongSeries is the long form of a SeriesTable, sorted by date then country.
type LongSeries struct {
	Label string
	Rows  []Observation
}

// VaccinationRecord is one non-empty metric cell of the vaccination source.
type VaccinationRecord struct {
	Location string
	Date     time.Time
	Geo      Geo
	Metric   Metric
	Value    float64
}

// DerivedRecord joins the three case-count series for one country and date.
// FatalityRate is nil when Confirmed is not positive.
type DerivedRecord struct {
	Country      string
	Date         time.Time
	Confirmed    float64
	Deaths       float64
	Recovered    float64
	Active       float64
	FatalityRate *float64
}

// MetricPoint is the common input of the aggregator.
type MetricPoint struct {
	Key    string
	Date   time.Time
	Geo    Geo
	Metric Metric
	Value  float64
}

// AggregatePoint is one plot-ready tuple.
type AggregatePoint struct {
	Group  string
	Date   time.Time
	Metric Metric
	Value  float64
}

// AggregatedSeries is the output of an aggregation.
type AggregatedSeries struct {
	GroupBy GroupBy
	Points  []AggregatePoint
}

// Domain is the value-axis extent of a rendered series.
type Domain struct {
	Min float64
	Max float64
}

// Scaled holds values prepared for a linear or logarithmic axis.
type Scaled struct {
	Values []float64
	Domain Domain
	Log    bool
	Clamp  bool
}

// Snapshot is the merged result of one loader refresh. It is shared by every
// caller inside the cache window and must be treated as read-only.
type Snapshot struct {
	Confirmed    *SeriesTable
	Deaths       *SeriesTable
	Recovered    *SeriesTable
	Vaccinations []VaccinationRecord
	Geo          CountryGeo
	FetchedAt    time.Time
}
