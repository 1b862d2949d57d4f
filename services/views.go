package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"covid-dashboard/models"
)

// fatalityRateFrom is the first date of the fatality-rate series. Earlier
// rates rest on too few confirmed cases to be meaningful.
var fatalityRateFrom = time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)

// Selection carries the UI parameters of one view.
type Selection struct {
	Continent string
	Region    string
	Countries []string
	Log       bool
	Metric    models.Metric
}

// Series is one plottable line or bar group of a view.
type Series struct {
	Name   string
	Points []models.AggregatePoint
}

// View is the output handed to the rendering layer. With Log set, every
// series is epsilon-shifted and Domain is the clamped log domain.
type View struct {
	Title  string
	Series []Series
	Domain models.Domain
	Log    bool
}

// Get returns the series called name.
func (v *View) Get(name string) (Series, bool) {
	for _, s := range v.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// CountryView is the per-country overview with its headline figures.
type CountryView struct {
	View
	Summary Summary
}

// Views runs the selection-driven pipelines over a loaded snapshot.
type Views struct {
	logger     *slog.Logger
	reshaper   *Reshaper
	deriver    *Deriver
	aggregator *Aggregator
}

// NewViews wires the pipeline stages with a shared logger.
func NewViews(logger *slog.Logger) *Views {
	return &Views{
		logger:     logger,
		reshaper:   NewReshaper(logger),
		deriver:    NewDeriver(logger),
		aggregator: NewAggregator(logger),
	}
}

// Continents lists the continent choices offered to the user.
func Continents() []string {
	return []string{"Asia", "Europe", "Africa", "Americas", "Oceania", "Others"}
}

// Regions lists the regions of continent in the order they first appear.
func Regions(snap *models.Snapshot, continent string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range snap.Confirmed.Rows {
		if !r.Geo.Known() || r.Geo.Continent != continent {
			continue
		}
		if _, ok := seen[r.Geo.Region]; ok {
			continue
		}
		seen[r.Geo.Region] = struct{}{}
		out = append(out, r.Geo.Region)
	}
	return out
}

// Countries lists the countries of region.
func Countries(snap *models.Snapshot, region string) []string {
	var out []string
	for _, r := range snap.Confirmed.Rows {
		if r.Geo.Known() && r.Geo.Region == region {
			out = append(out, r.Country)
		}
	}
	return out
}

// Regional builds the regional overview: per-country case series and the
// region's status totals. Countries without geo appear in the per-country
// series but never in the totals.
func (v *Views) Regional(snap *models.Snapshot, sel Selection) (*View, error) {
	if len(sel.Countries) == 0 {
		return nil, models.ErrEmptySelection
	}

	confirmed, deaths, recovered, err := v.longCases(snap, sel.Countries)
	if err != nil {
		return nil, err
	}
	derived := v.deriver.Derive(confirmed, deaths, recovered)

	perCountry := func(s models.LongSeries, m models.Metric) Series {
		agg := v.aggregator.Aggregate(LongPoints(s, m, snap.Geo), AggregateRequest{
			GroupBy: models.GroupCountry,
			Groups:  sel.Countries,
		})
		return Series{Name: string(m), Points: agg.Points}
	}

	active := v.aggregator.Aggregate(StatusPoints(derived, snap.Geo, models.MetricActive), AggregateRequest{
		GroupBy: models.GroupCountry,
		Groups:  sel.Countries,
	})

	statusReq := AggregateRequest{GroupBy: models.GroupRegion, Groups: []string{sel.Region}, Metrics: models.StatusMetrics}
	if sel.Region == "" {
		statusReq = AggregateRequest{GroupBy: models.GroupNone, Metrics: models.StatusMetrics}
	}
	status := v.aggregator.Aggregate(StatusPoints(derived, snap.Geo), statusReq)

	title := "COVID-19 in " + sel.Region
	if sel.Region == "" {
		title = "COVID-19 in selected countries"
	}
	view := &View{
		Title: title,
		Series: []Series{
			perCountry(confirmed, models.MetricConfirmed),
			perCountry(deaths, models.MetricDeaths),
			perCountry(recovered, models.MetricRecovered),
			{Name: string(models.MetricActive), Points: active.Points},
			{Name: "status", Points: status.Points},
		},
	}
	applyScale(view, sel.Log)
	return view, nil
}

// Country builds the per-country overview.
func (v *Views) Country(snap *models.Snapshot, country string, log bool) (*CountryView, error) {
	if country == "" {
		return nil, models.ErrEmptySelection
	}
	if snap.Confirmed.Row(country) == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCountry, country)
	}

	confirmed, deaths, recovered, err := v.longCases(snap, []string{country})
	if err != nil {
		return nil, err
	}
	derived := v.deriver.Derive(confirmed, deaths, recovered)

	status := v.aggregator.Aggregate(StatusPoints(derived, snap.Geo), AggregateRequest{
		GroupBy: models.GroupNone,
		Label:   country,
		Metrics: models.StatusMetrics,
	})

	activeRows := make([]models.Observation, 0, len(derived))
	var active, fatality []models.AggregatePoint
	for _, r := range derived {
		activeRows = append(activeRows, models.Observation{Country: r.Country, Date: r.Date, Value: r.Active})
		active = append(active, models.AggregatePoint{Group: country, Date: r.Date, Metric: models.MetricActive, Value: r.Active})
		if r.FatalityRate != nil && !r.Date.Before(fatalityRateFrom) {
			fatality = append(fatality, models.AggregatePoint{Group: country, Date: r.Date, Metric: models.MetricFatalityRate, Value: *r.FatalityRate})
		}
	}
	var rolling []models.AggregatePoint
	for _, o := range RollingMean(activeRows, RollingWindow) {
		rolling = append(rolling, models.AggregatePoint{Group: country, Date: o.Date, Metric: models.MetricActive, Value: o.Value})
	}

	view := &CountryView{
		View: View{
			Title: "Cumulative cases in " + country,
			Series: []Series{
				{Name: "status", Points: status.Points},
				{Name: string(models.MetricActive), Points: active},
				{Name: "active_7d_mean", Points: rolling},
				{Name: string(models.MetricFatalityRate), Points: fatality},
			},
		},
		Summary: Summarize(country, derived),
	}
	applyScale(&view.View, log)
	return view, nil
}

// Vaccination builds the vaccination overview for one metric: totals by
// income class, by continent, and per selected country.
func (v *Views) Vaccination(snap *models.Snapshot, sel Selection) (*View, error) {
	if len(sel.Countries) == 0 {
		return nil, models.ErrEmptySelection
	}
	metric := sel.Metric
	if metric == "" {
		metric = models.MetricTotalVaccinations
	}
	if !metric.IsVaccination() {
		return nil, fmt.Errorf("unknown vaccination metric %q", metric)
	}

	points := VaccinationPoints(snap.Vaccinations, metric)
	income := v.aggregator.Aggregate(points, AggregateRequest{GroupBy: models.GroupIncome, Groups: models.IncomeClasses})
	continent := v.aggregator.Aggregate(points, AggregateRequest{GroupBy: models.GroupContinent, Groups: Continents()})
	countries := v.aggregator.Aggregate(VaccinationPoints(snap.Vaccinations, metric, sel.Countries...), AggregateRequest{
		GroupBy: models.GroupCountry,
		Groups:  sel.Countries,
	})

	view := &View{
		Title: models.MetricLabels[metric],
		Series: []Series{
			{Name: "income", Points: income.Points},
			{Name: "continent", Points: continent.Points},
			{Name: "countries", Points: countries.Points},
		},
	}
	applyScale(view, sel.Log)
	return view, nil
}

func (v *Views) longCases(snap *models.Snapshot, countries []string) (confirmed, deaths, recovered models.LongSeries, err error) {
	if snap == nil || snap.Confirmed == nil || snap.Deaths == nil || snap.Recovered == nil {
		err = errors.New("views: incomplete snapshot")
		return
	}
	if confirmed, err = v.reshaper.ToLong(snap.Confirmed.Filter(countries), string(models.MetricConfirmed)); err != nil {
		return
	}
	if deaths, err = v.reshaper.ToLong(snap.Deaths.Filter(countries), string(models.MetricDeaths)); err != nil {
		return
	}
	recovered, err = v.reshaper.ToLong(snap.Recovered.Filter(countries), string(models.MetricRecovered))
	return
}

// applyScale scales every series of view against one shared domain.
func applyScale(view *View, log bool) {
	view.Log = log
	var all []float64
	for _, s := range view.Series {
		for _, p := range s.Points {
			all = append(all, p.Value)
		}
	}
	view.Domain = Scale(all, log).Domain
	if !log {
		return
	}
	for i, s := range view.Series {
		view.Series[i].Points, _ = ScalePoints(s.Points, true)
	}
}
