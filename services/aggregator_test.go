package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"covid-dashboard/models"
	"covid-dashboard/utils"
)

var testGeo = models.CountryGeo{
	"France":  {Region: "Western Europe", Continent: "Europe"},
	"Germany": {Region: "Western Europe", Continent: "Europe"},
	"Japan":   {Region: "Eastern Asia", Continent: "Asia"},
}

func TestAggregateStatusByContinent(t *testing.T) {
	d1, d2 := day(2021, time.May, 1), day(2021, time.May, 2)
	recs := []models.DerivedRecord{
		NewDerivedRecord("France", d1, 100, 10, 50),
		NewDerivedRecord("Germany", d1, 200, 20, 100),
		NewDerivedRecord("Japan", d1, 50, 1, 9),
		NewDerivedRecord("Atlantis", d1, 1000, 0, 0),
		NewDerivedRecord("France", d2, 110, 10, 60),
	}

	agg := NewAggregator(utils.NopLogger()).Aggregate(StatusPoints(recs, testGeo), AggregateRequest{
		GroupBy: models.GroupContinent,
		Groups:  []string{"Europe", "Asia"},
		Metrics: models.StatusMetrics,
	})

	want := []models.AggregatePoint{
		{Group: "Europe", Date: d1, Metric: models.MetricActive, Value: 40 + 80},
		{Group: "Europe", Date: d1, Metric: models.MetricRecovered, Value: 150},
		{Group: "Europe", Date: d1, Metric: models.MetricDeaths, Value: 30},
		{Group: "Asia", Date: d1, Metric: models.MetricActive, Value: 40},
		{Group: "Asia", Date: d1, Metric: models.MetricRecovered, Value: 9},
		{Group: "Asia", Date: d1, Metric: models.MetricDeaths, Value: 1},
		{Group: "Europe", Date: d2, Metric: models.MetricActive, Value: 40},
		{Group: "Europe", Date: d2, Metric: models.MetricRecovered, Value: 60},
		{Group: "Europe", Date: d2, Metric: models.MetricDeaths, Value: 10},
	}
	if diff := cmp.Diff(want, agg.Points); diff != "" {
		t.Fatalf("unexpected points (-want +got):\n%s", diff)
	}
}

func TestAggregateUnresolvedOnlyInGlobal(t *testing.T) {
	d1 := day(2021, time.May, 1)
	recs := []models.DerivedRecord{
		NewDerivedRecord("France", d1, 100, 10, 50),
		NewDerivedRecord("Atlantis", d1, 1000, 0, 0),
	}
	points := StatusPoints(recs, testGeo, models.MetricActive)
	a := NewAggregator(utils.NopLogger())

	global := a.Aggregate(points, AggregateRequest{GroupBy: models.GroupNone})
	require.Len(t, global.Points, 1)
	require.Equal(t, models.GlobalGroup, global.Points[0].Group)
	require.Equal(t, 1040.0, global.Points[0].Value)

	byRegion := a.Aggregate(points, AggregateRequest{GroupBy: models.GroupRegion})
	require.Len(t, byRegion.Points, 1)
	require.Equal(t, "Western Europe", byRegion.Points[0].Group)
	require.Equal(t, 40.0, byRegion.Points[0].Value)
}

func TestAggregateMeanSkipsUndefinedRates(t *testing.T) {
	d1 := day(2021, time.May, 1)
	recs := []models.DerivedRecord{
		NewDerivedRecord("France", d1, 100, 10, 0),
		NewDerivedRecord("Germany", d1, 0, 0, 0),
	}
	require.Nil(t, recs[1].FatalityRate)

	agg := NewAggregator(utils.NopLogger()).Aggregate(
		StatusPoints(recs, testGeo, models.MetricFatalityRate),
		AggregateRequest{GroupBy: models.GroupContinent},
	)
	require.Len(t, agg.Points, 1)
	require.InDelta(t, 10.0, agg.Points[0].Value, 1e-9)
}

func TestAggregateVaccinationByIncome(t *testing.T) {
	d1 := day(2021, time.June, 1)
	recs := []models.VaccinationRecord{
		{Location: "High income", Date: d1, Metric: models.MetricTotalVaccinations, Value: 900},
		{Location: "Low income", Date: d1, Metric: models.MetricTotalVaccinations, Value: 10},
		{Location: "France", Date: d1, Geo: testGeo["France"], Metric: models.MetricTotalVaccinations, Value: 50},
		{Location: "High income", Date: d1, Metric: models.MetricPeopleVaccinated, Value: 400},
	}

	agg := NewAggregator(utils.NopLogger()).Aggregate(
		VaccinationPoints(recs, models.MetricTotalVaccinations),
		AggregateRequest{GroupBy: models.GroupIncome, Groups: models.IncomeClasses},
	)
	require.Equal(t, []models.AggregatePoint{
		{Group: "High income", Date: d1, Metric: models.MetricTotalVaccinations, Value: 900},
		{Group: "Low income", Date: d1, Metric: models.MetricTotalVaccinations, Value: 10},
	}, agg.Points)
}

func TestAggregatePerHundredIsAveraged(t *testing.T) {
	d1 := day(2021, time.June, 1)
	recs := []models.VaccinationRecord{
		{Location: "France", Date: d1, Geo: testGeo["France"], Metric: models.MetricPeopleVaccinatedPerHundred, Value: 40},
		{Location: "Germany", Date: d1, Geo: testGeo["Germany"], Metric: models.MetricPeopleVaccinatedPerHundred, Value: 60},
	}
	agg := NewAggregator(utils.NopLogger()).Aggregate(
		VaccinationPoints(recs, models.MetricPeopleVaccinatedPerHundred),
		AggregateRequest{GroupBy: models.GroupContinent},
	)
	require.Len(t, agg.Points, 1)
	require.Equal(t, 50.0, agg.Points[0].Value)
}

func TestAggregateDeterministic(t *testing.T) {
	d1, d2 := day(2021, time.May, 1), day(2021, time.May, 2)
	recs := []models.DerivedRecord{
		NewDerivedRecord("Japan", d2, 5, 0, 0),
		NewDerivedRecord("France", d1, 5, 0, 0),
		NewDerivedRecord("Japan", d1, 5, 0, 0),
		NewDerivedRecord("France", d2, 5, 0, 0),
	}
	a := NewAggregator(utils.NopLogger())
	req := AggregateRequest{GroupBy: models.GroupContinent, Groups: []string{"Asia", "Europe"}, Metrics: []models.Metric{models.MetricActive}}

	first := a.Aggregate(StatusPoints(recs, testGeo), req)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, a.Aggregate(StatusPoints(recs, testGeo), req))
	}
	require.Equal(t, "Asia", first.Points[0].Group)
	require.Equal(t, "Europe", first.Points[1].Group)
	require.True(t, first.Points[2].Date.Equal(d2))
}

func TestRollingMeanCalendarWindow(t *testing.T) {
	// Daily values 1..10 with day 5 missing.
	var rows []models.Observation
	for i := 1; i <= 10; i++ {
		if i == 5 {
			continue
		}
		rows = append(rows, obs("US", day(2021, time.January, i), float64(i)))
	}

	got := RollingMean(rows, RollingWindow)
	require.Len(t, got, len(rows))

	byDay := make(map[int]float64)
	for _, o := range got {
		byDay[o.Date.Day()] = o.Value
	}

	// Jan 1: only itself.
	require.InDelta(t, 1.0, byDay[1], 1e-9)
	// Jan 7: days 1-7 minus day 5 → (1+2+3+4+6+7)/6.
	require.InDelta(t, 23.0/6, byDay[7], 1e-9)
	// Jan 8: days 2-8 minus day 5 → (2+3+4+6+7+8)/6.
	require.InDelta(t, 30.0/6, byDay[8], 1e-9)
	// Jan 10: days 4-10 minus day 5 → (4+6+7+8+9+10)/6.
	require.InDelta(t, 44.0/6, byDay[10], 1e-9)
	// Jan 12 would cover 6-12; Jan 11 and 12 are absent so nothing beyond day 10.
	_, ok := byDay[11]
	require.False(t, ok)
}

func TestRollingMeanPerCountry(t *testing.T) {
	d1, d2 := day(2021, time.January, 1), day(2021, time.January, 2)
	rows := []models.Observation{obs("B", d2, 4), obs("A", d1, 10), obs("B", d1, 2), obs("A", d2, 20)}

	got := RollingMean(rows, RollingWindow)
	require.Equal(t, []models.Observation{
		obs("A", d1, 10), obs("B", d1, 2),
		obs("A", d2, 15), obs("B", d2, 3),
	}, got)
}
