package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"covid-dashboard/models"
	"covid-dashboard/utils"
)

func obs(country string, d time.Time, v float64) models.Observation {
	return models.Observation{Country: country, Date: d, Value: v}
}

func TestDeriveFormulas(t *testing.T) {
	d1 := day(2021, time.March, 1)
	confirmed := models.LongSeries{Label: "confirmed", Rows: []models.Observation{obs("US", d1, 100), obs("Chad", d1, 0)}}
	deaths := models.LongSeries{Label: "deaths", Rows: []models.Observation{obs("US", d1, 5), obs("Chad", d1, 0)}}
	recovered := models.LongSeries{Label: "recovered", Rows: []models.Observation{obs("US", d1, 60), obs("Chad", d1, 0)}}

	recs := NewDeriver(utils.NopLogger()).Derive(confirmed, deaths, recovered)
	require.Len(t, recs, 2)

	for _, r := range recs {
		require.Equal(t, r.Confirmed-r.Deaths-r.Recovered, r.Active)
		require.Equal(t, r.Confirmed > 0, r.FatalityRate != nil, r.Country)
	}

	us := recs[1]
	require.Equal(t, "US", us.Country)
	require.Equal(t, 35.0, us.Active)
	require.InDelta(t, 5.0, *us.FatalityRate, 1e-9)

	chad := recs[0]
	require.Equal(t, "Chad", chad.Country)
	require.Nil(t, chad.FatalityRate)
}

func TestDeriveCompleteness(t *testing.T) {
	d1, d2 := day(2021, time.March, 1), day(2021, time.March, 2)
	confirmed := models.LongSeries{Rows: []models.Observation{obs("US", d1, 10), obs("US", d2, 12), obs("Peru", d1, 7)}}
	deaths := models.LongSeries{Rows: []models.Observation{obs("US", d1, 1), obs("US", d2, 1)}}
	recovered := models.LongSeries{Rows: []models.Observation{obs("US", d1, 2), obs("Peru", d1, 3)}}

	recs := NewDeriver(utils.NopLogger()).Derive(confirmed, deaths, recovered)
	require.Len(t, recs, 1)
	require.Equal(t, "US", recs[0].Country)
	require.True(t, d1.Equal(recs[0].Date))

	present := func(s models.LongSeries, c string, d time.Time) bool {
		for _, o := range s.Rows {
			if o.Country == c && o.Date.Equal(d) {
				return true
			}
		}
		return false
	}
	for _, r := range recs {
		require.True(t, present(confirmed, r.Country, r.Date))
		require.True(t, present(deaths, r.Country, r.Date))
		require.True(t, present(recovered, r.Country, r.Date))
	}
}

func TestDeriveEmpty(t *testing.T) {
	recs := NewDeriver(utils.NopLogger()).Derive(models.LongSeries{}, models.LongSeries{}, models.LongSeries{})
	require.Empty(t, recs)
}
