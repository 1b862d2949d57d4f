package services

import (
	"errors"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"covid-dashboard/models"
	"covid-dashboard/utils"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func val(v float64) models.Value { return models.Value{V: v, OK: true} }

func wideTable(metric models.Metric, cols []string, rows map[string][]float64) *models.SeriesTable {
	t := &models.SeriesTable{Metric: metric, Columns: cols}
	for _, c := range slices.Sorted(maps.Keys(rows)) {
		r := &models.SeriesRow{Country: c}
		for _, v := range rows[c] {
			r.Values = append(r.Values, val(v))
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestParseDateLayouts(t *testing.T) {
	want := day(2020, time.January, 22)
	for _, in := range []string{"1/22/20", "01/22/20", "1/22/2020", "2020-01-22", "2020/01/22", "22-Jan-2020", "Jan 22, 2020"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), "ParseDate(%q) = %v", in, got)
	}

	_, err := ParseDate("Lat")
	require.Error(t, err)
}

func TestToLongRowCountAndOrder(t *testing.T) {
	r := NewReshaper(utils.NopLogger())
	// Columns deliberately out of chronological order.
	table := wideTable(models.MetricConfirmed, []string{"1/24/20", "1/22/20", "1/23/20"}, map[string][]float64{
		"US":     {3, 1, 2},
		"France": {30, 10, 20},
	})

	long, err := r.ToLong(table, "confirmed")
	require.NoError(t, err)
	require.Equal(t, "confirmed", long.Label)
	require.Len(t, long.Rows, 2*3)

	for i := 1; i < len(long.Rows); i++ {
		require.False(t, long.Rows[i].Date.Before(long.Rows[i-1].Date), "row %d out of order", i)
	}
	require.Equal(t, models.Observation{Country: "France", Date: day(2020, time.January, 22), Value: 10}, long.Rows[0])
	require.Equal(t, models.Observation{Country: "US", Date: day(2020, time.January, 24), Value: 3}, long.Rows[5])
}

func TestToLongSkipsBadColumnsAndCells(t *testing.T) {
	r := NewReshaper(utils.NopLogger())
	table := &models.SeriesTable{
		Metric:  models.MetricDeaths,
		Columns: []string{"1/22/20", "notes", "1/23/20"},
		Rows: []*models.SeriesRow{
			{Country: "Chad", Values: []models.Value{val(1), val(99), {}}},
		},
	}

	long, err := r.ToLong(table, "deaths")
	require.NoError(t, err)
	require.Len(t, long.Rows, 1)
	require.Equal(t, 1.0, long.Rows[0].Value)
}

func TestToLongNoDateColumns(t *testing.T) {
	r := NewReshaper(utils.NopLogger())
	table := &models.SeriesTable{Metric: models.MetricRecovered, Columns: []string{"a", "b"}}

	_, err := r.ToLong(table, "recovered")
	var perr *models.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "recovered", perr.Source)
}

func TestToLongNilTable(t *testing.T) {
	_, err := NewReshaper(utils.NopLogger()).ToLong(nil, "x")
	require.Error(t, err)
}
