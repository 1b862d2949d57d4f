package sources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"covid-dashboard/models"
	"covid-dashboard/services"
	"covid-dashboard/utils"
)

func TestParseCaseTableMissingCountryColumn(t *testing.T) {
	_, err := parseCaseTable(utils.NopLogger(), models.MetricConfirmed, [][]string{{"Lat", "Long", "1/22/20"}}, nil)
	var perr *models.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "Country/Region", perr.Column)
}

func TestParseCaseTableSkipsRaggedRows(t *testing.T) {
	records := [][]string{
		{"Province/State", "Country/Region", "Lat", "Long", "1/22/20"},
		{"", "Peru", "0", "0", "4"},
		{"", "Chile", "0"},
	}
	table, err := parseCaseTable(utils.NopLogger(), models.MetricDeaths, records, models.CountryGeo{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "Peru", table.Rows[0].Country)
	require.Equal(t, []string{"1/22/20"}, table.Columns)
}

func TestParseCaseTableEmpty(t *testing.T) {
	_, err := parseCaseTable(utils.NopLogger(), models.MetricDeaths, nil, nil)
	require.Error(t, err)
}

func TestParseVaccinationsRequiresColumns(t *testing.T) {
	_, err := parseVaccinations(utils.NopLogger(), [][]string{{"location", "total_vaccinations"}}, services.NewNameResolver(), nil)
	var perr *models.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "date", perr.Column)
}

func TestParseVaccinationsSparse(t *testing.T) {
	records := [][]string{
		{"location", "date", "iso_code", "daily_vaccinations", "people_vaccinated_per_hundred"},
		{"Myanmar", "2021-05-01", "MMR", "", "1.5"},
		{"Myanmar", "2021-05-02", "MMR", "n/a", ""},
	}
	geo := models.CountryGeo{"Burma": {Region: "South-eastern Asia", Continent: "Asia"}}

	recs, err := parseVaccinations(utils.NopLogger(), records, services.NewNameResolver(), geo)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "Burma", recs[0].Location)
	require.Equal(t, models.MetricPeopleVaccinatedPerHundred, recs[0].Metric)
	require.Equal(t, 1.5, recs[0].Value)
	require.Equal(t, "Asia", recs[0].Geo.Continent)
}
