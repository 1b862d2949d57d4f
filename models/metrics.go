package models

import "strings"

// Metric names a measured or derived quantity.
type Metric string

const (
	MetricConfirmed    Metric = "confirmed"
	MetricDeaths       Metric = "deaths"
	MetricRecovered    Metric = "recovered"
	MetricActive       Metric = "active"
	MetricFatalityRate Metric = "fatality_rate"

	MetricTotalVaccinations               Metric = "total_vaccinations"
	MetricPeopleVaccinated                Metric = "people_vaccinated"
	MetricPeopleFullyVaccinated           Metric = "people_fully_vaccinated"
	MetricDailyVaccinationsRaw            Metric = "daily_vaccinations_raw"
	MetricDailyVaccinations               Metric = "daily_vaccinations"
	MetricTotalVaccinationsPerHundred     Metric = "total_vaccinations_per_hundred"
	MetricPeopleVaccinatedPerHundred      Metric = "people_vaccinated_per_hundred"
	MetricPeopleFullyVaccinatedPerHundred Metric = "people_fully_vaccinated_per_hundred"
	MetricDailyVaccinationsPerMillion     Metric = "daily_vaccinations_per_million"
)

// VaccinationMetrics lists the vaccination metrics in display order.
var VaccinationMetrics = []Metric{
	MetricTotalVaccinations,
	MetricPeopleVaccinated,
	MetricPeopleFullyVaccinated,
	MetricDailyVaccinationsRaw,
	MetricDailyVaccinations,
	MetricTotalVaccinationsPerHundred,
	MetricPeopleVaccinatedPerHundred,
	MetricPeopleFullyVaccinatedPerHundred,
	MetricDailyVaccinationsPerMillion,
}

// StatusMetrics are the per-date status totals of the case views.
var StatusMetrics = []Metric{MetricActive, MetricRecovered, MetricDeaths}

// MetricLabels maps vaccination metrics to their display names.
var MetricLabels = map[Metric]string{
	MetricTotalVaccinations:               "Total Vaccinations",
	MetricPeopleVaccinated:                "People Vaccinated",
	MetricPeopleFullyVaccinated:           "People Fully Vaccinated",
	MetricDailyVaccinationsRaw:            "Daily Vaccinations (Raw)",
	MetricDailyVaccinations:               "Daily Vaccinations",
	MetricTotalVaccinationsPerHundred:     "Total Vaccinations per Hundred",
	MetricPeopleVaccinatedPerHundred:      "People Vaccinated per Hundred",
	MetricPeopleFullyVaccinatedPerHundred: "People Fully Vaccinated per Hundred",
	MetricDailyVaccinationsPerMillion:     "Daily Vaccinations per million",
}

// IsVaccination reports whether m is one of the vaccination metrics.
func (m Metric) IsVaccination() bool {
	_, ok := MetricLabels[m]
	return ok
}

// Reduction is how values of one metric combine inside a group.
type Reduction int

const (
	ReduceSum Reduction = iota
	ReduceMean
)

// Reduction returns ReduceMean for rate-like metrics and ReduceSum otherwise.
func (m Metric) Reduction() Reduction {
	s := string(m)
	if m == MetricFatalityRate || strings.HasSuffix(s, "_per_hundred") || strings.HasSuffix(s, "_per_million") {
		return ReduceMean
	}
	return ReduceSum
}

// GroupBy selects the aggregation key.
type GroupBy string

const (
	GroupContinent GroupBy = "continent"
	GroupRegion    GroupBy = "region"
	GroupIncome    GroupBy = "income"
	GroupNone      GroupBy = "none"
	// GroupCountry keeps each country or location as its own group.
	GroupCountry GroupBy = "country"
)

// GlobalGroup is the group key used with GroupNone.
const GlobalGroup = "Global"

// IncomeClasses are the income-class pseudo-locations of the vaccination
// source, in display order.
var IncomeClasses = []string{"High income", "Upper middle income", "Lower middle income", "Low income"}
