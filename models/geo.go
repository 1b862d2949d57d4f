package models

// Geo is the region/continent pair a country resolves to. The zero value
// means the country is unknown to the reference lookup.
type Geo struct {
	Region    string
	Continent string
}

// Known reports whether the geo was resolved.
func (g Geo) Known() bool {
	return g.Region != "" && g.Continent != ""
}

// CountryGeo is the static country → region/continent reference. It is built
// once and only read afterwards.
type CountryGeo map[string]Geo

// Lookup returns the geo for country. Unknown countries return the zero Geo.
func (c CountryGeo) Lookup(country string) (Geo, bool) {
	g, ok := c[country]
	if !ok || !g.Known() {
		return Geo{}, false
	}
	return g, true
}
