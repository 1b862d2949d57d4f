package services

import "strings"

// vaccinationAliases maps the vaccination source's spelling of a country to
// the canonical key used by the case-count sources. No value is also a key,
// which keeps Resolve idempotent.
var vaccinationAliases = map[string]string{
	"European Union":               "Europe",
	"South Korea":                  "Korea, South",
	"Cape Verde":                   "Cabo Verde",
	"Congo":                        "Congo (Brazzaville)",
	"Democratic Republic of Congo": "Congo (Kinshasa)",
	"Myanmar":                      "Burma",
	"Palestine":                    "Palestinian territories",
	"Taiwan":                       "Taiwan*",
	"Timor":                        "Timor-Leste",
	"United States":                "US",
}

// NameResolver maps country spellings onto canonical keys.
type NameResolver struct {
	aliases map[string]string
}

// NewNameResolver returns the resolver for the vaccination source.
func NewNameResolver() *NameResolver {
	return &NameResolver{aliases: vaccinationAliases}
}

// NewNameResolverWith builds a resolver over a custom alias table. Chains
// (a value that is itself a key) are collapsed so resolution stays idempotent.
func NewNameResolverWith(aliases map[string]string) *NameResolver {
	flat := make(map[string]string, len(aliases))
	for from := range aliases {
		to, seen := aliases[from], map[string]struct{}{from: {}}
		for {
			next, ok := aliases[to]
			if !ok {
				break
			}
			if _, loop := seen[to]; loop {
				break
			}
			seen[to] = struct{}{}
			to = next
		}
		flat[from] = to
	}
	return &NameResolver{aliases: flat}
}

// Resolve returns the canonical spelling of name. Names without an alias are
// returned trimmed and otherwise unchanged.
func (r *NameResolver) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if to, ok := r.aliases[name]; ok {
		return to
	}
	return name
}
