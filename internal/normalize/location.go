package normalize

import "strings"

const (
	defaultLocation   = "Remote"
	worldwideLocation = "Worldwide"
)

// locationTable maps known raw spellings to a canonical city name.
var locationTable = map[string]string{
	"Munich, DE":        "Munich",
	"München":           "Munich",
	"San Francisco, CA": "San Francisco",
	"New York, NY":      "New York",
	"London, UK":        "London",
	"Berlin, DE":        "Berlin",
}

var defaultLocationNormalizer = NewLocationNormalizer(nil)

// LocationNormalizer canonicalizes raw location text. Its table is fixed at
// construction, so a single instance can be shared across goroutines.
type LocationNormalizer struct {
	table map[string]string
}

// NewLocationNormalizer returns a normalizer using the built-in table extended
// with aliases. Aliases override built-in entries with the same key.
func NewLocationNormalizer(aliases map[string]string) *LocationNormalizer {
	table := make(map[string]string, len(locationTable)+len(aliases))
	for raw, canonical := range locationTable {
		table[raw] = canonical
	}
	for raw, canonical := range aliases {
		table[raw] = canonical
	}
	return &LocationNormalizer{table: table}
}

// Normalize maps raw to a canonical location. It never returns an empty string.
func (n *LocationNormalizer) Normalize(raw string) string {
	if canonical, ok := n.table[raw]; ok {
		return canonical
	}

	loc := strings.TrimSpace(raw)
	if loc == "" {
		return defaultLocation
	}
	if strings.Contains(strings.ToLower(loc), "anywhere") {
		return worldwideLocation
	}
	return loc
}

// NormalizeLocation normalizes raw with the built-in table.
func NormalizeLocation(raw string) string {
	return defaultLocationNormalizer.Normalize(raw)
}
