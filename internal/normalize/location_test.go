package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty defaults to remote", raw: "", want: "Remote"},
		{name: "whitespace defaults to remote", raw: "   ", want: "Remote"},
		{name: "umlaut spelling", raw: "München", want: "Munich"},
		{name: "city with country code", raw: "Munich, DE", want: "Munich"},
		{name: "city with state", raw: "San Francisco, CA", want: "San Francisco"},
		{name: "new york", raw: "New York, NY", want: "New York"},
		{name: "london", raw: "London, UK", want: "London"},
		{name: "berlin", raw: "Berlin, DE", want: "Berlin"},
		{name: "table matches untrimmed text only", raw: "  Berlin, DE ", want: "Berlin, DE"},
		{name: "padded umlaut passes through", raw: " München ", want: "München"},
		{name: "anywhere becomes worldwide", raw: "Anywhere in the World", want: "Worldwide"},
		{name: "anywhere is case-insensitive", raw: "USA or ANYWHERE", want: "Worldwide"},
		{name: "unknown passes through trimmed", raw: "  Lisbon, PT  ", want: "Lisbon, PT"},
		{name: "table is case-sensitive", raw: "münchen", want: "münchen"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeLocation(tc.raw))
		})
	}
}

func TestNormalizeLocation_NeverEmpty(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\n", "x", "Remote"} {
		assert.NotEmpty(t, NormalizeLocation(raw), "raw %q", raw)
	}
}

func TestLocationNormalizer_Aliases(t *testing.T) {
	n := NewLocationNormalizer(map[string]string{
		"NYC":        "New York",
		"Berlin, DE": "Berlin (DE)",
	})

	assert.Equal(t, "New York", n.Normalize("NYC"))
	assert.Equal(t, "Berlin (DE)", n.Normalize("Berlin, DE"), "alias overrides built-in entry")
	assert.Equal(t, "Munich", n.Normalize("München"), "built-in entries remain")

	// The package-level table is unaffected by aliases.
	assert.Equal(t, "NYC", NormalizeLocation("NYC"))
	assert.Equal(t, "Berlin", NormalizeLocation("Berlin, DE"))
}
