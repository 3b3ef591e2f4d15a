package filter

import (
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

var _ model.PostingFilter = (*TitleAndLocationFilter)(nil)

// TitleAndLocationFilter matches postings whose title contains any of the
// title keywords and whose normalized location contains any of the location
// keywords, unless an exclude keyword hits. Matching is case-insensitive.
// Empty include lists are treated as "match all".
type TitleAndLocationFilter struct {
	titleKeywords        []string
	titleExcludeKeywords []string
	locations            []string
	excludeLocations     []string
}

// NewTitleAndLocationFilter returns a filter that requires both a title keyword
// match and a location keyword match (case-insensitive substring), and no
// exclude keyword match on either field.
func NewTitleAndLocationFilter(titleKeywords, titleExcludeKeywords, locations, excludeLocations []string) *TitleAndLocationFilter {
	return &TitleAndLocationFilter{
		titleKeywords:        lowerAll(titleKeywords),
		titleExcludeKeywords: lowerAll(titleExcludeKeywords),
		locations:            lowerAll(locations),
		excludeLocations:     lowerAll(excludeLocations),
	}
}

// Match reports whether p should be notified.
func (f *TitleAndLocationFilter) Match(p model.Posting) bool {
	titleLower := strings.ToLower(p.Title)
	locationLower := strings.ToLower(p.Location)

	if containsAny(titleLower, f.titleExcludeKeywords) {
		return false
	}
	if containsAny(locationLower, f.excludeLocations) {
		return false
	}
	if len(f.titleKeywords) > 0 && !containsAny(titleLower, f.titleKeywords) {
		return false
	}
	if len(f.locations) > 0 && !containsAny(locationLower, f.locations) {
		return false
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
