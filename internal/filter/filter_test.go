package filter

import (
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

func posting(title, location string) model.Posting {
	return model.Posting{Title: title, Location: location}
}

func TestTitleAndLocationFilter_Match(t *testing.T) {
	tests := []struct {
		name             string
		titleKeywords    []string
		titleExcludes    []string
		locations        []string
		excludeLocations []string
		posting          model.Posting
		wantMatch        bool
	}{
		{
			name:          "matches both title and location",
			titleKeywords: []string{"software engineer", "backend"},
			locations:     []string{"Worldwide", "Remote"},
			posting:       posting("Senior Backend Engineer", "Worldwide"),
			wantMatch:     true,
		},
		{
			name:          "title match but location miss",
			titleKeywords: []string{"software engineer"},
			locations:     []string{"Worldwide", "Remote"},
			posting:       posting("Software Engineer", "London"),
			wantMatch:     false,
		},
		{
			name:          "case insensitive matching",
			titleKeywords: []string{"FULLSTACK"},
			locations:     []string{"usa"},
			posting:       posting("Fullstack Developer", "USA Only"),
			wantMatch:     true,
		},
		{
			name:          "no keywords match",
			titleKeywords: []string{"devops", "sre"},
			locations:     []string{"Remote"},
			posting:       posting("Frontend Engineer", "New York"),
			wantMatch:     false,
		},
		{
			name:          "title exclude wins over include",
			titleKeywords: []string{"engineer"},
			titleExcludes: []string{"manager"},
			posting:       posting("Engineering Manager, Platform Engineer", "Worldwide"),
			wantMatch:     false,
		},
		{
			name:             "location exclude",
			excludeLocations: []string{"usa only"},
			posting:          posting("Go Developer", "USA Only"),
			wantMatch:        false,
		},
		{
			name:          "blank keywords are ignored",
			titleKeywords: []string{"  ", ""},
			posting:       posting("Any Role", "Remote"),
			wantMatch:     true,
		},
		{
			name:      "empty keyword lists pass all",
			posting:   posting("Any Role", "Worldwide"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleAndLocationFilter(tt.titleKeywords, tt.titleExcludes, tt.locations, tt.excludeLocations)
			got := f.Match(tt.posting)
			if got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}
