package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amishk599/jobscout/internal/model"
)

func TestAdapt(t *testing.T) {
	tests := []struct {
		name string
		item model.FeedItem
		want model.Draft
	}{
		{
			name: "company prefix",
			item: model.FeedItem{
				Title:       "Acme Corp: Backend Engineer",
				Region:      "Anywhere in the World",
				Link:        "https://weworkremotely.com/remote-jobs/acme-backend",
				Description: "<p>Build things.</p>",
			},
			want: model.Draft{
				URL:         "https://weworkremotely.com/remote-jobs/acme-backend",
				Title:       "Backend Engineer",
				Company:     "Acme Corp",
				LocationRaw: "Anywhere in the World",
				Description: "<p>Build things.</p>",
			},
		},
		{
			name: "no delimiter",
			item: model.FeedItem{Title: "Backend Engineer", Link: "https://example.com/1"},
			want: model.Draft{URL: "https://example.com/1", Title: "Backend Engineer", Company: "Unknown"},
		},
		{
			name: "splits on first delimiter only",
			item: model.FeedItem{Title: "Acme: Engineer: Platform"},
			want: model.Draft{Title: "Engineer: Platform", Company: "Acme"},
		},
		{
			name: "colon without space is not a delimiter",
			item: model.FeedItem{Title: "Acme:Engineer"},
			want: model.Draft{Title: "Acme:Engineer", Company: "Unknown"},
		},
		{
			name: "fields are trimmed",
			item: model.FeedItem{
				Title:       "  Beta Inc: Go Developer \n",
				Region:      "\tMünchen ",
				Link:        " https://example.com/2 ",
				Description: "\n  text  \n",
			},
			want: model.Draft{
				URL:         "https://example.com/2",
				Title:       "Go Developer",
				Company:     "Beta Inc",
				LocationRaw: "München",
				Description: "text",
			},
		},
		{
			name: "all fields missing",
			item: model.FeedItem{},
			want: model.Draft{Company: "Unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Adapt(tc.item))
		})
	}
}
