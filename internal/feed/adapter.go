package feed

import (
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

const (
	// UnknownCompany is used when a title carries no "Company: " prefix.
	UnknownCompany = "Unknown"

	titleDelimiter = ": "
)

// Adapt maps a decoded feed item onto a draft posting. Feed titles have the
// form "Company Name: Job Title"; without the delimiter the whole title is the
// job title. Adapt never fails, missing fields stay empty.
func Adapt(item model.FeedItem) model.Draft {
	fullTitle := strings.TrimSpace(item.Title)

	company, title, found := strings.Cut(fullTitle, titleDelimiter)
	if !found {
		company, title = UnknownCompany, fullTitle
	}

	return model.Draft{
		URL:         strings.TrimSpace(item.Link),
		Title:       title,
		Company:     company,
		LocationRaw: strings.TrimSpace(item.Region),
		Description: strings.TrimSpace(item.Description),
	}
}
