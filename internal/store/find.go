package store

import "github.com/amishk599/jobscout/internal/model"

// FindByURL returns the index of the posting with the given URL.
//
// The lookup is linear; feed output is a few hundred postings at most. Switch
// to a map keyed by URL if the collection grows by orders of magnitude.
func FindByURL(postings []model.Posting, url string) (int, bool) {
	for i := range postings {
		if postings[i].URL == url {
			return i, true
		}
	}
	return -1, false
}
