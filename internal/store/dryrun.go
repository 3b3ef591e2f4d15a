package store

import (
	"context"

	"github.com/amishk599/jobscout/internal/model"
)

// DryRunStore reads from the wrapped store but never writes, so a run can be
// previewed without touching the persisted collection.
type DryRunStore struct {
	inner model.PostingStore
}

func NewDryRunStore(inner model.PostingStore) *DryRunStore {
	return &DryRunStore{inner: inner}
}

func (s *DryRunStore) Load(ctx context.Context) ([]model.Posting, error) {
	return s.inner.Load(ctx)
}

// Save discards postings.
func (s *DryRunStore) Save(context.Context, []model.Posting) error {
	return nil
}
