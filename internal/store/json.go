package store

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

var _ model.PostingStore = (*JSONFileStore)(nil)

// JSONFileStore keeps the posting collection as a pretty-printed JSON array in
// a single file.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONFileStore returns a store backed by the file at path. The file does
// not have to exist yet.
func NewJSONFileStore(path string, logger *slog.Logger) *JSONFileStore {
	return &JSONFileStore{path: path, logger: logger}
}

// Path returns the payload location.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the collection. A missing file yields an empty collection, and so
// does a payload that cannot be decoded: corruption is logged and the run
// starts fresh. Other read failures are returned.
func (s *JSONFileStore) Load(_ context.Context) ([]model.Posting, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Posting{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read postings from %s", s.path)
	}

	var postings []model.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		s.logger.Error("failed to parse postings file, starting with an empty collection",
			"path", s.path,
			"error", err,
		)
		return []model.Posting{}, nil
	}
	if postings == nil {
		// "null" payload
		postings = []model.Posting{}
	}
	return postings, nil
}

// Save overwrites the payload with postings. The data is written to a
// temporary file in the same directory and renamed into place, so readers see
// either the old or the new collection.
func (s *JSONFileStore) Save(_ context.Context, postings []model.Posting) error {
	if postings == nil {
		postings = []model.Posting{}
	}
	data, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode postings")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrapf(err, "replace %s", s.path)
	}

	s.logger.Info("saved postings", "count", len(postings), "path", s.path)
	return nil
}
