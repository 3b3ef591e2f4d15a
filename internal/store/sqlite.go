package store

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/amishk599/jobscout/internal/model"
)

var _ model.PostingStore = (*SQLiteStore)(nil)

const createPostingsTable = `CREATE TABLE IF NOT EXISTS postings (
	seq          INTEGER NOT NULL,
	url          TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	company      TEXT NOT NULL,
	location     TEXT NOT NULL,
	salary_raw   TEXT NOT NULL,
	salary_min   INTEGER,
	salary_max   INTEGER,
	description  TEXT NOT NULL,
	source       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	last_seen_at TEXT NOT NULL
)`

// SQLiteStore keeps the posting collection in a SQLite database. The seq
// column preserves collection order across Save/Load.
//
// A file that is not a SQLite database, or rows that cannot be decoded, load
// as an empty collection; the next Save replaces them.
type SQLiteStore struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	db    *sql.DB
	ready bool
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath. The postings
// table is created on first use.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite db")
	}
	return &SQLiteStore{path: dbPath, logger: logger, db: db}, nil
}

// ensureSchema creates the postings table once per open database.
func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, createPostingsTable); err != nil {
		return errors.Wrap(err, "creating postings table")
	}
	s.ready = true
	return nil
}

// recreate discards the file at path and opens a fresh database in its place.
func (s *SQLiteStore) recreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Close()
	s.ready = false
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "removing unreadable database %s", s.path)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, "opening sqlite db")
	}
	s.db = db
	return nil
}

// Load returns all postings in collection order.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Posting, error) {
	if err := s.ensureSchema(ctx); err != nil {
		if isUnreadableDatabase(err) {
			return s.recoverEmpty(err), nil
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT url, title, company, location, salary_raw,
		salary_min, salary_max, description, source, created_at, last_seen_at
		FROM postings ORDER BY seq`)
	if err != nil {
		if isUnreadableDatabase(err) {
			return s.recoverEmpty(err), nil
		}
		return nil, errors.Wrap(err, "querying postings")
	}
	defer rows.Close()

	postings := []model.Posting{}
	for rows.Next() {
		var (
			p                    model.Posting
			salaryMin, salaryMax sql.NullInt64
			createdAt, lastSeen  string
		)
		if err := rows.Scan(&p.URL, &p.Title, &p.Company, &p.Location, &p.SalaryRaw,
			&salaryMin, &salaryMax, &p.Description, &p.Source, &createdAt, &lastSeen); err != nil {
			return s.recoverEmpty(errors.Wrap(err, "scanning posting")), nil
		}
		if salaryMin.Valid && salaryMax.Valid {
			p.SalaryNormalized = &model.SalaryRange{Min: int(salaryMin.Int64), Max: int(salaryMax.Int64)}
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return s.recoverEmpty(errors.Wrapf(err, "parsing created_at of %s", p.URL)), nil
		}
		if p.LastSeenAt, err = time.Parse(time.RFC3339Nano, lastSeen); err != nil {
			return s.recoverEmpty(errors.Wrapf(err, "parsing last_seen_at of %s", p.URL)), nil
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		if isUnreadableDatabase(err) {
			return s.recoverEmpty(err), nil
		}
		return nil, errors.Wrap(err, "iterating postings")
	}
	return postings, nil
}

func (s *SQLiteStore) recoverEmpty(err error) []model.Posting {
	s.logger.Error("failed to decode postings database, starting with an empty collection",
		"path", s.path,
		"error", err,
	)
	return []model.Posting{}
}

// Save replaces the stored collection with postings in a single transaction.
// A file that is not a readable database is replaced.
func (s *SQLiteStore) Save(ctx context.Context, postings []model.Posting) error {
	if err := s.ensureSchema(ctx); err != nil {
		if !isUnreadableDatabase(err) {
			return err
		}
		s.logger.Warn("replacing unreadable postings database", "path", s.path, "error", err)
		if err := s.recreate(); err != nil {
			return err
		}
		if err := s.ensureSchema(ctx); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings"); err != nil {
		return errors.Wrap(err, "clearing postings")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO postings (seq, url, title, company, location,
		salary_raw, salary_min, salary_max, description, source, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for i, p := range postings {
		var salaryMin, salaryMax sql.NullInt64
		if p.SalaryNormalized != nil {
			salaryMin = sql.NullInt64{Int64: int64(p.SalaryNormalized.Min), Valid: true}
			salaryMax = sql.NullInt64{Int64: int64(p.SalaryNormalized.Max), Valid: true}
		}
		_, err := stmt.ExecContext(ctx, i, p.URL, p.Title, p.Company, p.Location,
			p.SalaryRaw, salaryMin, salaryMax, p.Description, p.Source,
			p.CreatedAt.UTC().Format(time.RFC3339Nano), p.LastSeenAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return errors.Wrapf(err, "inserting posting %s", p.URL)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing postings")
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// isUnreadableDatabase reports whether err says the file is not a SQLite
// database or is damaged.
func isUnreadableDatabase(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return true
	}
	return false
}
