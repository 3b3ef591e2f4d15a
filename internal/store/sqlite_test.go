package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath, discardLogger())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := newTestStore(t)

	postings, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("Load = %d postings, want 0", len(postings))
	}
}

func TestSQLiteSaveThenLoadPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	want := samplePostings()

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got  %+v\n want %+v", got, want)
	}
	if got[1].SalaryNormalized != nil {
		t.Error("absent salary should load as nil")
	}
}

func TestSQLiteSaveReplacesCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, samplePostings()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	updated := samplePostings()[1:]
	updated[0].Location = "Berlin"
	if err := s.Save(ctx, updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load = %d postings, want 1", len(got))
	}
	if got[0].Location != "Berlin" {
		t.Errorf("Location = %q, want Berlin", got[0].Location)
	}
}

func TestSQLiteLoad_UndecodableRowIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, samplePostings()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE postings SET created_at = 'garbage' WHERE seq = 0`); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	postings, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load should recover from a bad row, got error: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("Load = %d postings, want 0", len(postings))
	}

	// The next save replaces the bad rows.
	want := samplePostings()[1:]
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save after recovery: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after recovery\n got  %+v\n want %+v", got, want)
	}
}

func TestSQLiteLoad_NotADatabaseIsEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")
	if err := os.WriteFile(dbPath, bytes.Repeat([]byte("this is not a database\n"), 64), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewSQLiteStore(dbPath, discardLogger())
	if err != nil {
		t.Fatalf("NewSQLiteStore on a garbage file: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	postings, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load should recover from a garbage file, got error: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("Load = %d postings, want 0", len(postings))
	}

	want := samplePostings()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save over garbage file: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after replacing file\n got  %+v\n want %+v", got, want)
	}
}
