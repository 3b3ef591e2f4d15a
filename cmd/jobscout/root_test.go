package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/store"
)

func TestLoadConfig_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBSCOUT_CONFIG", "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Store.Path != "jobs.json" {
		t.Errorf("Store.Path = %q, want jobs.json", cfg.Store.Path)
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("loadConfig() = nil error, want error for missing explicit path")
	}
}

func TestLoadConfig_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("store:\n  path: from-env.json\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JOBSCOUT_CONFIG", path)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Store.Path != "from-env.json" {
		t.Errorf("Store.Path = %q, want from-env.json", cfg.Store.Path)
	}
}

func TestBuildStore(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "jobs.json")
	st, closeFn, err := buildStore(cfg, false, discardLogger())
	if err != nil {
		t.Fatalf("buildStore(json) error: %v", err)
	}
	if _, ok := st.(*store.JSONFileStore); !ok {
		t.Errorf("json backend store = %T", st)
	}
	closeFn()

	cfg.Store.Backend = "sqlite"
	cfg.Store.Path = filepath.Join(dir, "jobs.db")
	st, closeFn, err = buildStore(cfg, true, discardLogger())
	if err != nil {
		t.Fatalf("buildStore(sqlite) error: %v", err)
	}
	defer closeFn()
	if _, ok := st.(*store.DryRunStore); !ok {
		t.Errorf("dry-run store = %T", st)
	}
}

func TestPrintPostings(t *testing.T) {
	created := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	postings := []model.Posting{
		{Company: "Acme", Title: "Go Engineer", Location: "Worldwide", CreatedAt: created,
			SalaryNormalized: &model.SalaryRange{Min: 100000, Max: 120000}},
		{Company: "Beta", Title: strings.Repeat("x", 60), Location: "Remote", CreatedAt: created},
	}

	var buf bytes.Buffer
	printPostings(&buf, postings)
	out := buf.String()

	for _, want := range []string{"Acme", "100000-120000", "2026-04-02", strings.Repeat("x", 39) + "…", "Total: 2 postings (1 with salary)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("München GmbH", 5); got != "Münc…" {
		t.Errorf("truncate(München GmbH) = %q", got)
	}
}

type companyFilter string

func (f companyFilter) Match(p model.Posting) bool { return p.Company == string(f) }

func TestLatestPostings(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC) }
	postings := []model.Posting{
		{URL: "a", Company: "Acme", CreatedAt: day(1)},
		{URL: "b", Company: "Beta", CreatedAt: day(5)},
		{URL: "c", Company: "Acme", CreatedAt: day(3)},
		{URL: "d", Company: "Acme", CreatedAt: day(4)},
	}

	got := latestPostings(postings, nil, 2)
	if len(got) != 2 || got[0].URL != "b" || got[1].URL != "d" {
		t.Errorf("unfiltered = %v, want [b d]", urls(got))
	}

	got = latestPostings(postings, companyFilter("Acme"), 10)
	if len(got) != 3 || got[0].URL != "d" || got[1].URL != "c" || got[2].URL != "a" {
		t.Errorf("filtered = %v, want [d c a]", urls(got))
	}

	if got := latestPostings(postings, companyFilter("Nobody"), 3); len(got) != 0 {
		t.Errorf("no match = %v, want empty", urls(got))
	}
	if postings[0].URL != "a" || postings[1].URL != "b" {
		t.Error("latestPostings reordered its input")
	}
}

func urls(postings []model.Posting) []string {
	out := make([]string, len(postings))
	for i, p := range postings {
		out[i] = p.URL
	}
	return out
}

func TestVersionString(t *testing.T) {
	oldVersion, oldCommit := version, commit
	t.Cleanup(func() { version, commit = oldVersion, oldCommit })
	version, commit = "1.2.0", "0123456789abcdef"

	out := versionString()
	for _, want := range []string{"jobscout 1.2.0", "commit 0123456789ab", "We Work Remotely", "weworkremotely.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("versionString() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Errorf("versionString() = %q, commit not shortened", out)
	}
}
