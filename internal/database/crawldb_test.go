package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/linkharvest/internal/model"
)

func testReport() *model.RunReport {
	return &model.RunReport{
		Seeds:     3,
		Fetched:   2,
		Links:     4,
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   1500 * time.Millisecond,
		Failures: []model.Failure{
			{URL: "http://dead.test/", Kind: model.FailureTransport, Detail: "connection refused"},
		},
	}
}

func testRecords() []model.Record {
	return []model.Record{
		{Source: "http://a.test/", Target: "http://a.test/one"},
		{Source: "http://a.test/", Target: "http://a.test/two"},
		{Source: "http://b.test/", Target: "http://b.test/three"},
		{Source: "http://b.test/", Target: "http://other.test/"},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database file when CreateIfNotExists", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()

		if db.Path() == "" {
			t.Error("Path() returned empty string")
		}
	})

	t.Run("fails when database missing and CreateIfNotExists is false", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("Open() expected error for missing database, got nil")
		}
	})
}

func TestCrawlDB_SaveRun(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runID, err := db.SaveRun(ctx, testReport(), testRecords())
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("SaveRun() returned run ID 0")
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run == nil {
		t.Fatal("GetRun() returned nil for saved run")
	}
	if run.Seeds != 3 || run.Fetched != 2 || run.Links != 4 {
		t.Errorf("GetRun() = seeds %d fetched %d links %d, want 3, 2, 4",
			run.Seeds, run.Fetched, run.Links)
	}
	if run.Elapsed != 1500*time.Millisecond {
		t.Errorf("GetRun() Elapsed = %v, want 1.5s", run.Elapsed)
	}
	if !run.StartedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("GetRun() StartedAt = %v", run.StartedAt)
	}

	links, err := db.LinksForRun(ctx, runID)
	if err != nil {
		t.Fatalf("LinksForRun() error = %v", err)
	}
	if len(links) != 4 {
		t.Fatalf("LinksForRun() returned %d records, want 4", len(links))
	}
	if links[0].Source != "http://a.test/" || links[0].Target != "http://a.test/one" {
		t.Errorf("LinksForRun()[0] = %+v", links[0])
	}

	failures, err := db.FailuresForRun(ctx, runID)
	if err != nil {
		t.Fatalf("FailuresForRun() error = %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("FailuresForRun() returned %d failures, want 1", len(failures))
	}
	if failures[0].Kind != model.FailureTransport {
		t.Errorf("FailuresForRun()[0].Kind = %q, want %q", failures[0].Kind, model.FailureTransport)
	}
}

func TestCrawlDB_SaveRunCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	records := []model.Record{
		{Source: "http://a.test/", Target: "http://a.test/one"},
		{Source: "http://a.test/", Target: "http://a.test/one"},
	}
	runID, err := db.SaveRun(ctx, testReport(), records)
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	links, err := db.LinksForRun(ctx, runID)
	if err != nil {
		t.Fatalf("LinksForRun() error = %v", err)
	}
	if len(links) != 1 {
		t.Errorf("LinksForRun() returned %d records, want duplicate collapsed to 1", len(links))
	}
}

func TestCrawlDB_RecentRuns(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		report := testReport()
		report.StartedAt = report.StartedAt.Add(time.Duration(i) * time.Hour)
		if _, err := db.SaveRun(ctx, report, nil); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}

	runs, err := db.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns() returned %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("RecentRuns() not ordered newest first: %v then %v",
			runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestCrawlDB_GetRunMissing(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	run, err := db.GetRun(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run != nil {
		t.Errorf("GetRun() = %+v, want nil for missing run", run)
	}
}
