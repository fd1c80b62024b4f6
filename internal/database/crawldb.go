package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkharvest/internal/model"
)

// CrawlDB stores crawl runs, their link records, and their failures.
// It manages one SQLite file and provides the few queries the CLI needs.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of creating a fresh file.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "linkharvest.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw / mode=rwc in the DSN to control
	// whether missing files are created.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY churn during bulk link inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path of the SQLite database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		seeds INTEGER NOT NULL,
		fetched INTEGER NOT NULL,
		links INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Discovered (source, target) pairs per run
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		UNIQUE(run_id, source, target)
	);

	CREATE INDEX IF NOT EXISTS idx_links_run ON links(run_id);
	CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);

	-- Contained per-URL failures per run
	CREATE TABLE IF NOT EXISTS failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id);
	CREATE INDEX IF NOT EXISTS idx_failures_url ON failures(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores one run's summary, its link records, and its failures in
// a single transaction. It returns the new run's ID.
func (cdb *CrawlDB) SaveRun(ctx context.Context, report *model.RunReport, records []model.Record) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, elapsed_ms, seeds, fetched, links) VALUES (?, ?, ?, ?, ?)`,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.Elapsed.Milliseconds(),
		report.Seeds,
		report.Fetched,
		report.Links,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, rec := range records {
		// Duplicate pairs within one run collapse silently; the TSV
		// stream, not the database, is the faithful record.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (run_id, source, target) VALUES (?, ?, ?)
			 ON CONFLICT(run_id, source, target) DO NOTHING`,
			runID, rec.Source, rec.Target,
		); err != nil {
			return 0, fmt.Errorf("failed to insert link record: %w", err)
		}
	}

	for _, f := range report.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, url, kind, detail) VALUES (?, ?, ?, ?)`,
			runID, f.URL, string(f.Kind), f.Detail,
		); err != nil {
			return 0, fmt.Errorf("failed to insert failure record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Run is one stored crawl run summary.
type Run struct {
	ID        int64
	StartedAt time.Time
	Elapsed   time.Duration
	Seeds     int
	Fetched   int
	Links     int
}

// RecentRuns returns up to limit runs, newest first.
func (cdb *CrawlDB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT id, started_at, elapsed_ms, seeds, fetched, links
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var elapsedMS int64
		if err := rows.Scan(&r.ID, &startedAt, &elapsedMS, &r.Seeds, &r.Fetched, &r.Links); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LinksForRun returns every (source, target) pair stored for a run.
func (cdb *CrawlDB) LinksForRun(ctx context.Context, runID int64) ([]model.Record, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT source, target FROM links WHERE run_id = ? ORDER BY source, target`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		if err := rows.Scan(&rec.Source, &rec.Target); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FailuresForRun returns every contained failure stored for a run.
func (cdb *CrawlDB) FailuresForRun(ctx context.Context, runID int64) ([]model.Failure, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT url, kind, detail FROM failures WHERE run_id = ? ORDER BY url`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []model.Failure
	for rows.Next() {
		var f model.Failure
		var kind string
		if err := rows.Scan(&f.URL, &kind, &f.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.Kind = model.FailureKind(kind)
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// GetRun returns one stored run by ID, or nil if it does not exist.
func (cdb *CrawlDB) GetRun(ctx context.Context, runID int64) (*Run, error) {
	var r Run
	var startedAt string
	var elapsedMS int64

	err := cdb.db.QueryRowContext(ctx,
		`SELECT id, started_at, elapsed_ms, seeds, fetched, links FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &startedAt, &elapsedMS, &r.Seeds, &r.Fetched, &r.Links)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &r, nil
}
