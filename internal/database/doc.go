// Package database provides SQLite-based persistence for crawl runs.
//
// Persistence is optional: the TSV sink is the authoritative output of a
// run, and the database exists for cross-run queries: which seeds keep
// failing, how a page's outbound links change over time, without parsing
// TSV files. One database holds many runs; each run stores its summary,
// its link records, and its contained failures.
//
// The driver is modernc.org/sqlite, a pure-Go SQLite build, so the tool
// keeps cross-compiling without cgo.
package database
