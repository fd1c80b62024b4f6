package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for small-to-medium seed sets on ordinary clearnet
// hosts; everything is overridable via CLI flags or the config file.
const (
	// DefaultConcurrency is the maximum number of in-flight fetches.
	// Launching one goroutine per seed with no cap exhausts sockets and
	// file descriptors on large seed sets, so fan-out is always bounded.
	// 10 concurrent fetches keeps throughput high without looking like a
	// flood to any single host.
	DefaultConcurrency = 10

	// DefaultTimeout is the per-request timeout. A fetch that exceeds it
	// fails that one URL; it never aborts the run. 15 seconds tolerates
	// slow servers while keeping a stuck host from pinning a worker.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is generous for HTML while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOutputFile is where discovered links are appended as TSV rows.
	DefaultOutputFile = "foundurls.txt"

	// DefaultUserAgent identifies linkharvest in HTTP requests.
	// A descriptive User-Agent lets operators identify harvester traffic.
	DefaultUserAgent = "linkharvest/1.0 (+https://github.com/nao1215/linkharvest)"

	// AppName is the application name used for XDG directory paths.
	AppName = "linkharvest"
)

// Extractor implementation names accepted by the "parser" option.
const (
	// ParserPattern scans for the href="..." attribute pattern with a
	// regular expression. This is the reference behavior: fast, tolerant,
	// and deliberately non-validating.
	ParserPattern = "pattern"

	// ParserHTML tokenizes the page with a real HTML tokenizer.
	// Stricter than ParserPattern: it only sees href attributes on
	// actual anchor tags.
	ParserHTML = "html"
)

// Config holds all configuration options for a crawl run.
// It is populated from CLI flags plus the optional config file and handed
// to components explicitly rather than read from package globals.
type Config struct {
	// Seeds is the set of seed URLs to crawl, one fetch+parse hop each.
	// Populated from positional arguments or from SeedsFile. Duplicates
	// are not removed here; if the caller supplies a URL twice it is
	// crawled twice.
	Seeds []string

	// SeedsFile is the path of a line-delimited seed list. Lines are
	// trimmed; blank lines and #-comments are skipped.
	SeedsFile string

	// OutputFile is the TSV destination for (source, target) rows.
	// The file is created with a header row before the crawl starts and
	// appended to afterwards.
	OutputFile string

	// Concurrency is the maximum number of seed URLs processed at once.
	Concurrency int

	// Timeout is the per-request timeout applied to each fetch.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// Parser selects the link extractor implementation:
	// ParserPattern (default) or ParserHTML.
	Parser string

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the path of the YAML config file. If empty, the
	// tool searches for .linkharvest in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Hosts holds per-host overrides loaded from the config file.
	Hosts *File

	// MarkdownReport renders the run summary as GitHub Flavored Markdown
	// instead of plain text.
	MarkdownReport bool

	// ReportFile writes the run summary to this path instead of stdout.
	ReportFile string

	// DBDir is the directory for the SQLite crawl database. Records are
	// only persisted when SaveToDB is true.
	DBDir string

	// SaveToDB persists the run and its link records to SQLite for
	// cross-run queries.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero (timeout, concurrency, body cap).
// The constructor doubles as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputFile:  DefaultOutputFile,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Parser:      ParserPattern,
		Hosts:       &File{Hosts: make(map[string]HostConfig)},
	}
}

// Validate checks the configuration for contradictions and out-of-range
// values. It returns one of the package sentinel errors on failure.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 && c.SeedsFile == "" {
		return ErrNoSeeds
	}
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Parser != ParserPattern && c.Parser != ParserHTML {
		return ErrUnknownParser
	}
	return nil
}

// XDGDataDir returns the default directory for the crawl database,
// following the XDG Base Directory specification
// (~/.local/share/linkharvest on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
