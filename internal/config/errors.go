package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate and provide specific information
// about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate. This allows callers to use
// errors.Is for programmatic handling while still providing
// human-readable messages.
var (
	// ErrNoSeeds is returned when neither positional seed URLs nor a
	// seeds file is specified.
	ErrNoSeeds = errors.New("no seed URLs specified: pass URLs as arguments or use --seeds")

	// ErrNoOutputFile is returned when the output file path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidConcurrency is returned when the concurrency limit is not
	// positive. A limit of zero would mean no fetch ever starts.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive. A non-positive timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownParser is returned when the parser option names an
	// extractor implementation that does not exist.
	ErrUnknownParser = errors.New(`unknown parser: must be "pattern" or "html"`)
)
