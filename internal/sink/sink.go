package sink

import "fmt"

// Sink receives one page's discovered links at a time.
// Implementations must serialize concurrent WriteBatch calls so that one
// batch's lines are never interleaved with another's.
type Sink interface {
	// WriteBatch appends one row per link with the given source URL.
	// An empty batch is a no-op. A failed batch loses only that page's
	// results; it must not affect other writers.
	WriteBatch(source string, links []string) error
}

// WriteError reports a failure appending one URL's batch to the sink.
// It is non-fatal to the run: the batch is lost, the run continues.
type WriteError struct {
	// Source is the seed URL whose batch failed.
	Source string

	// Err is the underlying write failure.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write results for %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *WriteError) Unwrap() error {
	return e.Err
}
