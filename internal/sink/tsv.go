package sink

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/nao1215/linkharvest/internal/model"
)

// TSVSink appends tab-separated rows to a file through one mutex-guarded
// handle. Holding the handle open for the whole run avoids re-opening the
// file per batch; the mutex provides the batch-level atomicity the output
// format requires.
type TSVSink struct {
	// mu serializes batches. Anything touching f holds it.
	mu sync.Mutex

	// f is the shared append handle.
	f *os.File
}

// Create truncates (or creates) the file at path, writes the header row,
// and returns a sink appending after it. This is the entry-point side of
// the contract: the crawl itself only ever appends data rows.
func Create(path string) (*TSVSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := f.WriteString(model.OutputHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write output header: %w", err)
	}

	return &TSVSink{f: f}, nil
}

// Open opens the file at path for appending without touching its contents.
// Use it to resume writing into a file that already carries a header.
func Open(path string) (*TSVSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &TSVSink{f: f}, nil
}

// WriteBatch appends one row per link for the given source URL.
// The whole batch is assembled first and written in a single critical
// section, so concurrent batches never interleave. An empty batch writes
// nothing and takes no lock.
func (s *TSVSink) WriteBatch(source string, links []string) error {
	if len(links) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, link := range links {
		buf.WriteString(source)
		buf.WriteByte('\t')
		buf.WriteString(link)
		buf.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.f.Write(buf.Bytes()); err != nil {
		return &WriteError{Source: source, Err: err}
	}
	return nil
}

// Close flushes and closes the underlying file.
// Call it only after every writer has finished.
func (s *TSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
