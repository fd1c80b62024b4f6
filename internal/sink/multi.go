package sink

import (
	"sync"

	"github.com/nao1215/linkharvest/internal/model"
)

// MultiSink fans one batch out to several sinks.
// Useful for writing the TSV stream and feeding the crawl database from
// the same run.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Sink interface writes batches of records,
// not raw bytes.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a Sink that writes each batch to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// WriteBatch writes the batch to every sink, stopping on the first error.
func (m *MultiSink) WriteBatch(source string, links []string) error {
	for _, s := range m.sinks {
		if err := s.WriteBatch(source, links); err != nil {
			return err
		}
	}
	return nil
}

// MemorySink collects records in memory.
// It backs the crawl database path and keeps tests away from the filesystem.
type MemorySink struct {
	mu      sync.Mutex
	records []model.Record
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// WriteBatch appends one record per link.
func (m *MemorySink) WriteBatch(source string, links []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, link := range links {
		m.records = append(m.records, model.Record{Source: source, Target: link})
	}
	return nil
}

// Records returns a copy of everything written so far.
func (m *MemorySink) Records() []model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Record, len(m.records))
	copy(out, m.records)
	return out
}
