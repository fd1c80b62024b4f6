package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/linkharvest/internal/extract"
	"github.com/nao1215/linkharvest/internal/fetch"
	"github.com/nao1215/linkharvest/internal/sink"
)

// memorySink collects batches in memory for assertions.
type memorySink struct {
	mu      sync.Mutex
	batches map[string][]string
	failFor string
}

func newMemorySink() *memorySink {
	return &memorySink{batches: make(map[string][]string)}
}

func (m *memorySink) WriteBatch(source string, links []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor == source {
		return &sink.WriteError{Source: source, Err: errors.New("disk full")}
	}
	m.batches[source] = append(m.batches[source], links...)
	return nil
}

// newTestCoordinator builds a Coordinator with a short-timeout real client.
func newTestCoordinator(t *testing.T, out sink.Sink, opts ...CoordinatorOption) *Coordinator {
	t.Helper()

	factory := func() (*fetch.Client, error) {
		return fetch.NewClient(
			fetch.WithTimeout(2*time.Second),
			fetch.WithLogger(discardLogger()),
		)
	}
	opts = append([]CoordinatorOption{
		WithClientFactory(factory),
		WithCoordinatorLogger(discardLogger()),
	}, opts...)

	return NewCoordinator(extract.NewPatternExtractor(discardLogger()), out, opts...)
}

// TestCrawlAll_EndToEnd covers the whole pipeline against a mock server:
// both discovered links are written exactly once, relative hrefs resolved
// against the seed.
func TestCrawlAll_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a href="/x">x</a><a href="http://b.test/y">y</a>`))
	}))
	defer srv.Close()

	out := newMemorySink()
	c := newTestCoordinator(t, out)

	report, err := c.CrawlAll(context.Background(), []string{srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Seeds != 1 || report.Fetched != 1 {
		t.Errorf("expected 1 seed fetched, got %+v", report)
	}
	if report.Links != 2 {
		t.Errorf("expected 2 links written, got %d", report.Links)
	}

	got := out.batches[srv.URL]
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for %s, got %v", srv.URL, got)
	}
	want := map[string]bool{srv.URL + "/x": true, "http://b.test/y": true}
	for _, link := range got {
		if !want[link] {
			t.Errorf("unexpected link %q", link)
		}
	}
}

// TestCrawlAll_Isolation verifies that failing seeds never affect their
// siblings and contribute no output.
func TestCrawlAll_Isolation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`<a href="/link">x</a>`))
		}
	}))
	defer srv.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	dead.Close() // transport failure for this seed

	seeds := []string{
		srv.URL + "/good1",
		srv.URL + "/broken",
		dead.URL,
		srv.URL + "/good2",
	}

	out := newMemorySink()
	c := newTestCoordinator(t, out)

	report, err := c.CrawlAll(context.Background(), seeds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Fetched != 2 {
		t.Errorf("expected 2 fetched seeds, got %d", report.Fetched)
	}
	if report.FailureCount() != 2 {
		t.Errorf("expected 2 failures, got %+v", report.Failures)
	}
	for _, source := range []string{srv.URL + "/broken", dead.URL} {
		if _, ok := out.batches[source]; ok {
			t.Errorf("expected no output for failed seed %s", source)
		}
	}
	for _, source := range []string{srv.URL + "/good1", srv.URL + "/good2"} {
		if len(out.batches[source]) != 1 {
			t.Errorf("expected output for healthy seed %s, got %v", source, out.batches[source])
		}
	}
}

// TestCrawlAll_SinkFailureIsolated verifies a write failure loses only
// that URL's batch.
func TestCrawlAll_SinkFailureIsolated(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a href="/link">x</a>`))
	}))
	defer srv.Close()

	out := newMemorySink()
	out.failFor = srv.URL + "/cursed"
	c := newTestCoordinator(t, out)

	report, err := c.CrawlAll(context.Background(), []string{srv.URL + "/cursed", srv.URL + "/fine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.batches[srv.URL+"/fine"]) != 1 {
		t.Error("expected healthy seed's batch to be written")
	}
	if report.FailureCount() != 1 {
		t.Fatalf("expected 1 failure, got %+v", report.Failures)
	}
	if report.Failures[0].Kind != "sink_write" {
		t.Errorf("expected sink_write failure, got %+v", report.Failures[0])
	}
}

// TestCrawlAll_FatalSetup verifies a client setup failure aborts the run
// before any work is scheduled.
func TestCrawlAll_FatalSetup(t *testing.T) {
	t.Parallel()

	out := newMemorySink()
	c := NewCoordinator(
		extract.NewPatternExtractor(discardLogger()),
		out,
		WithCoordinatorLogger(discardLogger()),
		WithClientFactory(func() (*fetch.Client, error) {
			return nil, errors.New("out of descriptors")
		}),
	)

	report, err := c.CrawlAll(context.Background(), []string{"http://a.test"})
	if err == nil {
		t.Fatal("expected setup error")
	}
	if report != nil {
		t.Errorf("expected nil report on setup failure, got %+v", report)
	}
	if len(out.batches) != 0 {
		t.Errorf("expected zero output rows, got %v", out.batches)
	}
}

// TestCrawlAll_BoundedConcurrency verifies the in-flight fetch count never
// exceeds the configured limit.
func TestCrawlAll_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 2

	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		_, _ = w.Write([]byte(`<a href="/x">x</a>`))
	}))
	defer srv.Close()

	seeds := make([]string, 8)
	for i := range seeds {
		seeds[i] = fmt.Sprintf("%s/page-%d", srv.URL, i)
	}

	c := newTestCoordinator(t, newMemorySink(), WithConcurrency(limit))
	if _, err := c.CrawlAll(context.Background(), seeds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := peak.Load(); got > limit {
		t.Errorf("expected at most %d in-flight fetches, observed %d", limit, got)
	}
}

// TestCrawlAll_TSVOutput runs the end-to-end scenario against the real
// file sink and checks the exact row format.
func TestCrawlAll_TSVOutput(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a href="/x">x</a><a href="http://b.test/y">y</a>`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.tsv")
	out, err := sink.Create(path)
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}

	c := newTestCoordinator(t, out)
	if _, err := c.CrawlAll(context.Background(), []string{srv.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("failed to close sink: %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Test-owned temp path
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), string(data))
	}
	wantRows := map[string]bool{
		srv.URL + "\t" + srv.URL + "/x":    true,
		srv.URL + "\t" + "http://b.test/y": true,
	}
	for _, line := range lines[1:] {
		if !wantRows[line] {
			t.Errorf("unexpected row %q", line)
		}
		delete(wantRows, line)
	}
	if len(wantRows) != 0 {
		t.Errorf("missing rows: %v", wantRows)
	}
}
