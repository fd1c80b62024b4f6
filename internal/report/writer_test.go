package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkharvest/internal/model"
)

func sampleReport() *model.RunReport {
	return &model.RunReport{
		Seeds:     4,
		Fetched:   3,
		Links:     7,
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   2300 * time.Millisecond,
		Failures: []model.Failure{
			{URL: "http://dead.test/", Kind: model.FailureTransport, Detail: "connection refused"},
		},
	}
}

func cleanReport() *model.RunReport {
	return &model.RunReport{
		Seeds:     2,
		Fetched:   2,
		Links:     5,
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   time.Second,
	}
}

func TestSimpleWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("renders counters and failure breakdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() returned %d bytes, buffer holds %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"LINK HARVEST REPORT",
			"Seeds:    4",
			"Fetched:  3",
			"Links:    7",
			"Failures: 1",
			"transport:",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Failed URLs:") {
			t.Error("non-verbose output should omit the per-URL failure list")
		}
	})

	t.Run("verbose mode lists failed URLs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Failed URLs:") {
			t.Errorf("verbose output missing failure list:\n%s", out)
		}
		if !strings.Contains(out, "http://dead.test/") {
			t.Errorf("verbose output missing failed URL:\n%s", out)
		}
	})

	t.Run("clean run omits failure sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(cleanReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if strings.Contains(buf.String(), "Failures by kind:") {
			t.Errorf("clean run should omit failure breakdown:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("renders summary and failure tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Link Harvest Report",
			"## Summary",
			"## Failures",
			"| Seeds",
			"`http://dead.test/`",
			"transport",
			"```mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("clean run reports no failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(cleanReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "No failures recorded") {
			t.Errorf("output missing no-failure note:\n%s", out)
		}
		if strings.Contains(out, "```mermaid") {
			t.Errorf("clean run should omit the outcome chart:\n%s", out)
		}
	})
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var got model.RunReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Seeds != 4 || got.Fetched != 3 || got.Links != 7 {
			t.Errorf("round-trip = %+v", got)
		}
		if len(got.Failures) != 1 || got.Failures[0].Kind != model.FailureTransport {
			t.Errorf("round-trip failures = %+v", got.Failures)
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"seeds\"") {
			t.Errorf("output not indented:\n%s", buf.String())
		}
	})
}

func TestMultiWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes to every destination", func(t *testing.T) {
		t.Parallel()

		var simple, md bytes.Buffer
		w := NewMultiWriter(NewSimpleWriter(&simple), NewMarkdownWriter(&md))

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if simple.Len() == 0 || md.Len() == 0 {
			t.Error("MultiWriter left a destination empty")
		}
		if n != simple.Len()+md.Len() {
			t.Errorf("Write() returned %d bytes, destinations hold %d", n, simple.Len()+md.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMultiWriter(&failWriter{}, NewSimpleWriter(&buf))

		if _, err := w.Write(sampleReport()); err == nil {
			t.Fatal("Write() expected error, got nil")
		}
		if buf.Len() != 0 {
			t.Error("MultiWriter wrote past a failing destination")
		}
	})
}

// failWriter always fails.
type failWriter struct{}

func (f *failWriter) Write(*model.RunReport) (int, error) {
	return 0, errors.New("boom")
}
