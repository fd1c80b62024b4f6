package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/nao1215/linkharvest/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting. Plain text pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-URL failure list in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-URL failure details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeFailures(&sb, report)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report title and run timing.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	line := strings.Repeat("=", 60)
	sb.WriteString(line + "\n")
	sb.WriteString(" LINK HARVEST REPORT\n")
	sb.WriteString(line + "\n")
	fmt.Fprintf(sb, "Started: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
	sb.WriteString("\n")
}

// writeSummary writes the run counters.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	fmt.Fprintf(sb, "Seeds:    %d\n", report.Seeds)
	fmt.Fprintf(sb, "Fetched:  %d\n", report.Fetched)
	fmt.Fprintf(sb, "Links:    %d\n", report.Links)
	fmt.Fprintf(sb, "Failures: %d\n", report.FailureCount())
}

// writeFailures writes the failure breakdown, and in verbose mode the
// per-URL failure list.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.RunReport) {
	if report.FailureCount() == 0 {
		return
	}

	sb.WriteString("\nFailures by kind:\n")
	byKind := report.FailuresByKind()
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(sb, "  %-12s %d\n", kind+":", byKind[model.FailureKind(kind)])
	}

	if !w.verbose {
		return
	}

	sb.WriteString("\nFailed URLs:\n")
	for _, f := range report.Failures {
		fmt.Fprintf(sb, "  [%s] %s: %s\n", f.Kind, f.URL, f.Detail)
	}
}
