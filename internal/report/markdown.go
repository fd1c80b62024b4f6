package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/linkharvest/internal/model"
)

// MarkdownWriter outputs run reports in Markdown format.
// This format is designed for documentation and sharing; the
// nao1215/markdown library gives type-safe tables, alerts, and
// mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run timing.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Link Harvest Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.RunReport) string {
	if report.FailureCount() == 0 {
		return "✅ Complete"
	}
	if report.Fetched == 0 {
		return "❌ All seeds failed"
	}
	return "⚠️ Complete with failures"
}

// writeSummary writes the run counters.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Seeds", strconv.Itoa(report.Seeds)},
			{"Fetched", strconv.Itoa(report.Fetched)},
			{"Links written", strconv.Itoa(report.Links)},
			{"Failures", strconv.Itoa(report.FailureCount())},
		},
	})
	md.PlainText("")

	if report.FailureCount() > 0 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of the fetch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Seed outcomes"),
		piechart.WithShowData(true),
	)
	if report.Fetched > 0 {
		chart.LabelAndIntValue("Fetched", uint64(report.Fetched))
	}

	byKind := report.FailuresByKind()
	kinds := sortedKinds(byKind)
	for _, kind := range kinds {
		chart.LabelAndIntValue(string(kind), uint64(byKind[kind]))
	}

	md.H3("Outcome Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFailures writes the failure breakdown tables.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Failures")
	md.PlainText("")

	if report.FailureCount() == 0 {
		md.PlainText("No failures recorded. 🎉")
		md.PlainText("")
		return
	}

	byKind := report.FailuresByKind()
	kindRows := make([][]string, 0, len(byKind))
	for _, kind := range sortedKinds(byKind) {
		kindRows = append(kindRows, []string{string(kind), strconv.Itoa(byKind[kind])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows:   kindRows,
	})
	md.PlainText("")

	md.H3("Failed URLs")
	md.PlainText("")
	urlRows := make([][]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		urlRows = append(urlRows, []string{"`" + f.URL + "`", string(f.Kind), f.Detail})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Kind", "Detail"},
		Rows:   urlRows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("Generated by [linkharvest](https://github.com/nao1215/linkharvest)")
}

// sortedKinds returns the failure kinds in stable alphabetical order.
func sortedKinds(byKind map[model.FailureKind]int) []model.FailureKind {
	kinds := make([]model.FailureKind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
