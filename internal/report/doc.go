// Package report renders crawl run summaries in multiple formats.
//
// The package provides three writers behind a common interface: a plain
// text writer for terminal display, a Markdown writer for documentation
// and sharing, and a JSON writer for tool integration. A MultiWriter
// fans one report out to several destinations, such as stdout plus a
// report file.
package report
