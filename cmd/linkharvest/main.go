// Package main provides the entry point for the linkharvest CLI.
//
// linkharvest fetches a set of seed URLs concurrently, extracts the
// hyperlinks from each page, and appends (source, target) pairs to a
// tab-separated output file.
//
// Usage:
//
//	linkharvest crawl <url> [<url>...]
//	linkharvest crawl --seeds-file <file>
//
// See --help for all available options.
package main

// main is the entry point for linkharvest.
func main() {
	Execute()
}
