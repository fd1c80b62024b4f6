// Package seed reads seed URL lists for linkharvest.
//
// A seed list is a line-delimited text file, one URL per line. Surrounding
// whitespace is trimmed, blank lines and #-comments are skipped. The list
// is deliberately not deduplicated: if the caller supplies a URL twice,
// it is crawled twice.
package seed
