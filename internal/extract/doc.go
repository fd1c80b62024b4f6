// Package extract finds hyperlink targets in page text.
//
// An Extractor takes the text of one page plus its origin URL and returns
// the set of absolute URLs referenced by href attributes. Extraction is a
// pure in-memory operation: no I/O, no shared state, and it never fails
// outward; the worst case is an empty set.
//
// Two implementations exist:
//
//   - PatternExtractor scans for the literal href="..." attribute pattern
//     with a regular expression. This is deliberately syntactic and
//     non-validating: unusually quoted or malformed markup yields false
//     negatives, never an error.
//   - TokenExtractor runs a real HTML tokenizer and only considers href
//     attributes on anchor tags. Stricter, same contract.
//
// Both resolve every matched value against the origin URL with standard
// relative-URL resolution and silently drop (but log) values that do not
// resolve.
package extract
