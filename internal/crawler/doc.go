// Package crawler drives the fetch-parse-aggregate pipeline.
//
// # Architecture
//
// The package has two pieces. The Processor handles one URL: fetch the
// page, extract its links, and contain every failure, whether a fetch error, or
// anything unexpected, becomes an empty link set plus a diagnostic, never
// a propagated error. The Coordinator drives a whole batch: it creates the
// shared fetch client, fans out one unit of work per seed URL under a
// bounded concurrency limit, hands each non-empty result to the shared
// sink, and waits for every unit before returning.
//
// # Failure model
//
// Everything below the Coordinator is isolated per URL. The only fatal
// error is failing to set up the shared fetch client, which aborts the run
// before any work is scheduled. A run therefore always completes (barring
// setup failure), and the output sink reflects exactly the URLs that both
// fetched and parsed successfully; the run report and the log stream are
// where failures are distinguishable from pages with zero links.
//
// # Concurrency
//
// Units run independently and complete in whatever order their I/O
// resolves; within one unit, fetch strictly precedes extraction, which
// strictly precedes writing. The in-flight fetch count is bounded (one
// semaphore-limited goroutine per seed), so large seed sets cannot
// exhaust sockets or file descriptors.
package crawler
