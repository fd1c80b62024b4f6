// Package sink serializes link records into one shared append-only stream.
//
// The output sink is the single point of mutual exclusion in a crawl run:
// many concurrent page processors finish in arbitrary order and each hands
// its batch of (source, target) rows to the sink. A batch is written in one
// critical section, so one URL's rows are always consecutive and no line is
// ever torn by a concurrent writer. No ordering is guaranteed between
// different URLs' batches.
//
// Rows are tab-separated UTF-8 text with LF terminators:
//
//	source_url<TAB>parsed_url<LF>
package sink
