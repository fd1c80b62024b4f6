package model

import "time"

// FailureKind classifies why processing a seed URL produced no output.
type FailureKind string

// Failure kinds recorded in a RunReport.
const (
	// FailureTransport covers DNS, connect, timeout, and reset errors.
	FailureTransport FailureKind = "transport"

	// FailureHTTPStatus covers non-2xx responses.
	FailureHTTPStatus FailureKind = "http_status"

	// FailureSinkWrite covers failures appending a batch to the output sink.
	FailureSinkWrite FailureKind = "sink_write"

	// FailureInternal covers unexpected failures contained by the page
	// processor (anything outside the fetcher's error contract).
	FailureInternal FailureKind = "internal"
)

// Failure records one contained, per-URL failure.
// Failures never abort the run; they are collected for the run report
// and the log stream only.
type Failure struct {
	// URL is the seed URL the failure belongs to.
	URL string `json:"url"`

	// Kind classifies the failure.
	Kind FailureKind `json:"kind"`

	// Detail is the human-readable error detail.
	Detail string `json:"detail"`
}

// RunReport summarizes one crawl run.
//
// The output sink only reflects URLs that both fetched and parsed
// successfully; the report (and the log stream) is where "URL failed"
// is distinguishable from "URL had zero links".
type RunReport struct {
	// Seeds is the number of seed URLs scheduled.
	Seeds int `json:"seeds"`

	// Fetched is the number of seeds whose GET returned a 2xx response.
	Fetched int `json:"fetched"`

	// Links is the total number of output records written.
	Links int `json:"links"`

	// Failures lists every contained per-URL failure, in no particular order.
	Failures []Failure `json:"failures,omitempty"`

	// StartedAt is the wall-clock start of the run.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed"`
}

// FailureCount returns the number of recorded failures.
func (r *RunReport) FailureCount() int {
	return len(r.Failures)
}

// FailuresByKind groups the recorded failures by kind.
func (r *RunReport) FailuresByKind() map[FailureKind]int {
	counts := make(map[FailureKind]int)
	for _, f := range r.Failures {
		counts[f.Kind]++
	}
	return counts
}
