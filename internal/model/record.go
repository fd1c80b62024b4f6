package model

// Record is one (source URL, discovered URL) pair.
// Records are immutable once constructed; all records of a run
// interleave into one append-only output stream.
type Record struct {
	// Source is the seed URL the link was discovered on.
	Source string `json:"source"`

	// Target is the absolute URL found in the page's hyperlink markup.
	Target string `json:"target"`
}

// OutputHeader is the header line the output sink carries before any
// data row. The crawl itself appends data rows only.
const OutputHeader = "source_url\tparsed_url\n"
