// Package model defines the core data types shared across linkharvest:
// link sets, output records, and run reports.
//
// Types in this package are plain data with no I/O. They are created by
// the crawler packages and consumed by the sink, report, and database
// packages.
package model
