// Package scrape parses the diagnostic stream of an instrumented build back
// into records.
//
// The instrumented build's stderr carries two kinds of lines: record wire
// text produced by the emit package, and ordinary build output. The parser
// reassembles the former into record.Record values and passes the latter
// through untouched, in stream order, so the wrapper can re-render records
// without eating compiler errors.
//
// The queue between the stderr pump and the consumer is unbounded: a slow
// renderer must never stall the child build's pipe, or the build blocks on
// a full stderr buffer.
package scrape
