// Package emit turns accepted calls into diagnostic records on the wire.
//
// For every emitted call the emitter produces exactly two records, input
// first, then output. The ordering is load-bearing: the wrapper's diff view
// reads the pair in stream order. A mutex keeps each pair contiguous even
// when transformations run on several goroutines at once.
//
// Records travel as plain text on the diagnostic stream (stderr of the
// instrumented build) in a line format the scrape package parses back:
//
//	👉 input of text/template.Expand (expand.go:42) [depth 0, call 3]
//	  payload line
//	  payload line
//	  ... (12 lines, 3456 bytes omitted)
//
//	👉 output of text/template.Expand (expand.go:42) [depth 0, call 3]
//	  ...
//
// Payload text is opaque. Non-verbose payloads are cut at fixed display
// limits with the omission marker above; verbose passes everything through.
package emit
