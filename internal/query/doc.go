// Package query parses the genprobe filter language into a Spec.
//
// The language is a flat flag grammar, the same whether it arrives through
// the GENPROBE_FLAGS environment variable (shell-split first) or through the
// wrapper CLI's pass-through flags. Parsing is a pure function from tokens to
// a Spec; it never touches process state.
//
// The zero Spec suppresses everything. Filtering is opt-in: a user who sets
// no positive filter sees no output, and --all is the explicit way to ask
// for everything.
package query
