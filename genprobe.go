// Package genprobe instruments code-transformation functions so each
// invocation's input and output can be captured, filtered, and shown,
// without the transformation knowing it is being watched.
//
// A generator author wraps the transformation:
//
//	func Expand(src string) (string, error) {
//		return genprobe.Observe(
//			genprobe.Identity{PkgPath: "text/template", Name: "Expand"},
//			genprobe.Here(), src, expand)
//	}
//
// Each wrapped call is counted per call site, filtered through the spec in
// GENPROBE_FLAGS, and, when accepted, written as an input/output record
// pair on stderr. Nothing is shown unless the user opts in with a positive
// filter. All decisions are advisory: genprobe never alters the wrapped
// call's result and never terminates the host build.
package genprobe

import (
	"os"
	"runtime"

	"github.com/genprobe/genprobe/internal/config"
	"github.com/genprobe/genprobe/internal/emit"
	"github.com/genprobe/genprobe/internal/filter"
	"github.com/genprobe/genprobe/internal/record"
	"github.com/genprobe/genprobe/internal/registry"
)

// Identity names a declared transformation: package path plus declared
// name. Stable across calls.
type Identity = record.Identity

// Location is the source position where the transformation is declared.
type Location = record.Location

// CallDescriptor identifies one observed invocation.
type CallDescriptor = record.CallDescriptor

var (
	defaultRegistry = registry.New()
	defaultEmitter  = emit.New(os.Stderr)
)

// Here returns the caller's source location, for use as the declaration
// site of a wrapped transformation.
func Here() Location {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return Location{File: "unknown", Line: 0}
	}
	return Location{File: file, Line: line}
}

// Enabled reports whether the active configuration can ever emit. Callers
// with expensive payload rendering may skip it when false.
func Enabled() bool {
	return config.Active().HasPositiveFilter()
}

// Observe runs fn on input under interception: the call is counted, its
// nesting depth recorded, and, when the active filter accepts it, its
// input and output text are emitted as a record pair.
//
// fn's result and error pass through untouched. The registry exit runs on
// every path, panics included, so a failing transformation never corrupts
// depth accounting. Output is emitted only for calls that return nil
// error; a failed transformation has no output worth showing.
func Observe(id Identity, loc Location, input string, fn func(string) (string, error)) (string, error) {
	d := defaultRegistry.Enter(id, loc)
	defer defaultRegistry.Exit(id)

	output, err := fn(input)
	if err != nil {
		return output, err
	}
	Emit(d, input, output)
	return output, nil
}

// Enter records one call to id and returns its descriptor. Pair with Exit
// via defer. Most wrappers should use Observe; Enter and Exit exist for
// custom interception shapes the closure form cannot express.
func Enter(id Identity, loc Location) CallDescriptor {
	return defaultRegistry.Enter(id, loc)
}

// Exit closes the interception opened by the matching Enter.
func Exit(id Identity) {
	defaultRegistry.Exit(id)
}

// Emit evaluates d against the active filter and, on acceptance, writes
// the input/output record pair to stderr. Suppression is silent.
func Emit(d CallDescriptor, input, output string) {
	dec := filter.Evaluate(d, config.Active())
	if !dec.Emit {
		return
	}
	_ = defaultEmitter.EmitPair(d, input, output, dec.Verbose)
}
