package filter

import (
	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/record"
)

// Decision is the outcome of evaluating one call against the active spec.
// The zero value is "suppress".
type Decision struct {
	// Emit is true when the call's input and output should be rendered.
	Emit bool

	// Verbose is copied from the spec for emitted calls and controls
	// payload truncation downstream.
	Verbose bool
}

// Evaluate runs the rule chain for one descriptor. See the package comment
// for the rule order; reordering changes observable behavior for specs that
// combine excludes with --all.
func Evaluate(d record.CallDescriptor, s query.Spec) Decision {
	subj := newSubject(d)

	for _, frag := range s.Excludes {
		if subj.containsFragment(frag) {
			return Decision{}
		}
	}
	if s.MaxDepth != nil && d.Depth > *s.MaxDepth {
		return Decision{}
	}
	if s.MaxCount != nil && d.Sequence > int64(*s.MaxCount) {
		return Decision{}
	}

	emit := Decision{Emit: true, Verbose: s.Verbose}
	if s.ShowAll {
		return emit
	}
	for _, frag := range s.PathFilters {
		if subj.pathMatches(frag) {
			return emit
		}
	}
	for _, frag := range s.Keywords {
		if subj.containsFragment(frag) {
			return emit
		}
	}
	return Decision{}
}
