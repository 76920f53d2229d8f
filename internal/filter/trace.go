package filter

import (
	"fmt"

	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/record"
)

// Step is one rule evaluation in a traced decision, in rule order.
type Step struct {
	// Rule names the rule: exclude, depth-cap, count-cap, show-all,
	// path, keyword, default.
	Rule string

	// Detail describes what the rule saw, e.g. the fragment that
	// matched.
	Detail string

	// Fired is true for the single step that decided the outcome.
	Fired bool
}

// Trace evaluates d against s like Evaluate, recording every rule the
// chain visited. The returned decision is identical to Evaluate's; the
// steps back the explain command's rule-by-rule output.
func Trace(d record.CallDescriptor, s query.Spec) (Decision, []Step) {
	subj := newSubject(d)
	var steps []Step

	for _, frag := range s.Excludes {
		if subj.containsFragment(frag) {
			steps = append(steps, Step{Rule: "exclude", Detail: fmt.Sprintf("fragment %q matches", frag), Fired: true})
			return Decision{}, steps
		}
	}
	if len(s.Excludes) > 0 {
		steps = append(steps, Step{Rule: "exclude", Detail: "no fragment matches"})
	}

	if s.MaxDepth != nil {
		if d.Depth > *s.MaxDepth {
			steps = append(steps, Step{Rule: "depth-cap", Detail: fmt.Sprintf("depth %d > %d", d.Depth, *s.MaxDepth), Fired: true})
			return Decision{}, steps
		}
		steps = append(steps, Step{Rule: "depth-cap", Detail: fmt.Sprintf("depth %d within %d", d.Depth, *s.MaxDepth)})
	}

	if s.MaxCount != nil {
		if d.Sequence > int64(*s.MaxCount) {
			steps = append(steps, Step{Rule: "count-cap", Detail: fmt.Sprintf("call %d > %d", d.Sequence, *s.MaxCount), Fired: true})
			return Decision{}, steps
		}
		steps = append(steps, Step{Rule: "count-cap", Detail: fmt.Sprintf("call %d within %d", d.Sequence, *s.MaxCount)})
	}

	emit := Decision{Emit: true, Verbose: s.Verbose}

	if s.ShowAll {
		steps = append(steps, Step{Rule: "show-all", Detail: "--all set", Fired: true})
		return emit, steps
	}

	for _, frag := range s.PathFilters {
		if subj.pathMatches(frag) {
			steps = append(steps, Step{Rule: "path", Detail: fmt.Sprintf("fragment %q matches identity", frag), Fired: true})
			return emit, steps
		}
	}
	if len(s.PathFilters) > 0 {
		steps = append(steps, Step{Rule: "path", Detail: "no fragment matches identity"})
	}

	for _, frag := range s.Keywords {
		if subj.containsFragment(frag) {
			steps = append(steps, Step{Rule: "keyword", Detail: fmt.Sprintf("fragment %q matches", frag), Fired: true})
			return emit, steps
		}
	}
	if len(s.Keywords) > 0 {
		steps = append(steps, Step{Rule: "keyword", Detail: "no fragment matches"})
	}

	steps = append(steps, Step{Rule: "default", Detail: "no positive filter applied", Fired: true})
	return Decision{}, steps
}
