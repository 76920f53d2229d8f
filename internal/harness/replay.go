package harness

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/genprobe/genprobe/internal/emit"
	"github.com/genprobe/genprobe/internal/filter"
	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/record"
	"github.com/genprobe/genprobe/internal/registry"
)

// Result holds the outcome of replaying one scenario.
type Result struct {
	// HelpRequested is true when the flags asked for help; Emitted and
	// Stream are empty in that case.
	HelpRequested bool

	// Emitted lists the identity#sequence pairs that emitted, in stream
	// order.
	Emitted []string

	// Stream is the raw wire stream the emitter produced.
	Stream []byte
}

// Run replays a scenario through a fresh registry, the filter engine, and
// the emitter, mirroring the order of operations in the instrumentation
// facade: enter, run nested calls, emit, exit. Nested calls therefore
// appear in the stream before their parent.
func Run(s *Scenario) (*Result, error) {
	spec, err := query.ParseString(s.Flags)
	if err != nil {
		if errors.Is(err, query.ErrHelpRequested) {
			return &Result{HelpRequested: true}, nil
		}
		return nil, fmt.Errorf("parse flags %q: %w", s.Flags, err)
	}

	var buf bytes.Buffer
	res := &Result{}
	reg := registry.New()
	emitter := emit.New(&buf)

	if err := replayCalls(reg, emitter, spec, s.Calls, res); err != nil {
		return nil, err
	}
	res.Stream = buf.Bytes()
	return res, nil
}

func replayCalls(reg *registry.Registry, emitter *emit.Emitter, spec query.Spec, calls []Call, res *Result) error {
	for _, c := range calls {
		if err := replayCall(reg, emitter, spec, c, res); err != nil {
			return err
		}
	}
	return nil
}

func replayCall(reg *registry.Registry, emitter *emit.Emitter, spec query.Spec, c Call, res *Result) error {
	id := record.ParseIdentity(c.Identity)
	loc := record.Location{File: c.File, Line: c.Line}

	d := reg.Enter(id, loc)
	defer reg.Exit(id)

	if err := replayCalls(reg, emitter, spec, c.Calls, res); err != nil {
		return err
	}

	decision := filter.Evaluate(d, spec)
	if !decision.Emit {
		return nil
	}
	if err := emitter.EmitPair(d, c.Input, c.Output, decision.Verbose); err != nil {
		return fmt.Errorf("emit %s: %w", c.Identity, err)
	}
	res.Emitted = append(res.Emitted, fmt.Sprintf("%s#%d", id.String(), d.Sequence))
	return nil
}
