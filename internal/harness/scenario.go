// Package harness replays filter scenarios through the real pipeline.
//
// A scenario is a YAML file holding a flags string and a call tree. The
// harness parses the flags exactly like the bootstrap path, replays the
// tree through a fresh registry, the filter engine, and the emitter, and
// exposes both the emitted identity#sequence list and the raw wire stream
// for golden comparison. Unlike unit tests of the individual packages,
// scenarios exercise the pieces wired together the way an instrumented
// build does.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario; the golden file shares it.
	Name string `yaml:"name"`

	// Description explains what the scenario pins down.
	Description string `yaml:"description,omitempty"`

	// Flags is the filter configuration, as the user would write it in
	// GENPROBE_FLAGS.
	Flags string `yaml:"flags"`

	// Calls is the intercepted call tree, replayed depth-first in
	// order. Nested calls run inside their parent, so they emit first.
	Calls []Call `yaml:"calls"`

	// Expect lists the identity#sequence pairs that must emit, in
	// stream order. Empty means nothing emits.
	Expect []string `yaml:"expect,omitempty"`

	// ExpectHelp marks scenarios whose flags request help; no call is
	// ever evaluated.
	ExpectHelp bool `yaml:"expect_help,omitempty"`
}

// Call is one intercepted invocation in a scenario tree.
type Call struct {
	// Identity is the rendered transformation identity, e.g.
	// "text/template.Expand".
	Identity string `yaml:"identity"`

	// File and Line locate the declaration.
	File string `yaml:"file"`
	Line int    `yaml:"line"`

	// Input and Output are the transformation's payload texts.
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	// Calls are transformations triggered from inside this one.
	Calls []Call `yaml:"calls,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown YAML fields
// are rejected, catching typos like "expects:" before they silently make
// a scenario vacuous.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Calls) == 0 && !s.ExpectHelp {
		return fmt.Errorf("at least one call is required")
	}
	return validateCalls(s.Calls)
}

func validateCalls(calls []Call) error {
	for i, c := range calls {
		if c.Identity == "" {
			return fmt.Errorf("call %d: identity is required", i)
		}
		if c.File == "" {
			return fmt.Errorf("call %q: file is required", c.Identity)
		}
		if err := validateCalls(c.Calls); err != nil {
			return err
		}
	}
	return nil
}
