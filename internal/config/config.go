// Package config resolves the process-wide filter configuration.
//
// The GENPROBE_FLAGS environment variable is read and parsed exactly once
// per process. The resolved spec is advisory for every intercepted call
// thereafter; nothing in this package ever terminates the host build.
//
// Policy for a malformed configuration: print one diagnostic line plus a
// pointer to help on stderr, then run with the zero spec, which suppresses
// all emission for the rest of the process. A help request likewise prints
// the help text once and disables filtering for the run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/genprobe/genprobe/internal/query"
)

// EnvVar is the environment variable holding the filter configuration,
// one string split by shell quoting rules.
const EnvVar = "GENPROBE_FLAGS"

var (
	mu     sync.Mutex
	loaded bool
	active query.Spec
)

// Active returns the process-wide filter spec, resolving it from EnvVar on
// the first call. Later calls return the same spec; the environment is
// never re-read.
func Active() query.Spec {
	mu.Lock()
	defer mu.Unlock()

	if !loaded {
		active = resolve(os.Getenv(EnvVar), os.Stderr)
		loaded = true
	}
	return active
}

// SetForTest installs a spec directly, bypassing the environment.
// The next Active call returns it. Tests only.
func SetForTest(s query.Spec) {
	mu.Lock()
	defer mu.Unlock()
	active = s
	loaded = true
}

// ResetForTest clears the resolved state so the next Active call re-reads
// the environment. Tests only.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	active = query.Spec{}
	loaded = false
}

// resolve parses one configuration string, writing any diagnostics to w.
// Every failure path degrades to the zero spec; emission stays off for the
// run and the build is never disturbed.
func resolve(raw string, w io.Writer) query.Spec {
	spec, err := query.ParseString(raw)
	if err == nil {
		return spec
	}
	if errors.Is(err, query.ErrHelpRequested) {
		fmt.Fprint(w, query.HelpText())
		return query.Spec{}
	}
	fmt.Fprintf(w, "genprobe: %v\n", err)
	fmt.Fprintf(w, "genprobe: emission disabled for this run; set %s=--help for usage\n", EnvVar)
	return query.Spec{}
}
