package runner

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/scrape"
)

func intPtr(v int) *int { return &v }

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test drives /bin/sh")
	}
}

// TestRenderTokens_RoundTrip tests that a rendered spec parses back to
// itself, quoting included.
func TestRenderTokens_RoundTrip(t *testing.T) {
	spec := query.Spec{
		ShowAll:     true,
		Verbose:     true,
		Keywords:    []string{"text/template", "two words"},
		Excludes:    []string{"vendor"},
		PathFilters: []string{"template.Expand"},
		MaxDepth:    intPtr(2),
		MaxCount:    intPtr(5),
	}

	rendered := RenderTokens(spec)
	back, err := query.ParseString(rendered)
	require.NoError(t, err)
	assert.Equal(t, spec, back)
}

// TestRenderTokens_EmptySpec tests the degenerate case: nothing to render.
func TestRenderTokens_EmptySpec(t *testing.T) {
	assert.Empty(t, RenderTokens(query.Spec{}))
}

// TestShellQuote_Fragments tests the quoting rules the env round trip
// relies on.
func TestShellQuote_Fragments(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "'two words'", shellQuote("two words"))
	assert.Equal(t, `'don'\''t'`, shellQuote("don't"))
	assert.Equal(t, "''", shellQuote(""))
}

// TestRun_ScrapesChildStderr tests the full pump path: a child emitting
// wire text on stderr and build output on stdout.
func TestRun_ScrapesChildStderr(t *testing.T) {
	requirePOSIXShell(t)
	defer goleak.VerifyNone(t)

	script := `echo building
printf '👉 input of p.F (f.go:1) [depth 0, call 1]\n  src\n\n' >&2
echo noise >&2`

	var stdout bytes.Buffer
	var events []scrape.Event
	result, err := Run(context.Background(), Options{
		Command: []string{"sh", "-c", script},
		Stdout:  &stdout,
		Handle: func(ev scrape.Event) error {
			events = append(events, ev)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "building\n", stdout.String())

	require.Len(t, events, 2)
	assert.Equal(t, scrape.EventRecord, events[0].Type)
	assert.Equal(t, "p.F", events[0].Record.Identity)
	assert.Equal(t, "src", events[0].Record.Text)
	assert.Equal(t, scrape.EventPassthrough, events[1].Type)
	assert.Equal(t, "noise", events[1].Line)
}

// TestRun_PropagatesChildExitCode tests that a failing build is a result,
// not a wrapper error.
func TestRun_PropagatesChildExitCode(t *testing.T) {
	requirePOSIXShell(t)
	defer goleak.VerifyNone(t)

	result, err := Run(context.Background(), Options{
		Command: []string{"sh", "-c", "exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

// TestRun_PassesSpecThroughEnvironment tests the GENPROBE_FLAGS handoff to
// the child process.
func TestRun_PassesSpecThroughEnvironment(t *testing.T) {
	requirePOSIXShell(t)
	defer goleak.VerifyNone(t)

	var stdout bytes.Buffer
	_, err := Run(context.Background(), Options{
		Command: []string{"sh", "-c", `echo "$GENPROBE_FLAGS"`},
		Spec:    query.Spec{ShowAll: true, Excludes: []string{"vendor"}},
		Stdout:  &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "-a -n vendor\n", stdout.String())
}

// TestRun_ContextCancelKillsChild tests that cancellation does not hang
// on a long-lived child.
func TestRun_ContextCancelKillsChild(t *testing.T) {
	requirePOSIXShell(t)
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, _ := Run(ctx, Options{
		Command: []string{"sh", "-c", "sleep 30"},
	})
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.NotEqual(t, 0, result.ExitCode)
}

// TestRun_ContextCancelKillsGrandchild tests that cancellation takes down
// forked subprocesses too. The nested shell inherits the stderr pipe; if
// it outlived the direct child, the scrape pump would never see EOF.
func TestRun_ContextCancelKillsGrandchild(t *testing.T) {
	requirePOSIXShell(t)
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, _ := Run(ctx, Options{
		Command: []string{"sh", "-c", "sh -c 'sleep 30'"},
	})
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.NotEqual(t, 0, result.ExitCode)
}

// TestRun_EmptyCommand tests the usage error path.
func TestRun_EmptyCommand(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}

// TestSkipPath_Noise tests the watch filter.
func TestSkipPath_Noise(t *testing.T) {
	assert.True(t, skipPath("a/.git"))
	assert.True(t, skipPath("a/vendor"))
	assert.True(t, skipPath("a/_examples"))
	assert.False(t, skipPath("a/internal"))
	assert.False(t, skipPath("main.go"))
}
