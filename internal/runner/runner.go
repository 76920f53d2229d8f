// Package runner spawns and supervises the instrumented build.
//
// The wrapper's contract with the child build is the GENPROBE_FLAGS
// environment variable going in and the record wire format on stderr
// coming out. The runner owns both directions: it renders the active spec
// into the child's environment, pumps the child's stderr through the
// scrape parser, and feeds events to a consumer without ever letting a
// slow consumer block the child's pipe.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/genprobe/genprobe/internal/config"
	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/scrape"
)

// Options configure one build run.
type Options struct {
	// Command is the build argv, e.g. ["go", "build", "./..."].
	Command []string

	// Spec is rendered into the child's GENPROBE_FLAGS.
	Spec query.Spec

	// Stdout receives the child's stdout unchanged.
	Stdout io.Writer

	// Handle consumes scraped stderr events in stream order. A Handle
	// error stops consumption but the child still runs to completion.
	Handle func(scrape.Event) error
}

// Result reports how the child build ended.
type Result struct {
	// ExitCode is the child's exit code; 0 on success.
	ExitCode int
}

// Run spawns the build and scrapes it to completion. The child and every
// process it forked are killed when ctx is canceled. The returned error covers wrapper-side failures;
// a child that merely fails its build yields a nil error and a nonzero
// ExitCode, which the caller mirrors.
func Run(ctx context.Context, opts Options) (Result, error) {
	if len(opts.Command) == 0 {
		return Result{}, fmt.Errorf("runner: empty build command")
	}

	cmd := exec.CommandContext(ctx, opts.Command[0], opts.Command[1:]...)
	cmd.Env = append(os.Environ(), config.EnvVar+"="+RenderTokens(opts.Spec))
	cmd.Stdout = opts.Stdout
	setProcGroup(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("runner: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("runner: start %q: %w", opts.Command[0], err)
	}

	queue := scrape.NewQueue()
	g, gctx := errgroup.WithContext(ctx)

	// Pump: drain the child's stderr into the unbounded queue. Must
	// never block on the consumer, or the child stalls on a full pipe.
	g.Go(func() error {
		defer queue.Close()
		return scrape.Scan(stderr, func(ev scrape.Event) error {
			queue.Enqueue(ev)
			return nil
		})
	})

	// Consumer: hand events to the caller in stream order.
	g.Go(func() error {
		for {
			ev, ok := queue.TryDequeue()
			if ok {
				if opts.Handle == nil {
					continue
				}
				if err := opts.Handle(ev); err != nil {
					return err
				}
				continue
			}
			if queue.Closed() {
				// An event enqueued between the failed dequeue and the
				// close is still in the queue; loop to drain it.
				if queue.Len() > 0 {
					continue
				}
				return nil
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-queue.Wait():
			}
		}
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode()}, pumpErr
		}
		return Result{ExitCode: 1}, fmt.Errorf("runner: wait: %w", waitErr)
	}
	return Result{ExitCode: 0}, pumpErr
}

// RenderTokens serializes a spec into a GENPROBE_FLAGS value. The result
// round-trips through query.ParseString, shell quoting included.
func RenderTokens(spec query.Spec) string {
	tokens := spec.Tokens()
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = shellQuote(tok)
	}
	return strings.Join(quoted, " ")
}

// shellQuote wraps a token in single quotes when it contains characters
// the shell-split step would otherwise interpret.
func shellQuote(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, " \t'\"\\") {
		return tok
	}
	return "'" + strings.ReplaceAll(tok, "'", `'\''`) + "'"
}
