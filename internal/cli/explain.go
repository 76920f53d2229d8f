package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/filter"
	"github.com/genprobe/genprobe/internal/query"
	"github.com/genprobe/genprobe/internal/record"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Against string
}

// NewExplainCommand creates the explain command: show what a filter
// configuration means, and optionally how it decides one call.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain [flags] -- [filter tokens ...]",
		Short: "Parse filter tokens and show the resulting configuration",
		Long: `Explain parses filter tokens exactly like GENPROBE_FLAGS and prints
the structured result. With --against, it also walks the rule chain for a
synthetic call and shows which rule decides.

The call descriptor is identity[:file:line:depth:seq]; omitted parts
default to file "unknown", line 0, depth 0, call 1.

Examples:
  genprobe explain -- -a -n vendor
  genprobe explain --against text/template.Expand -- template
  genprobe explain --against 'a.F:f.go:3:2:5' -- -d 1 -a`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainTokens(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Against, "against", "", "evaluate the parsed spec against this call descriptor")

	return cmd
}

func explainTokens(cmd *cobra.Command, opts *ExplainOptions, tokens []string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	spec, err := query.Parse(tokens)
	if errors.Is(err, query.ErrHelpRequested) {
		fmt.Fprint(cmd.OutOrStdout(), query.HelpText())
		return nil
	}
	if err != nil {
		_ = formatter.Error("parse", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid filter tokens", err)
	}

	data := map[string]any{
		"show_all":     spec.ShowAll,
		"verbose":      spec.Verbose,
		"keywords":     spec.Keywords,
		"excludes":     spec.Excludes,
		"path_filters": spec.PathFilters,
	}
	if spec.MaxDepth != nil {
		data["max_depth"] = *spec.MaxDepth
	}
	if spec.MaxCount != nil {
		data["max_count"] = *spec.MaxCount
	}

	var steps []filter.Step
	var decision filter.Decision
	if opts.Against != "" {
		d, err := parseDescriptor(opts.Against)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid call descriptor", err)
		}
		decision, steps = filter.Trace(d, spec)
		data["descriptor"] = opts.Against
		data["emit"] = decision.Emit
		stepData := make([]map[string]any, len(steps))
		for i, s := range steps {
			stepData[i] = map[string]any{"rule": s.Rule, "detail": s.Detail, "fired": s.Fired}
		}
		data["steps"] = stepData
	}

	if opts.Format == "json" {
		return formatter.Success(data)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "show_all:     %v\n", spec.ShowAll)
	fmt.Fprintf(w, "verbose:      %v\n", spec.Verbose)
	fmt.Fprintf(w, "keywords:     %s\n", fragmentList(spec.Keywords))
	fmt.Fprintf(w, "excludes:     %s\n", fragmentList(spec.Excludes))
	fmt.Fprintf(w, "path_filters: %s\n", fragmentList(spec.PathFilters))
	fmt.Fprintf(w, "max_depth:    %s\n", limitString(spec.MaxDepth))
	fmt.Fprintf(w, "max_count:    %s\n", limitString(spec.MaxCount))

	if opts.Against != "" {
		fmt.Fprintf(w, "\ndecision for %s:\n", opts.Against)
		for _, s := range steps {
			mark := " "
			if s.Fired {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %-9s %s\n", mark, s.Rule, s.Detail)
		}
		outcome := "suppress"
		if decision.Emit {
			outcome = "emit"
			if decision.Verbose {
				outcome = "emit (verbose)"
			}
		}
		fmt.Fprintf(w, "  => %s\n", outcome)
	}
	return nil
}

// parseDescriptor builds a synthetic call descriptor from the --against
// form identity[:file:line:depth:seq].
func parseDescriptor(s string) (record.CallDescriptor, error) {
	parts := strings.Split(s, ":")
	d := record.CallDescriptor{
		Identity: record.ParseIdentity(parts[0]),
		Location: record.Location{File: "unknown"},
		Sequence: 1,
	}
	if d.Identity.IsZero() {
		return record.CallDescriptor{}, fmt.Errorf("empty identity in %q", s)
	}
	if len(parts) == 1 {
		return d, nil
	}
	if len(parts) != 5 {
		return record.CallDescriptor{}, fmt.Errorf("want identity or identity:file:line:depth:seq, got %q", s)
	}
	d.Location.File = parts[1]

	line, err := strconv.Atoi(parts[2])
	if err != nil {
		return record.CallDescriptor{}, fmt.Errorf("line %q: %w", parts[2], err)
	}
	depth, err := strconv.Atoi(parts[3])
	if err != nil {
		return record.CallDescriptor{}, fmt.Errorf("depth %q: %w", parts[3], err)
	}
	seq, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return record.CallDescriptor{}, fmt.Errorf("seq %q: %w", parts[4], err)
	}
	d.Location.Line = line
	d.Depth = depth
	d.Sequence = seq
	return d, nil
}

func fragmentList(fragments []string) string {
	if len(fragments) == 0 {
		return "(none)"
	}
	return strings.Join(fragments, ", ")
}

func limitString(limit *int) string {
	if limit == nil {
		return "(unset)"
	}
	return strconv.Itoa(*limit)
}
