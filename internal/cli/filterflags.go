package cli

import (
	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/profile"
	"github.com/genprobe/genprobe/internal/query"
)

// filterFlags collects the filter language flags a command re-exposes, so
// `genprobe run -a -n vendor -- go build` means the same as
// GENPROBE_FLAGS="-a -n vendor" on a plain build.
type filterFlags struct {
	all     bool
	not     []string
	path    []string
	depth   int
	count   int
	profile string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "show every call (still subject to --not, --depth, --count)")
	cmd.Flags().StringArrayVarP(&f.not, "not", "n", nil, "hide calls matching this fragment")
	cmd.Flags().StringArrayVarP(&f.path, "path", "p", nil, "show calls whose identity matches this fragment")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "hide calls nested deeper than N")
	cmd.Flags().IntVarP(&f.count, "count", "c", 0, "hide calls after the first N per identity")
	cmd.Flags().StringVar(&f.profile, "profile", "", "load a CUE filter profile; explicit flags refine it")
}

// spec builds the effective filter spec: the profile (when given) layered
// under the command's explicit flags and bare keywords. verbose comes from
// the root flag.
func (f *filterFlags) spec(cmd *cobra.Command, keywords []string, verbose bool) (query.Spec, error) {
	overlay := query.Spec{
		ShowAll:  f.all,
		Verbose:  verbose,
		Keywords: append([]string(nil), keywords...),
	}
	if len(f.not) > 0 {
		overlay.Excludes = append([]string(nil), f.not...)
	}
	if len(f.path) > 0 {
		overlay.PathFilters = append([]string(nil), f.path...)
	}
	if cmd.Flags().Changed("depth") {
		if f.depth < 0 {
			return query.Spec{}, NewExitError(ExitCommandError, "--depth must be non-negative")
		}
		d := f.depth
		overlay.MaxDepth = &d
	}
	if cmd.Flags().Changed("count") {
		if f.count < 0 {
			return query.Spec{}, NewExitError(ExitCommandError, "--count must be non-negative")
		}
		c := f.count
		overlay.MaxCount = &c
	}
	if len(overlay.Keywords) == 0 {
		overlay.Keywords = nil
	}

	if f.profile == "" {
		return overlay, nil
	}
	base, err := profile.Load(f.profile)
	if err != nil {
		return query.Spec{}, WrapExitError(ExitFailure, "invalid filter profile", err)
	}
	return query.Merge(base, overlay), nil
}
