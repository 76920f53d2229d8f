package query

import (
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
)

// flagValues receives the raw flag bindings during one Parse call.
type flagValues struct {
	all     bool
	not     []string
	path    []string
	depth   int
	count   int
	verbose bool
}

// newFlagSet builds the filter flag grammar. Shared by Parse and HelpText so
// the help output can never drift from what the parser accepts.
func newFlagSet() (*pflag.FlagSet, *flagValues) {
	v := &flagValues{}
	fs := pflag.NewFlagSet("genprobe-filter", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.BoolVarP(&v.all, "all", "a", false, "show every call (still subject to --not, --depth, --count)")
	fs.StringArrayVarP(&v.not, "not", "n", nil, "hide calls matching this fragment; wins over every positive flag")
	fs.StringArrayVarP(&v.path, "path", "p", nil, "show calls whose identity matches this fragment on segment boundaries")
	fs.IntVarP(&v.depth, "depth", "d", 0, "hide calls nested deeper than N")
	fs.IntVarP(&v.count, "count", "c", 0, "hide calls after the first N per identity")
	fs.BoolVarP(&v.verbose, "verbose", "v", false, "print full payloads, never truncate")
	return fs, v
}

// Parse turns a flat token sequence into a Spec.
//
// Bare tokens become keywords. Later repeats of --depth/--count overwrite
// earlier ones; --not and --path accumulate. Help is detected before flag
// parsing: any token exactly "-h" or "--help" ahead of a "--" terminator
// yields ErrHelpRequested, even when other tokens are malformed. To pass the
// literal string "-h" as an exclude value, use the equals form (-n=-h) or
// place it after "--".
func Parse(tokens []string) (Spec, error) {
	for _, tok := range tokens {
		if tok == "--" {
			break
		}
		if tok == "-h" || tok == "--help" {
			return Spec{}, ErrHelpRequested
		}
	}

	fs, v := newFlagSet()
	if err := fs.Parse(tokens); err != nil {
		return Spec{}, &ParseError{Token: offendingToken(err.Error()), Reason: err.Error()}
	}

	spec := Spec{
		ShowAll:     v.all,
		Verbose:     v.verbose,
		Keywords:    copyNonEmpty(fs.Args()),
		Excludes:    copyNonEmpty(v.not),
		PathFilters: copyNonEmpty(v.path),
	}
	if fs.Changed("depth") {
		if v.depth < 0 {
			return Spec{}, &ParseError{Token: "--depth", Reason: "must be non-negative"}
		}
		d := v.depth
		spec.MaxDepth = &d
	}
	if fs.Changed("count") {
		if v.count < 0 {
			return Spec{}, &ParseError{Token: "--count", Reason: "must be non-negative"}
		}
		c := v.count
		spec.MaxCount = &c
	}
	return spec, nil
}

// ParseString shell-splits a configuration string, then parses the tokens.
// This is the environment-variable entry point: GENPROBE_FLAGS holds one
// string split by shell quoting rules, so fragments may contain spaces.
func ParseString(s string) (Spec, error) {
	if strings.TrimSpace(s) == "" {
		return Spec{}, nil
	}
	tokens, err := shlex.Split(s)
	if err != nil {
		return Spec{}, &ParseError{Token: s, Reason: "cannot split: " + err.Error()}
	}
	return Parse(tokens)
}

func copyNonEmpty(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}

// offendingToken pulls the flag or value a pflag error complains about.
// pflag's message shapes are stable:
//
//	unknown flag: --bogus
//	unknown shorthand flag: 'x' in -xyz
//	flag needs an argument: --not
//	flag needs an argument: 'n' in -n
//	invalid argument "abc" for "-d, --depth" flag: ...
func offendingToken(msg string) string {
	if i := strings.Index(msg, " in -"); i >= 0 {
		rest := msg[i+len(" in "):]
		if j := strings.IndexByte(rest, ' '); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	if rest, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(msg, "invalid argument "); ok {
		if len(rest) > 0 && rest[0] == '"' {
			if j := strings.IndexByte(rest[1:], '"'); j >= 0 {
				return rest[1 : 1+j]
			}
		}
	}
	return ""
}
