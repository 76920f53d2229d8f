package query

import "strconv"

// Spec is the parsed form of the user-supplied filter configuration.
//
// The zero value is the empty spec: no positive filter, no limits, verbose
// off. The filter engine suppresses every call under the empty spec.
type Spec struct {
	// ShowAll overrides path and keyword filtering. Excludes and the
	// depth/count caps still apply.
	ShowAll bool

	// Keywords are positive fragments matched as substrings against a
	// call's identity rendering, declared name, or source file path.
	Keywords []string

	// Excludes suppress unconditionally. Exclusion wins over every
	// positive filter, including ShowAll.
	Excludes []string

	// PathFilters must match the identity specifically, aligned on path
	// segment boundaries. They never match source text.
	PathFilters []string

	// MaxDepth suppresses calls nested deeper than it. Nil means unset.
	MaxDepth *int

	// MaxCount suppresses calls past the first MaxCount per identity.
	// Nil means unset.
	MaxCount *int

	// Verbose disables payload truncation in emitted records.
	Verbose bool
}

// IsZero reports whether the spec is entirely empty: no positive filter, no
// excludes, no limits, verbose off.
func (s Spec) IsZero() bool {
	return !s.ShowAll && !s.Verbose &&
		len(s.Keywords) == 0 && len(s.Excludes) == 0 && len(s.PathFilters) == 0 &&
		s.MaxDepth == nil && s.MaxCount == nil
}

// HasPositiveFilter reports whether any rule can ever emit: ShowAll, a path
// filter, or a keyword. A spec without one suppresses everything.
func (s Spec) HasPositiveFilter() bool {
	return s.ShowAll || len(s.PathFilters) > 0 || len(s.Keywords) > 0
}

// Tokens renders the spec back into the flag tokens Parse accepts.
// Parse(s.Tokens()) reproduces s. Used by the wrapper to hand the active
// filter to the child build through GENPROBE_FLAGS.
func (s Spec) Tokens() []string {
	var tokens []string
	if s.ShowAll {
		tokens = append(tokens, "-a")
	}
	for _, v := range s.Excludes {
		tokens = append(tokens, "-n", v)
	}
	for _, v := range s.PathFilters {
		tokens = append(tokens, "-p", v)
	}
	if s.MaxDepth != nil {
		tokens = append(tokens, "-d", strconv.Itoa(*s.MaxDepth))
	}
	if s.MaxCount != nil {
		tokens = append(tokens, "-c", strconv.Itoa(*s.MaxCount))
	}
	if s.Verbose {
		tokens = append(tokens, "-v")
	}
	if len(s.Keywords) > 0 {
		// "--" keeps dash-prefixed keywords positional on the way back in.
		tokens = append(tokens, "--")
		tokens = append(tokens, s.Keywords...)
	}
	return tokens
}

// Merge layers overlay on top of base: list fields concatenate (both sets of
// filters apply), boolean fields OR, and a limit set in overlay replaces the
// base limit. Used when CLI flags refine a loaded profile.
func Merge(base, overlay Spec) Spec {
	out := Spec{
		ShowAll: base.ShowAll || overlay.ShowAll,
		Verbose: base.Verbose || overlay.Verbose,
	}
	out.Keywords = appendCopy(base.Keywords, overlay.Keywords)
	out.Excludes = appendCopy(base.Excludes, overlay.Excludes)
	out.PathFilters = appendCopy(base.PathFilters, overlay.PathFilters)
	out.MaxDepth = pickLimit(base.MaxDepth, overlay.MaxDepth)
	out.MaxCount = pickLimit(base.MaxCount, overlay.MaxCount)
	return out
}

func appendCopy(a, b []string) []string {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func pickLimit(base, overlay *int) *int {
	if overlay != nil {
		v := *overlay
		return &v
	}
	if base != nil {
		v := *base
		return &v
	}
	return nil
}
