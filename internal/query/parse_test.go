package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// TestParse_Empty tests that no tokens yield the zero spec.
func TestParse_Empty(t *testing.T) {
	spec, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, spec.IsZero())
	assert.False(t, spec.HasPositiveFilter())
}

// TestParse_AllFlags tests every flag in one sequence.
func TestParse_AllFlags(t *testing.T) {
	spec, err := Parse([]string{
		"-a",
		"-n", "noisy", "--not", "vendor",
		"-p", "text/template", "--path", "gen",
		"-d", "2",
		"-c", "5",
		"-v",
		"Expand", "render",
	})
	require.NoError(t, err)

	assert.True(t, spec.ShowAll)
	assert.Equal(t, []string{"noisy", "vendor"}, spec.Excludes)
	assert.Equal(t, []string{"text/template", "gen"}, spec.PathFilters)
	assert.Equal(t, []string{"Expand", "render"}, spec.Keywords)
	require.NotNil(t, spec.MaxDepth)
	assert.Equal(t, 2, *spec.MaxDepth)
	require.NotNil(t, spec.MaxCount)
	assert.Equal(t, 5, *spec.MaxCount)
	assert.True(t, spec.Verbose)
}

// TestParse_BareTokensBecomeKeywords tests positional handling.
func TestParse_BareTokensBecomeKeywords(t *testing.T) {
	spec, err := Parse([]string{"text/template.Expand", "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"text/template.Expand", "other"}, spec.Keywords)
	assert.False(t, spec.ShowAll)
	assert.Nil(t, spec.MaxDepth)
}

// TestParse_LaterRepeatsOverwrite tests that non-repeatable flags take the
// last value given.
func TestParse_LaterRepeatsOverwrite(t *testing.T) {
	spec, err := Parse([]string{"-d", "3", "-d", "7", "-c", "1", "-c", "9"})
	require.NoError(t, err)
	require.NotNil(t, spec.MaxDepth)
	assert.Equal(t, 7, *spec.MaxDepth)
	require.NotNil(t, spec.MaxCount)
	assert.Equal(t, 9, *spec.MaxCount)
}

// TestParse_Idempotent tests that parsing the same tokens twice yields
// structurally identical specs.
func TestParse_Idempotent(t *testing.T) {
	tokens := []string{"-a", "-n", "x", "-p", "a/b", "-d", "1", "kw"}

	first, err := Parse(tokens)
	require.NoError(t, err)
	second, err := Parse(tokens)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestParse_MalformedInteger tests the ParseError for bad numeric values.
func TestParse_MalformedInteger(t *testing.T) {
	for _, tokens := range [][]string{
		{"-d", "abc"},
		{"--depth", "1.5"},
		{"-c", "many"},
	} {
		_, err := Parse(tokens)
		require.Error(t, err, "tokens %v", tokens)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.NotEmpty(t, pe.Reason)
	}

	_, err := Parse([]string{"-d", "abc"})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "abc", pe.Token)
}

// TestParse_MissingValue tests the ParseError when a flag's value is absent.
func TestParse_MissingValue(t *testing.T) {
	_, err := Parse([]string{"--not"})
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "--not", pe.Token)
	assert.Contains(t, pe.Reason, "needs an argument")
}

// TestParse_UnknownFlag tests the ParseError for unrecognized flags.
func TestParse_UnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--bogus"})
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "--bogus", pe.Token)
}

// TestParse_NegativeLimits tests that negative depth/count are rejected.
func TestParse_NegativeLimits(t *testing.T) {
	_, err := Parse([]string{"-d", "-1"})
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "--depth", pe.Token)

	_, err = Parse([]string{"-c", "-3"})
	require.Error(t, err)
}

// TestParse_HelpShortCircuits tests that help wins over everything else,
// malformed tokens included.
func TestParse_HelpShortCircuits(t *testing.T) {
	for _, tokens := range [][]string{
		{"--help"},
		{"-h"},
		{"-a", "-h", "-n", "x"},
		{"--bogus", "--help"},
		{"-d", "abc", "-h"},
	} {
		_, err := Parse(tokens)
		require.ErrorIs(t, err, ErrHelpRequested, "tokens %v", tokens)
	}
}

// TestParse_HelpNotAfterTerminator tests that "--" demotes -h to a keyword.
func TestParse_HelpNotAfterTerminator(t *testing.T) {
	spec, err := Parse([]string{"-a", "--", "-h"})
	require.NoError(t, err)
	assert.True(t, spec.ShowAll)
	assert.Equal(t, []string{"-h"}, spec.Keywords)
}

// TestParse_ZeroLimitsAreSet tests that an explicit 0 differs from unset.
func TestParse_ZeroLimitsAreSet(t *testing.T) {
	spec, err := Parse([]string{"-d", "0", "-c", "0"})
	require.NoError(t, err)
	assert.Equal(t, intPtr(0), spec.MaxDepth)
	assert.Equal(t, intPtr(0), spec.MaxCount)
	assert.False(t, spec.IsZero())
}

// TestParseString_ShellSplitting tests quoting in the env-var form.
func TestParseString_ShellSplitting(t *testing.T) {
	spec, err := ParseString(`-a -n "with space" 'text/template'`)
	require.NoError(t, err)
	assert.True(t, spec.ShowAll)
	assert.Equal(t, []string{"with space"}, spec.Excludes)
	assert.Equal(t, []string{"text/template"}, spec.Keywords)
}

// TestParseString_Empty tests that a blank string is the zero spec.
func TestParseString_Empty(t *testing.T) {
	for _, s := range []string{"", "   ", "\t"} {
		spec, err := ParseString(s)
		require.NoError(t, err)
		assert.True(t, spec.IsZero())
	}
}

// TestParseString_UnterminatedQuote tests the split failure path.
func TestParseString_UnterminatedQuote(t *testing.T) {
	_, err := ParseString(`-n "unterminated`)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

// TestSpec_TokensRoundTrip tests that Tokens() reproduces the spec through
// Parse.
func TestSpec_TokensRoundTrip(t *testing.T) {
	specs := []Spec{
		{},
		{ShowAll: true},
		{Keywords: []string{"Expand"}},
		{Keywords: []string{"-dashed"}},
		{Excludes: []string{"vendor", "gen"}, PathFilters: []string{"a/b"}},
		{ShowAll: true, MaxDepth: intPtr(1), MaxCount: intPtr(2), Verbose: true},
	}

	for _, spec := range specs {
		got, err := Parse(spec.Tokens())
		require.NoError(t, err, "tokens %v", spec.Tokens())
		assert.Equal(t, spec, got)
	}
}

// TestMerge_OverlayWins tests profile-plus-flags layering.
func TestMerge_OverlayWins(t *testing.T) {
	base := Spec{
		Keywords: []string{"base"},
		MaxDepth: intPtr(5),
		MaxCount: intPtr(5),
	}
	overlay := Spec{
		ShowAll:  true,
		Keywords: []string{"extra"},
		MaxDepth: intPtr(1),
	}

	merged := Merge(base, overlay)
	assert.True(t, merged.ShowAll)
	assert.Equal(t, []string{"base", "extra"}, merged.Keywords)
	assert.Equal(t, intPtr(1), merged.MaxDepth)
	assert.Equal(t, intPtr(5), merged.MaxCount)

	// Merging never aliases the inputs' limit pointers.
	*merged.MaxDepth = 9
	assert.Equal(t, 1, *overlay.MaxDepth)
}

// TestHelpText_ListsEveryFlag tests that the options table names all flags.
func TestHelpText_ListsEveryFlag(t *testing.T) {
	help := HelpText()
	for _, flag := range []string{"--all", "--not", "--path", "--depth", "--count", "--verbose", "--help", "GENPROBE_FLAGS"} {
		assert.Contains(t, help, flag)
	}
}
