package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genprobe/genprobe/internal/query"
)

// TestTrace_AgreesWithEvaluate tests that the traced decision is always
// the same as the plain one.
func TestTrace_AgreesWithEvaluate(t *testing.T) {
	d := desc("text/template", "Expand", "expand.go", 1, 3)
	specs := []query.Spec{
		{},
		{ShowAll: true},
		{ShowAll: true, Excludes: []string{"template"}},
		{Keywords: []string{"Expand"}, Verbose: true},
		{PathFilters: []string{"template.Expand"}},
		{ShowAll: true, MaxDepth: intPtr(0)},
		{ShowAll: true, MaxCount: intPtr(2)},
	}

	for _, s := range specs {
		want := Evaluate(d, s)
		got, steps := Trace(d, s)
		assert.Equal(t, want, got, "spec %+v", s)
		require.NotEmpty(t, steps, "spec %+v", s)
		assert.True(t, steps[len(steps)-1].Fired, "last step decides, spec %+v", s)
	}
}

// TestTrace_ExclusionShortCircuits tests that a matching exclude is the
// only step recorded.
func TestTrace_ExclusionShortCircuits(t *testing.T) {
	d := desc("text/template", "Expand", "expand.go", 0, 1)
	dec, steps := Trace(d, query.Spec{ShowAll: true, Excludes: []string{"template"}})

	assert.False(t, dec.Emit)
	require.Len(t, steps, 1)
	assert.Equal(t, "exclude", steps[0].Rule)
	assert.True(t, steps[0].Fired)
}

// TestTrace_DefaultSuppression tests the opt-in default step.
func TestTrace_DefaultSuppression(t *testing.T) {
	d := desc("text/template", "Expand", "expand.go", 0, 1)
	dec, steps := Trace(d, query.Spec{Keywords: []string{"nomatch"}})

	assert.False(t, dec.Emit)
	require.Len(t, steps, 2)
	assert.Equal(t, "keyword", steps[0].Rule)
	assert.False(t, steps[0].Fired)
	assert.Equal(t, "default", steps[1].Rule)
	assert.True(t, steps[1].Fired)
}
