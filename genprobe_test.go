package genprobe

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genprobe/genprobe/internal/config"
	"github.com/genprobe/genprobe/internal/query"
)

// TestObserve_PassesResultThrough tests that observation never alters the
// wrapped transformation's result or error.
func TestObserve_PassesResultThrough(t *testing.T) {
	t.Cleanup(config.ResetForTest)
	config.SetForTest(query.Spec{})

	id := Identity{PkgPath: "example/gen", Name: "Upper"}
	out, err := Observe(id, Here(), "abc", func(in string) (string, error) {
		return strings.ToUpper(in), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	wantErr := errors.New("boom")
	out, err = Observe(id, Here(), "abc", func(in string) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, out)
}

// TestObserve_ExitRunsOnPanic tests that a panicking transformation leaves
// the registry balanced: the panic propagates, later calls still see
// depth 0.
func TestObserve_ExitRunsOnPanic(t *testing.T) {
	t.Cleanup(config.ResetForTest)
	config.SetForTest(query.Spec{})

	id := Identity{PkgPath: "example/gen", Name: "Explodes"}
	assert.Panics(t, func() {
		_, _ = Observe(id, Here(), "in", func(string) (string, error) {
			panic("transformation bug")
		})
	})

	d := Enter(id, Location{File: "f.go", Line: 1})
	Exit(id)
	assert.Equal(t, 0, d.Depth)
}

// TestObserve_SequenceAdvancesPerIdentity tests per-identity monotonic
// sequence numbering through the facade.
func TestObserve_SequenceAdvancesPerIdentity(t *testing.T) {
	t.Cleanup(config.ResetForTest)
	config.SetForTest(query.Spec{})

	id := Identity{PkgPath: "example/gen", Name: "Counted"}
	loc := Location{File: "c.go", Line: 9}

	first := Enter(id, loc)
	Exit(id)
	second := Enter(id, loc)
	Exit(id)

	assert.Equal(t, first.Sequence+1, second.Sequence)
	assert.Equal(t, 0, first.Depth)
	assert.Equal(t, 0, second.Depth)
}

// TestEnabled_FollowsActiveSpec tests the fast-path predicate.
func TestEnabled_FollowsActiveSpec(t *testing.T) {
	t.Cleanup(config.ResetForTest)

	config.SetForTest(query.Spec{})
	assert.False(t, Enabled())

	config.SetForTest(query.Spec{ShowAll: true})
	assert.True(t, Enabled())

	config.SetForTest(query.Spec{Keywords: []string{"template"}})
	assert.True(t, Enabled())
}
