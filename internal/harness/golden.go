package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// RunWithGolden replays a scenario, checks the expected emission list, and
// compares the wire stream against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files after an intentional format change, run:
//
//	go test ./internal/harness -update
//
// Help scenarios have no stream and no golden file; only the help flag is
// checked.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	require.NoError(t, err)

	if scenario.ExpectHelp {
		require.True(t, result.HelpRequested, "flags should request help")
		require.Empty(t, result.Emitted)
		require.Empty(t, result.Stream)
		return
	}
	require.False(t, result.HelpRequested, "flags should not request help")
	require.Equal(t, scenario.Expect, result.Emitted, "emitted calls")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, result.Stream)
}
