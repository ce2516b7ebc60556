package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_PerturbReseal(t *testing.T) {
	s, err := Load("testdata/perturb-reseal.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, s))
}

func TestAssertGolden_ByteStableAcrossRuns(t *testing.T) {
	s, err := Load("testdata/perturb-reseal.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, s.Name, first))
	require.NoError(t, AssertGolden(t, s.Name, second))
}

func TestTraceSnapshot_CanonicalMap(t *testing.T) {
	s, err := Load("testdata/perturb-reseal.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	snapshot := TraceSnapshot{
		ScenarioName: s.Name,
		RunToken:     result.RunToken,
		Trace:        result.Trace,
		Summary:      result.Summary,
	}

	out, err := MarshalCanonical(snapshot.ToCanonicalMap())
	require.NoError(t, err)

	assert.Contains(t, string(out), `"scenario_name":"perturb-reseal"`)
	assert.Contains(t, string(out), `"run_token":"golden-run"`)
	assert.Contains(t, string(out), `"kind":"unseal"`)
	// Canonical key order within each event map.
	assert.Contains(t, string(out), `{"kind":"perturb","msg":"perturbed by 0.400, coherence now 0.600","seq":1,"source":"membrane"}`)
}
