package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/framegraph/internal/frame"
)

// TraceSnapshot captures a scenario execution for golden comparison.
// Serialized through MarshalCanonical so two identical runs produce
// byte-identical snapshots.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	RunToken     string        `json:"run_token,omitempty"`
	Trace        []frame.Event `json:"trace"`
	Summary      []string      `json:"summary"`
}

// ToCanonicalMap converts the snapshot to the map form MarshalCanonical
// accepts. Event messages are already formatted strings, so no float ever
// reaches the encoder.
func (s *TraceSnapshot) ToCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		traceList[i] = map[string]any{
			"seq":    ev.Seq,
			"kind":   string(ev.Kind),
			"source": ev.Source,
			"msg":    ev.Msg,
		}
	}

	summaryList := make([]any, len(s.Summary))
	for i, line := range s.Summary {
		summaryList[i] = line
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"summary":       summaryList,
	}
	if s.RunToken != "" {
		result["run_token"] = s.RunToken
	}
	return result
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files:
//
//	go test ./internal/scenario -update
//
// Returns an error only when the scenario itself fails to execute; a trace
// mismatch fails the test via goldie.
func RunWithGolden(t *testing.T, s *Scenario, opts ...RunOption) error {
	t.Helper()

	result, err := Run(s, opts...)
	if err != nil {
		return err
	}
	return AssertGolden(t, s.Name, result)
}

// AssertGolden compares an already-obtained result against the golden file
// named after the scenario. Useful when the caller needs the Result for
// additional assertions.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunToken:     result.RunToken,
		Trace:        result.Trace,
		Summary:      result.Summary,
	}

	traceJSON, err := MarshalCanonical(snapshot.ToCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
