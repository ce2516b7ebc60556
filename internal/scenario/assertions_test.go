package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framegraph/internal/frame"
)

// assertionGraph builds a small graph with a known final state:
// node a=0.5, frame f1 holding a with one peer f2, boundary b1 unsealed at
// coherence 0.3.
func assertionGraph(t *testing.T) (*frame.Graph, []frame.Event) {
	t.Helper()

	rec := frame.NewRecorder()
	g := frame.NewGraph(rec)

	a := g.NewNode("a", 0.5)
	f1 := g.NewFrame("f1")
	f1.AddNode(a)
	f2 := g.NewFrame("f2")
	f1.LinkPeer(f2)

	b1 := g.NewBoundary("b1")
	b1.AddNode(a)
	f1.AddBoundary(b1)
	b1.Perturb(0.7)

	return g, rec.Events()
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	g, trace := assertionGraph(t)

	failures := EvaluateAssertions(g, trace, []Assertion{
		{Type: AssertNodeState, Node: "a", Value: f64(0.5)},
		{Type: AssertFrameScale, Frame: "f1", Value: f64(1.0)},
		{Type: AssertFramePhase, Frame: "f1", Value: f64(0.0)},
		{Type: AssertCoherence, Boundary: "b1", Value: f64(0.3)},
		{Type: AssertSealed, Boundary: "b1", Sealed: boolp(false)},
		{Type: AssertNodeCount, Count: intp(1)},
		{Type: AssertFrameCount, Count: intp(2)},
		{Type: AssertBoundaryCount, Count: intp(1)},
		{Type: AssertPeerCount, Frame: "f2", Count: intp(1)},
		{Type: AssertSubCount, Frame: "f1", Count: intp(0)},
		{Type: AssertTraceContains, Kind: "unseal", Source: "b1"},
		{Type: AssertTraceCount, Kind: "link", Count: intp(2)},
	})

	assert.Empty(t, failures)
}

func TestEvaluateAssertions_FloatTolerance(t *testing.T) {
	g, trace := assertionGraph(t)

	t.Run("within tolerance passes", func(t *testing.T) {
		failures := EvaluateAssertions(g, trace, []Assertion{
			{Type: AssertNodeState, Node: "a", Value: f64(0.5 + 1e-12)},
		})
		assert.Empty(t, failures)
	})

	t.Run("outside tolerance fails", func(t *testing.T) {
		failures := EvaluateAssertions(g, trace, []Assertion{
			{Type: AssertNodeState, Node: "a", Value: f64(0.5001)},
		})
		require.Len(t, failures, 1)
		assert.Contains(t, failures[0], "node a state")
	})
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	g, trace := assertionGraph(t)

	cases := []struct {
		name      string
		assertion Assertion
		wantMsg   string
	}{
		{"missing node", Assertion{Type: AssertNodeState, Node: "ghost", Value: f64(1)}, `node "ghost" exists`},
		{"missing frame", Assertion{Type: AssertFrameScale, Frame: "ghost", Value: f64(1)}, `frame "ghost" exists`},
		{"missing boundary", Assertion{Type: AssertCoherence, Boundary: "ghost", Value: f64(1)}, `boundary "ghost" exists`},
		{"sealed mismatch", Assertion{Type: AssertSealed, Boundary: "b1", Sealed: boolp(true)}, "sealed=true"},
		{"count mismatch", Assertion{Type: AssertNodeCount, Count: intp(7)}, "node count = 7"},
		{"absent event", Assertion{Type: AssertTraceContains, Kind: "seal"}, "kind=seal"},
		{"event count mismatch", Assertion{Type: AssertTraceCount, Kind: "perturb", Count: intp(3)}, "3 time(s)"},
		{"source narrows match", Assertion{Type: AssertTraceContains, Kind: "unseal", Source: "other"}, "source=other"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failures := EvaluateAssertions(g, trace, []Assertion{tc.assertion})
			require.Len(t, failures, 1)
			assert.Contains(t, failures[0], "assertions[0]")
			assert.Contains(t, failures[0], tc.wantMsg)
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCoherence,
		Expected: "boundary b1 coherence = 1.000000000",
		Actual:   "0.300000000",
	}

	msg := err.Error()
	assert.Contains(t, msg, "assertion failed: coherence")
	assert.Contains(t, msg, "expected: boundary b1 coherence = 1.000000000")
	assert.Contains(t, msg, "actual: 0.300000000")
}
