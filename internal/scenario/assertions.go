package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/framegraph/internal/frame"
)

// FloatTolerance is the comparison tolerance for float assertions.
const FloatTolerance = 1e-9

// AssertionError describes one failed assertion with enough context to
// debug without re-running.
type AssertionError struct {
	Type     string // assertion type for categorization
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final graph state
// and the event trace. Returns one message per failed assertion; an empty
// slice means all assertions held.
//
// Assertions are assumed structurally valid (validateScenario ran at load
// time); unresolved references fail the assertion rather than aborting the
// run.
func EvaluateAssertions(g *frame.Graph, trace []frame.Event, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(g, trace, &a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(g *frame.Graph, trace []frame.Event, a *Assertion) error {
	switch a.Type {
	case AssertNodeState:
		n, ok := g.Node(a.Node)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("node %q exists", a.Node), Actual: "not found"}
		}
		return compareFloat(a.Type, fmt.Sprintf("node %s state", a.Node), *a.Value, n.State)

	case AssertFrameScale:
		f, ok := g.Frame(a.Frame)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("frame %q exists", a.Frame), Actual: "not found"}
		}
		return compareFloat(a.Type, fmt.Sprintf("frame %s scale", a.Frame), *a.Value, f.Scale())

	case AssertFramePhase:
		f, ok := g.Frame(a.Frame)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("frame %q exists", a.Frame), Actual: "not found"}
		}
		return compareFloat(a.Type, fmt.Sprintf("frame %s phase offset", a.Frame), *a.Value, f.PhaseOffset())

	case AssertCoherence:
		b, ok := g.Boundary(a.Boundary)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("boundary %q exists", a.Boundary), Actual: "not found"}
		}
		return compareFloat(a.Type, fmt.Sprintf("boundary %s coherence", a.Boundary), *a.Value, b.Coherence())

	case AssertSealed:
		b, ok := g.Boundary(a.Boundary)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("boundary %q exists", a.Boundary), Actual: "not found"}
		}
		if b.Sealed() != *a.Sealed {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("boundary %s sealed=%t", a.Boundary, *a.Sealed),
				Actual:   fmt.Sprintf("sealed=%t (coherence %.3f)", b.Sealed(), b.Coherence()),
			}
		}
		return nil

	case AssertNodeCount:
		return compareCount(a.Type, "node count", *a.Count, g.NodeCount())

	case AssertFrameCount:
		return compareCount(a.Type, "frame count", *a.Count, g.FrameCount())

	case AssertBoundaryCount:
		return compareCount(a.Type, "boundary count", *a.Count, g.BoundaryCount())

	case AssertPeerCount:
		f, ok := g.Frame(a.Frame)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("frame %q exists", a.Frame), Actual: "not found"}
		}
		return compareCount(a.Type, fmt.Sprintf("frame %s peer count", a.Frame), *a.Count, len(f.Peers()))

	case AssertSubCount:
		f, ok := g.Frame(a.Frame)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("frame %q exists", a.Frame), Actual: "not found"}
		}
		return compareCount(a.Type, fmt.Sprintf("frame %s sub-frame count", a.Frame), *a.Count, len(f.SubFrames()))

	case AssertTraceContains:
		for _, ev := range trace {
			if string(ev.Kind) == a.Kind && (a.Source == "" || ev.Source == a.Source) {
				return nil
			}
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: describeEventMatch(a),
			Actual:   fmt.Sprintf("not found in %d trace event(s)", len(trace)),
		}

	case AssertTraceCount:
		count := 0
		for _, ev := range trace {
			if string(ev.Kind) == a.Kind && (a.Source == "" || ev.Source == a.Source) {
				count++
			}
		}
		if count != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s appearing %d time(s)", describeEventMatch(a), *a.Count),
				Actual:   fmt.Sprintf("appeared %d time(s)", count),
			}
		}
		return nil

	default:
		// Unreachable after validation.
		return &AssertionError{Type: a.Type, Expected: "known assertion type", Actual: "unknown"}
	}
}

func describeEventMatch(a *Assertion) string {
	if a.Source != "" {
		return fmt.Sprintf("event kind=%s source=%s", a.Kind, a.Source)
	}
	return fmt.Sprintf("event kind=%s", a.Kind)
}

func compareFloat(typ, what string, expected, actual float64) error {
	if math.Abs(expected-actual) <= FloatTolerance {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%s = %.9f", what, expected),
		Actual:   fmt.Sprintf("%.9f", actual),
	}
}

func compareCount(typ, what string, expected, actual int) error {
	if expected == actual {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%s = %d", what, expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}
