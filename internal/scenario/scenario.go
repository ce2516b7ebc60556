package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted run against a fresh frame graph.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// snapshot file name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Seed declares the initial graph: nodes, frames, boundaries, peer
	// links, and nesting edges, built in that order.
	Seed Seed `yaml:"seed"`

	// Rounds is the scripted driver loop, executed in order.
	Rounds []Round `yaml:"rounds,omitempty"`

	// Assertions validate the final state and the event trace.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken is an optional fixed run token for deterministic output.
	// If empty, the runner's token generator decides (fixed default in
	// tests, UUIDv7 in the CLI).
	RunToken string `yaml:"run_token,omitempty"`
}

// Seed declares the initial graph contents.
type Seed struct {
	Nodes      []NodeSpec     `yaml:"nodes"`
	Frames     []FrameSpec    `yaml:"frames"`
	Boundaries []BoundarySpec `yaml:"boundaries,omitempty"`

	// Links lists symmetric peer-link pairs [a, b].
	Links [][]string `yaml:"links,omitempty"`

	// Nesting lists owning edges [parent, child]. The declared relation
	// must be a DAG; the model does not check acyclicity.
	Nesting [][]string `yaml:"nesting,omitempty"`
}

// NodeSpec declares one distinction node.
type NodeSpec struct {
	Label string  `yaml:"label"`
	State float64 `yaml:"state"`
}

// FrameSpec declares one reference frame.
type FrameSpec struct {
	ID string `yaml:"id"`

	// Scale defaults to 1.0 when omitted.
	Scale *float64 `yaml:"scale,omitempty"`

	// PhaseOffset is in radians, default 0.
	PhaseOffset float64 `yaml:"phase_offset,omitempty"`

	// Origin is an optional node label.
	Origin string `yaml:"origin,omitempty"`

	// Nodes lists labels of directly-held nodes (shared handles).
	Nodes []string `yaml:"nodes,omitempty"`
}

// BoundarySpec declares one boundary loop, owned by a frame.
type BoundarySpec struct {
	ID    string   `yaml:"id"`
	Frame string   `yaml:"frame"`
	Nodes []string `yaml:"nodes,omitempty"`
}

// Round is one step of the driver loop. Exactly one operation must be set.
type Round struct {
	Grow            *GrowStep      `yaml:"grow,omitempty"`
	Perturb         *PerturbStep   `yaml:"perturb,omitempty"`
	Seal            *BoundaryStep  `yaml:"seal,omitempty"`
	AutoReseal      *BoundaryStep  `yaml:"auto_reseal,omitempty"`
	Adjust          *FrameStep     `yaml:"adjust,omitempty"`
	CheckStability  *StabilityStep `yaml:"check_stability,omitempty"`
	CheckDivergence *EmptyStep     `yaml:"check_divergence,omitempty"`
	CheckCoherence  *EmptyStep     `yaml:"check_coherence,omitempty"`
}

// GrowStep adds count new node/frame/boundary/sub-frame groups.
type GrowStep struct {
	Count int `yaml:"count"`

	// State is the initial state of each grown node (default 0).
	State float64 `yaml:"state,omitempty"`
}

// PerturbStep reduces a boundary's coherence.
type PerturbStep struct {
	Boundary string  `yaml:"boundary"`
	Amount   float64 `yaml:"amount"`
}

// BoundaryStep names a boundary for seal/auto_reseal.
type BoundaryStep struct {
	Boundary string `yaml:"boundary"`
}

// FrameStep names a frame for adjust.
type FrameStep struct {
	Frame string `yaml:"frame"`
}

// StabilityStep carries the externally-supplied instability threshold.
type StabilityStep struct {
	Threshold float64 `yaml:"threshold"`
}

// EmptyStep marks parameterless operations (check_divergence,
// check_coherence). YAML: `check_divergence: {}`.
type EmptyStep struct{}

// Assertion validates final state or the event trace.
type Assertion struct {
	// Type selects the assertion; see the package documentation.
	Type string `yaml:"type"`

	Node     string `yaml:"node,omitempty"`
	Frame    string `yaml:"frame,omitempty"`
	Boundary string `yaml:"boundary,omitempty"`

	// Kind and Source select trace events (trace_contains, trace_count).
	Kind   string `yaml:"kind,omitempty"`
	Source string `yaml:"source,omitempty"`

	// Value is the expected float for state/scale/phase/coherence checks.
	Value *float64 `yaml:"value,omitempty"`

	// Sealed is the expected flag for sealed checks.
	Sealed *bool `yaml:"sealed,omitempty"`

	// Count is the expected count for *_count and trace_count checks.
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeState     = "node_state"
	AssertFrameScale    = "frame_scale"
	AssertFramePhase    = "frame_phase"
	AssertCoherence     = "coherence"
	AssertSealed        = "sealed"
	AssertNodeCount     = "node_count"
	AssertFrameCount    = "frame_count"
	AssertBoundaryCount = "boundary_count"
	AssertPeerCount     = "peer_count"
	AssertSubCount      = "sub_count"
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
)

// Load reads and parses a scenario YAML file. Unknown fields are rejected
// (catches typos like "assertion:" vs "assertions:"); structural validation
// runs before the scenario is returned.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario YAML from memory with the same strictness as Load.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks required fields and per-round/assertion shape.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Seed.Nodes) == 0 {
		return fmt.Errorf("seed.nodes is required and must be non-empty")
	}
	if len(s.Seed.Frames) == 0 {
		return fmt.Errorf("seed.frames is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, n := range s.Seed.Nodes {
		if n.Label == "" {
			return fmt.Errorf("seed.nodes[%d]: label is required", i)
		}
	}
	for i, f := range s.Seed.Frames {
		if f.ID == "" {
			return fmt.Errorf("seed.frames[%d]: id is required", i)
		}
	}
	for i, b := range s.Seed.Boundaries {
		if b.ID == "" {
			return fmt.Errorf("seed.boundaries[%d]: id is required", i)
		}
		if b.Frame == "" {
			return fmt.Errorf("seed.boundaries[%d]: frame is required", i)
		}
	}
	for i, pair := range s.Seed.Links {
		if len(pair) != 2 {
			return fmt.Errorf("seed.links[%d]: expected [a, b] pair, got %d element(s)", i, len(pair))
		}
	}
	for i, pair := range s.Seed.Nesting {
		if len(pair) != 2 {
			return fmt.Errorf("seed.nesting[%d]: expected [parent, child] pair, got %d element(s)", i, len(pair))
		}
	}

	for i, round := range s.Rounds {
		if err := validateRound(i, &round); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateRound checks that exactly one operation is set per round.
func validateRound(index int, r *Round) error {
	ops := 0
	if r.Grow != nil {
		ops++
		if r.Grow.Count <= 0 {
			return fmt.Errorf("rounds[%d].grow: count must be positive", index)
		}
	}
	if r.Perturb != nil {
		ops++
		if r.Perturb.Boundary == "" {
			return fmt.Errorf("rounds[%d].perturb: boundary is required", index)
		}
	}
	if r.Seal != nil {
		ops++
		if r.Seal.Boundary == "" {
			return fmt.Errorf("rounds[%d].seal: boundary is required", index)
		}
	}
	if r.AutoReseal != nil {
		ops++
		if r.AutoReseal.Boundary == "" {
			return fmt.Errorf("rounds[%d].auto_reseal: boundary is required", index)
		}
	}
	if r.Adjust != nil {
		ops++
		if r.Adjust.Frame == "" {
			return fmt.Errorf("rounds[%d].adjust: frame is required", index)
		}
	}
	if r.CheckStability != nil {
		ops++
		if r.CheckStability.Threshold <= 0 {
			return fmt.Errorf("rounds[%d].check_stability: threshold must be positive", index)
		}
	}
	if r.CheckDivergence != nil {
		ops++
	}
	if r.CheckCoherence != nil {
		ops++
	}

	if ops == 0 {
		return fmt.Errorf("rounds[%d]: no operation set", index)
	}
	if ops > 1 {
		return fmt.Errorf("rounds[%d]: exactly one operation per round, got %d", index, ops)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertNodeState:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for %s", index, a.Type)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertFrameScale, AssertFramePhase:
		if a.Frame == "" {
			return fmt.Errorf("assertions[%d]: frame is required for %s", index, a.Type)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertCoherence:
		if a.Boundary == "" {
			return fmt.Errorf("assertions[%d]: boundary is required for %s", index, a.Type)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertSealed:
		if a.Boundary == "" {
			return fmt.Errorf("assertions[%d]: boundary is required for %s", index, a.Type)
		}
		if a.Sealed == nil {
			return fmt.Errorf("assertions[%d]: sealed is required for %s", index, a.Type)
		}
	case AssertNodeCount, AssertFrameCount, AssertBoundaryCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertPeerCount, AssertSubCount:
		if a.Frame == "" {
			return fmt.Errorf("assertions[%d]: frame is required for %s", index, a.Type)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for %s", index, a.Type)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for %s", index, a.Type)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
