package scenario

import (
	"fmt"

	"github.com/roach88/framegraph/internal/frame"
)

// DefaultRunToken is used when neither the scenario nor the caller supplies
// a token. Fixed so that golden comparison stays deterministic.
const DefaultRunToken = "run-default"

// RunOption configures a scenario execution.
type RunOption func(*runConfig)

type runConfig struct {
	tokens TokenGenerator
	sink   frame.EventSink
}

// WithTokenGenerator overrides the run token source (UUIDv7 in the CLI,
// fixed tokens in tests). Ignored when the scenario pins run_token.
func WithTokenGenerator(g TokenGenerator) RunOption {
	return func(c *runConfig) {
		c.tokens = g
	}
}

// WithEventSink tees model events to an extra sink (e.g. live stdout
// output in the CLI) in addition to the trace recorder.
func WithEventSink(sink frame.EventSink) RunOption {
	return func(c *runConfig) {
		c.sink = sink
	}
}

// teeSink delivers each event to both sinks, recorder first.
type teeSink struct {
	rec  *frame.Recorder
	next frame.EventSink
}

func (t teeSink) Emit(ev frame.Event) {
	t.rec.Emit(ev)
	t.next.Emit(ev)
}

// runner holds per-execution state: the fresh graph plus the seed handles
// the growth operation needs (the first seed frame and the second seed
// node).
type runner struct {
	graph      *frame.Graph
	firstFrame *frame.ReferenceFrame
	secondNode *frame.DistinctionNode
	growthSeq  int
}

// Run executes a scenario against a fresh graph and returns the result.
//
// Each execution is isolated: fresh graph, fresh logical clock, fresh
// recorder. Execution order: seed, rounds in order, assertions. A returned
// error means the scenario could not be executed (unknown references,
// growth preconditions); assertion failures are reported in Result.Errors
// with Pass=false, not as errors.
func Run(s *Scenario, opts ...RunOption) (*Result, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	token := s.RunToken
	if token == "" {
		if cfg.tokens != nil {
			token = cfg.tokens.Generate()
		} else {
			token = DefaultRunToken
		}
	}

	rec := frame.NewRecorder()
	var sink frame.EventSink = rec
	if cfg.sink != nil {
		sink = teeSink{rec: rec, next: cfg.sink}
	}

	r := &runner{graph: frame.NewGraph(sink)}
	result := NewResult(token)

	if err := r.seed(&s.Seed); err != nil {
		return nil, fmt.Errorf("seed scenario %s: %w", s.Name, err)
	}

	for i, round := range s.Rounds {
		if err := r.executeRound(i, &round, result); err != nil {
			return nil, fmt.Errorf("scenario %s round %d: %w", s.Name, i, err)
		}
	}

	result.Trace = rec.Events()
	for _, msg := range EvaluateAssertions(r.graph, result.Trace, s.Assertions) {
		result.AddError(msg)
	}
	result.Summary = r.summary()

	return result, nil
}

// seed builds the initial graph in declaration order: nodes, frames,
// boundaries, links, nesting.
func (r *runner) seed(seed *Seed) error {
	for _, spec := range seed.Nodes {
		r.graph.NewNode(spec.Label, spec.State)
	}
	if len(seed.Nodes) >= 2 {
		r.secondNode, _ = r.graph.Node(seed.Nodes[1].Label)
	}

	for i, spec := range seed.Frames {
		opts := []frame.FrameOption{frame.WithPhaseOffset(spec.PhaseOffset)}
		if spec.Scale != nil {
			opts = append(opts, frame.WithScale(*spec.Scale))
		}
		if spec.Origin != "" {
			origin, ok := r.graph.Node(spec.Origin)
			if !ok {
				return fmt.Errorf("frame %s: unknown origin node %q", spec.ID, spec.Origin)
			}
			opts = append(opts, frame.WithOrigin(origin))
		}
		f := r.graph.NewFrame(spec.ID, opts...)
		for _, label := range spec.Nodes {
			n, ok := r.graph.Node(label)
			if !ok {
				return fmt.Errorf("frame %s: unknown node %q", spec.ID, label)
			}
			f.AddNode(n)
		}
		if i == 0 {
			r.firstFrame = f
		}
	}

	for _, spec := range seed.Boundaries {
		owner, ok := r.graph.Frame(spec.Frame)
		if !ok {
			return fmt.Errorf("boundary %s: unknown frame %q", spec.ID, spec.Frame)
		}
		b := r.graph.NewBoundary(spec.ID)
		for _, label := range spec.Nodes {
			n, ok := r.graph.Node(label)
			if !ok {
				return fmt.Errorf("boundary %s: unknown node %q", spec.ID, label)
			}
			b.AddNode(n)
		}
		owner.AddBoundary(b)
	}

	for i, pair := range seed.Links {
		a, ok := r.graph.Frame(pair[0])
		if !ok {
			return fmt.Errorf("links[%d]: unknown frame %q", i, pair[0])
		}
		b, ok := r.graph.Frame(pair[1])
		if !ok {
			return fmt.Errorf("links[%d]: unknown frame %q", i, pair[1])
		}
		a.LinkPeer(b)
	}

	for i, pair := range seed.Nesting {
		parent, ok := r.graph.Frame(pair[0])
		if !ok {
			return fmt.Errorf("nesting[%d]: unknown frame %q", i, pair[0])
		}
		child, ok := r.graph.Frame(pair[1])
		if !ok {
			return fmt.Errorf("nesting[%d]: unknown frame %q", i, pair[1])
		}
		r.graph.Nest(parent, child)
	}

	return nil
}

// executeRound dispatches one driver step.
func (r *runner) executeRound(index int, round *Round, result *Result) error {
	switch {
	case round.Grow != nil:
		return r.grow(round.Grow)

	case round.Perturb != nil:
		b, ok := r.graph.Boundary(round.Perturb.Boundary)
		if !ok {
			return fmt.Errorf("perturb: unknown boundary %q", round.Perturb.Boundary)
		}
		b.Perturb(round.Perturb.Amount)
		return nil

	case round.Seal != nil:
		b, ok := r.graph.Boundary(round.Seal.Boundary)
		if !ok {
			return fmt.Errorf("seal: unknown boundary %q", round.Seal.Boundary)
		}
		b.Seal()
		return nil

	case round.AutoReseal != nil:
		b, ok := r.graph.Boundary(round.AutoReseal.Boundary)
		if !ok {
			return fmt.Errorf("auto_reseal: unknown boundary %q", round.AutoReseal.Boundary)
		}
		b.AutoReseal()
		return nil

	case round.Adjust != nil:
		f, ok := r.graph.Frame(round.Adjust.Frame)
		if !ok {
			return fmt.Errorf("adjust: unknown frame %q", round.Adjust.Frame)
		}
		f.Adjust()
		return nil

	case round.CheckStability != nil:
		result.AddCheck(index, "stability", r.graph.CheckStability(round.CheckStability.Threshold))
		return nil

	case round.CheckDivergence != nil:
		result.AddCheck(index, "divergence", !r.graph.CheckDivergence())
		return nil

	case round.CheckCoherence != nil:
		result.AddCheck(index, "coherence", r.graph.CheckCoherence())
		return nil

	default:
		// Unreachable after validation.
		return fmt.Errorf("round has no operation")
	}
}

// summary renders every node, frame, and boundary in registration order.
func (r *runner) summary() []string {
	var out []string
	for _, n := range r.graph.Nodes() {
		out = append(out, n.String())
	}
	for _, f := range r.graph.Frames() {
		out = append(out, f.String())
	}
	for _, b := range r.graph.Boundaries() {
		out = append(out, b.String())
	}
	return out
}
