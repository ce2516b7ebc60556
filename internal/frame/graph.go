package frame

import "math"

// DivergenceCutoff is the fixed cutoff for the divergence check: the signed
// sum of all node states exceeding it is reported as divergence. Report-only,
// no automatic repair.
const DivergenceCutoff = 1e6

// Graph is the arena owning every entity of a scenario: a central node table
// plus frame and boundary registries addressed by stable string identifiers.
//
// Frames and boundaries hold non-owning handles into the node table, never
// copies, so mutation through one handle is visible through all. The graph
// is the sole lifetime owner; entities persist for the scenario's lifetime.
//
// Entities created through the graph share one logical clock and one event
// sink. Registration order is preserved for deterministic iteration.
//
// Root frames are the top-level frames: every frame registered with NewFrame
// starts as a root and stops being one when nested under a parent via Nest.
// Graph-level repair (CheckStability) starts from the roots.
type Graph struct {
	em *Emitter

	nodes     map[string]*DistinctionNode
	nodeOrder []string

	frames     map[string]*ReferenceFrame
	frameOrder []string
	roots      []string

	boundaries    map[string]*BoundaryLoop
	boundaryOrder []string
}

// NewGraph creates an empty arena. A nil sink discards events.
func NewGraph(sink EventSink) *Graph {
	return &Graph{
		em:         NewEmitter(sink),
		nodes:      make(map[string]*DistinctionNode),
		frames:     make(map[string]*ReferenceFrame),
		boundaries: make(map[string]*BoundaryLoop),
	}
}

// Emitter returns the graph's shared emitter, for callers constructing
// entities outside the graph that still need the shared clock and sink.
func (g *Graph) Emitter() *Emitter { return g.em }

// Clock returns the graph's shared logical clock.
func (g *Graph) Clock() *Clock { return g.em.Clock() }

// NewNode creates and registers a node in the central table. Registering a
// label twice replaces the table entry but does not touch handles already
// held by frames or boundaries.
func (g *Graph) NewNode(label string, state float64) *DistinctionNode {
	n := NewNode(label, state)
	if _, exists := g.nodes[label]; !exists {
		g.nodeOrder = append(g.nodeOrder, label)
	}
	g.nodes[label] = n
	return n
}

// NewFrame creates and registers a frame sharing the graph's clock and sink.
// The frame starts as a root.
func (g *Graph) NewFrame(id string, opts ...FrameOption) *ReferenceFrame {
	f := NewFrame(g.em, id, opts...)
	if _, exists := g.frames[id]; !exists {
		g.frameOrder = append(g.frameOrder, id)
		g.roots = append(g.roots, id)
	}
	g.frames[id] = f
	return f
}

// NewBoundary creates and registers a boundary sharing the graph's clock
// and sink.
func (g *Graph) NewBoundary(id string) *BoundaryLoop {
	b := NewBoundary(g.em, id)
	if _, exists := g.boundaries[id]; !exists {
		g.boundaryOrder = append(g.boundaryOrder, id)
	}
	g.boundaries[id] = b
	return b
}

// Node looks up a node by label.
func (g *Graph) Node(label string) (*DistinctionNode, bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// Frame looks up a frame by id.
func (g *Graph) Frame(id string) (*ReferenceFrame, bool) {
	f, ok := g.frames[id]
	return f, ok
}

// Boundary looks up a boundary by id.
func (g *Graph) Boundary(id string) (*BoundaryLoop, bool) {
	b, ok := g.boundaries[id]
	return b, ok
}

// Nodes returns all nodes in registration order.
func (g *Graph) Nodes() []*DistinctionNode {
	out := make([]*DistinctionNode, 0, len(g.nodeOrder))
	for _, label := range g.nodeOrder {
		out = append(out, g.nodes[label])
	}
	return out
}

// Frames returns all frames in registration order.
func (g *Graph) Frames() []*ReferenceFrame {
	out := make([]*ReferenceFrame, 0, len(g.frameOrder))
	for _, id := range g.frameOrder {
		out = append(out, g.frames[id])
	}
	return out
}

// Boundaries returns all boundaries in registration order.
func (g *Graph) Boundaries() []*BoundaryLoop {
	out := make([]*BoundaryLoop, 0, len(g.boundaryOrder))
	for _, id := range g.boundaryOrder {
		out = append(out, g.boundaries[id])
	}
	return out
}

// Roots returns the top-level frames in registration order.
func (g *Graph) Roots() []*ReferenceFrame {
	out := make([]*ReferenceFrame, 0, len(g.roots))
	for _, id := range g.roots {
		out = append(out, g.frames[id])
	}
	return out
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// FrameCount returns the number of registered frames.
func (g *Graph) FrameCount() int { return len(g.frames) }

// BoundaryCount returns the number of registered boundaries.
func (g *Graph) BoundaryCount() int { return len(g.boundaries) }

// Nest adds the owning nesting edge parent→child and removes the child from
// the root set. The nesting relation must stay acyclic - that is a caller
// obligation, not checked here.
func (g *Graph) Nest(parent, child *ReferenceFrame) {
	parent.AddSubFrame(child)
	for i, id := range g.roots {
		if id == child.id {
			g.roots = append(g.roots[:i], g.roots[i+1:]...)
			break
		}
	}
}

// TotalAbsState returns the sum of absolute node states over the node table.
func (g *Graph) TotalAbsState() float64 {
	var total float64
	for _, label := range g.nodeOrder {
		total += math.Abs(g.nodes[label].State)
	}
	return total
}

// TotalState returns the signed sum of node states over the node table.
func (g *Graph) TotalState() float64 {
	var total float64
	for _, label := range g.nodeOrder {
		total += g.nodes[label].State
	}
	return total
}

// CheckStability compares the aggregate absolute node state against the
// supplied threshold. On excess it triggers automatic self-repair - Adjust
// on every root frame - as a side effect of the check itself, then returns
// false. The check is NOT read-only.
func (g *Graph) CheckStability(threshold float64) bool {
	total := g.TotalAbsState()
	if total <= threshold {
		return true
	}
	g.em.Emit(EventStability, "graph", "aggregate state %.3f exceeds threshold %.3f, adjusting %d root frame(s)", total, threshold, len(g.roots))
	for _, root := range g.Roots() {
		root.Adjust()
	}
	return false
}

// CheckDivergence reports whether the signed sum of node states exceeds the
// fixed DivergenceCutoff. Report-only: no repair is triggered.
func (g *Graph) CheckDivergence() bool {
	total := g.TotalState()
	if total > DivergenceCutoff {
		g.em.Emit(EventDivergence, "graph", "state sum %.3f exceeds divergence cutoff %.3f", total, DivergenceCutoff)
		return true
	}
	return false
}

// CheckCoherence reports whether every registered boundary holds coherence
// at or above CoherenceThreshold. One event is emitted per violation;
// recovery is left to Seal/AutoReseal.
func (g *Graph) CheckCoherence() bool {
	ok := true
	for _, id := range g.boundaryOrder {
		b := g.boundaries[id]
		if b.coherence < CoherenceThreshold {
			g.em.Emit(EventCoherence, b.id, "coherence %.3f below threshold %.3f", b.coherence, CoherenceThreshold)
			ok = false
		}
	}
	return ok
}
