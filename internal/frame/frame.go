package frame

import (
	"fmt"
	"math"
)

// Damping and phase constants for the two correction mechanisms.
//
// Self-adjustment (strong, applied top-down through nesting) and peer
// propagation (weak, one hop across peer links) are independent mechanisms.
// SelfDamping is shared by scale damping and node normalization - the two
// uses are independent in the design but must stay numerically identical.
const (
	// SelfDamping is applied to a frame's own scale and to node states
	// during self-adjustment and normalization.
	SelfDamping = 0.95

	// PeerDamping is applied to a peer's scale during one-hop propagation.
	PeerDamping = 0.98

	// PhaseStep is added to a frame's phase offset on self-adjustment.
	PhaseStep = math.Pi / 180

	// PeerPhaseStep is subtracted from a peer's phase offset on propagation.
	// Note the opposite sign relative to PhaseStep.
	PeerPhaseStep = math.Pi / 360

	// MaxNestingDepth bounds Adjust recursion. Nesting acyclicity is a
	// caller obligation, not enforced; the guard turns an accidental nesting
	// cycle into a truncated descent plus a depth_limit event instead of a
	// stack overflow.
	MaxNestingDepth = 64
)

// ReferenceFrame is a scoped container of nodes and boundaries with its own
// scale and phase parameters, symmetric peer links, and an owned list of
// sub-frames forming a nesting tree.
//
// INVARIANTS:
//   - Peer links are symmetric: if A links B, B links A. Linking is
//     idempotent - re-linking an already-linked pair is a no-op.
//   - Sub-frames form a rooted tree per top-level frame. Nothing guards
//     against a sub-frame doubling as a peer link or being added as its own
//     ancestor; traversal tolerates such misuse via the depth guard but does
//     not detect it.
//   - Peer and sub-frame slices keep insertion order so event traces are
//     deterministic.
//
// No entity is ever removed. Instability is corrected in place by mutating
// scale/phase/state, never by deleting nodes or edges.
type ReferenceFrame struct {
	id          string
	origin      *DistinctionNode
	scale       float64
	phaseOffset float64
	nodes       []*DistinctionNode
	boundaries  []*BoundaryLoop
	peers       []*ReferenceFrame
	subFrames   []*ReferenceFrame
	em          *Emitter
}

// FrameOption configures a ReferenceFrame at construction.
type FrameOption func(*ReferenceFrame)

// WithScale sets the initial scale (default 1.0).
func WithScale(scale float64) FrameOption {
	return func(f *ReferenceFrame) {
		f.scale = scale
	}
}

// WithPhaseOffset sets the initial phase offset in radians (default 0).
func WithPhaseOffset(phase float64) FrameOption {
	return func(f *ReferenceFrame) {
		f.phaseOffset = phase
	}
}

// WithOrigin sets the frame's origin node reference.
func WithOrigin(n *DistinctionNode) FrameOption {
	return func(f *ReferenceFrame) {
		f.origin = n
	}
}

// NewFrame creates a reference frame. A nil emitter discards events.
// Prefer Graph.NewFrame when working inside an arena so that all entities
// share one clock and sink.
func NewFrame(em *Emitter, id string, opts ...FrameOption) *ReferenceFrame {
	if em == nil {
		em = NewEmitter(nil)
	}
	f := &ReferenceFrame{
		id:    id,
		scale: 1.0,
		em:    em,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ID returns the frame identifier.
func (f *ReferenceFrame) ID() string { return f.id }

// Scale returns the current scale parameter.
func (f *ReferenceFrame) Scale() float64 { return f.scale }

// PhaseOffset returns the current phase offset in radians.
func (f *ReferenceFrame) PhaseOffset() float64 { return f.phaseOffset }

// Origin returns the origin node reference, or nil.
func (f *ReferenceFrame) Origin() *DistinctionNode { return f.origin }

// Nodes returns the directly-held node handles in insertion order.
// The returned slice is the frame's own backing store; treat as read-only.
func (f *ReferenceFrame) Nodes() []*DistinctionNode { return f.nodes }

// Boundaries returns the held boundaries in insertion order.
func (f *ReferenceFrame) Boundaries() []*BoundaryLoop { return f.boundaries }

// Peers returns peer-linked frames in link order.
func (f *ReferenceFrame) Peers() []*ReferenceFrame { return f.peers }

// SubFrames returns owned sub-frames in insertion order.
func (f *ReferenceFrame) SubFrames() []*ReferenceFrame { return f.subFrames }

// AddNode appends a node reference. No duplicate check, no error on
// duplicates - the node is shared, not copied.
func (f *ReferenceFrame) AddNode(n *DistinctionNode) {
	f.nodes = append(f.nodes, n)
}

// AddBoundary appends a boundary reference. Append-only, no dedup.
func (f *ReferenceFrame) AddBoundary(b *BoundaryLoop) {
	f.boundaries = append(f.boundaries, b)
}

// LinkPeer adds the symmetric peer edge between f and other and emits one
// link event from each side. Idempotent: if other is already in f's peer
// set, nothing changes and nothing is emitted. Self-links are tolerated
// (no guard); the recursion risk lives in Adjust, not here.
func (f *ReferenceFrame) LinkPeer(other *ReferenceFrame) {
	if f.hasPeer(other) {
		return
	}
	f.peers = append(f.peers, other)
	f.em.Emit(EventLink, f.id, "peer link established with %s", other.id)
	if !other.hasPeer(f) {
		other.peers = append(other.peers, f)
	}
	other.em.Emit(EventLink, other.id, "peer link established with %s", f.id)
}

// hasPeer reports whether other is already in the peer set.
func (f *ReferenceFrame) hasPeer(other *ReferenceFrame) bool {
	for _, p := range f.peers {
		if p == other {
			return true
		}
	}
	return false
}

// AddSubFrame appends an owned nesting edge. Append-only; no cycle check -
// keeping the nesting relation acyclic is the caller's obligation.
func (f *ReferenceFrame) AddSubFrame(sub *ReferenceFrame) {
	f.subFrames = append(f.subFrames, sub)
}

// String renders the frame: id, scale and phase to 3 decimals, structural
// counts.
func (f *ReferenceFrame) String() string {
	return fmt.Sprintf("frame %s: scale=%.3f phase=%.3f nodes=%d boundaries=%d peers=%d subs=%d",
		f.id, f.scale, f.phaseOffset, len(f.nodes), len(f.boundaries), len(f.peers), len(f.subFrames))
}
