package frame

// Adjust is the primary self-correction operation
// (adjust_parameters_and_normalize_nodes). Effects, in order:
//
//  1. scale is multiplied by SelfDamping
//  2. phaseOffset is increased by PhaseStep
//  3. every directly-held node's state is multiplied by SelfDamping
//  4. every sub-frame runs the same operation, depth-first
//  5. the frame propagates one hop to its peers (Propagate)
//
// Within one call, node normalization always completes before sub-frame
// recursion, which always completes before peer propagation. Because each
// frame propagates right after its own subtree finishes, a nested frame's
// peer propagation runs before its ancestor's propagation - observable
// ordering that must not change.
//
// Peer propagation never re-enters Adjust, so peer cycles are safe. Nesting
// cycles are a caller error; past MaxNestingDepth the descent is truncated
// with a depth_limit event rather than recursing unboundedly.
func (f *ReferenceFrame) Adjust() {
	f.adjust(0)
}

func (f *ReferenceFrame) adjust(depth int) {
	if depth > MaxNestingDepth {
		f.em.Emit(EventDepthLimit, f.id, "nesting depth %d exceeds limit %d, truncating descent", depth, MaxNestingDepth)
		return
	}

	f.scale *= SelfDamping
	f.phaseOffset += PhaseStep
	f.em.Emit(EventAdjust, f.id, "scale damped to %.3f, phase offset advanced to %.3f", f.scale, f.phaseOffset)

	f.NormalizeNodes(SelfDamping)

	for _, sub := range f.subFrames {
		sub.adjust(depth + 1)
	}

	f.Propagate()
}

// Propagate applies the weak one-hop correction to every peer-linked frame:
// scale ×PeerDamping, phase offset −PeerPhaseStep (opposite sign to
// self-adjustment), then the peer's own nodes are normalized by SelfDamping.
// One event is emitted from each side of the edge.
//
// Propagation is exactly one hop: it does not recurse into the peer's
// sub-frames or the peer's own peers, and it leaves the acting frame's own
// scale, phase, and nodes untouched.
func (f *ReferenceFrame) Propagate() {
	for _, peer := range f.peers {
		peer.scale *= PeerDamping
		peer.phaseOffset -= PeerPhaseStep
		f.em.Emit(EventPropagate, f.id, "propagated adjustment to peer %s", peer.id)
		peer.em.Emit(EventPropagate, peer.id, "received adjustment from peer %s, scale now %.3f", f.id, peer.scale)
		peer.NormalizeNodes(SelfDamping)
	}
}

// NormalizeNodes multiplies every directly-held node's state by factor.
// Callers normally pass SelfDamping, matching the constant used by Adjust.
func (f *ReferenceFrame) NormalizeNodes(factor float64) {
	for _, n := range f.nodes {
		n.State *= factor
	}
	f.em.Emit(EventNormalize, f.id, "normalized %d node(s) by factor %.3f", len(f.nodes), factor)
}
