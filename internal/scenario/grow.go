package scenario

import (
	"fmt"

	"github.com/roach88/framegraph/internal/frame"
)

// grow executes one growth round. For each of step.Count iterations it
// creates:
//
//   - one new node (growth-node-N) with the step's initial state
//   - one new top-level frame (growth-frame-N) holding the new node, with
//     the new node as origin
//   - one new boundary (growth-boundary-N) enclosing only the new node,
//     owned by the new frame
//   - one new sub-frame (growth-sub-N) nested under the new frame, holding
//     a shared handle to the seed's second node
//   - one peer link from the first seed frame to the new frame
//
// N increases monotonically across rounds, so repeated growth never reuses
// an identifier. Requires at least two seed nodes (for the shared second
// node) and at least one seed frame (the link anchor).
func (r *runner) grow(step *GrowStep) error {
	if r.firstFrame == nil {
		return fmt.Errorf("grow: scenario has no seed frame to link from")
	}
	if r.secondNode == nil {
		return fmt.Errorf("grow: scenario needs at least two seed nodes")
	}

	for i := 0; i < step.Count; i++ {
		r.growthSeq++
		n := r.graph.NewNode(fmt.Sprintf("growth-node-%d", r.growthSeq), step.State)

		f := r.graph.NewFrame(fmt.Sprintf("growth-frame-%d", r.growthSeq), frame.WithOrigin(n))
		f.AddNode(n)

		b := r.graph.NewBoundary(fmt.Sprintf("growth-boundary-%d", r.growthSeq))
		b.AddNode(n)
		f.AddBoundary(b)

		sub := r.graph.NewFrame(fmt.Sprintf("growth-sub-%d", r.growthSeq))
		sub.AddNode(r.secondNode)
		r.graph.Nest(f, sub)

		r.firstFrame.LinkPeer(f)

		r.graph.Emitter().Emit(frame.EventGrow, f.ID(),
			"grown node %s, boundary %s, sub-frame %s", n.Label, b.ID(), sub.ID())
	}
	return nil
}
