package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust_LeafFrame(t *testing.T) {
	f := NewFrame(nil, "f-1", WithScale(1.0), WithPhaseOffset(0.5))
	n1 := NewNode("alpha", 0.0)
	n2 := NewNode("beta", 0.05)
	f.AddNode(n1)
	f.AddNode(n2)

	f.Adjust()

	assert.InDelta(t, 0.95, f.Scale(), 1e-9)
	assert.InDelta(t, 0.5+math.Pi/180, f.PhaseOffset(), 1e-9)
	assert.InDelta(t, 0.0, n1.State, 1e-9)
	assert.InDelta(t, 0.05*0.95, n2.State, 1e-9)
}

func TestAdjust_RecursesIntoSubFrames(t *testing.T) {
	em := NewEmitter(nil)
	parent := NewFrame(em, "parent")
	child := NewFrame(em, "child", WithScale(2.0))
	grandchild := NewFrame(em, "grandchild")
	parent.AddSubFrame(child)
	child.AddSubFrame(grandchild)

	childNode := NewNode("cn", 1.0)
	child.AddNode(childNode)

	parent.Adjust()

	assert.InDelta(t, 0.95, parent.Scale(), 1e-9)
	assert.InDelta(t, 2.0*0.95, child.Scale(), 1e-9)
	assert.InDelta(t, 0.95, grandchild.Scale(), 1e-9)
	assert.InDelta(t, 0.95, childNode.State, 1e-9)
}

func TestPropagate_NudgesPeersOneHop(t *testing.T) {
	em := NewEmitter(nil)
	acting := NewFrame(em, "acting", WithScale(1.0), WithPhaseOffset(0.25))
	peer := NewFrame(em, "peer", WithScale(1.0), WithPhaseOffset(0.5))
	peerSub := NewFrame(em, "peer-sub", WithScale(1.0))
	secondHop := NewFrame(em, "second-hop", WithScale(1.0))

	acting.LinkPeer(peer)
	peer.AddSubFrame(peerSub)
	peer.LinkPeer(secondHop)

	actingNode := NewNode("an", 1.0)
	peerNode := NewNode("pn", 1.0)
	acting.AddNode(actingNode)
	peer.AddNode(peerNode)

	acting.Propagate()

	// Peer got the weak nudge with opposite-sign phase shift.
	assert.InDelta(t, 0.98, peer.Scale(), 1e-9)
	assert.InDelta(t, 0.5-math.Pi/360, peer.PhaseOffset(), 1e-9)
	assert.InDelta(t, 0.95, peerNode.State, 1e-9)

	// Exactly one hop: neither the peer's sub-frame nor its own peer moved.
	assert.Equal(t, 1.0, peerSub.Scale())
	assert.Equal(t, 1.0, secondHop.Scale())

	// The acting frame itself is unchanged by propagation alone.
	assert.Equal(t, 1.0, acting.Scale())
	assert.Equal(t, 0.25, acting.PhaseOffset())
	assert.Equal(t, 1.0, actingNode.State)
}

func TestAdjust_PropagatesToPeersAfterSubtree(t *testing.T) {
	rec := NewRecorder()
	em := NewEmitter(rec)
	parent := NewFrame(em, "parent")
	child := NewFrame(em, "child")
	peer := NewFrame(em, "peer", WithScale(1.0))
	parent.AddSubFrame(child)
	parent.LinkPeer(peer)
	rec.Reset() // drop the link events

	parent.Adjust()

	assert.InDelta(t, 0.98, peer.Scale(), 1e-9)

	var kinds []string
	for _, ev := range rec.Events() {
		kinds = append(kinds, ev.Source+"/"+string(ev.Kind))
	}
	// Within one Adjust call: own parameters, own nodes, full subtree
	// (including the child's empty propagation), then own peers.
	assert.Equal(t, []string{
		"parent/adjust",
		"parent/normalize",
		"child/adjust",
		"child/normalize",
		"parent/propagate",
		"peer/propagate",
		"peer/normalize",
	}, kinds)
}

func TestAdjust_NestedFramePropagatesBeforeAncestor(t *testing.T) {
	rec := NewRecorder()
	em := NewEmitter(rec)
	parent := NewFrame(em, "parent")
	child := NewFrame(em, "child")
	childPeer := NewFrame(em, "child-peer")
	parentPeer := NewFrame(em, "parent-peer")

	parent.AddSubFrame(child)
	child.LinkPeer(childPeer)
	parent.LinkPeer(parentPeer)
	rec.Reset()

	parent.Adjust()

	childPropSeq := int64(-1)
	parentPropSeq := int64(-1)
	for _, ev := range rec.Events() {
		if ev.Kind != EventPropagate {
			continue
		}
		if ev.Source == "child" && childPropSeq < 0 {
			childPropSeq = ev.Seq
		}
		if ev.Source == "parent" && parentPropSeq < 0 {
			parentPropSeq = ev.Seq
		}
	}
	require.GreaterOrEqual(t, childPropSeq, int64(0))
	require.GreaterOrEqual(t, parentPropSeq, int64(0))
	assert.Less(t, childPropSeq, parentPropSeq,
		"a nested frame propagates to its peers before its ancestor's propagation runs")
}

func TestAdjust_PeerCycleDoesNotRecurse(t *testing.T) {
	em := NewEmitter(nil)
	a := NewFrame(em, "a")
	b := NewFrame(em, "b")
	a.LinkPeer(b)
	b.LinkPeer(a) // no-op; the edge is already symmetric

	// Propagation is one hop and never re-enters Adjust, so a peer cycle
	// terminates: each side is nudged exactly once.
	a.Adjust()

	assert.InDelta(t, 0.95, a.Scale(), 1e-9)
	assert.InDelta(t, 0.98, b.Scale(), 1e-9)
}

func TestAdjust_SelfLinkTerminates(t *testing.T) {
	f := NewFrame(nil, "f-1")
	f.LinkPeer(f)

	f.Adjust()

	// Self-adjust then one self-propagation hop.
	assert.InDelta(t, 0.95*0.98, f.Scale(), 1e-9)
}

func TestAdjust_DepthGuardTruncatesNestingCycle(t *testing.T) {
	rec := NewRecorder()
	f := NewFrame(NewEmitter(rec), "f-1")
	f.AddSubFrame(f) // caller error: nesting cycle

	f.Adjust() // must terminate

	var truncated bool
	for _, ev := range rec.Events() {
		if ev.Kind == EventDepthLimit {
			truncated = true
			assert.Equal(t, "f-1", ev.Source)
		}
	}
	assert.True(t, truncated, "depth guard should fire on a nesting cycle")
}

func TestNormalizeNodes_AppliesFactor(t *testing.T) {
	f := NewFrame(nil, "f-1")
	n := NewNode("alpha", 2.0)
	f.AddNode(n)

	f.NormalizeNodes(0.5)

	assert.InDelta(t, 1.0, n.State, 1e-9)
}

func TestAdjust_SharedNodeDampedOncePerHoldingFrame(t *testing.T) {
	em := NewEmitter(nil)
	parent := NewFrame(em, "parent")
	child := NewFrame(em, "child")
	parent.AddSubFrame(child)

	shared := NewNode("shared", 1.0)
	parent.AddNode(shared)
	child.AddNode(shared)

	parent.Adjust()

	// Both frames hold the same handle, so the state is damped twice.
	assert.InDelta(t, 0.95*0.95, shared.State, 1e-9)
}
