package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame_Defaults(t *testing.T) {
	f := NewFrame(nil, "f-1")

	assert.Equal(t, "f-1", f.ID())
	assert.Equal(t, 1.0, f.Scale())
	assert.Equal(t, 0.0, f.PhaseOffset())
	assert.Nil(t, f.Origin())
	assert.Empty(t, f.Nodes())
	assert.Empty(t, f.Boundaries())
	assert.Empty(t, f.Peers())
	assert.Empty(t, f.SubFrames())
}

func TestNewFrame_Options(t *testing.T) {
	origin := NewNode("origin", 0.1)
	f := NewFrame(nil, "f-1",
		WithScale(2.5),
		WithPhaseOffset(1.25),
		WithOrigin(origin),
	)

	assert.Equal(t, 2.5, f.Scale())
	assert.Equal(t, 1.25, f.PhaseOffset())
	assert.Same(t, origin, f.Origin())
}

func TestFrame_AddNode_NoDedup(t *testing.T) {
	f := NewFrame(nil, "f-1")
	n := NewNode("alpha", 0.5)

	f.AddNode(n)
	f.AddNode(n)

	require.Len(t, f.Nodes(), 2)
	assert.Same(t, f.Nodes()[0], f.Nodes()[1], "references are shared handles, not copies")
}

func TestFrame_LinkPeer_IsSymmetric(t *testing.T) {
	a := NewFrame(nil, "a")
	b := NewFrame(nil, "b")

	a.LinkPeer(b)

	require.Len(t, a.Peers(), 1)
	require.Len(t, b.Peers(), 1)
	assert.Same(t, b, a.Peers()[0])
	assert.Same(t, a, b.Peers()[0])
}

func TestFrame_LinkPeer_IsIdempotent(t *testing.T) {
	em := NewEmitter(NewRecorder())
	a := NewFrame(em, "a")
	b := NewFrame(em, "b")

	a.LinkPeer(b)
	a.LinkPeer(b)
	b.LinkPeer(a) // reverse direction is also a no-op

	assert.Len(t, a.Peers(), 1, "re-linking must not grow the peer set")
	assert.Len(t, b.Peers(), 1)
}

func TestFrame_LinkPeer_EmitsOneEventPerSide(t *testing.T) {
	rec := NewRecorder()
	em := NewEmitter(rec)
	a := NewFrame(em, "a")
	b := NewFrame(em, "b")

	a.LinkPeer(b)
	a.LinkPeer(b) // idempotent: no duplicate events

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventLink, events[0].Kind)
	assert.Equal(t, "a", events[0].Source)
	assert.Equal(t, EventLink, events[1].Kind)
	assert.Equal(t, "b", events[1].Source)
}

func TestFrame_LinkPeer_SelfLinkTolerated(t *testing.T) {
	f := NewFrame(nil, "f-1")

	f.LinkPeer(f)
	f.LinkPeer(f)

	require.Len(t, f.Peers(), 1)
	assert.Same(t, f, f.Peers()[0])
}

func TestFrame_AddSubFrame_AppendOnly(t *testing.T) {
	parent := NewFrame(nil, "parent")
	child := NewFrame(nil, "child")

	parent.AddSubFrame(child)
	parent.AddSubFrame(child)

	assert.Len(t, parent.SubFrames(), 2, "no dedup and no cycle check on nesting edges")
}

func TestFrame_String(t *testing.T) {
	f := NewFrame(nil, "f-1", WithScale(1.5), WithPhaseOffset(0.5))
	f.AddNode(NewNode("alpha", 0.1))
	f.AddNode(NewNode("beta", 0.2))
	f.AddBoundary(NewBoundary(nil, "b-1"))

	assert.Equal(t, "frame f-1: scale=1.500 phase=0.500 nodes=2 boundaries=1 peers=0 subs=0", f.String())
}

func TestNode_String(t *testing.T) {
	n := NewNode("alpha", 0.04750001)
	assert.Equal(t, "alpha(state=0.048)", n.String())
}
