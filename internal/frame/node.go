package frame

import "fmt"

// DistinctionNode is the atomic entity of the model: a labeled scalar state.
//
// Nodes are created once by the driver and never destroyed. A node may be
// referenced by multiple frames and multiple boundaries at the same time -
// references are shared handles, never copies, so a mutation through one
// handle is visible through all. Lifetime is scenario-scoped, not
// frame-scoped.
//
// Label uniqueness within a scenario is a driver convention, not enforced.
type DistinctionNode struct {
	Label string
	State float64
}

// NewNode creates a distinction node with the given label and initial state.
func NewNode(label string, state float64) *DistinctionNode {
	return &DistinctionNode{Label: label, State: state}
}

// String renders the node with its state rounded to 3 decimals.
func (n *DistinctionNode) String() string {
	return fmt.Sprintf("%s(state=%.3f)", n.Label, n.State)
}
