// Package frame implements the framegraph core model: reference frames,
// distinction nodes, boundary loops, and the stability-maintenance protocol
// that ties them together.
//
// ARCHITECTURE:
//
// Single-Actor Mutation:
// All mutation is synchronous and in-place. There is exactly one logical
// actor driving the graph at a time - the package has no locking and no
// suspension points. This ensures:
// - Predictable adjustment ordering
// - Reproducible event traces on replay
// - Simple reasoning about causality
//
// Adjustment Flow:
// 1. Adjust() damps the frame's own scale/phase and normalizes its direct nodes
// 2. Adjust() recurses depth-first into every sub-frame
// 3. After its own subtree finishes, the frame propagates one hop to its peers
//
// Note: Each frame propagates to its own peers right after its own subtree
// completes, so a deeply nested frame's peer propagation runs before its
// ancestor's propagation. This ordering is an observable contract.
//
// Two edge kinds connect frames:
// - Nesting edges (AddSubFrame): owning tree edges carrying strong correction
//   authority (SelfDamping, applied recursively)
// - Peer links (LinkPeer): symmetric, non-owning edges carrying weak one-hop
//   nudges (PeerDamping, never recursive)
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// All events are stamped with a monotonic seq counter from Clock.Next().
// NEVER use wall-clock timestamps for event ordering.
//
// Injected Event Sink:
// The model never writes to stdout or a global logger. Every state-changing
// sub-step emits an Event through the sink supplied at construction; a nil
// sink discards. Output targets live in the driver/CLI layer only.
//
// Caller Obligations:
// Nesting edges must form a rooted tree (DAG per top-level frame). Acyclicity
// is NOT enforced; a nesting cycle would recurse until the depth guard trips
// (MaxNestingDepth), which truncates descent and emits a depth_limit event.
// Peer-link cycles are safe: propagation is exactly one hop and never
// re-enters Adjust.
package frame
