// Package scenario is the scripted driver for the frame model.
//
// A scenario seeds a frame graph, runs a sequence of rounds against it, and
// validates the resulting event trace and final state. The model itself
// never decides how many nodes to add or when to perturb - that is entirely
// the scenario's job.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario exercises"
//	seed:
//	  nodes:
//	    - { label: alpha, state: 0.0 }
//	    - { label: beta, state: 0.05 }
//	  frames:
//	    - { id: frame-1, scale: 1.0, phase_offset: 1.9416, origin: alpha, nodes: [alpha, beta] }
//	  boundaries:
//	    - { id: loop-1, frame: frame-1, nodes: [alpha, beta] }
//	  links:
//	    - [frame-1, frame-2]
//	  nesting:
//	    - [frame-1, frame-1a]
//	rounds:
//	  - grow: { count: 2 }
//	  - perturb: { boundary: loop-1, amount: 0.40 }
//	  - seal: { boundary: loop-1 }
//	  - auto_reseal: { boundary: loop-1 }
//	  - adjust: { frame: frame-1 }
//	  - check_stability: { threshold: 1.5 }
//	  - check_divergence: {}
//	  - check_coherence: {}
//	assertions:
//	  - { type: coherence, boundary: loop-1, value: 1.0 }
//	  - { type: sealed, boundary: loop-1, sealed: true }
//	  - { type: node_state, node: beta, value: 0.0475 }
//	  - { type: frame_count, count: 3 }
//	  - { type: trace_contains, kind: seal, source: loop-1 }
//
// # Assertion Types
//
//   - node_state / frame_scale / frame_phase / coherence: compare a float
//     field against value (tolerance 1e-9)
//   - sealed: compare a boundary's sealed flag
//   - node_count / frame_count / boundary_count: compare registry sizes
//   - peer_count / sub_count: compare a frame's edge counts
//   - trace_contains: an event of the given kind (and source, if set) exists
//   - trace_count: events of the given kind appear exactly count times
//
// # Growth
//
// A grow round with count k creates k new nodes, k new frames, k new
// boundaries (one per new frame, enclosing only that frame's new node),
// k new sub-frames (each holding a shared handle to the seed's second node),
// and k peer links from the first seed frame to each new frame. Grown ids
// are deterministic (growth-node-N, growth-frame-N, growth-boundary-N,
// growth-sub-N) with N increasing across rounds.
//
// # Deterministic Execution
//
// Every run gets a fresh graph, a fresh logical clock, and an in-memory
// event recorder, so the same scenario always produces the same trace. Run
// tokens are UUIDv7 in production and fixed strings in tests, which keeps
// golden snapshot comparison byte-stable.
package scenario
