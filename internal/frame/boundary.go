package frame

import "fmt"

// CoherenceThreshold gates a boundary's sealed status. A perturbation that
// drives coherence strictly below this value unseals the boundary.
const CoherenceThreshold = 0.618

// SealedCoherence is the coherence value restored by Seal.
const SealedCoherence = 1.0

// BoundaryLoop is a closure over a set of nodes carrying a coherence scalar
// and a sealed/unsealed status.
//
// State machine: {SEALED, UNSEALED}, initial SEALED.
//   - SEALED → UNSEALED only via Perturb driving coherence below
//     CoherenceThreshold (strict <).
//   - UNSEALED → SEALED only via Seal (unconditional reset) or AutoReseal
//     (conditional on coherence having already recovered).
//
// The relationship between coherence and sealed is deliberately asymmetric:
// coherence can rise back above the threshold without the flag flipping.
// Nothing re-derives sealed from coherence implicitly - AutoReseal is the
// only recovery path short of a hard Seal. Callers must not "fix" this by
// treating sealed as a function of coherence.
type BoundaryLoop struct {
	id        string
	nodes     []*DistinctionNode
	coherence float64
	sealed    bool
	em        *Emitter
}

// NewBoundary creates a sealed boundary with coherence 1.0.
// A nil emitter discards events.
func NewBoundary(em *Emitter, id string) *BoundaryLoop {
	if em == nil {
		em = NewEmitter(nil)
	}
	return &BoundaryLoop{
		id:        id,
		coherence: SealedCoherence,
		sealed:    true,
		em:        em,
	}
}

// ID returns the boundary identifier.
func (b *BoundaryLoop) ID() string { return b.id }

// Coherence returns the current coherence value. There is no lower bound;
// repeated perturbation can drive it negative.
func (b *BoundaryLoop) Coherence() float64 { return b.coherence }

// Sealed reports the sealed flag.
func (b *BoundaryLoop) Sealed() bool { return b.sealed }

// NodeCount returns the number of enclosed node references.
func (b *BoundaryLoop) NodeCount() int { return len(b.nodes) }

// Nodes returns the enclosed node handles in insertion order.
// The returned slice is the boundary's own backing store; treat as read-only.
func (b *BoundaryLoop) Nodes() []*DistinctionNode { return b.nodes }

// AddNode appends a node reference to the enclosed set.
// No duplicate check - enclosing the same node twice is tolerated.
func (b *BoundaryLoop) AddNode(n *DistinctionNode) {
	b.nodes = append(b.nodes, n)
}

// Perturb reduces coherence by amount. If the resulting coherence falls
// strictly below CoherenceThreshold, the boundary unseals. Amounts are
// caller-controlled and not validated; negative amounts raise coherence but
// never re-seal (see AutoReseal).
func (b *BoundaryLoop) Perturb(amount float64) {
	b.coherence -= amount
	b.em.Emit(EventPerturb, b.id, "perturbed by %.3f, coherence now %.3f", amount, b.coherence)
	if b.coherence < CoherenceThreshold {
		b.sealed = false
		b.em.Emit(EventUnseal, b.id, "coherence %.3f below threshold %.3f, boundary unsealed", b.coherence, CoherenceThreshold)
	}
}

// Seal unconditionally resets coherence to 1.0 and marks the boundary
// sealed, regardless of current state. This is a hard reset, not a gradual
// repair. Idempotent and total.
func (b *BoundaryLoop) Seal() {
	b.coherence = SealedCoherence
	b.sealed = true
	b.em.Emit(EventSeal, b.id, "boundary sealed, coherence reset to %.3f", b.coherence)
}

// AutoReseal re-seals the boundary only when it is unsealed AND coherence
// has already recovered to at least CoherenceThreshold. Returns true if it
// sealed; otherwise it changes nothing and returns false.
//
// This is the only path by which coherence recovery re-flips sealed without
// an explicit Seal.
func (b *BoundaryLoop) AutoReseal() bool {
	if !b.sealed && b.coherence >= CoherenceThreshold {
		b.em.Emit(EventAutoReseal, b.id, "coherence %.3f recovered, auto-resealing", b.coherence)
		b.Seal()
		return true
	}
	return false
}

// String renders the boundary: id, coherence to 3 decimals, sealed flag,
// enclosed node count.
func (b *BoundaryLoop) String() string {
	return fmt.Sprintf("boundary %s: coherence=%.3f sealed=%t nodes=%d", b.id, b.coherence, b.sealed, len(b.nodes))
}
