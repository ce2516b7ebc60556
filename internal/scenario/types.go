package scenario

import "github.com/roach88/framegraph/internal/frame"

// CheckResult records the boolean outcome of one check round.
type CheckResult struct {
	// Round is the zero-based index of the round that ran the check.
	Round int `json:"round"`

	// Kind is "stability", "divergence", or "coherence".
	Kind string `json:"kind"`

	// OK is the check's verdict: true means stable / not diverged /
	// coherent.
	OK bool `json:"ok"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// RunToken correlates this execution in the trace store.
	RunToken string `json:"run_token"`

	// Trace contains every model event in emission order.
	Trace []frame.Event `json:"trace"`

	// Checks records check-round outcomes in execution order.
	Checks []CheckResult `json:"checks,omitempty"`

	// Errors contains assertion failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary renders the final state of every node, frame, and boundary
	// in registration order.
	Summary []string `json:"summary"`
}

// NewResult creates a passing result to accumulate into.
func NewResult(runToken string) *Result {
	return &Result{
		Pass:     true,
		RunToken: runToken,
		Trace:    []frame.Event{},
		Summary:  []string{},
	}
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// AddCheck records a check round outcome.
func (r *Result) AddCheck(round int, kind string, ok bool) {
	r.Checks = append(r.Checks, CheckResult{Round: round, Kind: kind, OK: ok})
}
