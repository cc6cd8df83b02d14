package harness

import "github.com/roach88/tillbook/internal/report"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the replay outcome and all assertions matched.
	Pass bool `json:"pass"`

	// Ledger is the complete ledger file written by the scenario.
	Ledger string `json:"ledger"`

	// Trace holds the replayed visitor callbacks in order. A failed replay
	// keeps the events delivered before the failure.
	Trace []report.TraceEvent `json:"trace"`

	// ReplayError is the error code of a failed replay, empty on success.
	ReplayError string `json:"replay_error,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []report.TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Kinds returns the kind of every trace event, in order.
func (r *Result) Kinds() []string {
	kinds := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		kinds[i] = e.Kind
	}
	return kinds
}
