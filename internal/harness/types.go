package harness

import "github.com/roach88/graphdsl/internal/queryir"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Program is the compiled program; empty if the compile faulted.
	Program queryir.Program `json:"program"`

	// Builder is the builder-text rendering of Program, if non-empty.
	Builder string `json:"builder,omitempty"`

	// Fault is the compile fault, if any.
	Fault string `json:"fault,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
