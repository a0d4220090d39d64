package domain

// LoadOutcome classifies a content load.
type LoadOutcome string

const (
	// OutcomeSuccess: all three collection reads succeeded.
	OutcomeSuccess LoadOutcome = "success"
	// OutcomePartial: at least one read errored; the snapshot was completed
	// from the default bundle. Empty reads are not failures: their defaults
	// are substituted silently under OutcomeSuccess.
	OutcomePartial LoadOutcome = "partial_failure"
	// OutcomeTotalFailure: the repository itself was unavailable; the whole
	// snapshot is the default bundle.
	OutcomeTotalFailure LoadOutcome = "total_failure"
)

// LoadResult describes how a snapshot was assembled. Failures lists
// per-collection error messages for the advisory surface.
type LoadResult struct {
	Outcome  LoadOutcome       `json:"outcome"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (r *LoadResult) String() string {
	return string(r.Outcome)
}
