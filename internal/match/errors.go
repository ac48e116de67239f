package match

import "errors"

// Pipeline failure taxonomy. Candidate-level materialization failures are
// absorbed by the configured policy and never reach these; everything here
// fails the whole run.
var (
	// ErrNoCandidates means no candidate survived sampling and
	// materialization, so there was nothing to compare.
	ErrNoCandidates = errors.New("no candidates available for comparison")

	// ErrComparisonFailed covers network, timeout, and model errors from the
	// comparison gateway. Surfaced as a user-visible "try again" condition;
	// never retried by the pipeline itself.
	ErrComparisonFailed = errors.New("comparison gateway failed")

	// ErrContractViolation means the gateway response failed schema
	// validation. Treated like ErrComparisonFailed for user messaging but
	// logged distinctly, since it indicates a contract mismatch rather than
	// transient unavailability.
	ErrContractViolation = errors.New("comparison response violates contract")

	// ErrCorrelationEmpty means every returned result was dropped during
	// correlation. This is a failed run, never "zero resemblance".
	ErrCorrelationEmpty = errors.New("no comparison result matched a requested candidate")
)
