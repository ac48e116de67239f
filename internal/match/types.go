// Package match implements the resemblance matching pipeline: sampling the
// character roster, materializing candidate images, invoking the comparison
// gateway, correlating its response back to known characters, and selecting
// a final answer.
package match

import (
	"context"
	"fmt"

	"lookalike/internal/catalog"
	"lookalike/internal/imaging"
)

// Candidate is one character submitted for comparison in a single request.
// It is built fresh per request and never shared across requests.
type Candidate struct {
	Character catalog.Character
	Image     imaging.Payload
}

// ID returns the candidate's stable correlation key.
func (c Candidate) ID() string {
	return c.Character.ID
}

// Mode identifies the response shape a comparison gateway produces.
type Mode string

const (
	// ModeScored carries an independent 0-100 resemblance score per candidate.
	ModeScored Mode = "scored"
	// ModeSingleBest carries exactly one chosen character and an explanation,
	// with no scores for the rest.
	ModeSingleBest Mode = "single_best"
	// ModeRankedUnscored carries candidate ids ordered best-first without
	// numeric scores.
	ModeRankedUnscored Mode = "ranked_unscored"
)

// ScoredResult is one per-candidate entry in a scored-mode response.
type ScoredResult struct {
	CharacterID string
	Score       float64
	Explanation string
}

// BestPick is the single answer of a single-best-mode response. CharacterID
// is preferred for correlation; CharacterName is the compatibility fallback
// for response shapes that omit identifiers.
type BestPick struct {
	CharacterID   string
	CharacterName string
	Explanation   string
}

// Comparison is the tagged union of the supported gateway response shapes.
// Exactly the field matching Mode is populated.
type Comparison struct {
	Mode    Mode
	Results []ScoredResult
	Best    *BestPick
	Ranking []string
}

// Validate enforces the response contract ahead of correlation. Violations
// indicate a capability/contract mismatch, not transient unavailability.
func (c *Comparison) Validate() error {
	switch c.Mode {
	case ModeScored:
		if len(c.Results) == 0 {
			return fmt.Errorf("%w: scored response carries no results", ErrContractViolation)
		}
		for _, r := range c.Results {
			if r.CharacterID == "" {
				return fmt.Errorf("%w: scored result is missing a character id", ErrContractViolation)
			}
			if r.Score < 0 || r.Score > 100 {
				return fmt.Errorf("%w: resemblance score %v outside [0,100] for %s",
					ErrContractViolation, r.Score, r.CharacterID)
			}
		}
	case ModeSingleBest:
		if c.Best == nil {
			return fmt.Errorf("%w: single-best response carries no pick", ErrContractViolation)
		}
		if c.Best.CharacterID == "" && c.Best.CharacterName == "" {
			return fmt.Errorf("%w: single-best pick has neither id nor name", ErrContractViolation)
		}
	case ModeRankedUnscored:
		if len(c.Ranking) == 0 {
			return fmt.Errorf("%w: ranked response carries no entries", ErrContractViolation)
		}
	default:
		return fmt.Errorf("%w: unknown response mode %q", ErrContractViolation, c.Mode)
	}
	return nil
}

// RankedMatch joins a character with the resemblance information the
// gateway returned for it. Score is meaningful only in scored mode; the
// other modes use it purely as an internal ordering key.
type RankedMatch struct {
	Character   catalog.Character
	Score       float64
	Explanation string
	Degraded    bool
}

// Selection is the single final answer exposed to the presentation layer.
type Selection struct {
	// RunID is the request-generation token; stale responses from an
	// abandoned run are discarded by comparing it.
	RunID       string
	Character   catalog.Character
	Mode        Mode
	Score       float64
	Explanation string
	Trivia      string
	// Degraded marks selections whose candidate art was placeholder-backed.
	Degraded bool
}

// Comparer is the contract boundary to the external visual-comparison
// capability. Implementations declare their response shape via the
// Comparison's Mode.
type Comparer interface {
	Name() string
	Compare(ctx context.Context, subject imaging.Payload, candidates []Candidate) (*Comparison, error)
}

// TriviaFinder is the secondary text-generation boundary, invoked only
// after a final character is selected.
type TriviaFinder interface {
	LookupInfo(ctx context.Context, characterName string) (string, error)
}

// Materializer resolves a character's image reference into an embeddable
// payload. Satisfied by imaging.Materializer.
type Materializer interface {
	Materialize(ctx context.Context, ref string) (imaging.Payload, error)
}
