package match

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// CorrelationStats describes what correlation had to discard or tolerate.
type CorrelationStats struct {
	// Dropped counts response entries discarded for carrying an unknown or
	// duplicate identifier.
	Dropped int
	// NameFallback is set when a single-best response had to be matched by
	// display name instead of id. Display names are not guaranteed unique,
	// so this path is logged as unsafe by the engine.
	NameFallback bool
}

// Correlate reconciles a gateway response against the request's candidate
// set. Entries that cannot be traced back to a requested candidate are
// dropped and counted, never defaulted. An empty survivor set fails the
// whole run with ErrCorrelationEmpty.
func Correlate(requested []Candidate, comp *Comparison) ([]RankedMatch, CorrelationStats, error) {
	index := make(map[string]Candidate, len(requested))
	for _, cand := range requested {
		index[cand.ID()] = cand
	}

	var stats CorrelationStats
	var matches []RankedMatch

	switch comp.Mode {
	case ModeScored:
		seen := make(map[string]bool, len(comp.Results))
		for _, result := range comp.Results {
			cand, known := index[result.CharacterID]
			if !known || seen[result.CharacterID] {
				stats.Dropped++
				continue
			}
			seen[result.CharacterID] = true
			matches = append(matches, RankedMatch{
				Character:   cand.Character,
				Score:       result.Score,
				Explanation: result.Explanation,
				Degraded:    cand.Image.Degraded,
			})
		}

	case ModeSingleBest:
		cand, found := correlateBest(index, requested, comp.Best, &stats)
		if found {
			matches = append(matches, RankedMatch{
				Character:   cand.Character,
				Explanation: comp.Best.Explanation,
				Degraded:    cand.Image.Degraded,
			})
		}

	case ModeRankedUnscored:
		seen := make(map[string]bool, len(comp.Ranking))
		for pos, id := range comp.Ranking {
			cand, known := index[id]
			if !known || seen[id] {
				stats.Dropped++
				continue
			}
			seen[id] = true
			// Position becomes a synthetic ordering key for the selector;
			// it is not a resemblance score and is never surfaced as one.
			matches = append(matches, RankedMatch{
				Character: cand.Character,
				Score:     float64(len(comp.Ranking) - pos),
				Degraded:  cand.Image.Degraded,
			})
		}

	default:
		return nil, stats, fmt.Errorf("%w: unknown response mode %q", ErrContractViolation, comp.Mode)
	}

	if len(matches) == 0 {
		return nil, stats, fmt.Errorf("%w: %d entries dropped", ErrCorrelationEmpty, stats.Dropped)
	}
	return matches, stats, nil
}

// correlateBest resolves a single-best pick, by id when present, otherwise
// by exact (NFC-canonical) name match against the sampled batch. Never
// fuzzy: a name the batch does not contain verbatim stays unresolved.
func correlateBest(index map[string]Candidate, requested []Candidate, best *BestPick, stats *CorrelationStats) (Candidate, bool) {
	if best.CharacterID != "" {
		if cand, ok := index[best.CharacterID]; ok {
			return cand, true
		}
		stats.Dropped++
		return Candidate{}, false
	}

	stats.NameFallback = true
	want := norm.NFC.String(best.CharacterName)
	for _, cand := range requested {
		if cand.Character.Name == want {
			return cand, true
		}
	}
	stats.Dropped++
	return Candidate{}, false
}
