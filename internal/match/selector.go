package match

import (
	"math/rand/v2"
	"sort"
)

// DefaultTopK bounds the pool the final answer is drawn from.
const DefaultTopK = 5

// Selector picks the final answer from correlated matches: sort descending
// by score, cut to the top K, choose uniformly at random within the cut.
// The random draw keeps repeated runs on the same photo from always
// surfacing the single nominal best match; ties need no secondary sort key
// because the draw already breaks them.
type Selector struct {
	topK int
	rng  *rand.Rand
}

// NewSelector creates a selector drawing from the top topK matches.
// topK <= 0 uses DefaultTopK. A nil source uses the shared global one.
func NewSelector(topK int, src rand.Source) *Selector {
	if topK <= 0 {
		topK = DefaultTopK
	}
	s := &Selector{topK: topK}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// Select returns the final match. An empty input is a hard failure; it is
// never defaulted to a selection.
func (s *Selector) Select(matches []RankedMatch) (RankedMatch, error) {
	if len(matches) == 0 {
		return RankedMatch{}, ErrCorrelationEmpty
	}

	ranked := make([]RankedMatch, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	k := min(s.topK, len(ranked))
	return ranked[s.intN(k)], nil
}

func (s *Selector) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}
