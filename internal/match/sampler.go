package match

import (
	"math/rand/v2"

	"lookalike/internal/catalog"
)

// Sampler draws the subset of the roster sent to the comparison gateway in
// one request. A bounded uniform sample keeps payload size and latency in
// check and varies results across repeated uses by the same subject.
type Sampler struct {
	size int
	rng  *rand.Rand
}

// NewSampler creates a sampler drawing size characters without replacement.
// size <= 0 sends the full roster. A nil source uses the shared global one.
func NewSampler(size int, src rand.Source) *Sampler {
	s := &Sampler{size: size}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// Sample returns a uniformly-random subset in random order. The input slice
// is never modified; the draw carries no bias toward roster order.
func (s *Sampler) Sample(characters []catalog.Character) []catalog.Character {
	picked := make([]catalog.Character, len(characters))
	copy(picked, characters)

	shuffle := rand.Shuffle
	if s.rng != nil {
		shuffle = s.rng.Shuffle
	}
	shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	if s.size > 0 && s.size < len(picked) {
		picked = picked[:s.size]
	}
	return picked
}
