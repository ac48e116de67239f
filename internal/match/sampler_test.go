package match

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"lookalike/internal/catalog"
)

func testRoster(n int) []catalog.Character {
	chars := make([]catalog.Character, n)
	for i := range n {
		id := fmt.Sprintf("char-%02d", i)
		chars[i] = catalog.Character{ID: id, Name: "Character " + id, ImageRef: "/" + id + ".png"}
	}
	return chars
}

func TestSample_SubsetSize(t *testing.T) {
	s := NewSampler(8, rand.NewPCG(1, 2))
	picked := s.Sample(testRoster(20))

	if len(picked) != 8 {
		t.Fatalf("expected 8 candidates, got %d", len(picked))
	}
}

func TestSample_WithoutReplacement(t *testing.T) {
	s := NewSampler(8, rand.NewPCG(3, 4))
	picked := s.Sample(testRoster(20))

	seen := make(map[string]bool)
	for _, char := range picked {
		if seen[char.ID] {
			t.Errorf("character %s drawn twice", char.ID)
		}
		seen[char.ID] = true
	}
}

func TestSample_FullRosterWhenSizeZero(t *testing.T) {
	s := NewSampler(0, rand.NewPCG(5, 6))
	picked := s.Sample(testRoster(10))

	if len(picked) != 10 {
		t.Fatalf("expected full roster, got %d", len(picked))
	}
}

func TestSample_SizeLargerThanRoster(t *testing.T) {
	s := NewSampler(50, rand.NewPCG(7, 8))
	picked := s.Sample(testRoster(5))

	if len(picked) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(picked))
	}
}

func TestSample_DoesNotMutateInput(t *testing.T) {
	roster := testRoster(10)
	first := roster[0].ID

	NewSampler(3, rand.NewPCG(9, 10)).Sample(roster)

	if roster[0].ID != first {
		t.Error("sampling reordered the input slice")
	}
}

// Every character should be reachable across repeated draws; a sampler that
// always compared to the first N would leave the tail unseen.
func TestSample_NoOrderBias(t *testing.T) {
	roster := testRoster(16)
	s := NewSampler(4, rand.NewPCG(11, 12))

	seen := make(map[string]bool)
	for range 500 {
		for _, char := range s.Sample(roster) {
			seen[char.ID] = true
		}
	}

	if len(seen) != len(roster) {
		t.Errorf("only %d of %d characters ever sampled", len(seen), len(roster))
	}
}
