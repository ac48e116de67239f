// Package catalog holds the character roster the matcher compares photos
// against. The roster is loaded exactly once at startup, validated, and
// never mutated afterwards, so it can be shared across requests without
// locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
)

//go:embed characters.json
var defaultRosterJSON []byte

// Character is a single roster entry. Instances are immutable after load.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ImageRef is a location string for the character art: either a path
	// relative to the asset directory or an http(s) URL. The JSON field name
	// is kept from the roster file format.
	ImageRef string `json:"imageDataUri"`
}

// Catalog is the validated, ordered character roster.
type Catalog struct {
	characters []Character
	byID       map[string]Character
}

// Load reads and validates a roster. With an empty path the bundled roster
// is used; otherwise path must point to a roster JSON file. Any malformed
// entry fails the whole load - there is no partial catalog.
func Load(path string) (*Catalog, error) {
	data := defaultRosterJSON
	if path != "" {
		var err error
		data, err = os.ReadFile(path) //nolint:gosec // path comes from operator config
		if err != nil {
			return nil, fmt.Errorf("could not read catalog file %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse builds a Catalog from roster JSON.
func Parse(data []byte) (*Catalog, error) {
	var characters []Character
	if err := json.Unmarshal(data, &characters); err != nil {
		return nil, fmt.Errorf("could not parse catalog JSON: %w", err)
	}
	if len(characters) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	byID := make(map[string]Character, len(characters))
	for i, char := range characters {
		if char.ID == "" {
			return nil, fmt.Errorf("catalog entry %d (%q) has no id", i, char.Name)
		}
		if char.Name == "" {
			return nil, fmt.Errorf("catalog entry %d (id %s) has no name", i, char.ID)
		}
		if char.ImageRef == "" {
			return nil, fmt.Errorf("catalog entry %d (id %s) has no image reference", i, char.ID)
		}
		if _, exists := byID[char.ID]; exists {
			return nil, fmt.Errorf("duplicate character id %q in catalog", char.ID)
		}

		// Normalize names to NFC so the exact-name correlation fallback
		// compares canonically equivalent strings byte for byte.
		char.Name = norm.NFC.String(char.Name)
		characters[i] = char
		byID[char.ID] = char
	}

	return &Catalog{characters: characters, byID: byID}, nil
}

// All returns the roster in source order. The returned slice is a copy.
func (c *Catalog) All() []Character {
	out := make([]Character, len(c.characters))
	copy(out, c.characters)
	return out
}

// ByID looks up a character by its stable identifier.
func (c *Catalog) ByID(id string) (Character, bool) {
	char, ok := c.byID[id]
	return char, ok
}

// Len returns the number of characters in the roster.
func (c *Catalog) Len() int {
	return len(c.characters)
}
