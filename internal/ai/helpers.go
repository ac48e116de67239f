package ai

import (
	"fmt"
	"strings"

	"lookalike/internal/match"
)

// buildCandidateHeader describes one candidate in the prompt. The image
// itself is attached separately as a media part right after this block.
func buildCandidateHeader(c match.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate characterId: %s\n", c.Character.ID)
	fmt.Fprintf(&b, "Name: %s\n", c.Character.Name)
	if c.Character.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Character.Description)
	}
	b.WriteString("Image:")
	return b.String()
}

// buildTriviaContent builds the user message for a trivia lookup.
func buildTriviaContent(characterName string) string {
	return fmt.Sprintf("The character's name is %s.", characterName)
}
