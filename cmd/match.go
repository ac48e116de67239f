package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lookalike/internal/config"
	"lookalike/internal/imaging"
)

var matchCmd = &cobra.Command{
	Use:   "match <photo>",
	Short: "Match a photo against the character roster",
	Long: `Match a photo against the character roster.

This command:
1. Samples a subset of the roster and materializes the character art
2. Sends the photo and candidates to the configured AI model
3. Prints the selected character with the resemblance explanation

Examples:
  # Match a photo
  lookalike match me.jpg

  # Output as JSON
  lookalike match me.jpg --json

  # Use Gemini instead of OpenAI
  MATCH_PROVIDER=gemini lookalike match me.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Bool("json", false, "Output as JSON")
}

// matchOutput is the JSON output structure.
type matchOutput struct {
	RunID         string  `json:"run_id"`
	CharacterID   string  `json:"character_id"`
	CharacterName string  `json:"character_name"`
	Mode          string  `json:"mode"`
	Score         float64 `json:"score,omitempty"`
	Explanation   string  `json:"explanation,omitempty"`
	Trivia        string  `json:"trivia,omitempty"`
	DegradedImage bool    `json:"degraded_image,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := newLogger()
	outputJSON := mustGetBool(cmd, "json")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	subject, err := imaging.FromBytes(data, cfg.Match.MaxImageEdge)
	if err != nil {
		return fmt.Errorf("decoding photo: %w", err)
	}

	engine, _, prov, err := buildEngine(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	selection, err := engine.Run(cmd.Context(), subject)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if outputJSON {
		out := matchOutput{
			RunID:         selection.RunID,
			CharacterID:   selection.Character.ID,
			CharacterName: selection.Character.Name,
			Mode:          string(selection.Mode),
			Score:         selection.Score,
			Explanation:   selection.Explanation,
			Trivia:        selection.Trivia,
			DegradedImage: selection.Degraded,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Printf("You look like: %s\n", selection.Character.Name)
	if selection.Score > 0 {
		fmt.Printf("  Resemblance: %.0f/100\n", selection.Score)
	}
	if selection.Explanation != "" {
		fmt.Printf("  Why: %s\n", selection.Explanation)
	}
	if selection.Degraded {
		fmt.Println("  (matched against placeholder art)")
	}
	if selection.Trivia != "" {
		fmt.Printf("\n%s\n", selection.Trivia)
	}

	// Print usage and cost
	usage := prov.GetUsage()
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		fmt.Println("\nUsage:")
		fmt.Printf("  Input tokens: %d\n", usage.InputTokens)
		fmt.Printf("  Output tokens: %d\n", usage.OutputTokens)
		fmt.Printf("  Total cost: $%.4f\n", usage.TotalCost)
	}
	return nil
}
