package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"lookalike/internal/config"
	"lookalike/internal/imaging"
	"lookalike/internal/match"
)

//go:embed prompts/compare_best.txt
var compareBestPrompt string

// GeminiModel is the Gemini model used for comparisons and trivia.
const GeminiModel = "gemini-2.5-flash"

// GeminiProvider is the single-best-mode comparison gateway and trivia
// backend. It asks the model to name exactly one chosen candidate instead
// of scoring each.
type GeminiProvider struct {
	client *genai.Client
	usageTracker
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, apiKey string, pricing config.ModelPricing) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		usageTracker: usageTracker{
			inputPrice:  pricing.Input,
			outputPrice: pricing.Output,
		},
	}, nil
}

func (p *GeminiProvider) Name() string {
	return GeminiModel
}

// bestResponse is the wire shape of a single-best comparison.
type bestResponse struct {
	CharacterID            string `json:"characterId"`
	CharacterName          string `json:"characterName"`
	ResemblanceExplanation string `json:"resemblanceExplanation"`
}

// Compare sends the subject and candidate images inline and parses the
// single chosen character. Correlation against the requested batch is the
// caller's job; here only the wire schema is enforced.
func (p *GeminiProvider) Compare(ctx context.Context, subject imaging.Payload, candidates []match.Candidate) (*match.Comparison, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no candidates provided")
	}

	parts := []*genai.Part{
		{Text: compareBestPrompt},
		{Text: "Subject photo:"},
		{InlineData: &genai.Blob{Data: subject.Data, MIMEType: subject.MediaType}},
	}
	for _, cand := range candidates {
		parts = append(parts,
			&genai.Part{Text: buildCandidateHeader(cand)},
			&genai.Part{InlineData: &genai.Blob{Data: cand.Image.Data, MIMEType: cand.Image.MediaType}},
		)
	}

	content, err := p.generate(ctx, parts)
	if err != nil {
		return nil, err
	}

	var parsed bestResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: unparseable single-best response: %v", match.ErrContractViolation, err)
	}

	return &match.Comparison{
		Mode: match.ModeSingleBest,
		Best: &match.BestPick{
			CharacterID:   parsed.CharacterID,
			CharacterName: parsed.CharacterName,
			Explanation:   parsed.ResemblanceExplanation,
		},
	}, nil
}

// LookupInfo fetches background information about the selected character.
func (p *GeminiProvider) LookupInfo(ctx context.Context, characterName string) (string, error) {
	parts := []*genai.Part{
		{Text: triviaPrompt},
		{Text: buildTriviaContent(characterName)},
	}

	content, err := p.generate(ctx, parts)
	if err != nil {
		return "", err
	}

	var parsed triviaResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", fmt.Errorf("unparseable trivia response: %w", err)
	}
	if parsed.CharacterInfo == "" {
		return "", errors.New("empty trivia response")
	}
	return parsed.CharacterInfo, nil
}

// generate runs one JSON-mode generation and returns the raw content.
func (p *GeminiProvider) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := p.client.Models.GenerateContent(ctx, GeminiModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if result.UsageMetadata != nil {
		p.track(int64(result.UsageMetadata.PromptTokenCount), int64(result.UsageMetadata.CandidatesTokenCount))
	}

	content := result.Text()
	if content == "" {
		return "", errors.New("no response from Gemini")
	}
	return content, nil
}
