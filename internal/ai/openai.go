package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"lookalike/internal/config"
	"lookalike/internal/imaging"
	"lookalike/internal/match"
)

//go:embed prompts/compare_scored.txt
var compareScoredPrompt string

//go:embed prompts/trivia.txt
var triviaPrompt string

// OpenAIModel is the chat model used for comparisons and trivia.
const OpenAIModel = openai.ChatModelGPT4_1Mini

// OpenAIProvider is the scored-mode comparison gateway and trivia backend.
// It asks for one independent 0-100 resemblance score per candidate.
type OpenAIProvider struct {
	client *openai.Client
	usageTracker
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(apiKey string, pricing config.ModelPricing) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
		usageTracker: usageTracker{
			inputPrice:  pricing.Input,
			outputPrice: pricing.Output,
		},
	}
}

func (p *OpenAIProvider) Name() string {
	return OpenAIModel
}

// scoredResponse is the wire shape of a scored-mode comparison.
type scoredResponse struct {
	Results []struct {
		CharacterID            string  `json:"characterId"`
		ResemblanceScore       float64 `json:"resemblanceScore"`
		ResemblanceExplanation string  `json:"resemblanceExplanation"`
	} `json:"results"`
}

// triviaResponse is the wire shape of a trivia lookup.
type triviaResponse struct {
	CharacterInfo string `json:"characterInfo"`
}

// Compare sends the subject photo and all candidate images in one request
// and parses the per-candidate scores. A response that fails to parse is a
// contract violation; the call is never retried here.
func (p *OpenAIProvider) Compare(ctx context.Context, subject imaging.Payload, candidates []match.Candidate) (*match.Comparison, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no candidates provided")
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart("Subject photo:"),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    subject.DataURI(),
			Detail: "low",
		}),
	}
	for _, cand := range candidates {
		parts = append(parts,
			openai.TextContentPart(buildCandidateHeader(cand)),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    cand.Image.DataURI(),
				Detail: "low",
			}),
		)
	}

	content, err := p.complete(ctx, compareScoredPrompt, parts, 200+200*len(candidates))
	if err != nil {
		return nil, err
	}

	var parsed scoredResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: unparseable scored response: %v", match.ErrContractViolation, err)
	}

	comp := &match.Comparison{Mode: match.ModeScored}
	for _, r := range parsed.Results {
		comp.Results = append(comp.Results, match.ScoredResult{
			CharacterID: r.CharacterID,
			Score:       r.ResemblanceScore,
			Explanation: r.ResemblanceExplanation,
		})
	}
	return comp, nil
}

// LookupInfo fetches background information about the selected character.
func (p *OpenAIProvider) LookupInfo(ctx context.Context, characterName string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(buildTriviaContent(characterName)),
	}

	content, err := p.complete(ctx, triviaPrompt, parts, 1200)
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

// complete runs one JSON-mode chat completion and returns the raw content.
func (p *OpenAIProvider) complete(ctx context.Context, systemPrompt string, parts []openai.ChatCompletionContentPartUnionParam, maxTokens int) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: OpenAIModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		p.track(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return resp.Choices[0].Message.Content, nil
}
