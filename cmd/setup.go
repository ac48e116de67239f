package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"lookalike/internal/ai"
	"lookalike/internal/catalog"
	"lookalike/internal/config"
	"lookalike/internal/imaging"
	"lookalike/internal/match"
)

// provider is a comparison gateway that also answers trivia lookups and
// reports token usage.
type provider interface {
	match.Comparer
	match.TriviaFinder
	GetUsage() *ai.Usage
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildProvider selects the comparison backend. OpenAI runs in scored
// mode, Gemini in single-best mode. Defaults to OpenAI.
func buildProvider(ctx context.Context, cfg *config.Config) (provider, error) {
	switch cfg.Match.Provider {
	case "", "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		return ai.NewOpenAIProvider(cfg.OpenAI.Token, cfg.GetModelPricing(ai.OpenAIModel)), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		return ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.GetModelPricing(ai.GeminiModel))
	default:
		return nil, fmt.Errorf("unknown match provider %q (use openai or gemini)", cfg.Match.Provider)
	}
}

func buildMaterializer(cfg *config.Config, log *slog.Logger) (*imaging.Materializer, error) {
	policy, err := imaging.ParsePolicy(cfg.Catalog.ImagePolicy)
	if err != nil {
		return nil, err
	}
	return imaging.NewMaterializer(policy, cfg.Catalog.AssetDir, cfg.Match.MaxImageEdge, log), nil
}

// buildEngine wires the full pipeline from configuration. The catalog
// load is fail-closed: a broken roster aborts instead of serving a
// partial one.
func buildEngine(ctx context.Context, cfg *config.Config, log *slog.Logger) (*match.Engine, *catalog.Catalog, provider, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading character catalog: %w", err)
	}

	materializer, err := buildMaterializer(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	prov, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var trivia match.TriviaFinder
	if !cfg.Match.TriviaDisabled {
		trivia = prov
	}

	engine := match.NewEngine(
		cat,
		materializer,
		prov,
		trivia,
		match.NewSampler(cfg.Match.SampleSize, nil),
		match.NewSelector(cfg.Match.TopK, nil),
		match.Options{
			CompareTimeout: cfg.Match.CompareTimeout,
			TriviaTimeout:  cfg.Match.TriviaTimeout,
		},
		log,
	)
	return engine, cat, prov, nil
}
