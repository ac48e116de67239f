package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Match.SampleSize != 8 {
		t.Errorf("expected default sample size 8, got %d", cfg.Match.SampleSize)
	}
	if cfg.Match.TopK != 5 {
		t.Errorf("expected default top-K 5, got %d", cfg.Match.TopK)
	}
	if cfg.Match.MaxImageEdge != 800 {
		t.Errorf("expected default max edge 800, got %d", cfg.Match.MaxImageEdge)
	}
	if cfg.Match.CompareTimeout != 60*time.Second {
		t.Errorf("expected default compare timeout 60s, got %v", cfg.Match.CompareTimeout)
	}
	if cfg.Match.TriviaDisabled {
		t.Error("trivia should be enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATCH_SAMPLE_SIZE", "12")
	t.Setenv("MATCH_TOP_K", "3")
	t.Setenv("MATCH_COMPARE_TIMEOUT_SECONDS", "90")
	t.Setenv("MATCH_TRIVIA_DISABLED", "true")
	t.Setenv("IMAGE_POLICY", "placeholder")

	cfg := Load()

	if cfg.Match.SampleSize != 12 {
		t.Errorf("expected sample size 12, got %d", cfg.Match.SampleSize)
	}
	if cfg.Match.TopK != 3 {
		t.Errorf("expected top-K 3, got %d", cfg.Match.TopK)
	}
	if cfg.Match.CompareTimeout != 90*time.Second {
		t.Errorf("expected compare timeout 90s, got %v", cfg.Match.CompareTimeout)
	}
	if !cfg.Match.TriviaDisabled {
		t.Error("expected trivia disabled")
	}
	if cfg.Catalog.ImagePolicy != "placeholder" {
		t.Errorf("expected placeholder policy, got %s", cfg.Catalog.ImagePolicy)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("MATCH_SAMPLE_SIZE", "not-a-number")
	t.Setenv("MATCH_TOP_K", "-2")

	cfg := Load()

	if cfg.Match.SampleSize != 8 {
		t.Errorf("invalid int must fall back to default, got %d", cfg.Match.SampleSize)
	}
	if cfg.Match.TopK != 5 {
		t.Errorf("negative int must fall back to default, got %d", cfg.Match.TopK)
	}
}

func TestGetModelPricing(t *testing.T) {
	cfg := Load()

	pricing := cfg.GetModelPricing("gpt-4.1-mini")
	if pricing.Input == 0 || pricing.Output == 0 {
		t.Errorf("expected non-zero pricing for gpt-4.1-mini, got %+v", pricing)
	}

	unknown := cfg.GetModelPricing("model-that-does-not-exist")
	if unknown.Input != 0 || unknown.Output != 0 {
		t.Errorf("expected zero pricing for unknown model, got %+v", unknown)
	}
}
