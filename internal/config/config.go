// Package config loads runtime configuration from environment variables
// and bundled defaults.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed prices.yaml
var pricesYAML []byte

type Config struct {
	OpenAI  OpenAIConfig
	Gemini  GeminiConfig
	Catalog CatalogConfig
	Match   MatchConfig
	Prices  PricesConfig
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

type CatalogConfig struct {
	Path     string // roster JSON file; empty uses the bundled roster
	AssetDir string // base directory for root-relative image references
	// ImagePolicy selects what happens when character art cannot be
	// materialized: "exclude" drops the candidate, "placeholder" sends
	// bundled placeholder art flagged as degraded.
	ImagePolicy string
}

type MatchConfig struct {
	Provider       string        // comparison backend: "openai" (scored) or "gemini" (single-best)
	SampleSize     int           // candidates per comparison request, 0 sends the full roster
	TopK           int           // size of the pool the final answer is drawn from
	MaxImageEdge   int           // longest image edge sent to the model
	CompareTimeout time.Duration // per comparison call
	TriviaTimeout  time.Duration // per trivia lookup
	TriviaDisabled bool
}

type PricesConfig struct {
	Models map[string]ModelPricing `yaml:"models"`
}

// ModelPricing holds input/output prices per 1M tokens.
type ModelPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envSeconds reads an environment variable as a positive number of seconds.
func envSeconds(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func Load() *Config {
	var prices PricesConfig
	if err := yaml.Unmarshal(pricesYAML, &prices); err != nil {
		// Embedded file, so this cannot happen with a valid build.
		panic("failed to unmarshal embedded prices.yaml: " + err.Error())
	}

	return &Config{
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Catalog: CatalogConfig{
			Path:        os.Getenv("CATALOG_PATH"),
			AssetDir:    os.Getenv("CATALOG_ASSET_DIR"),
			ImagePolicy: os.Getenv("IMAGE_POLICY"),
		},
		Match: MatchConfig{
			Provider:       os.Getenv("MATCH_PROVIDER"),
			SampleSize:     envInt("MATCH_SAMPLE_SIZE", 8),
			TopK:           envInt("MATCH_TOP_K", 5),
			MaxImageEdge:   envInt("MATCH_MAX_IMAGE_EDGE", 800),
			CompareTimeout: envSeconds("MATCH_COMPARE_TIMEOUT_SECONDS", 60*time.Second),
			TriviaTimeout:  envSeconds("MATCH_TRIVIA_TIMEOUT_SECONDS", 30*time.Second),
			TriviaDisabled: os.Getenv("MATCH_TRIVIA_DISABLED") == "true",
		},
		Prices: prices,
	}
}

// GetModelPricing returns pricing for a specific model, with zero-value
// fallback for unknown models.
func (c *Config) GetModelPricing(modelName string) ModelPricing {
	if pricing, ok := c.Prices.Models[modelName]; ok {
		return pricing
	}
	return ModelPricing{}
}
