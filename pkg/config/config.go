package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIKey names the required model provider credential.
	EnvAPIKey  = "GROQ_API_KEY"
	EnvBaseURL = "GROQ_BASE_URL"
	EnvModel   = "GROQ_MODEL"

	DefaultModel       = "gemma2-9b-it"
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultGraphOutput = "workflow_graph.png"
	DefaultTopK        = 1
	DefaultMaxChars    = 300
	DefaultMaxTurns    = 10
)

// ErrMissingAPIKey is returned when the provider credential is absent or blank.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " is not set in environment")

// Config holds all runtime configuration for the research assistant.
type Config struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	// ModelRPS caps chat completion requests per second. Zero disables pacing.
	ModelRPS float64 `yaml:"model_rps"`

	SystemPrompt string `yaml:"system_prompt"`

	// ToolPrompt seeds a generated tool-aware system prompt when
	// SystemPrompt is empty.
	ToolPrompt bool `yaml:"tool_prompt"`

	MaxTurns    int    `yaml:"max_turns"`
	Verbose     bool   `yaml:"verbose"`
	GraphOutput string `yaml:"graph_output"`

	Tools ToolsConfig `yaml:"tools"`
}

// ToolsConfig configures both lookup tools. They share the same bounds.
type ToolsConfig struct {
	TopK         int    `yaml:"top_k"`
	MaxChars     int    `yaml:"max_chars"`
	ArxivURL     string `yaml:"arxiv_url"`
	WikipediaURL string `yaml:"wikipedia_url"`
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		MaxTurns:    DefaultMaxTurns,
		GraphOutput: DefaultGraphOutput,
		Tools: ToolsConfig{
			TopK:     DefaultTopK,
			MaxChars: DefaultMaxChars,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file and the process
// environment. A local .env file, when present, is loaded first and never
// overrides variables already set. An empty path skips the YAML file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.APIKey = os.Getenv(EnvAPIKey)
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	return Normalize(cfg), nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate fails fast when the configuration cannot start a session.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return errors.New("model is not set")
	}
	return nil
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.GraphOutput = strings.TrimSpace(cfg.GraphOutput)
	cfg.Tools.ArxivURL = strings.TrimSpace(cfg.Tools.ArxivURL)
	cfg.Tools.WikipediaURL = strings.TrimSpace(cfg.Tools.WikipediaURL)

	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 1
	}
	if cfg.ModelRPS < 0 {
		cfg.ModelRPS = 0
	}
	if cfg.Tools.TopK <= 0 {
		cfg.Tools.TopK = DefaultTopK
	}
	if cfg.Tools.MaxChars <= 0 {
		cfg.Tools.MaxChars = DefaultMaxChars
	}
	return cfg
}
