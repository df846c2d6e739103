// Package llm builds chat models for the checklist generator using CloudWeGo Eino.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Provider identifies the LLM provider to use.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// DefaultOllamaURL is the default URL for a local Ollama server
const DefaultOllamaURL = "http://localhost:11434"

var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "llama3.2",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// Config holds configuration for creating a chat model.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string // not needed for Ollama
	BaseURL  string // Ollama only
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// Enabled reports whether the configuration can reach a provider at all.
// Hosted providers need a key; Ollama only needs to be selected.
func (c Config) Enabled() bool {
	switch c.Provider {
	case ProviderOllama:
		return true
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return c.APIKey != ""
	default:
		return false
	}
}

// NewChatModel creates a chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:  modelName,
			APIKey: cfg.APIKey,
		})

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelName,
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey: cfg.APIKey,
			Model:  modelName,
		})

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		// The gemini extension reads its key from the environment.
		_ = os.Setenv("GOOGLE_API_KEY", cfg.APIKey)
		_ = os.Setenv("GEMINI_API_KEY", cfg.APIKey)
		return gemini.NewChatModel(ctx, &gemini.Config{
			Model: modelName,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q (supported: openai, ollama, anthropic, gemini)", cfg.Provider)
	}
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch Provider(p) {
	case ProviderOpenAI, ProviderOllama, ProviderAnthropic, ProviderGemini:
		return Provider(p), nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}
