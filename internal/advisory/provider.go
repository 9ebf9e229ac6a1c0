// Package advisory produces free-text recipe and purchasing advice from an
// external language model. The service is best effort: failures become
// placeholder text and are never fatal.
package advisory

import (
	"context"
	"fmt"
	"os"

	"cmvboard/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderType represents the type of text provider
type ProviderType string

const (
	OpenAIProvider       ProviderType = "openai"
	GitHubModelsProvider ProviderType = "github_models"
	AzureProvider        ProviderType = "azure"
	NoProvider           ProviderType = "none"
)

const githubModelsBaseURL = "https://models.inference.ai.azure.com"

// Provider completes a single prompt
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMProvider adapts a langchaingo model to Provider
type LLMProvider struct {
	name        string
	model       llms.Model
	maxTokens   int
	temperature float64
}

// NewLLMProvider wraps an initialized langchaingo model
func NewLLMProvider(name string, model llms.Model, maxTokens int, temperature float64) *LLMProvider {
	return &LLMProvider{
		name:        name,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Name returns the provider name
func (p *LLMProvider) Name() string {
	return p.name
}

// Complete implements Provider
func (p *LLMProvider) Complete(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(p.temperature)}
	if p.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.maxTokens))
	}
	text, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", p.name, err)
	}
	return text, nil
}

// NewProvider builds the provider selected in cfg. Credentials come from the
// environment. A nil provider with a nil error means advice is disabled.
func NewProvider(cfg config.AdvisoryConfig) (Provider, error) {
	switch ProviderType(cfg.Provider) {
	case "", NoProvider:
		return nil, nil
	case OpenAIProvider:
		return newOpenAI(cfg)
	case GitHubModelsProvider:
		return newGitHubModels(cfg)
	case AzureProvider:
		p, err := NewAzureOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported advisory provider: %s", cfg.Provider)
	}
}

func newOpenAI(cfg config.AdvisoryConfig) (Provider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}
	return NewLLMProvider(string(OpenAIProvider), llm, cfg.MaxTokens, cfg.Temperature), nil
}

func newGitHubModels(cfg config.AdvisoryConfig) (Provider, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is required for GitHub Models")
	}

	// GitHub Models uses an OpenAI-compatible API
	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(token),
		openai.WithBaseURL(githubModelsBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}
	return NewLLMProvider(string(GitHubModelsProvider), llm, cfg.MaxTokens, cfg.Temperature), nil
}
