// Package providers contains the LLM and embedding backends. Generation is
// dispatched by provider name through a registry; embedding providers are
// constructed once at startup from configuration.
package providers

import (
	"context"
	"fmt"
	"strings"

	"paperag/internal/util"
)

// Provider names accepted by the registry.
const (
	ProviderLocal     = "local"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
)

// Generator produces a completion for a prompt. Cloud backends require a
// per-request API key; the local backend ignores it.
type Generator interface {
	Generate(ctx context.Context, model, apiKey, prompt string) (string, error)
	ListModels(ctx context.Context, apiKey string) ([]string, error)
}

// Embedder converts a batch of texts into vectors in a single call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type Registry struct {
	generators map[string]Generator
}

func NewRegistry(ollamaBaseURL string) *Registry {
	return &Registry{generators: map[string]Generator{
		ProviderLocal:     NewOllamaProvider(ollamaBaseURL),
		ProviderOpenAI:    NewOpenAIProvider(""),
		ProviderGoogle:    NewGoogleProvider(""),
		ProviderAnthropic: NewAnthropicProvider(""),
	}}
}

// Generator returns the backend registered under name. Names are matched
// case-insensitively; an unrecognized name is a hard error, never a silent
// fallback to another backend.
func (r *Registry) Generator(name string) (Generator, error) {
	g, ok := r.generators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedProvider, name)
	}
	return g, nil
}

// NewEmbedder builds the embedding backend named by provider.
func NewEmbedder(provider, model, baseURL, apiKey string, dim int) (Embedder, error) {
	switch provider {
	case "ollama":
		return NewOllamaEmbedder(baseURL, model, dim), nil
	case "openai":
		return NewOpenAIEmbedder(apiKey, model, dim), nil
	case "mock":
		return NewMockEmbedder(dim), nil
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", util.ErrUnsupportedProvider, provider)
	}
}
