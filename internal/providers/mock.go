package providers

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// MockEmbedder derives vectors deterministically from a text's SHA-256
// digest. The same text always maps to the same vector, which is enough
// for tests and offline development without an embedding server.
type MockEmbedder struct {
	dim int
}

func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{dim: dim}
}

func (e *MockEmbedder) Dimension() int { return e.dim }

func (e *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		sum := sha256.Sum256([]byte(text))
		vec := make([]float32, e.dim)
		for j := range vec {
			b := sum[j%len(sum)]
			vec[j] = float32(b)/127.5 - 1
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// MockGenerator echoes a canned answer. It satisfies Generator for tests.
type MockGenerator struct {
	Answer string
	Calls  []string
}

func (g *MockGenerator) Generate(_ context.Context, model, _ string, prompt string) (string, error) {
	g.Calls = append(g.Calls, prompt)
	if g.Answer != "" {
		return g.Answer, nil
	}
	return fmt.Sprintf("mock answer from %s", model), nil
}

func (g *MockGenerator) ListModels(context.Context, string) ([]string, error) {
	return []string{"mock-model"}, nil
}
