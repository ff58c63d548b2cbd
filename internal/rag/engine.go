// Package rag runs the retrieval pipeline: embed the query, narrow to the
// most relevant papers, rank their chunks, and hand the assembled context to
// an LLM backend.
package rag

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"paperag/internal/models"
	"paperag/internal/prompt"
	"paperag/internal/providers"
	"paperag/internal/vector"
)

const (
	// DefaultTopK is the chunk count returned when the request leaves k unset.
	DefaultTopK = 5
	// maxPaperStage caps how many papers the first retrieval stage keeps.
	maxPaperStage = 5

	noPapersAnswer = "No relevant papers found."
)

// Index is the slice of the vector store the engine needs.
type Index interface {
	QueryPapers(ctx context.Context, query []float32, topK int) ([]vector.PaperHit, error)
	QueryChunks(ctx context.Context, query []float32, topK int, paperIDs []string) ([]vector.ChunkHit, error)
	GetPaper(ctx context.Context, paperID string) (models.Paper, error)
	ListPapers(ctx context.Context) ([]models.Paper, error)
	DeletePaper(ctx context.Context, paperID string) (bool, error)
	Stats(ctx context.Context) (vector.Stats, error)
}

// GeneratorResolver maps a provider name to its generation backend.
type GeneratorResolver interface {
	Generator(name string) (providers.Generator, error)
}

type Engine struct {
	index     Index
	embedder  providers.Embedder
	resolver  GeneratorResolver
	logger    *zap.Logger
}

func NewEngine(index Index, embedder providers.Embedder, resolver GeneratorResolver, logger *zap.Logger) *Engine {
	return &Engine{index: index, embedder: embedder, resolver: resolver, logger: logger}
}

// SearchParams carries one retrieval request. APIKey is used for this call
// only and never persisted.
type SearchParams struct {
	Query          string
	TopK           int
	Provider       string
	Model          string
	APIKey         string
	PromptMode     string
	CustomTemplate string
}

// Search answers a query against the indexed corpus. Retrieval runs in two
// stages: papers first, then chunks restricted to the surviving papers. When
// nothing is retrieved the canned no-results answer is returned and no LLM
// call is made.
func (e *Engine) Search(ctx context.Context, p SearchParams) (models.SearchResult, error) {
	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}

	vecs, err := e.embedder.Embed(ctx, []string{p.Query})
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vecs[0]

	paperK := p.TopK
	if paperK > maxPaperStage {
		paperK = maxPaperStage
	}
	paperHits, err := e.index.QueryPapers(ctx, queryVec, paperK)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("paper retrieval: %w", err)
	}
	if len(paperHits) == 0 {
		return e.noResults(p), nil
	}

	papersByID := make(map[string]models.Paper, len(paperHits))
	paperIDs := make([]string, 0, len(paperHits))
	for _, h := range paperHits {
		papersByID[h.Paper.PaperID] = h.Paper
		paperIDs = append(paperIDs, h.Paper.PaperID)
	}

	chunkHits, err := e.index.QueryChunks(ctx, queryVec, p.TopK, paperIDs)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("chunk retrieval: %w", err)
	}
	if len(chunkHits) == 0 {
		return e.noResults(p), nil
	}

	sources := make([]models.Source, 0, len(chunkHits))
	contextParts := make([]string, 0, len(chunkHits))
	for _, h := range chunkHits {
		paper := papersByID[h.Chunk.PaperID]
		sources = append(sources, models.Source{
			ChunkText:  h.Chunk.Text,
			ChunkID:    h.Chunk.ChunkID,
			PaperID:    h.Chunk.PaperID,
			PaperTitle: paper.Title,
			PaperYear:  paper.Year,
			PageStart:  h.Chunk.PageStart,
			PageEnd:    h.Chunk.PageEnd,
			Score:      roundScore(h.Similarity),
		})
		contextParts = append(contextParts, h.Chunk.Text)
	}

	composed := prompt.Compose(p.PromptMode, p.Query, strings.Join(contextParts, "\n\n"), p.CustomTemplate)

	gen, err := e.resolver.Generator(p.Provider)
	if err != nil {
		return models.SearchResult{}, err
	}
	answer, err := gen.Generate(ctx, p.Model, p.APIKey, composed)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("generate answer: %w", err)
	}

	e.logger.Debug("search complete",
		zap.String("provider", p.Provider),
		zap.Int("papers", len(paperHits)),
		zap.Int("chunks", len(chunkHits)))

	return models.SearchResult{
		Query:      p.Query,
		Sources:    sources,
		Answer:     answer,
		ModelUsed:  p.Model,
		PromptMode: p.PromptMode,
	}, nil
}

func (e *Engine) noResults(p SearchParams) models.SearchResult {
	return models.SearchResult{
		Query:      p.Query,
		Sources:    []models.Source{},
		Answer:     noPapersAnswer,
		ModelUsed:  p.Model,
		PromptMode: p.PromptMode,
	}
}

func (e *Engine) GetPaper(ctx context.Context, paperID string) (models.Paper, error) {
	return e.index.GetPaper(ctx, paperID)
}

func (e *Engine) ListPapers(ctx context.Context) ([]models.Paper, error) {
	return e.index.ListPapers(ctx)
}

func (e *Engine) DeletePaper(ctx context.Context, paperID string) (bool, error) {
	return e.index.DeletePaper(ctx, paperID)
}

func (e *Engine) Stats(ctx context.Context) (vector.Stats, error) {
	return e.index.Stats(ctx)
}

// roundScore converts a cosine similarity into a percentage with two
// decimal places.
func roundScore(sim float64) float64 {
	return math.Round(sim*10000) / 100
}
