// Package activities implements the Temporal activities behind ingestion
// and index rebuilds. Each activity is small and idempotent so retries are
// safe.
package activities

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"paperag/internal/chunk"
	"paperag/internal/config"
	"paperag/internal/metadata"
	"paperag/internal/pdfio"
	"paperag/internal/providers"
	"paperag/internal/textnorm"
	"paperag/internal/util"
	"paperag/internal/vector"
)

type Activities struct {
	cfg      config.Config
	index    *vector.Manager
	embedder providers.Embedder
	resolver *metadata.Resolver
	logger   *zap.Logger
}

func New(cfg config.Config, index *vector.Manager, embedder providers.Embedder, resolver *metadata.Resolver, logger *zap.Logger) *Activities {
	return &Activities{cfg: cfg, index: index, embedder: embedder, resolver: resolver, logger: logger}
}

// HashFile returns the SHA-256 digest of the file, which doubles as the
// paper's identity.
func (a *Activities) HashFile(_ context.Context, in HashFileInput) (string, error) {
	return util.SHA256HexFromFile(in.Path)
}

func (a *Activities) ExtractPages(_ context.Context, in ExtractPagesInput) (ExtractPagesResult, error) {
	pages, err := pdfio.ExtractPages(in.Path)
	if err != nil {
		return ExtractPagesResult{}, err
	}
	return ExtractPagesResult{Pages: pages}, nil
}

// ResolveMetadata runs the bibliographic cascade over the raw first page.
func (a *Activities) ResolveMetadata(ctx context.Context, in ResolveMetadataInput) (metadata.Record, error) {
	return a.resolver.Resolve(ctx, in.FirstPage), nil
}

// UpsertPaper embeds the paper's abstract and writes the record.
func (a *Activities) UpsertPaper(ctx context.Context, in UpsertPaperInput) error {
	embedText := in.Paper.Abstract
	if strings.TrimSpace(embedText) == "" {
		embedText = in.Paper.Title
	}
	vecs, err := a.embedder.Embed(ctx, []string{embedText})
	if err != nil {
		return err
	}
	return a.index.UpsertPaper(ctx, in.Paper, vecs[0])
}

// ChunkPages normalizes the page texts and slices them into provenance
// tagged chunks.
func (a *Activities) ChunkPages(_ context.Context, in ChunkPagesInput) (ChunkPagesResult, error) {
	normalized := textnorm.NormalizePages(in.Pages)
	chunks := chunk.ChunkPages(normalized, a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	for i := range chunks {
		chunks[i].PaperID = in.PaperID
	}
	return ChunkPagesResult{Chunks: chunks}, nil
}

// EmbedChunks embeds all chunk texts in one batch and upserts them.
func (a *Activities) EmbedChunks(ctx context.Context, in EmbedChunksInput) (EmbedChunksResult, error) {
	if len(in.Chunks) == 0 {
		return EmbedChunksResult{}, nil
	}
	texts := make([]string, len(in.Chunks))
	for i, c := range in.Chunks {
		texts[i] = c.Text
	}
	vecs, err := a.embedder.Embed(ctx, texts)
	if err != nil {
		return EmbedChunksResult{}, err
	}
	if err := a.index.UpsertChunks(ctx, in.Chunks, vecs); err != nil {
		return EmbedChunksResult{}, err
	}
	return EmbedChunksResult{Count: len(in.Chunks)}, nil
}

// ListPaperFiles enumerates the PDFs in the papers directory for rebuilds.
func (a *Activities) ListPaperFiles(_ context.Context) (ListPaperFilesResult, error) {
	entries, err := os.ReadDir(a.cfg.PapersDir)
	if err != nil {
		return ListPaperFilesResult{}, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(a.cfg.PapersDir, e.Name()))
	}
	return ListPaperFilesResult{Paths: paths}, nil
}

// ResetIndex wipes the vector index ahead of a rebuild.
func (a *Activities) ResetIndex(ctx context.Context) error {
	a.logger.Info("resetting vector index")
	return a.index.Reset(ctx)
}
