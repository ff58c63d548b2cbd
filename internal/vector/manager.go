package vector

import (
	"context"
	"sync"

	"paperag/internal/models"
)

// Manager serializes index rebuilds against readers. Normal operations take
// the read lock; Reset takes the write lock so a rebuild never interleaves
// with queries against half-dropped tables.
type Manager struct {
	mu    sync.RWMutex
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Reset drops and recreates the tables, leaving an empty index behind.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.DropTables(ctx); err != nil {
		return err
	}
	return m.store.EnsureSchema(ctx)
}

func (m *Manager) UpsertPaper(ctx context.Context, p models.Paper, embedding []float32) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.UpsertPaper(ctx, p, embedding)
}

func (m *Manager) UpsertChunks(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.UpsertChunks(ctx, chunks, embeddings)
}

func (m *Manager) QueryPapers(ctx context.Context, query []float32, topK int) ([]PaperHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.QueryPapers(ctx, query, topK)
}

func (m *Manager) QueryChunks(ctx context.Context, query []float32, topK int, paperIDs []string) ([]ChunkHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.QueryChunks(ctx, query, topK, paperIDs)
}

func (m *Manager) GetPaper(ctx context.Context, paperID string) (models.Paper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.GetPaper(ctx, paperID)
}

func (m *Manager) ListPapers(ctx context.Context) ([]models.Paper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.ListPapers(ctx)
}

func (m *Manager) PaperExists(ctx context.Context, paperID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.PaperExists(ctx, paperID)
}

func (m *Manager) DeletePaper(ctx context.Context, paperID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.DeletePaper(ctx, paperID)
}

func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Stats(ctx)
}

func (m *Manager) ChunkCount(ctx context.Context, paperID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.ChunkCount(ctx, paperID)
}
