// Package vector persists papers and chunks with their embeddings in
// Postgres and runs similarity search through the pgvector extension.
package vector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"paperag/internal/models"
	"paperag/internal/storage"
)

// PaperHit is a paper ranked by cosine similarity to a query vector.
type PaperHit struct {
	Paper      models.Paper
	Similarity float64
}

// ChunkHit is a chunk ranked by cosine similarity to a query vector.
type ChunkHit struct {
	Chunk      models.Chunk
	Similarity float64
}

// Stats summarizes index contents.
type Stats struct {
	Papers int `json:"total_papers"`
	Chunks int `json:"total_chunks"`
}

type Store struct {
	db  *storage.DB
	dim int
}

func NewStore(db *storage.DB, dim int) *Store {
	return &Store{db: db, dim: dim}
}

// EnsureSchema creates the pgvector extension and both tables if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS papers (
			paper_id   TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			title      TEXT,
			authors    TEXT,
			year       INT,
			doi        TEXT,
			arxiv_id   TEXT,
			source     TEXT,
			abstract   TEXT,
			embedding  vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dim),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS paper_chunks (
			paper_id   TEXT NOT NULL REFERENCES papers(paper_id) ON DELETE CASCADE,
			chunk_id   INT NOT NULL,
			text       TEXT NOT NULL,
			page_start INT NOT NULL,
			page_end   INT NOT NULL,
			embedding  vector(%d),
			PRIMARY KEY (paper_id, chunk_id)
		)`, s.dim),
	}
	for _, stmt := range stmts {
		if _, err := s.db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropTables removes both tables. Used by rebuilds before re-ingesting.
func (s *Store) DropTables(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, `DROP TABLE IF EXISTS paper_chunks`); err != nil {
		return fmt.Errorf("drop chunks table: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DROP TABLE IF EXISTS papers`); err != nil {
		return fmt.Errorf("drop papers table: %w", err)
	}
	return nil
}

func (s *Store) UpsertPaper(ctx context.Context, p models.Paper, embedding []float32) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO papers (paper_id, filename, title, authors, year, doi, arxiv_id, source, abstract, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::vector)
		ON CONFLICT (paper_id) DO UPDATE SET
			filename = EXCLUDED.filename,
			title = EXCLUDED.title,
			authors = EXCLUDED.authors,
			year = EXCLUDED.year,
			doi = EXCLUDED.doi,
			arxiv_id = EXCLUDED.arxiv_id,
			source = EXCLUDED.source,
			abstract = EXCLUDED.abstract,
			embedding = EXCLUDED.embedding`,
		p.PaperID, p.Filename, p.Title, p.Authors, p.Year, p.DOI, p.ArxivID, p.Source, p.Abstract, ToLiteral(embedding))
	if err != nil {
		return fmt.Errorf("upsert paper %s: %w", p.PaperID, err)
	}
	return nil
}

func (s *Store) UpsertChunks(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upsert chunks: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}
	for i, c := range chunks {
		_, err := s.db.Pool.Exec(ctx, `
			INSERT INTO paper_chunks (paper_id, chunk_id, text, page_start, page_end, embedding)
			VALUES ($1, $2, $3, $4, $5, $6::vector)
			ON CONFLICT (paper_id, chunk_id) DO UPDATE SET
				text = EXCLUDED.text,
				page_start = EXCLUDED.page_start,
				page_end = EXCLUDED.page_end,
				embedding = EXCLUDED.embedding`,
			c.PaperID, c.ChunkID, c.Text, c.PageStart, c.PageEnd, ToLiteral(embeddings[i]))
		if err != nil {
			return fmt.Errorf("upsert chunk %s/%d: %w", c.PaperID, c.ChunkID, err)
		}
	}
	return nil
}

// QueryPapers returns the topK papers nearest to the query vector by cosine
// similarity.
func (s *Store) QueryPapers(ctx context.Context, query []float32, topK int) ([]PaperHit, error) {
	lit := ToLiteral(query)
	rows, err := s.db.Pool.Query(ctx, `
		SELECT paper_id, filename, title, authors, year, doi, arxiv_id, source, abstract, created_at,
		       1 - (embedding <=> $1::vector) AS similarity
		FROM papers
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector
		LIMIT $2`, lit, topK)
	if err != nil {
		return nil, fmt.Errorf("query papers: %w", err)
	}
	defer rows.Close()

	var hits []PaperHit
	for rows.Next() {
		var h PaperHit
		if err := rows.Scan(&h.Paper.PaperID, &h.Paper.Filename, &h.Paper.Title, &h.Paper.Authors,
			&h.Paper.Year, &h.Paper.DOI, &h.Paper.ArxivID, &h.Paper.Source, &h.Paper.Abstract,
			&h.Paper.CreatedAt, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scan paper hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// QueryChunks returns the topK chunks nearest to the query vector, restricted
// to the given papers when paperIDs is non-empty.
func (s *Store) QueryChunks(ctx context.Context, query []float32, topK int, paperIDs []string) ([]ChunkHit, error) {
	lit := ToLiteral(query)
	sql := `
		SELECT paper_id, chunk_id, text, page_start, page_end,
		       1 - (embedding <=> $1::vector) AS similarity
		FROM paper_chunks
		WHERE embedding IS NOT NULL`
	args := []any{lit}
	if len(paperIDs) > 0 {
		sql += ` AND paper_id = ANY($3)`
		args = append(args, topK, paperIDs)
	} else {
		args = append(args, topK)
	}
	sql += `
		ORDER BY embedding <=> $1::vector
		LIMIT $2`

	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		if err := rows.Scan(&h.Chunk.PaperID, &h.Chunk.ChunkID, &h.Chunk.Text,
			&h.Chunk.PageStart, &h.Chunk.PageEnd, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scan chunk hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) GetPaper(ctx context.Context, paperID string) (models.Paper, error) {
	var p models.Paper
	err := s.db.Pool.QueryRow(ctx, `
		SELECT paper_id, filename, title, authors, year, doi, arxiv_id, source, abstract, created_at
		FROM papers WHERE paper_id = $1`, paperID).
		Scan(&p.PaperID, &p.Filename, &p.Title, &p.Authors, &p.Year, &p.DOI, &p.ArxivID,
			&p.Source, &p.Abstract, &p.CreatedAt)
	if err != nil {
		return models.Paper{}, fmt.Errorf("get paper %s: %w", paperID, err)
	}
	return p, nil
}

func (s *Store) ListPapers(ctx context.Context) ([]models.Paper, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT paper_id, filename, title, authors, year, doi, arxiv_id, source, abstract, created_at
		FROM papers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	var papers []models.Paper
	for rows.Next() {
		var p models.Paper
		if err := rows.Scan(&p.PaperID, &p.Filename, &p.Title, &p.Authors, &p.Year, &p.DOI,
			&p.ArxivID, &p.Source, &p.Abstract, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *Store) PaperExists(ctx context.Context, paperID string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM papers WHERE paper_id = $1)`, paperID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check paper %s: %w", paperID, err)
	}
	return exists, nil
}

// DeletePaper removes a paper; its chunks go with it via the cascade. It
// reports whether the paper existed.
func (s *Store) DeletePaper(ctx context.Context, paperID string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM papers WHERE paper_id = $1`, paperID)
	if err != nil {
		return false, fmt.Errorf("delete paper %s: %w", paperID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM papers`).Scan(&st.Papers); err != nil {
		return Stats{}, fmt.Errorf("count papers: %w", err)
	}
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM paper_chunks`).Scan(&st.Chunks); err != nil {
		return Stats{}, fmt.Errorf("count chunks: %w", err)
	}
	return st, nil
}

func (s *Store) ChunkCount(ctx context.Context, paperID string) (int, error) {
	var n int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM paper_chunks WHERE paper_id = $1`, paperID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks for %s: %w", paperID, err)
	}
	return n, nil
}

// ToLiteral renders a vector as a pgvector input literal.
func ToLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
