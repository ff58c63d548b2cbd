package models

import "time"

// PageText is one page of extracted PDF text with its 1-based page number.
type PageText struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Paper is the paper-level record stored alongside the abstract embedding.
// PaperID is the sha256 of the source file and never changes.
type Paper struct {
	PaperID   string    `json:"paper_id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title,omitempty"`
	Authors   string    `json:"authors,omitempty"`
	Year      *int      `json:"year,omitempty"`
	DOI       string    `json:"doi,omitempty"`
	ArxivID   string    `json:"arxiv_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Abstract  string    `json:"abstract"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Chunk is one overlapping slice of a paper's full text. ChunkID is the
// 0-based position in document order; PageStart/PageEnd are the inclusive
// page numbers the chunk's character span overlaps, or -1 when unknown.
type Chunk struct {
	PaperID   string `json:"paper_id"`
	ChunkID   int    `json:"chunk_id"`
	Text      string `json:"text"`
	PageStart int    `json:"page_start"`
	PageEnd   int    `json:"page_end"`
}

// Source is one ranked attribution in a search response. Score is a cosine
// similarity on a 0-100 scale rounded to two decimals.
type Source struct {
	ChunkText  string  `json:"chunk_text"`
	ChunkID    int     `json:"chunk_id"`
	PaperID    string  `json:"paper_id"`
	PaperTitle string  `json:"paper_title"`
	PaperYear  *int    `json:"paper_year,omitempty"`
	PageStart  int     `json:"page_start"`
	PageEnd    int     `json:"page_end"`
	Score      float64 `json:"score"`
}

type SearchResult struct {
	Query      string   `json:"query"`
	Sources    []Source `json:"sources"`
	Answer     string   `json:"answer"`
	ModelUsed  string   `json:"model_used,omitempty"`
	PromptMode string   `json:"prompt_mode,omitempty"`
}
