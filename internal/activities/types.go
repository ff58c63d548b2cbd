package activities

import (
	"paperag/internal/models"
)

type ExtractPagesInput struct {
	Path string `json:"path"`
}

type ExtractPagesResult struct {
	Pages []models.PageText `json:"pages"`
}

type ResolveMetadataInput struct {
	FirstPage string `json:"first_page"`
}

type UpsertPaperInput struct {
	Paper models.Paper `json:"paper"`
}

type ChunkPagesInput struct {
	PaperID string            `json:"paper_id"`
	Pages   []models.PageText `json:"pages"`
}

type ChunkPagesResult struct {
	Chunks []models.Chunk `json:"chunks"`
}

type EmbedChunksInput struct {
	Chunks []models.Chunk `json:"chunks"`
}

type EmbedChunksResult struct {
	Count int `json:"count"`
}

type HashFileInput struct {
	Path string `json:"path"`
}

type ListPaperFilesResult struct {
	Paths []string `json:"paths"`
}
