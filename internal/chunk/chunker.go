// Package chunk splits a document into overlapping text chunks and maps each
// chunk back to the page range it spans in the source PDF.
package chunk

import (
	"strings"
	"unicode/utf8"

	"paperag/internal/models"
)

const (
	DefaultChunkSize    = 700
	DefaultChunkOverlap = 100
)

type pageSpan struct {
	start int
	end   int
	page  int
}

// ChunkPages concatenates the per-page texts into one buffer (one newline per
// page boundary), splits it, and assigns each chunk its 0-based chunk id and
// the inclusive page range its character span overlaps. Chunks that overlap
// no page span carry the (-1, -1) sentinel.
func ChunkPages(pages []models.PageText, chunkSize, chunkOverlap int) []models.Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}

	var buf strings.Builder
	spans := make([]pageSpan, 0, len(pages))
	cursor := 0
	for _, p := range pages {
		n := utf8.RuneCountInString(p.Text)
		spans = append(spans, pageSpan{start: cursor, end: cursor + n, page: p.Page})
		buf.WriteString(p.Text)
		buf.WriteByte('\n')
		cursor += n + 1
	}

	pieces := Split(buf.String(), chunkSize, chunkOverlap)
	chunks := make([]models.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece.Text) == "" {
			continue
		}
		first, last := -1, -1
		for _, s := range spans {
			if s.end < piece.Start || s.start > piece.End {
				continue
			}
			if first == -1 || s.page < first {
				first = s.page
			}
			if s.page > last {
				last = s.page
			}
		}
		chunks = append(chunks, models.Chunk{
			ChunkID:   len(chunks),
			Text:      piece.Text,
			PageStart: first,
			PageEnd:   last,
		})
	}
	return chunks
}
