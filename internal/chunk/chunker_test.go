package chunk

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"paperag/internal/models"
)

func TestChunkPagesSinglePageHardSplit(t *testing.T) {
	pages := []models.PageText{{Text: strings.Repeat("A", 1500), Page: 1}}
	chunks := ChunkPages(pages, 700, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkID != i {
			t.Fatalf("chunk %d has id %d", i, c.ChunkID)
		}
		if n := utf8.RuneCountInString(c.Text); n > 700 {
			t.Fatalf("chunk %d exceeds size: %d", i, n)
		}
		if c.PageStart != 1 || c.PageEnd != 1 {
			t.Fatalf("chunk %d has pages (%d, %d), want (1, 1)", i, c.PageStart, c.PageEnd)
		}
	}
}

func TestChunkPagesMonotonicPagination(t *testing.T) {
	pages := []models.PageText{
		{Text: strings.Repeat("intro text ", 30), Page: 1},
		{Text: strings.Repeat("methods text ", 30), Page: 2},
		{Text: strings.Repeat("results text ", 30), Page: 3},
	}
	chunks := ChunkPages(pages, 120, 20)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].PageStart < chunks[i-1].PageStart {
			t.Fatalf("page_start regresses at chunk %d", i)
		}
		if chunks[i].PageEnd < chunks[i-1].PageEnd {
			t.Fatalf("page_end regresses at chunk %d", i)
		}
	}
	if chunks[0].PageStart != 1 {
		t.Fatalf("first chunk starts on page %d", chunks[0].PageStart)
	}
	if last := chunks[len(chunks)-1]; last.PageEnd != 3 {
		t.Fatalf("last chunk ends on page %d", last.PageEnd)
	}
}

func TestChunkPagesDeterministic(t *testing.T) {
	pages := []models.PageText{
		{Text: "First page. With sentences. And more of them to split across chunks.", Page: 1},
		{Text: "Second page continues the document with additional sentences here.", Page: 2},
	}
	a := ChunkPages(pages, 40, 10)
	b := ChunkPages(pages, 40, 10)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("chunking is not deterministic")
	}
}

func TestChunkPagesCrossPageChunkSpansBothPages(t *testing.T) {
	pages := []models.PageText{
		{Text: strings.Repeat("x", 50), Page: 1},
		{Text: strings.Repeat("y", 50), Page: 2},
	}
	chunks := ChunkPages(pages, 700, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].PageStart != 1 || chunks[0].PageEnd != 2 {
		t.Fatalf("chunk pages (%d, %d), want (1, 2)", chunks[0].PageStart, chunks[0].PageEnd)
	}
}

func TestChunkPagesEmptyInput(t *testing.T) {
	if chunks := ChunkPages(nil, 700, 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	blank := []models.PageText{{Text: "", Page: 1}, {Text: "   ", Page: 2}}
	if chunks := ChunkPages(blank, 700, 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank pages, got %d", len(chunks))
	}
}
