// Package metadata resolves a paper's bibliographic identity from its first
// page. Identifier-based lookups (DOI, then arXiv) are tried in priority
// order before falling back to heuristic parsing of the page itself.
package metadata

import (
	"context"
	"regexp"
	"strings"
)

// Source values recorded on resolved records.
const (
	SourceCrossref      = "crossref"
	SourceCrossrefError = "crossref_error"
	SourceArxiv         = "arxiv"
	SourceArxivError    = "arxiv_error"
	SourceHeuristic     = "pdf_heuristic"
)

// Record is a resolved bibliographic record. On a failed identifier lookup
// Source carries the *_error tag and Err the underlying cause; the other
// fields may be partially filled.
type Record struct {
	Title    string   `json:"title,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	ArxivID  string   `json:"arxiv_id,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Source   string   `json:"source"`
	Err      string   `json:"error,omitempty"`
}

type DOILookup interface {
	WorkByDOI(ctx context.Context, doi string) (Record, error)
}

type ArxivLookup interface {
	PaperByID(ctx context.Context, id string) (Record, error)
}

var (
	reDOI     = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
	reArxivID = regexp.MustCompile(`arXiv:\d{4}\.\d{4,5}(v\d+)?`)
)

// strategy inspects the first page and either declares itself not applicable
// (no identifier pattern present) or produces a record. A failing lookup is
// still "applicable": it yields an error-tagged record and the cascade stops
// rather than falling through to the next stage.
type strategy interface {
	resolve(ctx context.Context, firstPage string) (Record, bool)
}

type Resolver struct {
	strategies []strategy
}

func NewResolver(doi DOILookup, arxiv ArxivLookup) *Resolver {
	return &Resolver{strategies: []strategy{
		doiStrategy{lookup: doi},
		arxivStrategy{lookup: arxiv},
		heuristicStrategy{},
	}}
}

// Resolve runs the cascade over the raw (un-normalized) first page so that
// identifier formatting is preserved. It always returns a record; the
// heuristic stage is applicable to any input.
func (r *Resolver) Resolve(ctx context.Context, firstPage string) Record {
	for _, s := range r.strategies {
		if rec, ok := s.resolve(ctx, firstPage); ok {
			return rec
		}
	}
	return Record{Source: SourceHeuristic}
}

type doiStrategy struct {
	lookup DOILookup
}

func (s doiStrategy) resolve(ctx context.Context, firstPage string) (Record, bool) {
	doi := reDOI.FindString(firstPage)
	if doi == "" {
		return Record{}, false
	}
	rec, err := s.lookup.WorkByDOI(ctx, doi)
	if err != nil {
		return Record{DOI: doi, Source: SourceCrossrefError, Err: err.Error()}, true
	}
	rec.DOI = doi
	rec.Source = SourceCrossref
	return rec, true
}

type arxivStrategy struct {
	lookup ArxivLookup
}

func (s arxivStrategy) resolve(ctx context.Context, firstPage string) (Record, bool) {
	m := reArxivID.FindString(firstPage)
	if m == "" {
		return Record{}, false
	}
	id := strings.TrimPrefix(m, "arXiv:")
	rec, err := s.lookup.PaperByID(ctx, id)
	if err != nil {
		return Record{ArxivID: id, Source: SourceArxivError, Err: err.Error()}, true
	}
	rec.ArxivID = id
	rec.Source = SourceArxiv
	return rec, true
}

type heuristicStrategy struct{}

func (heuristicStrategy) resolve(_ context.Context, firstPage string) (Record, bool) {
	return parseFirstPage(firstPage), true
}
