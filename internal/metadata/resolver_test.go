package metadata

import (
	"context"
	"errors"
	"testing"
)

type fakeDOILookup struct {
	calls []string
	rec   Record
	err   error
}

func (f *fakeDOILookup) WorkByDOI(_ context.Context, doi string) (Record, error) {
	f.calls = append(f.calls, doi)
	return f.rec, f.err
}

type fakeArxivLookup struct {
	calls []string
	rec   Record
	err   error
}

func (f *fakeArxivLookup) PaperByID(_ context.Context, id string) (Record, error) {
	f.calls = append(f.calls, id)
	return f.rec, f.err
}

func TestResolvePrefersDOIOverArxiv(t *testing.T) {
	doi := &fakeDOILookup{rec: Record{Title: "Attention Is All You Need", Year: 2017}}
	arxiv := &fakeArxivLookup{}
	r := NewResolver(doi, arxiv)

	page := "doi: 10.5555/3295222.3295349\narXiv:1706.03762v5\nAttention Is All You Need"
	rec := r.Resolve(context.Background(), page)

	if rec.Source != SourceCrossref {
		t.Fatalf("source = %q, want %q", rec.Source, SourceCrossref)
	}
	if rec.DOI != "10.5555/3295222.3295349" {
		t.Errorf("doi = %q", rec.DOI)
	}
	if rec.Title != "Attention Is All You Need" || rec.Year != 2017 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(doi.calls) != 1 {
		t.Errorf("doi lookup called %d times", len(doi.calls))
	}
	if len(arxiv.calls) != 0 {
		t.Errorf("arxiv lookup called despite DOI match")
	}
}

func TestResolveDOIFailureDoesNotFallThrough(t *testing.T) {
	doi := &fakeDOILookup{err: errors.New("crossref returned status 404")}
	arxiv := &fakeArxivLookup{rec: Record{Title: "should not be used"}}
	r := NewResolver(doi, arxiv)

	page := "doi:10.1000/xyz123\narXiv:2101.00001"
	rec := r.Resolve(context.Background(), page)

	if rec.Source != SourceCrossrefError {
		t.Fatalf("source = %q, want %q", rec.Source, SourceCrossrefError)
	}
	if rec.DOI != "10.1000/xyz123" {
		t.Errorf("doi = %q", rec.DOI)
	}
	if rec.Err == "" {
		t.Error("error field empty on failed lookup")
	}
	if len(arxiv.calls) != 0 {
		t.Error("arxiv lookup called after DOI failure")
	}
}

func TestResolveArxivWhenNoDOI(t *testing.T) {
	doi := &fakeDOILookup{}
	arxiv := &fakeArxivLookup{rec: Record{Title: "Language Models are Few-Shot Learners", Year: 2020}}
	r := NewResolver(doi, arxiv)

	rec := r.Resolve(context.Background(), "arXiv:2005.14165v4 [cs.CL] 22 Jul 2020\nLanguage Models are Few-Shot Learners")

	if rec.Source != SourceArxiv {
		t.Fatalf("source = %q, want %q", rec.Source, SourceArxiv)
	}
	if rec.ArxivID != "2005.14165v4" {
		t.Errorf("arxiv id = %q", rec.ArxivID)
	}
	if len(doi.calls) != 0 {
		t.Error("doi lookup called without a DOI present")
	}
	if len(arxiv.calls) != 1 || arxiv.calls[0] != "2005.14165v4" {
		t.Errorf("arxiv calls = %v", arxiv.calls)
	}
}

func TestResolveArxivFailure(t *testing.T) {
	r := NewResolver(&fakeDOILookup{}, &fakeArxivLookup{err: errors.New("timeout")})

	rec := r.Resolve(context.Background(), "arXiv:2101.00001")
	if rec.Source != SourceArxivError {
		t.Fatalf("source = %q, want %q", rec.Source, SourceArxivError)
	}
	if rec.ArxivID != "2101.00001" || rec.Err == "" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestResolveHeuristicFallback(t *testing.T) {
	r := NewResolver(&fakeDOILookup{}, &fakeArxivLookup{})

	page := "Deep Residual Learning for Image Recognition\n" +
		"K. He, X. Zhang, S. Ren, J. Sun\n" +
		"Microsoft Research\n" +
		"\n" +
		"Abstract\n" +
		"Deeper neural networks are more difficult to train.\n" +
		"We present a residual learning framework.\n" +
		"1. Introduction\n" +
		"Deep networks, 2015, have advanced image classification."
	rec := r.Resolve(context.Background(), page)

	if rec.Source != SourceHeuristic {
		t.Fatalf("source = %q, want %q", rec.Source, SourceHeuristic)
	}
	if rec.Title != "Deep Residual Learning for Image Recognition" {
		t.Errorf("title = %q", rec.Title)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "K. He, X. Zhang, S. Ren, J. Sun" {
		t.Errorf("authors = %v", rec.Authors)
	}
	if rec.Year != 2015 {
		t.Errorf("year = %d", rec.Year)
	}
	want := "Deeper neural networks are more difficult to train.\nWe present a residual learning framework."
	if rec.Abstract != want {
		t.Errorf("abstract = %q, want %q", rec.Abstract, want)
	}
}

func TestResolveHeuristicEmptyPage(t *testing.T) {
	r := NewResolver(&fakeDOILookup{}, &fakeArxivLookup{})

	rec := r.Resolve(context.Background(), "   \n\n  ")
	if rec.Source != SourceHeuristic {
		t.Fatalf("source = %q, want %q", rec.Source, SourceHeuristic)
	}
	if rec.Title != "" || len(rec.Authors) != 0 {
		t.Errorf("expected empty record, got %+v", rec)
	}
}
