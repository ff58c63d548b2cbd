package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCrossrefWorkByDOI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/10.1000/xyz123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"message": {
				"title": ["A Study of Things"],
				"author": [
					{"given": "Ada", "family": "Lovelace"},
					{"given": "Alan", "family": "Turing"}
				],
				"published-print": {"date-parts": [[1998, 5]]},
				"issued": {"date-parts": [[1999]]},
				"abstract": "<jats:p>We study <jats:italic>things</jats:italic>.</jats:p>"
			}
		}`)
	}))
	defer srv.Close()

	rec, err := NewCrossrefClient(srv.URL).WorkByDOI(context.Background(), "10.1000/xyz123")
	if err != nil {
		t.Fatalf("WorkByDOI: %v", err)
	}
	if rec.Title != "A Study of Things" {
		t.Errorf("title = %q", rec.Title)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "Ada Lovelace" || rec.Authors[1] != "Alan Turing" {
		t.Errorf("authors = %v", rec.Authors)
	}
	if rec.Year != 1998 {
		t.Errorf("year = %d, want published-print year 1998", rec.Year)
	}
	if rec.Abstract != "We study things." {
		t.Errorf("abstract = %q", rec.Abstract)
	}
}

func TestCrossrefYearFallsBackToIssued(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message": {"title": ["T"], "issued": {"date-parts": [[2003, 1, 15]]}}}`)
	}))
	defer srv.Close()

	rec, err := NewCrossrefClient(srv.URL).WorkByDOI(context.Background(), "10.1/abc")
	if err != nil {
		t.Fatalf("WorkByDOI: %v", err)
	}
	if rec.Year != 2003 {
		t.Errorf("year = %d, want 2003", rec.Year)
	}
}

func TestCrossrefNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewCrossrefClient(srv.URL).WorkByDOI(context.Background(), "10.1/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestArxivPaperByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/query" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id_list"); got != "1706.03762" {
			t.Errorf("id_list = %q", got)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is All
 You Need</title>
    <summary>The dominant sequence transduction models are based on
 recurrent networks.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`)
	}))
	defer srv.Close()

	rec, err := NewArxivClient(srv.URL).PaperByID(context.Background(), "1706.03762")
	if err != nil {
		t.Fatalf("PaperByID: %v", err)
	}
	if rec.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Abstract != "The dominant sequence transduction models are based on recurrent networks." {
		t.Errorf("abstract = %q", rec.Abstract)
	}
	if rec.Year != 2017 {
		t.Errorf("year = %d", rec.Year)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors = %v", rec.Authors)
	}
}

func TestArxivEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer srv.Close()

	if _, err := NewArxivClient(srv.URL).PaperByID(context.Background(), "0000.00000"); err == nil {
		t.Fatal("expected error for empty feed")
	}
}
