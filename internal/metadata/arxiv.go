package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ArxivClient fetches paper records from the arXiv export Atom API.
type ArxivClient struct {
	baseURL string
	client  *http.Client
}

func NewArxivClient(baseURL string) *ArxivClient {
	return &ArxivClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *ArxivClient) PaperByID(ctx context.Context, id string) (Record, error) {
	endpoint := fmt.Sprintf("%s/api/query?id_list=%s", c.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, fmt.Errorf("arxiv request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("arxiv returned status %d for %s", resp.StatusCode, id)
	}

	var feed struct {
		Entries []struct {
			Title     string `xml:"title"`
			Summary   string `xml:"summary"`
			Published string `xml:"published"`
			Authors   []struct {
				Name string `xml:"name"`
			} `xml:"author"`
		} `xml:"entry"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Record{}, fmt.Errorf("decode arxiv response: %w", err)
	}
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" {
		return Record{}, fmt.Errorf("arxiv has no entry for %s", id)
	}

	entry := feed.Entries[0]
	rec := Record{
		Title:    strings.Join(strings.Fields(entry.Title), " "),
		Abstract: strings.Join(strings.Fields(entry.Summary), " "),
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		rec.Year = t.Year()
	}
	return rec, nil
}
