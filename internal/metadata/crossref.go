package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var reXMLTag = regexp.MustCompile(`<[^>]+>`)

// CrossrefClient fetches work records from the Crossref REST API.
type CrossrefClient struct {
	baseURL string
	client  *http.Client
}

func NewCrossrefClient(baseURL string) *CrossrefClient {
	return &CrossrefClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *CrossrefClient) WorkByDOI(ctx context.Context, doi string) (Record, error) {
	endpoint := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, fmt.Errorf("crossref request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("crossref returned status %d for %s", resp.StatusCode, doi)
	}

	var body struct {
		Message struct {
			Title  []string `json:"title"`
			Author []struct {
				Given  string `json:"given"`
				Family string `json:"family"`
			} `json:"author"`
			PublishedPrint struct {
				DateParts [][]int `json:"date-parts"`
			} `json:"published-print"`
			Issued struct {
				DateParts [][]int `json:"date-parts"`
			} `json:"issued"`
			Abstract string `json:"abstract"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Record{}, fmt.Errorf("decode crossref response: %w", err)
	}

	var rec Record
	if len(body.Message.Title) > 0 {
		rec.Title = body.Message.Title[0]
	}
	for _, a := range body.Message.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}
	if parts := body.Message.PublishedPrint.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		rec.Year = parts[0][0]
	} else if parts := body.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		rec.Year = parts[0][0]
	}
	// Crossref abstracts arrive as JATS XML fragments.
	rec.Abstract = strings.TrimSpace(reXMLTag.ReplaceAllString(body.Message.Abstract, ""))
	return rec, nil
}
