package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultArxivURL = "https://export.arxiv.org/api/query"

	// arXiv asks API clients to wait three seconds between calls.
	arxivInterval = 3 * time.Second
)

// ArxivOptions configures ArxivClient.
type ArxivOptions struct {
	BaseURL string
	Timeout time.Duration
	// Limiter paces requests. Nil uses one request per three seconds.
	Limiter *rate.Limiter
}

// ArxivClient searches the arXiv Atom API.
type ArxivClient struct {
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewArxiv creates an arXiv search client.
func NewArxiv(opts ArxivOptions) *ArxivClient {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultArxivURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(arxivInterval), 1)
	}
	return &ArxivClient{
		baseURL: opts.BaseURL,
		client:  resty.New().SetTimeout(opts.Timeout),
		limiter: opts.Limiter,
	}
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Search returns up to topK papers, each rendered as
// "Published / Title / Authors / Summary" lines.
func (c *ArxivClient) Search(ctx context.Context, query string, topK int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("arxiv: query is empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("arxiv: rate limit wait: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_query": query,
			"start":        "0",
			"max_results":  strconv.Itoa(topK),
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("arxiv: GET %s: %w", c.baseURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("arxiv: http %d", resp.StatusCode())
	}

	var feed arxivFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	docs := make([]string, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if len(docs) == topK {
			break
		}
		// Malformed queries come back as 200 with a single error entry.
		if strings.Contains(e.ID, "/api/errors") {
			return nil, fmt.Errorf("arxiv: %s", collapseSpace(e.Summary))
		}
		docs = append(docs, formatPaper(e))
	}
	return docs, nil
}

func formatPaper(e arxivEntry) string {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := collapseSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	return fmt.Sprintf("Published: %s\nTitle: %s\nAuthors: %s\nSummary: %s",
		publishedDate(e.Published),
		collapseSpace(e.Title),
		strings.Join(authors, ", "),
		collapseSpace(e.Summary),
	)
}

func publishedDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.Format("2006-01-02")
	}
	return raw
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
