package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	DefaultWikipediaURL = "https://en.wikipedia.org/w/api.php"

	userAgent = "research-agent-go/1.0 (+https://github.com/minhyannv/research-agent-go)"
)

// WikipediaOptions configures WikipediaClient.
type WikipediaOptions struct {
	BaseURL string
	Timeout time.Duration
}

// WikipediaClient searches the MediaWiki action API and fetches page intros.
type WikipediaClient struct {
	baseURL string
	client  *resty.Client
}

// NewWikipedia creates a Wikipedia search client.
func NewWikipedia(opts WikipediaOptions) *WikipediaClient {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultWikipediaURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &WikipediaClient{
		baseURL: opts.BaseURL,
		client:  resty.New().SetTimeout(opts.Timeout).SetHeader("User-Agent", userAgent),
	}
}

// Search returns up to topK pages rendered as "Page / Summary" lines. Titles
// whose page cannot be resolved are skipped.
func (c *WikipediaClient) Search(ctx context.Context, query string, topK int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("wikipedia: query is empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	body, err := c.get(ctx, map[string]string{
		"action":   "query",
		"list":     "search",
		"srsearch": query,
		"srlimit":  strconv.Itoa(topK),
		"srprop":   "",
	})
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, title := range gjson.GetBytes(body, "query.search.#.title").Array() {
		if len(docs) == topK {
			break
		}
		summary, ok, err := c.summary(ctx, title.String())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		docs = append(docs, fmt.Sprintf("Page: %s\nSummary: %s", title.String(), summary))
	}
	return docs, nil
}

// summary returns the plain-text intro of a page. ok is false when the page
// is missing or has no extract.
func (c *WikipediaClient) summary(ctx context.Context, title string) (string, bool, error) {
	body, err := c.get(ctx, map[string]string{
		"action":      "query",
		"prop":        "extracts",
		"exintro":     "1",
		"explaintext": "1",
		"redirects":   "1",
		"titles":      title,
	})
	if err != nil {
		return "", false, err
	}
	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return "", false, nil
	}
	extract := strings.TrimSpace(page.Get("extract").String())
	if extract == "" {
		return "", false, nil
	}
	return extract, true, nil
}

func (c *WikipediaClient) get(ctx context.Context, params map[string]string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("format", "json").
		SetQueryParam("formatversion", "2").
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: GET %s: %w", c.baseURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wikipedia: http %d", resp.StatusCode())
	}
	body := resp.Body()
	if msg := gjson.GetBytes(body, "error.info"); msg.Exists() {
		return nil, fmt.Errorf("wikipedia: %s", msg.String())
	}
	return body, nil
}
