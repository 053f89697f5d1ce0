package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/openai/openai-go"
)

// maxQueryChars bounds the query forwarded to a lookup service.
const maxQueryChars = 300

// Searcher returns up to topK formatted documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]string, error)
}

// lookupTool is a query-in, bounded-text-out tool over a Searcher.
type lookupTool struct {
	ctx       Context
	desc      Descriptor
	searcher  Searcher
	noResults string
}

func newArxivTool(ctx Context, s Searcher) *lookupTool {
	return &lookupTool{
		ctx: ctx,
		desc: Descriptor{
			Name: "arxiv",
			Description: "A wrapper around Arxiv.org. Useful for when you need to answer questions about " +
				"Physics, Mathematics, Computer Science, Quantitative Biology, Quantitative Finance, " +
				"Statistics, Electrical Engineering, and Economics from scientific articles on arxiv.org. " +
				"Input should be a search query.",
			TopK:     ctx.TopK,
			MaxChars: ctx.MaxChars,
		},
		searcher:  s,
		noResults: "No good Arxiv Result was found",
	}
}

func newWikipediaTool(ctx Context, s Searcher) *lookupTool {
	return &lookupTool{
		ctx: ctx,
		desc: Descriptor{
			Name: "wikipedia",
			Description: "A wrapper around Wikipedia. Useful for when you need to answer general questions about " +
				"people, places, companies, facts, historical events, or other subjects. " +
				"Input should be a search query.",
			TopK:     ctx.TopK,
			MaxChars: ctx.MaxChars,
		},
		searcher:  s,
		noResults: "No good Wikipedia Search Result was found",
	}
}

func (t *lookupTool) name() string {
	return t.desc.Name
}

func (t *lookupTool) descriptor() Descriptor {
	return t.desc
}

func (t *lookupTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        t.desc.Name,
			Description: openai.String(t.desc.Description),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (t *lookupTool) execute(ctx context.Context, argText string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		t.ctx.debugf("%s: failed to parse arguments: %v", t.desc.Name, err)
		return marshalToolResponse(t.desc.Name, nil, err)
	}
	query := truncateChars(strings.TrimSpace(args.Query), maxQueryChars)
	if query == "" {
		return marshalToolResponse(t.desc.Name, nil, errors.New("query is required"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t.ctx.debugf("%s: query=%q top_k=%d", t.desc.Name, query, t.desc.TopK)
	docs, err := t.searcher.Search(ctx, query, t.desc.TopK)
	if err != nil {
		t.ctx.debugf("%s: search failed: %v", t.desc.Name, err)
		return marshalToolResponse(t.desc.Name, nil, err)
	}
	return boundResults(docs, t.desc.TopK, t.desc.MaxChars, t.noResults), nil
}

// boundResults keeps at most topK non-empty documents and truncates the
// combined text to maxChars characters.
func boundResults(docs []string, topK, maxChars int, noResults string) string {
	kept := make([]string, 0, topK)
	for _, doc := range docs {
		if len(kept) == topK {
			break
		}
		if strings.TrimSpace(doc) == "" {
			continue
		}
		kept = append(kept, doc)
	}
	if len(kept) == 0 {
		return noResults
	}
	return truncateChars(strings.Join(kept, "\n\n"), maxChars)
}

// truncateChars cuts s to at most limit runes.
func truncateChars(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
