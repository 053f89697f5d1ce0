package graph

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultMermaidURL is the mermaid.ink image endpoint.
const DefaultMermaidURL = "https://mermaid.ink/img/"

// Mermaid returns the graph as a Mermaid flowchart.
func Mermaid() string {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'curve': 'linear'}}}%%\n")
	b.WriteString("graph TD;\n")
	fmt.Fprintf(&b, "\t%s([<p>%s</p>]):::first\n", Start, Start)
	fmt.Fprintf(&b, "\t%s(%s)\n", Process, Process)
	fmt.Fprintf(&b, "\t%s(%s)\n", Tools, Tools)
	fmt.Fprintf(&b, "\t%s([<p>%s</p>]):::last\n", End, End)
	for _, e := range Edges() {
		arrow := "-->"
		if e.Conditional {
			arrow = "-.->"
		}
		fmt.Fprintf(&b, "\t%s %s %s;\n", e.From, arrow, e.To)
	}
	b.WriteString("\tclassDef default fill:#f2f0ff,line-height:1.2\n")
	b.WriteString("\tclassDef first fill-opacity:0\n")
	b.WriteString("\tclassDef last fill:#bfb6fc\n")
	return b.String()
}

// Renderer turns Mermaid source into a PNG through mermaid.ink.
type Renderer struct {
	baseURL string
	client  *resty.Client
}

// NewRenderer creates a renderer. An empty baseURL uses DefaultMermaidURL.
func NewRenderer(baseURL string) *Renderer {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultMermaidURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Renderer{
		baseURL: baseURL,
		client:  resty.New().SetTimeout(10 * time.Second),
	}
}

// PNG fetches the rendered image for the given Mermaid source.
func (r *Renderer) PNG(ctx context.Context, source string) ([]byte, error) {
	encoded := base64.URLEncoding.EncodeToString([]byte(source))
	url := r.baseURL + encoded
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"type": "png", "bgColor": "!white"}).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("render graph: GET %s: %w", r.baseURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("render graph: http %d", resp.StatusCode())
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("render graph: empty image")
	}
	return resp.Body(), nil
}

// WriteFile renders the control graph and writes it to path.
func (r *Renderer) WriteFile(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("render graph: output path is empty")
	}
	img, err := r.PNG(ctx, Mermaid())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("render graph: write %s: %w", path, err)
	}
	return nil
}
