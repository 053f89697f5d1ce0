package agent

import (
	"context"

	"github.com/minhyannv/research-agent-go/pkg/graph"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
	"github.com/minhyannv/research-agent-go/pkg/tools"
)

// AgentOption configures optional runtime dependencies for Session.
type AgentOption func(*agentDeps)

// GraphRenderer writes the control graph image to a path.
type GraphRenderer interface {
	WriteFile(ctx context.Context, path string) error
}

type agentDeps struct {
	logger    loggerpkg.Logger
	model     graph.Generator
	arxiv     tools.Searcher
	wikipedia tools.Searcher
	renderer  GraphRenderer
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) AgentOption {
	return func(d *agentDeps) {
		d.logger = l
	}
}

// WithChatModel replaces the hosted chat model, e.g. with a deterministic stub.
func WithChatModel(m graph.Generator) AgentOption {
	return func(d *agentDeps) {
		d.model = m
	}
}

// WithArxiv replaces the academic-paper lookup backend.
func WithArxiv(s tools.Searcher) AgentOption {
	return func(d *agentDeps) {
		d.arxiv = s
	}
}

// WithWikipedia replaces the encyclopedia lookup backend.
func WithWikipedia(s tools.Searcher) AgentOption {
	return func(d *agentDeps) {
		d.wikipedia = s
	}
}

// WithRenderer replaces the graph image renderer.
func WithRenderer(r GraphRenderer) AgentOption {
	return func(d *agentDeps) {
		d.renderer = r
	}
}
