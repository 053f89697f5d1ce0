// Package agent assembles the research assistant session: configuration,
// lookup tools, chat model and control graph.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	configpkg "github.com/minhyannv/research-agent-go/pkg/config"
	"github.com/minhyannv/research-agent-go/pkg/conversation"
	"github.com/minhyannv/research-agent-go/pkg/graph"
	"github.com/minhyannv/research-agent-go/pkg/llm"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
	"github.com/minhyannv/research-agent-go/pkg/tools"
	"golang.org/x/time/rate"
)

// Session owns the conversation for one interactive run. It is created once
// at startup and discarded at exit; it is not safe for concurrent use.
type Session struct {
	ID string

	config   configpkg.Config
	graph    *graph.Graph
	tools    *tools.Registry
	renderer GraphRenderer
	seed     []conversation.Message
	state    *conversation.State

	ctx     context.Context
	logger  loggerpkg.Logger
	verbose bool
}

// New validates cfg and builds a session. A missing credential fails before
// any model or tool client is constructed.
func New(ctx context.Context, cfg configpkg.Config, opts ...AgentOption) (*Session, error) {
	cfg = configpkg.Normalize(cfg)
	if err := configpkg.Validate(cfg); err != nil {
		return nil, err
	}
	deps := agentDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.logger == nil {
		deps.logger = loggerpkg.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	id := uuid.NewString()
	loggerpkg.Debug(cfg.Verbose, deps.logger, "session init", map[string]any{
		"session":   id,
		"model":     cfg.Model,
		"base_url":  cfg.BaseURL,
		"max_turns": cfg.MaxTurns,
		"top_k":     cfg.Tools.TopK,
		"max_chars": cfg.Tools.MaxChars,
	})

	backends := tools.Backends{Arxiv: deps.arxiv, Wikipedia: deps.wikipedia}
	if backends.Arxiv == nil {
		backends.Arxiv = tools.NewArxiv(tools.ArxivOptions{BaseURL: cfg.Tools.ArxivURL})
	}
	if backends.Wikipedia == nil {
		backends.Wikipedia = tools.NewWikipedia(tools.WikipediaOptions{BaseURL: cfg.Tools.WikipediaURL})
	}
	registry := tools.New(tools.Context{
		TopK:     cfg.Tools.TopK,
		MaxChars: cfg.Tools.MaxChars,
		Verbose:  cfg.Verbose,
		Logger:   deps.logger,
	}, backends)
	loggerpkg.Debug(cfg.Verbose, deps.logger, "tools registered", map[string]any{
		"count": len(registry.Descriptors()),
	})

	model := deps.model
	if model == nil {
		m, err := llm.NewOpenAI(llm.Options{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Limiter: modelLimiter(cfg),
			Verbose: cfg.Verbose,
			Logger:  deps.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("init chat model: %w", err)
		}
		model = m.BindTools(registry.Definitions())
	}

	g, err := graph.New(graph.ModelStep(model), graph.ToolStep(registry), graph.Options{
		MaxTurns: cfg.MaxTurns,
		Verbose:  cfg.Verbose,
		Logger:   deps.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	renderer := deps.renderer
	if renderer == nil {
		renderer = graph.NewRenderer("")
	}

	var seed []conversation.Message
	switch {
	case strings.TrimSpace(cfg.SystemPrompt) != "":
		seed = append(seed, conversation.System(cfg.SystemPrompt))
	case cfg.ToolPrompt:
		seed = append(seed, conversation.System(BuildSystemPrompt(registry.Descriptors())))
	}

	return &Session{
		ID:       id,
		config:   cfg,
		graph:    g,
		tools:    registry,
		renderer: renderer,
		seed:     seed,
		state:    conversation.NewState(seed...),
		ctx:      ctx,
		logger:   deps.logger,
		verbose:  cfg.Verbose,
	}, nil
}

// modelLimiter paces chat completions when ModelRPS is set.
func modelLimiter(cfg configpkg.Config) *rate.Limiter {
	if cfg.ModelRPS <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.ModelRPS), 1)
}

// Stream appends userInput as a new user message and runs the control graph
// to completion. emit receives the user message and every message produced
// afterwards, in arrival order. The turn is committed only when the graph
// reaches its end; on error the session history is left as it was.
func (s *Session) Stream(userInput string, emit func(conversation.Message)) error {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return errors.New("user input is required")
	}
	if emit == nil {
		emit = func(conversation.Message) {}
	}

	work := s.state.Fork()
	user := conversation.User(userInput)
	work.Append(user)
	emit(user)

	err := s.graph.Run(s.ctx, work, func(_ graph.Node, msg conversation.Message) {
		emit(msg)
	})
	if err != nil {
		loggerpkg.Debug(s.verbose, s.logger, "turn failed", map[string]any{
			"session": s.ID,
			"error":   err.Error(),
		})
		return err
	}
	s.state = work
	return nil
}

// Run processes one user input and returns the final assistant message.
func (s *Session) Run(userInput string) (conversation.Message, error) {
	var last conversation.Message
	if err := s.Stream(userInput, func(m conversation.Message) { last = m }); err != nil {
		return conversation.Message{}, err
	}
	return last, nil
}

// Messages returns a copy of the committed conversation.
func (s *Session) Messages() []conversation.Message {
	return s.state.Messages()
}

// Tools describes the registered lookup tools.
func (s *Session) Tools() []tools.Descriptor {
	return s.tools.Descriptors()
}

// Reset clears the conversation and keeps only the system prompt, if any.
func (s *Session) Reset() {
	s.state = conversation.NewState(s.seed...)
}

// VisualizeWorkflow renders the control graph to path. Failures are logged
// and returned; callers are expected to continue.
func (s *Session) VisualizeWorkflow(path string) error {
	if err := s.renderer.WriteFile(s.ctx, path); err != nil {
		loggerpkg.Warn(s.logger, "workflow visualization failed", map[string]any{
			"session": s.ID,
			"path":    path,
			"error":   err.Error(),
		})
		return err
	}
	loggerpkg.Debug(s.verbose, s.logger, "workflow graph saved", map[string]any{"path": path})
	return nil
}
