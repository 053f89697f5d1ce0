package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minhyannv/research-agent-go/pkg/conversation"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
	"github.com/openai/openai-go"
)

const (
	DefaultTopK     = 1
	DefaultMaxChars = 300
)

type tool interface {
	definition() openai.ChatCompletionToolParam
	execute(ctx context.Context, argText string) (string, error)
	name() string
	descriptor() Descriptor
}

// Descriptor describes a registered tool and its output bounds.
type Descriptor struct {
	Name        string
	Description string
	TopK        int
	MaxChars    int
}

// Context carries settings shared by every registered tool.
type Context struct {
	TopK     int
	MaxChars int
	Verbose  bool
	Logger   loggerpkg.Logger
}

func (c Context) debugf(format string, args ...any) {
	loggerpkg.Debugf(c.Verbose, c.Logger, format, args...)
}

// Backends are the lookup services behind the built-in tools. A nil backend
// leaves its tool unregistered.
type Backends struct {
	Arxiv     Searcher
	Wikipedia Searcher
}

// Registry holds registered tools and handles execution.
type Registry struct {
	registry map[string]tool
	order    []string
	ctx      Context
	params   []openai.ChatCompletionToolParam
}

type toolResponse struct {
	OK   bool        `json:"ok"`
	Tool string      `json:"tool,omitempty"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"error,omitempty"`
}

// New builds a registry with the arxiv and wikipedia tools.
func New(ctx Context, backends Backends) *Registry {
	if ctx.Logger == nil {
		ctx.Logger = loggerpkg.NopLogger{}
	}
	if ctx.TopK <= 0 {
		ctx.TopK = DefaultTopK
	}
	if ctx.MaxChars <= 0 {
		ctx.MaxChars = DefaultMaxChars
	}
	t := &Registry{
		registry: make(map[string]tool),
		ctx:      ctx,
	}

	if backends.Arxiv != nil {
		t.register(newArxivTool(ctx, backends.Arxiv))
	}
	if backends.Wikipedia != nil {
		t.register(newWikipediaTool(ctx, backends.Wikipedia))
	}
	return t
}

func (t *Registry) register(toolImpl tool) {
	t.registry[toolImpl.name()] = toolImpl
	t.order = append(t.order, toolImpl.name())
	t.params = append(t.params, toolImpl.definition())
	t.ctx.debugf("registered tool: %s", toolImpl.name())
}

// Definitions returns the function schemas bound to the chat model.
func (t *Registry) Definitions() []openai.ChatCompletionToolParam {
	return t.params
}

// Descriptors lists the registered tools in registration order.
func (t *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.registry[name].descriptor())
	}
	return out
}

// Execute runs one tool call. Tool failures are reported inside the returned
// text so that every call still gets a result; the error is non-nil only when
// the response itself cannot be encoded.
func (t *Registry) Execute(ctx context.Context, call conversation.ToolCall) (string, error) {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return marshalToolResponse(call.Name, nil, ctx.Err())
		default:
		}
	}

	toolImpl, ok := t.registry[call.Name]
	if !ok {
		return marshalToolResponse(call.Name, nil, fmt.Errorf("unknown tool: %s", call.Name))
	}

	return toolImpl.execute(ctx, call.Arguments)
}

func marshalToolResponse(toolName string, data interface{}, err error) (string, error) {
	resp := toolResponse{
		OK:   err == nil,
		Tool: toolName,
		Data: data,
	}
	if err != nil {
		resp.Err = err.Error()
	}
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(payload), nil
}
