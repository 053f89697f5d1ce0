// Package llm wraps a hosted chat-completion model behind a single-call
// interface that speaks conversation messages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minhyannv/research-agent-go/pkg/conversation"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

// ChatModel produces exactly one new message for the given history.
type ChatModel interface {
	Generate(ctx context.Context, history []conversation.Message) (conversation.Message, error)
}

// Options configures an OpenAIModel.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Limiter optionally paces requests to the provider.
	Limiter *rate.Limiter
	Verbose bool
	Logger  loggerpkg.Logger
	// RequestOptions are appended after the derived ones.
	RequestOptions []option.RequestOption
}

// OpenAIModel talks to any OpenAI-compatible chat completion endpoint.
type OpenAIModel struct {
	client  openai.Client
	model   string
	tools   []openai.ChatCompletionToolParam
	limiter *rate.Limiter
	logger  loggerpkg.Logger
	verbose bool
}

// NewOpenAI builds a chat model client.
func NewOpenAI(opts Options) (*OpenAIModel, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("api key is not set")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("model is not set")
	}
	if opts.Logger == nil {
		opts.Logger = loggerpkg.NopLogger{}
	}
	return &OpenAIModel{
		client:  openai.NewClient(requestOptions(opts)...),
		model:   opts.Model,
		limiter: opts.Limiter,
		logger:  opts.Logger,
		verbose: opts.Verbose,
	}, nil
}

func requestOptions(opts Options) []option.RequestOption {
	out := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		out = append(out, option.WithBaseURL(opts.BaseURL))
	}
	return append(out, opts.RequestOptions...)
}

// BindTools returns a copy of the model that offers tools on every request,
// so the model may answer with a tool call.
func (m *OpenAIModel) BindTools(tools []openai.ChatCompletionToolParam) *OpenAIModel {
	cp := *m
	cp.tools = tools
	return &cp
}

// Generate performs one completion request.
func (m *OpenAIModel) Generate(ctx context.Context, history []conversation.Message) (conversation.Message, error) {
	params, err := ToParams(history)
	if err != nil {
		return conversation.Message{}, err
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return conversation.Message{}, fmt.Errorf("model rate limit wait: %w", err)
		}
	}

	loggerpkg.Debug(m.verbose, m.logger, "model request", map[string]any{
		"model":    m.model,
		"messages": len(params),
		"tools":    len(m.tools),
	})
	req := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: params,
	}
	if len(m.tools) > 0 {
		req.Tools = m.tools
	}
	completion, err := m.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return conversation.Message{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return conversation.Message{}, errors.New("empty completion choices")
	}
	loggerpkg.Debug(m.verbose, m.logger, "model response", map[string]any{
		"finish_reason": completion.Choices[0].FinishReason,
		"tool_calls":    len(completion.Choices[0].Message.ToolCalls),
	})
	return FromCompletion(completion.Choices[0].Message), nil
}

// FromCompletion converts a provider message into a tagged message. Tool
// calls without an ID get a generated one so results can be paired.
func FromCompletion(msg openai.ChatCompletionMessage) conversation.Message {
	if len(msg.ToolCalls) == 0 {
		return conversation.Answer(msg.Content)
	}
	calls := make([]conversation.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		id := tc.ID
		if strings.TrimSpace(id) == "" {
			id = "call_" + uuid.NewString()
		}
		calls = append(calls, conversation.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return conversation.ToolRequest(msg.Content, calls...)
}

// ToParams converts history into request messages.
func ToParams(history []conversation.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for i, msg := range history {
		switch msg.Kind {
		case conversation.KindSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case conversation.KindUser:
			out = append(out, openai.UserMessage(msg.Content))
		case conversation.KindAnswer:
			out = append(out, openai.AssistantMessage(msg.Content))
		case conversation.KindToolCall:
			p := openai.AssistantMessage(msg.Content)
			for _, call := range msg.ToolCalls {
				p.OfAssistant.ToolCalls = append(p.OfAssistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			out = append(out, p)
		case conversation.KindToolResult:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			return nil, fmt.Errorf("invalid message kind at index %d: %s", i, msg.Kind)
		}
	}
	return out, nil
}
