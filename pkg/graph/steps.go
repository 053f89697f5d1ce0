package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhyannv/research-agent-go/pkg/conversation"
)

// Generator is the model capability used by the turn-processing step.
type Generator interface {
	Generate(ctx context.Context, history []conversation.Message) (conversation.Message, error)
}

// Executor runs a single tool call and returns its result text.
type Executor interface {
	Execute(ctx context.Context, call conversation.ToolCall) (string, error)
}

// ModelStep invokes the model once with the full history.
func ModelStep(model Generator) Step {
	return func(ctx context.Context, state *conversation.State) ([]conversation.Message, error) {
		msg, err := model.Generate(ctx, state.Messages())
		if err != nil {
			return nil, err
		}
		return []conversation.Message{msg}, nil
	}
}

// ToolStep executes every call of the latest tool-call request, in order,
// and returns one result message per call.
func ToolStep(exec Executor) Step {
	return func(ctx context.Context, state *conversation.State) ([]conversation.Message, error) {
		last, ok := state.Last()
		if !ok || !last.IsToolCallRequest() {
			return nil, errors.New("no tool call request to execute")
		}
		results := make([]conversation.Message, 0, len(last.ToolCalls))
		for _, call := range last.ToolCalls {
			output, err := exec.Execute(ctx, call)
			if err != nil {
				return nil, fmt.Errorf("execute %s: %w", call.Name, err)
			}
			results = append(results, conversation.ToolResult(call.ID, call.Name, output))
		}
		return results, nil
	}
}
