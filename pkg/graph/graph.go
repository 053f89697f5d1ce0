// Package graph implements the control graph that alternates model turns and
// tool execution until the model answers without requesting a tool.
//
//	__start__ --> chatbot
//	chatbot  -.-> tools | __end__
//	tools     --> chatbot
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhyannv/research-agent-go/pkg/conversation"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
)

// Node names a graph state.
type Node string

const (
	Start   Node = "__start__"
	Process Node = "chatbot"
	Tools   Node = "tools"
	End     Node = "__end__"
)

// DefaultMaxTurns bounds the PROCESS invocations of a single run.
const DefaultMaxTurns = 10

var (
	// ErrTurnLimit is returned when the model keeps requesting tools past
	// the configured number of turns.
	ErrTurnLimit = errors.New("max turns reached before assistant produced a final response")
	// ErrUnansweredToolCall is returned when the tool step leaves a call
	// without a result.
	ErrUnansweredToolCall = errors.New("tool call left without result")
)

// Step runs one node against the current state and returns the messages it
// produced, in order. Steps must not modify state themselves.
type Step func(ctx context.Context, state *conversation.State) ([]conversation.Message, error)

// Emit receives every message appended during a run, in arrival order.
type Emit func(node Node, msg conversation.Message)

// Edge is a directed transition. Conditional edges are chosen by the router.
type Edge struct {
	From        Node
	To          Node
	Conditional bool
}

// Options configures a Graph.
type Options struct {
	MaxTurns int
	Verbose  bool
	Logger   loggerpkg.Logger
}

// Graph wires the turn-processing and tool steps into a loop.
type Graph struct {
	process  Step
	tools    Step
	maxTurns int
	logger   loggerpkg.Logger
	verbose  bool
}

// New builds a graph from its two steps.
func New(process, tools Step, opts Options) (*Graph, error) {
	if process == nil {
		return nil, errors.New("process step is required")
	}
	if tools == nil {
		return nil, errors.New("tools step is required")
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Logger == nil {
		opts.Logger = loggerpkg.NopLogger{}
	}
	return &Graph{
		process:  process,
		tools:    tools,
		maxTurns: opts.MaxTurns,
		logger:   opts.Logger,
		verbose:  opts.Verbose,
	}, nil
}

// Route picks the node following PROCESS from the latest message.
func Route(last conversation.Message) Node {
	switch last.Kind {
	case conversation.KindToolCall:
		if len(last.ToolCalls) > 0 {
			return Tools
		}
		return End
	case conversation.KindAnswer, conversation.KindUser, conversation.KindToolResult, conversation.KindSystem:
		return End
	default:
		return End
	}
}

// Edges lists the graph's transitions.
func Edges() []Edge {
	return []Edge{
		{From: Start, To: Process},
		{From: Process, To: End, Conditional: true},
		{From: Process, To: Tools, Conditional: true},
		{From: Tools, To: Process},
	}
}

// Run drives the graph from START to END. Messages produced by each step are
// appended to state and passed to emit. state is left with everything
// appended up to the failure when an error is returned.
func (g *Graph) Run(ctx context.Context, state *conversation.State, emit Emit) error {
	if state == nil {
		return errors.New("state is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if emit == nil {
		emit = func(Node, conversation.Message) {}
	}

	node := Process
	turns := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch node {
		case Process:
			if turns == g.maxTurns {
				return fmt.Errorf("%w (%d)", ErrTurnLimit, g.maxTurns)
			}
			turns++
			loggerpkg.Debugf(g.verbose, g.logger, "graph: %s turn %d/%d messages=%d", Process, turns, g.maxTurns, state.Len())

			msgs, err := g.process(ctx, state)
			if err != nil {
				return fmt.Errorf("%s: %w", Process, err)
			}
			if len(msgs) == 0 {
				return fmt.Errorf("%s: step produced no message", Process)
			}
			g.appendAll(state, Process, msgs, emit)

			last := msgs[len(msgs)-1]
			node = Route(last)
			loggerpkg.Debugf(g.verbose, g.logger, "graph: route %s -> %s", last.Kind, node)

		case Tools:
			msgs, err := g.tools(ctx, state)
			if err != nil {
				return fmt.Errorf("%s: %w", Tools, err)
			}
			g.appendAll(state, Tools, msgs, emit)
			if pending := state.PendingToolCalls(); len(pending) > 0 {
				return fmt.Errorf("%w: %s", ErrUnansweredToolCall, strings.Join(pending, ", "))
			}
			node = Process

		case End:
			loggerpkg.Debugf(g.verbose, g.logger, "graph: reached %s after %d turn(s)", End, turns)
			return nil

		default:
			return fmt.Errorf("unknown node %q", node)
		}
	}
}

func (g *Graph) appendAll(state *conversation.State, node Node, msgs []conversation.Message, emit Emit) {
	for _, m := range msgs {
		state.Append(m)
		emit(node, m)
	}
}
