package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAppendOnlyCopies(t *testing.T) {
	s := NewState(User("hello"))
	s.Append(ToolRequest("", ToolCall{ID: "call_1", Name: "arxiv", Arguments: `{"query":"x"}`}))

	msgs := s.Messages()
	msgs[0].Content = "mutated"
	msgs[1].ToolCalls[0].Name = "mutated"

	again := s.Messages()
	assert.Equal(t, "hello", again[0].Content)
	assert.Equal(t, "arxiv", again[1].ToolCalls[0].Name)
	assert.Equal(t, 2, s.Len())
}

func TestStateLast(t *testing.T) {
	s := NewState(User("a"), Answer("b"), User("c"))

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, KindUser, last.Kind)

	_, ok = NewState().Last()
	assert.False(t, ok)
}

func TestStateForkIsIndependent(t *testing.T) {
	s := NewState(User("a"))
	f := s.Fork()
	f.Append(Answer("b"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, f.Len())
}

func TestPendingToolCalls(t *testing.T) {
	s := NewState(User("q"))
	assert.Empty(t, s.PendingToolCalls())

	s.Append(ToolRequest("",
		ToolCall{ID: "a", Name: "arxiv"},
		ToolCall{ID: "b", Name: "wikipedia"},
	))
	assert.Equal(t, []string{"a", "b"}, s.PendingToolCalls())

	s.Append(ToolResult("a", "arxiv", "paper"))
	assert.Equal(t, []string{"b"}, s.PendingToolCalls())

	s.Append(ToolResult("b", "wikipedia", "page"))
	assert.Empty(t, s.PendingToolCalls())
}

func TestMessageRoles(t *testing.T) {
	assert.Equal(t, RoleSystem, System("s").Role())
	assert.Equal(t, RoleUser, User("u").Role())
	assert.Equal(t, RoleAssistant, Answer("a").Role())
	assert.Equal(t, RoleAssistant, ToolRequest("", ToolCall{ID: "1"}).Role())
	assert.Equal(t, RoleTool, ToolResult("1", "arxiv", "r").Role())
	assert.False(t, ToolRequest("").IsToolCallRequest())
}

func TestPrettyRendersToolCalls(t *testing.T) {
	out := ToolRequest("", ToolCall{ID: "call_9", Name: "wikipedia", Arguments: `{"query":"Paris"}`}).Pretty()

	assert.True(t, strings.HasPrefix(out, "="))
	assert.Contains(t, out, " Ai Message ")
	assert.Contains(t, out, "wikipedia (call_9)")
	assert.Contains(t, out, "query: Paris")

	human := User("What is the capital of France?").Pretty()
	assert.Contains(t, human, " Human Message ")
	assert.Contains(t, human, "What is the capital of France?")
	assert.Len(t, strings.Split(human, "\n")[0], prettyWidth)
}

func TestPrettyKeepsNonJSONArguments(t *testing.T) {
	out := ToolRequest("", ToolCall{ID: "x", Name: "arxiv", Arguments: "not json"}).Pretty()
	assert.Contains(t, out, "    not json")
}
