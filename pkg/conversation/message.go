// Package conversation holds the message types and the append-only
// conversation state threaded through the control graph.
package conversation

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Role is the role for a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Kind discriminates the message variants.
type Kind int

const (
	KindSystem Kind = iota + 1
	KindUser
	KindAnswer
	KindToolCall
	KindToolResult
)

func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindUser:
		return "user"
	case KindAnswer:
		return "answer"
	case KindToolCall:
		return "tool_call"
	case KindToolResult:
		return "tool_result"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ToolCall is one structured tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is a tagged variant. Which fields are meaningful depends on Kind:
// ToolCalls for KindToolCall, ToolCallID and ToolName for KindToolResult.
type Message struct {
	Kind       Kind
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// System builds a system prompt message.
func System(content string) Message {
	return Message{Kind: KindSystem, Content: content}
}

// User builds an operator message.
func User(content string) Message {
	return Message{Kind: KindUser, Content: content}
}

// Answer builds a plain assistant answer.
func Answer(content string) Message {
	return Message{Kind: KindAnswer, Content: content}
}

// ToolRequest builds an assistant message requesting one or more tool calls.
func ToolRequest(content string, calls ...ToolCall) Message {
	return Message{
		Kind:      KindToolCall,
		Content:   content,
		ToolCalls: append([]ToolCall(nil), calls...),
	}
}

// ToolResult builds the result message answering the call with callID.
func ToolResult(callID, toolName, content string) Message {
	return Message{
		Kind:       KindToolResult,
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
	}
}

// Role maps the message kind onto a chat role.
func (m Message) Role() Role {
	switch m.Kind {
	case KindSystem:
		return RoleSystem
	case KindUser:
		return RoleUser
	case KindAnswer, KindToolCall:
		return RoleAssistant
	case KindToolResult:
		return RoleTool
	default:
		return ""
	}
}

// IsToolCallRequest reports whether the message asks for tool execution.
func (m Message) IsToolCallRequest() bool {
	return m.Kind == KindToolCall && len(m.ToolCalls) > 0
}

func (m Message) clone() Message {
	if m.ToolCalls != nil {
		m.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
	}
	return m
}

const prettyWidth = 80

// Pretty renders the message for a terminal transcript.
func (m Message) Pretty() string {
	var b strings.Builder
	b.WriteString(prettyHeader(m.title()))
	b.WriteString("\n")
	if m.Kind == KindToolResult && m.ToolName != "" {
		fmt.Fprintf(&b, "Name: %s\n", m.ToolName)
	}
	if strings.TrimSpace(m.Content) != "" {
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	if m.Kind == KindToolCall && len(m.ToolCalls) > 0 {
		b.WriteString("Tool Calls:\n")
		for _, call := range m.ToolCalls {
			fmt.Fprintf(&b, "  %s (%s)\n", call.Name, call.ID)
			fmt.Fprintf(&b, " Call ID: %s\n", call.ID)
			b.WriteString("  Args:\n")
			b.WriteString(prettyArgs(call.Arguments))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Message) title() string {
	switch m.Kind {
	case KindSystem:
		return "System Message"
	case KindUser:
		return "Human Message"
	case KindAnswer, KindToolCall:
		return "Ai Message"
	case KindToolResult:
		return "Tool Message"
	default:
		return "Message"
	}
}

func prettyHeader(title string) string {
	title = " " + title + " "
	pad := prettyWidth - len(title)
	if pad < 2 {
		return title
	}
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}

func prettyArgs(arguments string) string {
	parsed := gjson.Parse(arguments)
	if !gjson.Valid(arguments) || !parsed.IsObject() {
		return "    " + arguments + "\n"
	}
	var b strings.Builder
	parsed.ForEach(func(key, value gjson.Result) bool {
		fmt.Fprintf(&b, "    %s: %s\n", key.String(), value.String())
		return true
	})
	return b.String()
}
