package agent

import (
	"fmt"
	"strings"

	"github.com/minhyannv/research-agent-go/pkg/tools"
)

// BuildSystemPrompt constructs a system prompt listing the lookup tools.
func BuildSystemPrompt(descs []tools.Descriptor) string {
	var sb strings.Builder
	sb.WriteString("You are a research assistant. Answer directly when you can; use a tool when the question needs a paper or encyclopedia lookup.")

	if md := toolsMarkdown(descs); md != "" {
		sb.WriteString("\n\n")
		sb.WriteString(md)
	}

	return strings.TrimSpace(sb.String())
}

// toolsMarkdown renders a markdown listing of the available tools.
func toolsMarkdown(descs []tools.Descriptor) string {
	if len(descs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Available Tools\n")
	sb.WriteString("Each tool returns at most the listed number of results, cut to the listed character budget.\n\n")

	for _, d := range descs {
		desc := sanitizeMarkdown(d.Description)
		if desc == "" {
			desc = "No description provided."
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n  - Results: %d, max %d characters\n", sanitizeMarkdown(d.Name), desc, d.TopK, d.MaxChars))
	}

	return strings.TrimSpace(sb.String())
}

// sanitizeMarkdown keeps markdown fields single-line and trimmed.
func sanitizeMarkdown(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.TrimSpace(value)
}
