// Tests for prompt generation helpers.
package agent

import (
	"strings"
	"testing"

	"github.com/minhyannv/research-agent-go/pkg/tools"
)

// TestBuildSystemPrompt verifies system prompt composition.
func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt([]tools.Descriptor{
		{Name: "arxiv", Description: "Papers\non arxiv.org", TopK: 1, MaxChars: 300},
		{Name: "wikipedia", Description: "", TopK: 1, MaxChars: 300},
	})
	if !containsAll(prompt, []string{
		"research assistant",
		"## Available Tools",
		"**arxiv**: Papers on arxiv.org",
		"**wikipedia**: No description provided.",
		"Results: 1, max 300 characters",
	}) {
		t.Fatalf("prompt missing expected content:\n%s", prompt)
	}
}

// TestBuildSystemPromptWithoutTools omits the tool section.
func TestBuildSystemPromptWithoutTools(t *testing.T) {
	prompt := BuildSystemPrompt(nil)
	if strings.Contains(prompt, "Available Tools") {
		t.Fatalf("unexpected tool section:\n%s", prompt)
	}
}

// containsAll reports whether all substrings exist in text.
func containsAll(text string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(text, needle) {
			return false
		}
	}
	return true
}
