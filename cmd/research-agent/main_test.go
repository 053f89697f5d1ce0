package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minhyannv/research-agent-go/pkg/agent"
	configpkg "github.com/minhyannv/research-agent-go/pkg/config"
	"github.com/minhyannv/research-agent-go/pkg/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	inputs []string
	resets int
	err    error
}

func (f *fakeSession) Stream(input string, emit func(conversation.Message)) error {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return f.err
	}
	emit(conversation.User(input))
	emit(conversation.Answer("answer to " + input))
	return nil
}

func (f *fakeSession) Reset() { f.resets++ }

func TestREPLExitKeywordsSkipGraph(t *testing.T) {
	for _, kw := range []string{"quit", "QUIT", "q", "Q", "Quit", "/exit"} {
		t.Run(kw, func(t *testing.T) {
			app := &fakeSession{}
			var out bytes.Buffer
			require.NoError(t, runREPL(app, replOptions{}, strings.NewReader(kw+"\nafter exit\n"), &out))
			assert.Empty(t, app.inputs)
			assert.Contains(t, out.String(), "Goodbye!")
		})
	}
}

func TestREPLPrintsMessagesInOrder(t *testing.T) {
	app := &fakeSession{}
	var out bytes.Buffer
	in := strings.NewReader("\nWhat is the capital of France?\nq\n")
	require.NoError(t, runREPL(app, replOptions{}, in, &out))

	assert.Equal(t, []string{"What is the capital of France?"}, app.inputs)
	text := out.String()
	assert.Contains(t, text, "User: ")
	human := strings.Index(text, "Human Message")
	ai := strings.Index(text, "Ai Message")
	require.True(t, human >= 0 && ai > human)
	assert.Contains(t, text, "answer to What is the capital of France?")
}

func TestREPLContinuesAfterTurnError(t *testing.T) {
	app := &fakeSession{err: errors.New("provider down")}
	var out bytes.Buffer
	require.NoError(t, runREPL(app, replOptions{}, strings.NewReader("one\ntwo\n"), &out))

	assert.Equal(t, []string{"one", "two"}, app.inputs)
	assert.Equal(t, 2, strings.Count(out.String(), "Error: provider down"))
}

func TestREPLCommands(t *testing.T) {
	app := &fakeSession{}
	var out bytes.Buffer
	require.NoError(t, runREPL(app, replOptions{}, strings.NewReader("/clear\n/help\n"), &out))

	assert.Equal(t, 1, app.resets)
	assert.Empty(t, app.inputs)
	assert.Contains(t, out.String(), "Conversation history cleared.")
	assert.Contains(t, out.String(), "/clear - Clear conversation history")
}

func TestREPLSlashQuestionReachesSession(t *testing.T) {
	app := &fakeSession{}
	var out bytes.Buffer
	in := strings.NewReader("/usr/bin vs /bin on Linux?\n/bogus\n")
	require.NoError(t, runREPL(app, replOptions{}, in, &out))

	assert.Equal(t, []string{"/usr/bin vs /bin on Linux?", "/bogus"}, app.inputs)
	assert.Contains(t, out.String(), "answer to /usr/bin vs /bin on Linux?")
	assert.NotContains(t, out.String(), "Unknown command")
}

func TestREPLRequiresSession(t *testing.T) {
	require.Error(t, runREPL(nil, replOptions{}, strings.NewReader(""), nil))
}

type answerModel struct{ calls int }

func (m *answerModel) Generate(context.Context, []conversation.Message) (conversation.Message, error) {
	m.calls++
	return conversation.Answer("Paris."), nil
}

type nopSearcher struct{}

func (nopSearcher) Search(context.Context, string, int) ([]string, error) { return nil, nil }

type failingRenderer struct{}

func (failingRenderer) WriteFile(context.Context, string) error { return errors.New("offline") }

func TestRunMissingCredentialExitsBeforeREPL(t *testing.T) {
	t.Setenv(configpkg.EnvAPIKey, "")
	model := &answerModel{}
	var out, stderr bytes.Buffer

	code := run([]string{"-graph_out", ""}, strings.NewReader("hello\n"), &out, &stderr, agent.WithChatModel(model))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), configpkg.EnvAPIKey)
	assert.Zero(t, model.calls)
	assert.NotContains(t, out.String(), "User: ")
}

func TestRunSessionWithFailedVisualization(t *testing.T) {
	t.Setenv(configpkg.EnvAPIKey, "test-key")
	model := &answerModel{}
	var out, stderr bytes.Buffer

	code := run(nil, strings.NewReader("What is the capital of France?\nquit\n"), &out, &stderr,
		agent.WithChatModel(model),
		agent.WithArxiv(nopSearcher{}),
		agent.WithWikipedia(nopSearcher{}),
		agent.WithRenderer(failingRenderer{}),
	)
	assert.Equal(t, 0, code)
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, out.String(), "Workflow visualization failed: offline")
	assert.Contains(t, out.String(), "Paris.")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestParseCLIConfigFlagsOverride(t *testing.T) {
	t.Setenv(configpkg.EnvAPIKey, "k")
	t.Setenv(configpkg.EnvModel, "from-env")

	cfg, err := parseCLIConfig([]string{"-model", "from-flag", "-max_turns", "3", "-graph_out", ""}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Model)
	assert.Equal(t, 3, cfg.MaxTurns)
	assert.Equal(t, "", cfg.GraphOutput)

	cfg, err = parseCLIConfig(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, configpkg.DefaultGraphOutput, cfg.GraphOutput)
}
