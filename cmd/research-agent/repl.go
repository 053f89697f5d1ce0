package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/minhyannv/research-agent-go/pkg/conversation"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
)

// chatSession is the part of agent.Session the REPL drives.
type chatSession interface {
	Stream(userInput string, emit func(conversation.Message)) error
	Reset()
}

// replOptions configures REPL behavior.
type replOptions struct {
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL reads operator lines until an exit keyword or end of input.
func runREPL(app chatSession, opts replOptions, in io.Reader, out io.Writer) error {
	if app == nil {
		return fmt.Errorf("session is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", nil)

	scanner := bufio.NewScanner(in)
	printWelcome(out)

	for {
		_, _ = fmt.Fprint(out, "User: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExit(input) {
			_, _ = fmt.Fprintln(out, "Goodbye!")
			break
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input, app, out) {
				continue
			}
		}

		err := app.Stream(input, func(msg conversation.Message) {
			_, _ = fmt.Fprintln(out, msg.Pretty())
		})
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "q", "/quit", "/exit", "/q":
		return true
	default:
		return false
	}
}

func printWelcome(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Research Assistant Chat (type 'quit' or 'q' to exit)")
	_, _ = fmt.Fprintln(out, "Commands: /help, /clear")
	_, _ = fmt.Fprintln(out)
}

// handleCommand processes slash commands. It returns true when the input
// was consumed; anything else is a question for the assistant.
func handleCommand(input string, app chatSession, out io.Writer) bool {
	cmd := strings.ToLower(input)
	switch cmd {
	case "/help", "/h":
		printHelp(out)
		return true
	case "/clear", "/c":
		app.Reset()
		_, _ = fmt.Fprintln(out, "Conversation history cleared.")
		_, _ = fmt.Fprintln(out)
		return true
	default:
		return false
	}
}

func printHelp(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  /help  - Show this help message")
	_, _ = fmt.Fprintln(out, "  /clear - Clear conversation history")
	_, _ = fmt.Fprintln(out, "  quit   - Exit the program (also q, /quit, /exit)")
	_, _ = fmt.Fprintln(out)
}
