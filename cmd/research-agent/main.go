// Package main runs the research assistant as an interactive terminal chat.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/minhyannv/research-agent-go/pkg/agent"
	configpkg "github.com/minhyannv/research-agent-go/pkg/config"
	loggerpkg "github.com/minhyannv/research-agent-go/pkg/logger"
)

// main is the program entry point.
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, stderr io.Writer, opts ...agent.AgentOption) int {
	config, err := parseCLIConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	appLogger := loggerpkg.NewWriterLogger(stderr)
	opts = append([]agent.AgentOption{agent.WithLogger(appLogger)}, opts...)
	app, err := agent.New(context.Background(), config, opts...)
	if err != nil {
		if errors.Is(err, configpkg.ErrMissingAPIKey) {
			_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stderr, "Error initializing research assistant: %v\n", err)
		return 1
	}

	if config.GraphOutput != "" {
		if err := app.VisualizeWorkflow(config.GraphOutput); err != nil {
			_, _ = fmt.Fprintf(out, "Workflow visualization failed: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(out, "Workflow graph saved to %s\n", config.GraphOutput)
		}
	}

	if err := runREPL(app, replOptions{
		Verbose: config.Verbose,
		Logger:  appLogger,
	}, in, out); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
