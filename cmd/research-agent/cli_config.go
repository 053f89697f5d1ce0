package main

import (
	"flag"
	"io"
	"strings"

	configpkg "github.com/minhyannv/research-agent-go/pkg/config"
)

// cliFlags holds the raw command-line values before they are merged.
type cliFlags struct {
	configPath string
	model      string
	maxTurns   int
	graphOut   string
	verbose    bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	defaults := configpkg.DefaultConfig()
	fs := flag.NewFlagSet("research-agent", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "Optional YAML config file")
	fs.StringVar(&f.model, "model", "", "Chat model name (overrides "+configpkg.EnvModel+")")
	fs.IntVar(&f.maxTurns, "max_turns", defaults.MaxTurns, "Max model turns per question")
	fs.StringVar(&f.graphOut, "graph_out", defaults.GraphOutput, "Workflow graph image path (set empty to skip rendering)")
	fs.BoolVar(&f.verbose, "verbose", defaults.Verbose, "Verbose graph and tool logging")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// parseCLIConfig loads env, the optional config file and flags into runtime config.
// Flags given explicitly win over file and environment values.
func parseCLIConfig(args []string, stderr io.Writer) (configpkg.Config, error) {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return configpkg.Config{}, err
	}

	cfg, err := configpkg.Load(f.configPath)
	if err != nil {
		return configpkg.Config{}, err
	}
	if f.set["model"] {
		cfg.Model = strings.TrimSpace(f.model)
	}
	if f.set["max_turns"] {
		cfg.MaxTurns = f.maxTurns
	}
	if f.set["graph_out"] {
		cfg.GraphOutput = strings.TrimSpace(f.graphOut)
	}
	if f.set["verbose"] {
		cfg.Verbose = f.verbose
	}
	return configpkg.Normalize(cfg), nil
}
