package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCLIConfigFlagsOverrideFile(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_MODEL", "")
	path := filepath.Join(t.TempDir(), "research.yaml")
	if err := os.WriteFile(path, []byte("model: from-file\nmax_turns: 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := parseCLIConfig([]string{"-config", path, "-max_turns", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "from-file" {
		t.Fatalf("model = %q, want from-file", cfg.Model)
	}
	if cfg.MaxTurns != 7 {
		t.Fatalf("max turns = %d, want 7", cfg.MaxTurns)
	}
}

func TestParseCLIConfigRejectsUnknownFlag(t *testing.T) {
	if _, err := parseCLIConfig([]string{"-top_k", "3"}, io.Discard); err == nil {
		t.Fatal("expected unknown flag to be rejected")
	}
}
