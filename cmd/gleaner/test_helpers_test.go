package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gleaner/internal/catalog"
	"gleaner/internal/records"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
	exportDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	dataDir := filepath.Join(base, "data")
	logDir := filepath.Join(base, "logs")
	exportDir := filepath.Join(base, "exports")

	configPath := filepath.Join(homeDir, ".config", "gleaner", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
export_dir = %q

[youtube]
api_key = "test-yt-key"

[llm]
api_key = "test-llm-key"
`, dataDir, logDir, exportDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		dataDir:    dataDir,
		exportDir:  exportDir,
	}
}

func (env *cliTestEnv) seedRun(t *testing.T, recs []records.Record) *catalog.Run {
	t.Helper()
	store, err := catalog.Open(filepath.Join(env.dataDir, "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer store.Close()

	run := &catalog.Run{PlaylistID: "PLseed"}
	if err := store.SaveRun(context.Background(), run, recs); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	return run
}

func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}
