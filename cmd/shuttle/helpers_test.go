package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shuttle/internal/config"
	"shuttle/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "shuttle", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[translation]\nsource_language = %q\ntarget_language = %q\n\n",
		cfg.Translation.SourceLanguage, cfg.Translation.TargetLanguage)
	fmt.Fprintf(&b, "[llm]\napi_key = %q\nbase_url = %q\nmodel = %q\n\n",
		cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	if cfg.OpenSubtitles.Enabled {
		fmt.Fprintf(&b, "[opensubtitles]\nenabled = true\napi_key = %q\nuser_agent = %q\nbase_url = %q\n\n",
			cfg.OpenSubtitles.APIKey, cfg.OpenSubtitles.UserAgent, cfg.OpenSubtitles.BaseURL)
	}
	fmt.Fprintf(&b, "[paths]\nwork_dir = %q\nlog_dir = %q\njournal_path = %q\n",
		cfg.Paths.WorkDir, cfg.Paths.LogDir, cfg.Paths.JournalPath)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
