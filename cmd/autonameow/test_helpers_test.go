package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autonameow/internal/services"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	filesDir   string
}

const testRules = `
[[rules]]
description = "filetags"
exact_match = true
name_template = "{datetime} {description} -- {tags}.{extension}"

  [[rules.conditions]]
  meowuri = "extractor.filesystem.filetags.follows_filetags_convention"
  expression = true

  [rules.data_sources]
  datetime = "extractor.filesystem.filetags.datetime"
  description = "extractor.filesystem.filetags.description"
  tags = "extractor.filesystem.filetags.tags"
  extension = "extractor.filesystem.filetags.extension"
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))

	files := filepath.Join(base, "files")
	if err := os.MkdirAll(files, 0o755); err != nil {
		t.Fatalf("mkdir files: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\npersistence_dir = %q\nlog_dir = %q\n\n", filepath.Join(base, "state"), filepath.Join(base, "logs"))
	b.WriteString("[logging]\nlevel = \"error\"\n\n")
	b.WriteString("[exiftool]\nenabled = false\n\n")
	b.WriteString("[pdftotext]\nenabled = false\n")
	b.WriteString(testRules)
	if err := os.WriteFile(configPath, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, filesDir: files}
}

func (env *cliTestEnv) writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(env.filesDir, name)
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, services.ExitCode, error) {
	t.Helper()

	cmd, cctx := newRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	full := append([]string{}, args...)
	if configPath != "" {
		full = append(full, "--config", configPath)
	}
	cmd.SetArgs(full)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), cctx.exitCode, err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
