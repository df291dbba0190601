package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/corpuscrawl/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.Shorthand != "o" || flag.DefValue != config.DefaultConfigFile {
		t.Errorf("unexpected output flag: -%s default %q", flag.Shorthand, flag.DefValue)
	}

	flag = cmd.Flags().Lookup("global")
	if flag == nil {
		t.Fatal("expected global flag")
	}
	if flag.Shorthand != "g" || flag.DefValue != "false" {
		t.Errorf("unexpected global flag: -%s default %q", flag.Shorthand, flag.DefValue)
	}

	flag = cmd.Flags().Lookup("force")
	if flag == nil {
		t.Fatal("expected force flag")
	}
	if flag.Shorthand != "f" || flag.DefValue != "false" {
		t.Errorf("unexpected force flag: -%s default %q", flag.Shorthand, flag.DefValue)
	}
}

// runInit executes init with args and returns its output.
func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewInitCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file that loads", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "crawl.yaml")
		output, err := runInit(t, "-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Created configuration file") {
			t.Errorf("unexpected output: %s", output)
		}

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("template does not load: %v", err)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected max_pages %d, got %d", config.DefaultMaxPages, cfg.MaxPages)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0].SourceName != "example" {
			t.Errorf("unexpected targets: %+v", cfg.Targets)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "crawl.yaml")
		if err := os.WriteFile(path, []byte("keep"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := runInit(t, "-o", path); err == nil {
			t.Error("expected error for existing file")
		}
		data, _ := os.ReadFile(path)
		if string(data) != "keep" {
			t.Error("existing file was modified")
		}
	})

	t.Run("overwrites with force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "crawl.yaml")
		if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "targets:") {
			t.Error("expected template content")
		}
	})
}

func TestGlobalConfigPath(t *testing.T) {
	t.Parallel()

	want := filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile)
	if got := globalConfigPath(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestInitGlobalAndOutputAreExclusive(t *testing.T) {
	t.Parallel()

	if _, err := runInit(t, "--global", "-o", filepath.Join(t.TempDir(), "x.yaml")); err == nil {
		t.Error("expected error for --global with --output")
	}
}
