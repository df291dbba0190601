package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/index"
	"github.com/nao1215/corpuscrawl/internal/report"
)

func TestResolveStoreConfig(t *testing.T) {
	t.Parallel()

	t.Run("explicit file selects the store", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, "http://example.com", 1)

		storeCfg, err := resolveStoreConfig(cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if storeCfg.Dir != dir || storeCfg.CollectionName != "pages" {
			t.Errorf("unexpected store config: %+v", storeCfg)
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := resolveStoreConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	result := index.SearchResult{Query: "кот", Matches: []index.Match{{ID: 1, URL: "http://a.test"}}}
	write := func(w report.Writer) (int, error) { return w.WriteSearch(result) }

	t.Run("selected format to stdout", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		if err := writeReport(&stdout, reportOptions{json: true}, write); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), `"query": "кот"`) {
			t.Errorf("expected json on stdout: %s", stdout.String())
		}
	})

	t.Run("text to stdout and selected format to file", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		path := filepath.Join(t.TempDir(), "nested", "search.md")
		if err := writeReport(&stdout, reportOptions{markdown: true, output: path}, write); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.String() != "Documents found: 1\n- http://a.test\n" {
			t.Errorf("unexpected stdout %q", stdout.String())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !strings.Contains(string(data), "# Search Results") {
			t.Errorf("unexpected file content:\n%s", data)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0600); err != nil {
			t.Fatal(err)
		}
		var stdout bytes.Buffer
		if err := writeReport(&stdout, reportOptions{output: filepath.Join(blocker, "report.txt")}, write); err == nil {
			t.Error("expected error for a path below a regular file")
		}
	})
}

func TestGetReportOptionsWithoutOutputFlag(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCmd()
	if err := cmd.Flags().Parse([]string{"--markdown"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	opts, err := getReportOptions(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.markdown || opts.json || opts.output != "" {
		t.Errorf("unexpected options: %+v", opts)
	}
}
