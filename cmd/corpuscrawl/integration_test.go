package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/database"
	"github.com/nao1215/corpuscrawl/internal/index"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// newSiteServer serves a three-page site with one broken link.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<p>Welcome home</p>
			<a href="/a">A</a><a href="/b">B</a><a href="/missing">Missing</a>
			<a href="https://elsewhere.example/">Elsewhere</a>
		</body></html>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><script>track()</script><p>Page A</p><a href="/">Home</a></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>Page <b>B</b></p></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// writeConfig writes a crawl configuration for target into dir.
func writeConfig(t *testing.T, dir, target string, maxPages int) string {
	t.Helper()

	content := fmt.Sprintf(`db:
  database_name: corpus
  collection_name: pages
  dir: %q
logic:
  delay: 0
  max_pages: %d
  workers: 2
  timeout: 2
targets:
  - url: %s
    source_name: local
`, dir, maxPages, target)

	path := filepath.Join(dir, "crawl.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// newRussianSiteServer serves a three-page site with Russian text.
func newRussianSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><p>Кошки и собаки</p><a href="/a">A</a><a href="/b">B</a></body></html>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>Кошка спит</p></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>Собака лает</p></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	return executeWithInput(t, "", args...)
}

// executeWithInput runs the root command with args, feeding input to stdin.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// crawlAndClean crawls server into a fresh store and cleans it. It returns
// the configuration path.
func crawlAndClean(t *testing.T, server *httptest.Server) string {
	t.Helper()

	cfgPath := writeConfig(t, t.TempDir(), server.URL, 10)
	if out, err := execute(t, "crawl", cfgPath); err != nil {
		t.Fatalf("crawl failed: %v\n%s", err, out)
	}
	if out, err := execute(t, "clean", "-c", cfgPath); err != nil {
		t.Fatalf("clean failed: %v\n%s", err, out)
	}
	return cfgPath
}

func TestCrawlAndClean(t *testing.T) {
	t.Parallel()

	server := newSiteServer(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, server.URL, 10)

	output, err := execute(t, "crawl", cfgPath)
	if err != nil {
		t.Fatalf("crawl failed: %v\n%s", err, output)
	}
	for _, want := range []string{
		"Downloading: " + server.URL,
		"Skipping " + server.URL + "/missing: Status 404",
		"Crawl finished!",
		"Total pages saved: 3",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in crawl output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "elsewhere.example") {
		t.Errorf("foreign host was crawled:\n%s", output)
	}

	output, err = execute(t, "clean", "--config", cfgPath)
	if err != nil {
		t.Fatalf("clean failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Documents processed:       3") {
		t.Errorf("unexpected clean output:\n%s", output)
	}

	storeCfg := config.DefaultStoreConfig()
	storeCfg.Dir = dir
	store, err := database.Open(storeCfg, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	docs, err := store.ListCleaned(t.Context())
	if err != nil {
		t.Fatalf("failed to list cleaned documents: %v", err)
	}
	texts := make(map[string]string, len(docs))
	for _, d := range docs {
		texts[d.URL] = d.CleanText
	}
	if got := texts[server.URL+"/a"]; got != "Page A Home" {
		t.Errorf("unexpected text for /a: %q", got)
	}
	if got := texts[server.URL+"/b"]; got != "Page B" {
		t.Errorf("unexpected text for /b: %q", got)
	}
}

func TestCrawlCmdErrors(t *testing.T) {
	t.Parallel()

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "crawl"); err == nil {
			t.Error("expected error without config path")
		}
		if _, err := execute(t, "crawl", "a.yaml", "b.yaml"); err == nil {
			t.Error("expected error with two config paths")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "crawl", filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("logic:\n  max_pages: 5\n"), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := execute(t, "crawl", path)
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "crawl", "--json", "--markdown", "a.yaml"); err == nil {
			t.Error("expected error for conflicting formats")
		}
	})

	t.Run("zero budget saves nothing", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t)
		dir := t.TempDir()
		output, err := execute(t, "crawl", writeConfig(t, dir, server.URL, 0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Total pages saved: 0") || strings.Contains(output, "Downloading") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})
}

func TestCleanCmd(t *testing.T) {
	t.Parallel()

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "clean", "extra"); err == nil {
			t.Error("expected error for positional argument")
		}
	})

	t.Run("missing store is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, "http://example.com", 1)
		if _, err := execute(t, "clean", "--config", cfgPath); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("empty store is reported and not fatal", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, "http://example.com", 1)
		storeCfg := config.DefaultStoreConfig()
		storeCfg.Dir = dir
		store, err := database.Open(storeCfg, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		_ = store.Close()

		output, err := execute(t, "clean", "--config", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "no documents found") {
			t.Errorf("expected empty store message:\n%s", output)
		}
	})

	t.Run("json report to file", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, server.URL, 10)
		if out, err := execute(t, "crawl", cfgPath); err != nil {
			t.Fatalf("crawl failed: %v\n%s", err, out)
		}

		reportPath := filepath.Join(dir, "reports", "clean.json")
		if out, err := execute(t, "clean", "-c", cfgPath, "--json", "-o", reportPath); err != nil {
			t.Fatalf("clean failed: %v\n%s", err, out)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		var summary report.CleaningSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			t.Fatalf("invalid json report: %v", err)
		}
		if summary.Processed != 3 || summary.Found != 3 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "clean", "--json", "--markdown"); err == nil {
			t.Error("expected error for conflicting formats")
		}
	})
}

func TestCrawlReports(t *testing.T) {
	t.Parallel()

	t.Run("json report to file keeps text summary", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, server.URL, 10)
		reportPath := filepath.Join(dir, "reports", "crawl.json")

		output, err := execute(t, "crawl", "--json", "-o", reportPath, cfgPath)
		if err != nil {
			t.Fatalf("crawl failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "Total pages saved: 3") {
			t.Errorf("expected text summary on stdout:\n%s", output)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		var summary report.CrawlSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			t.Fatalf("invalid json report: %v", err)
		}
		if summary.PagesSaved != 3 || summary.HTTPErrors != 1 || summary.RunID == "" {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("markdown report to file has outcome chart", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, server.URL, 10)
		reportPath := filepath.Join(dir, "crawl.md")

		if out, err := execute(t, "crawl", "-m", "-o", reportPath, cfgPath); err != nil {
			t.Fatalf("crawl failed: %v\n%s", err, out)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		for _, want := range []string{"# Crawl Report", "```mermaid", "Fetch Outcomes"} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %q in report:\n%s", want, data)
			}
		}
	})

	t.Run("json summary to stdout", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t)
		output, err := execute(t, "crawl", "--json", writeConfig(t, t.TempDir(), server.URL, 10))
		if err != nil {
			t.Fatalf("crawl failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, `"pages_saved": 3`) || strings.Contains(output, "Crawl finished!") {
			t.Errorf("expected only the json summary:\n%s", output)
		}
	})
}

func TestIndexCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints corpus statistics", func(t *testing.T) {
		t.Parallel()

		cfgPath := crawlAndClean(t, newRussianSiteServer(t))

		output, err := execute(t, "index", "-c", cfgPath)
		if err != nil {
			t.Fatalf("index failed: %v\n%s", err, output)
		}
		for _, want := range []string{
			"Index statistics",
			"Documents:            3\n",
			"Total tokens:         7\n",
			"Distinct terms:       5\n",
			"1 | кошк | 2\n",
			"2 | собак | 2\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("json with every term", func(t *testing.T) {
		t.Parallel()

		cfgPath := crawlAndClean(t, newRussianSiteServer(t))
		reportPath := filepath.Join(filepath.Dir(cfgPath), "index.json")

		if out, err := execute(t, "index", "-c", cfgPath, "--top", "0", "--json", "-o", reportPath); err != nil {
			t.Fatalf("index failed: %v\n%s", err, out)
		}
		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		var summary report.IndexSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			t.Fatalf("invalid json report: %v", err)
		}
		if summary.Documents != 3 || len(summary.TopTerms) != 5 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("missing store is an error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, t.TempDir(), "http://example.com", 1)
		if _, err := execute(t, "index", "-c", cfgPath); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "index", "extra"); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

func TestSearchCmd(t *testing.T) {
	t.Parallel()

	server := newRussianSiteServer(t)
	cfgPath := crawlAndClean(t, server)

	t.Run("and", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "search", "-c", cfgPath, "кошка", "and", "собака")
		if err != nil {
			t.Fatalf("search failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "Documents found: 1\n- "+server.URL+"\n") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("not", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "search", "-c", cfgPath, "кошками not собака")
		if err != nil {
			t.Fatalf("search failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "Documents found: 1\n- "+server.URL+"/a\n") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("json result", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "search", "-c", cfgPath, "--json", "собака")
		if err != nil {
			t.Fatalf("search failed: %v\n%s", err, output)
		}
		start := strings.Index(output, "{")
		if start < 0 {
			t.Fatalf("no json in output:\n%s", output)
		}
		var result index.SearchResult
		if err := json.NewDecoder(strings.NewReader(output[start:])).Decode(&result); err != nil {
			t.Fatalf("invalid json result: %v\n%s", err, output)
		}
		if len(result.Matches) != 2 || result.Query != "собака" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("interactive session", func(t *testing.T) {
		t.Parallel()

		output, err := executeWithInput(t, "лает\n\nптица\nexit\nкошка\n", "search", "-c", cfgPath)
		if err != nil {
			t.Fatalf("search failed: %v\n%s", err, output)
		}
		if got := strings.Count(output, "Enter a boolean query (or exit): "); got != 4 {
			t.Errorf("expected 4 prompts, got %d:\n%s", got, output)
		}
		if !strings.Contains(output, "Documents found: 1\n- "+server.URL+"/b\n") {
			t.Errorf("missing first answer:\n%s", output)
		}
		if !strings.Contains(output, "Documents found: 0\n") {
			t.Errorf("missing empty answer:\n%s", output)
		}
		if strings.Contains(output, "Documents found: 2") {
			t.Errorf("query after exit was answered:\n%s", output)
		}
	})

	t.Run("interactive session ends at end of input", func(t *testing.T) {
		t.Parallel()

		output, err := executeWithInput(t, "лает", "search", "-c", cfgPath)
		if err != nil {
			t.Fatalf("search failed: %v\n%s", err, output)
		}
		if !strings.Contains(output, "- "+server.URL+"/b\n") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})
}

// TestStoreLookupInWorkingDirectory changes the working directory and must
// not run in parallel.
func TestStoreLookupInWorkingDirectory(t *testing.T) {
	server := newRussianSiteServer(t)
	cfgPath := crawlAndClean(t, server)

	dir := t.TempDir()
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), data, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Chdir(dir)

	output, err := execute(t, "search", "лает")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "- "+server.URL+"/b\n") {
		t.Errorf("store from %s was not used:\n%s", config.DefaultConfigFile, output)
	}

	output, err = execute(t, "clean")
	if err != nil {
		t.Fatalf("clean failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Documents processed:       3") {
		t.Errorf("unexpected clean output:\n%s", output)
	}
}
