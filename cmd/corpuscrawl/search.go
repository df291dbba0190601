package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/index"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// exitCommand ends an interactive search session.
const exitCommand = "exit"

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Answer boolean queries against the cleaned text",
		Long: `Search indexes the cleaned documents and prints the URLs of the documents
matching a boolean query.

Query words are combined left to right. The operators and, or and not
apply to every following word until the next operator; words without an
operator in between are combined with and. A word matches every document
containing a word with the same stem.

With a query argument one query is answered. Without one, queries are read
from standard input, one per line, until "exit" or end of input.

Examples:
  # Documents about books and reading
  corpuscrawl search книга and чтение

  # Documents about cats or dogs, but not birds
  corpuscrawl search кошка or собака not птица

  # Interactive session against a configured store
  corpuscrawl search -c corpuscrawl.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file whose db section selects the store")
	addFormatFlags(cmd, "results")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	opts, err := getReportOptions(cmd)
	if err != nil {
		return err
	}

	storeCfg, err := resolveStoreConfig(configPath)
	if err != nil {
		return err
	}

	// Logs go to stderr so that stdout carries only results.
	logger := setupLogger(cmd.ErrOrStderr(), opts.verbose)

	ix, _, err := buildIndex(cmd.Context(), storeCfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return writeSearch(out, opts, ix, strings.Join(args, " "))
	}
	return searchLoop(cmd.InOrStdin(), out, opts, ix)
}

// searchLoop answers one query per input line until exitCommand or end of
// input.
func searchLoop(in io.Reader, out io.Writer, opts reportOptions, ix *index.Index) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nEnter a boolean query (or exit): ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == exitCommand {
			break
		}
		if query == "" {
			continue
		}
		if err := writeSearch(out, opts, ix, query); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read query: %w", err)
	}
	return nil
}

// writeSearch answers query and renders the result.
func writeSearch(out io.Writer, opts reportOptions, ix *index.Index, query string) error {
	result := ix.Search(query)
	return writeReport(out, opts, func(w report.Writer) (int, error) {
		return w.WriteSearch(result)
	})
}
