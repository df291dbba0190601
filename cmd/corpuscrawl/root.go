package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/log"
)

// NewRootCmd creates the root command for corpuscrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpuscrawl",
		Short: "Breadth-first web crawler for building text corpora",
		Long: `corpuscrawl crawls websites breadth-first, stores the raw HTML of every
page in an embedded SQLite database, and extracts plain text from the
stored pages in a separate cleaning pass. The cleaned text can then be
indexed for corpus statistics and boolean search.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCleanCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure logger for a command and makes it the
// default.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}
