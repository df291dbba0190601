package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/database"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// reportOptions selects how summaries are rendered.
type reportOptions struct {
	json     bool
	markdown bool
	output   string
	verbose  bool
}

// addReportFlags registers the --json, --markdown and --output flags.
func addReportFlags(cmd *cobra.Command, what string) {
	addFormatFlags(cmd, what)
	cmd.Flags().StringP("output", "o", "",
		fmt.Sprintf("Also write the %s to specified file path (creates directories if needed)", what))
}

// addFormatFlags registers the mutually exclusive --json and --markdown flags.
func addFormatFlags(cmd *cobra.Command, what string) {
	cmd.Flags().BoolP("json", "j", false,
		fmt.Sprintf("Output JSON %s (mutually exclusive with --markdown)", what))
	cmd.Flags().BoolP("markdown", "m", false,
		fmt.Sprintf("Output Markdown %s (mutually exclusive with --json)", what))
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
}

// getReportOptions reads the flags registered by addReportFlags. Commands
// without an --output flag always render to stdout.
func getReportOptions(cmd *cobra.Command) (reportOptions, error) {
	opts := reportOptions{verbose: getVerboseFlag(cmd)}
	var err error
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}
	if cmd.Flags().Lookup("output") == nil {
		return opts, nil
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return opts, err
	}
	return opts, nil
}

// formatWriter returns the Writer for the selected format.
func (o reportOptions) formatWriter(w io.Writer) report.Writer {
	switch {
	case o.json:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case o.markdown:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(o.verbose))
	}
}

// writeReport renders a summary with write. Without --output the selected
// format goes to stdout. With --output the text summary goes to stdout and
// the selected format to the file.
func writeReport(stdout io.Writer, opts reportOptions, write func(report.Writer) (int, error)) (err error) {
	if opts.output == "" {
		_, err = write(opts.formatWriter(stdout))
		return err
	}

	if dir := filepath.Dir(opts.output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output file: %w", cerr))
		}
	}()

	w := report.NewMultiWriter(
		report.NewSimpleWriter(stdout, report.WithVerbose(opts.verbose)),
		opts.formatWriter(f),
	)
	_, err = write(w)
	return err
}

// resolveStoreConfig returns the store named by the configuration file at
// configPath. Without a path the file is looked up with
// config.FindConfigFile, and the default store is used when none exists.
func resolveStoreConfig(configPath string) (config.StoreConfig, error) {
	if configPath == "" {
		configPath = config.FindConfigFile("")
	}
	if configPath == "" {
		return config.DefaultStoreConfig(), nil
	}

	f, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.StoreConfig{}, err
	}
	return f.StoreConfig(), nil
}

// withExistingStore opens a store that must already exist, runs fn and
// closes the store.
func withExistingStore(ctx context.Context, storeCfg config.StoreConfig, logger *slog.Logger, fn func(context.Context, *database.Store) error) error {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	store, err := database.Open(storeCfg, opts)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	return fn(ctx, store)
}
