package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/config"
)

//go:embed templates/corpuscrawl.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a corpuscrawl configuration file",
		Long: `Init writes an annotated configuration file with every key and its
default value.

Examples:
  # Create corpuscrawl.yaml in the current directory
  corpuscrawl init

  # Create config file at a specific path
  corpuscrawl init -o configs/news.yaml

  # Create the per-user file that clean, index and search fall back to
  corpuscrawl init --global

  # Force overwrite existing file
  corpuscrawl init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("global", "g", false,
		"Write the configuration to the XDG config directory")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.MarkFlagsMutuallyExclusive("output", "global")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	if global {
		outputPath = globalConfigPath()
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/corpuscrawl.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit the targets list, then start crawling with:")
	fmt.Fprintf(out, "  corpuscrawl crawl %s\n", outputPath)

	return nil
}

// globalConfigPath is the per-user configuration file.
func globalConfigPath() string {
	return filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile)
}
