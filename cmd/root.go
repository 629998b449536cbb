// Package cmd contains all CLI commands for the biomark binary.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scilens/biomark/cmd/batch"
	"github.com/scilens/biomark/cmd/completion"
	cmdconfig "github.com/scilens/biomark/cmd/config"
	"github.com/scilens/biomark/cmd/demo"
	"github.com/scilens/biomark/cmd/doctor"
	cmdextract "github.com/scilens/biomark/cmd/extract"
	cmdhighlight "github.com/scilens/biomark/cmd/highlight"
	"github.com/scilens/biomark/cmd/legend"
	"github.com/scilens/biomark/cmd/sample"
	"github.com/scilens/biomark/cmd/scan"
	cmdshell "github.com/scilens/biomark/cmd/shell"
	"github.com/scilens/biomark/cmd/stats"
	"github.com/scilens/biomark/cmd/version"
	cmdwatch "github.com/scilens/biomark/cmd/watch"
	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/output"
	shellpkg "github.com/scilens/biomark/internal/shell"
)

var (
	jsonOutput  bool
	verbose     bool
	backendName string
	modelName   string
	noColor     bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	shellpkg.DefaultRunner = runLine

	rootCmd := &cobra.Command{
		Use:   "biomark",
		Short: "Highlight biomedical entities in Excel spreadsheets",
		Long: `BioMark — biomedical named-entity highlighting for spreadsheets.

Scans .xlsx files for genes, proteins, chemicals, and diseases using a
pretrained NER backend, then writes a highlighted copy with a color legend.
The input workbook is never modified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable per-cell logging")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", defaultBackend(), "NER backend: scispacy | anthropic | openai | ollama")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "NER model name override")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(cmdhighlight.NewCommand())
	rootCmd.AddCommand(scan.NewCommand())
	rootCmd.AddCommand(cmdextract.NewCommand())
	rootCmd.AddCommand(batch.NewCommand())
	rootCmd.AddCommand(demo.NewCommand())
	rootCmd.AddCommand(sample.NewCommand())
	rootCmd.AddCommand(legend.NewCommand())
	rootCmd.AddCommand(stats.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		if jsonOutput {
			_ = output.PrintJSONError(cmd.Name(), err, output.ExitUserError)
		} else {
			output.WriteError("%s", err)
		}
		os.Exit(output.ExitUserError)
	}
}

// runLine executes one command line for the interactive shell.
func runLine(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func defaultBackend() string {
	if b := os.Getenv("BIOMARK_BACKEND"); b != "" {
		return b
	}
	if cfg, err := config.Load(); err == nil && cfg.Backend != "" {
		return cfg.Backend
	}
	return "scispacy"
}

func defaultModel() string {
	if m := os.Getenv("BIOMARK_MODEL"); m != "" {
		return m
	}
	if cfg, err := config.Load(); err == nil {
		return cfg.Model
	}
	return ""
}
