// Package shell provides the "biomark shell" interactive REPL command.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/ner"
	shellpkg "github.com/scilens/biomark/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var evalCmd string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive BioMark shell",
		Long: `Start an interactive REPL with persistent state and tab completion.

Commands run without re-paying startup cost. 'set backend <name>' and
'set model <name>' apply to every command in the session, and
'annotate <text>' tags a sentence directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shellpkg.AnnotateFunc = annotate

			session, err := shellpkg.NewSession()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				session.DefaultBackend, _ = cmd.Flags().GetString("backend")
			}
			if cmd.Flags().Changed("model") {
				session.DefaultModel, _ = cmd.Flags().GetString("model")
			}
			if evalCmd != "" {
				output, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Print(output)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	return cmd
}

// annotate backs the REPL's 'annotate <text>' builtin.
func annotate(ctx context.Context, text, backendName, modelName string) (string, error) {
	backend, err := ner.NewBackend(backendName, modelName)
	if err != nil {
		return "", err
	}

	ext := &extract.Extractor{Backend: backend}
	matches, err := ext.AnnotateText(ctx, text)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d entities\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&b, "  -> '%s' [%s] (pos: %d-%d)\n", m.Text, m.Label, m.Start, m.End)
	}
	return b.String(), nil
}
