// Package doctor provides the "biomark doctor" command for checking system health.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/ner"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and dependencies",
		Long:  "Run diagnostic checks to verify BioMark is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks(cmd.Context())

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("BioMark Doctor")
			fmt.Println("==============")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context) []Check {
	var checks []Check

	// Check Go runtime
	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	// Check config directory
	home, _ := os.UserHomeDir()
	configDir := home + "/.biomark"
	if info, err := os.Stat(configDir); err == nil && info.IsDir() {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "ok",
			Message: configDir,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — run 'biomark config init'", configDir),
		})
	}

	// Check config file
	configFile := configDir + "/config.yaml"
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: configFile,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — run 'biomark config init'",
		})
	}

	// Check the scispaCy sidecar
	url := os.Getenv("BIOMARK_NER_URL")
	if url == "" {
		if cfg, err := config.Load(); err == nil && cfg.NER.URL != "" {
			url = cfg.NER.URL
		}
	}
	if url == "" {
		url = ner.DefaultSidecarURL
	}
	healthCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := ner.NewSciSpacyBackend(url, "").Health(healthCtx); err == nil {
		checks = append(checks, Check{
			Name:    "NER Server",
			Status:  "ok",
			Message: fmt.Sprintf("Reachable at %s", url),
		})
	} else {
		checks = append(checks, Check{
			Name:    "NER Server",
			Status:  "warning",
			Message: fmt.Sprintf("Not reachable at %s — start it with 'python3 scripts/ner_server.py'", url),
		})
	}

	// Check LLM backends
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		checks = append(checks, Check{
			Name:    "LLM Backend (Anthropic)",
			Status:  "ok",
			Message: "ANTHROPIC_API_KEY set",
		})
	} else if os.Getenv("OPENAI_API_KEY") != "" {
		checks = append(checks, Check{
			Name:    "LLM Backend (OpenAI)",
			Status:  "ok",
			Message: "OPENAI_API_KEY set",
		})
	} else if _, err := exec.LookPath("ollama"); err == nil {
		checks = append(checks, Check{
			Name:    "LLM Backend (Ollama)",
			Status:  "ok",
			Message: "Ollama found in PATH",
		})
	} else {
		checks = append(checks, Check{
			Name:    "LLM Backend",
			Status:  "warning",
			Message: "No API key set — the scispacy sidecar is the only available backend",
		})
	}

	// Check write access for highlighted copies
	if f, err := os.CreateTemp(".", ".biomark-doctor-*"); err == nil {
		f.Close()
		os.Remove(f.Name())
		checks = append(checks, Check{
			Name:    "Write Access",
			Status:  "ok",
			Message: "Current directory is writable",
		})
	} else {
		checks = append(checks, Check{
			Name:    "Write Access",
			Status:  "error",
			Message: "Cannot write to the current directory — highlighted copies would fail to save",
		})
	}

	// Check python3 (needed to run the sidecar)
	if _, err := exec.LookPath("python3"); err == nil {
		checks = append(checks, Check{
			Name:    "Python 3",
			Status:  "ok",
			Message: "Available",
		})
	} else {
		checks = append(checks, Check{
			Name:    "Python 3",
			Status:  "warning",
			Message: "Not found in PATH — required to run the scispaCy sidecar",
		})
	}

	return checks
}
