package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Wizard runs the interactive setup wizard.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader) error {
	if reader == nil {
		reader = os.Stdin
	}
	scanner := bufio.NewScanner(reader)

	fmt.Println("Biomark Setup Wizard")
	fmt.Println()
	fmt.Println("Let's get you set up in about 60 seconds.")
	fmt.Println()
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()

	// Step 1: NER backend
	fmt.Println("Step 1/3: NER Backend")
	fmt.Println("  Which entity-recognition backend do you want to use?")
	fmt.Println("  [1] scispaCy sidecar (recommended, local)")
	fmt.Println("  [2] Anthropic Claude")
	fmt.Println("  [3] OpenAI GPT-4o")
	fmt.Println("  [4] Ollama (local, free)")
	fmt.Println("  [5] Skip for now")
	fmt.Print("  Choice: ")

	scanner.Scan()
	choice := strings.TrimSpace(scanner.Text())

	switch choice {
	case "1":
		viper.Set("backend", "scispacy")
		fmt.Print("  Sidecar URL (default: http://localhost:8765): ")
		scanner.Scan()
		url := strings.TrimSpace(scanner.Text())
		if url != "" {
			viper.Set("ner.url", url)
		} else {
			viper.Set("ner.url", "http://localhost:8765")
		}
		fmt.Println("  scispaCy configured")
		fmt.Println("  -> Run: python3 scripts/ner_server.py  (to start the sidecar)")
	case "2":
		viper.Set("backend", "anthropic")
		fmt.Print("  Paste your Anthropic API key (sk-ant-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.anthropic", key)
			fmt.Println("  API key saved")
		}
	case "3":
		viper.Set("backend", "openai")
		fmt.Print("  Paste your OpenAI API key (sk-...): ")
		scanner.Scan()
		key := strings.TrimSpace(scanner.Text())
		if key != "" {
			viper.Set("api_keys.openai", key)
			fmt.Println("  API key saved")
		}
	case "4":
		viper.Set("backend", "ollama")
		fmt.Print("  Ollama host (default: http://localhost:11434): ")
		scanner.Scan()
		host := strings.TrimSpace(scanner.Text())
		if host != "" {
			viper.Set("ollama.host", host)
		} else {
			viper.Set("ollama.host", "http://localhost:11434")
		}
		fmt.Println("  Ollama configured")
	default:
		fmt.Println("  Skipped")
	}
	fmt.Println()

	// Step 2: Highlight palette
	fmt.Println("Step 2/3: Highlight Colors (optional)")
	fmt.Print("  Use a custom palette YAML file? [y/N]: ")
	scanner.Scan()
	paletteChoice := strings.TrimSpace(strings.ToLower(scanner.Text()))
	if paletteChoice == "y" || paletteChoice == "yes" {
		fmt.Print("  Palette file path: ")
		scanner.Scan()
		path := strings.TrimSpace(scanner.Text())
		if path != "" {
			viper.Set("highlight.palette", path)
			fmt.Println("  Palette saved")
		}
	} else {
		fmt.Println("  Using default colors")
	}
	fmt.Println()

	// Save config
	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	// Step 3: Done
	fmt.Println("Step 3/3: Done!")
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()
	fmt.Println("Biomark is ready!")
	fmt.Println()
	fmt.Println("Quick start:")
	fmt.Println("  biomark sample data.xlsx        (write a sample workbook)")
	fmt.Println("  biomark highlight data.xlsx     (scan and color it)")
	fmt.Println("  biomark demo                    (annotate built-in sentences)")
	fmt.Println("  biomark doctor                  (check your setup)")
	fmt.Println()
	fmt.Printf("Config file: %s\n", ConfigPath())
	fmt.Println("Type 'biomark config show' to see all settings.")

	return nil
}

// WizardNonInteractive sets up config with defaults only (no user input).
func WizardNonInteractive() error {
	viper.Set("backend", "scispacy")
	viper.Set("ner.url", "http://localhost:8765")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	backend := viper.GetString("backend")

	switch backend {
	case "", "scispacy":
		url := os.Getenv("BIOMARK_NER_URL")
		if url == "" {
			url = viper.GetString("ner.url")
		}
		if url == "" {
			issues = append(issues, ConfigIssue{
				Key:      "ner.url",
				Severity: "warning",
				Message:  "NER sidecar URL is not set — the default http://localhost:8765 will be used",
				Fix:      "biomark config set ner.url http://localhost:8765",
			})
		} else {
			issues = append(issues, ConfigIssue{
				Key:      "backend",
				Severity: "info",
				Message:  fmt.Sprintf("scispaCy sidecar at %s", url),
			})
		}
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.anthropic")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "backend",
				Severity: "error",
				Message:  fmt.Sprintf("backend is %q but ANTHROPIC_API_KEY is not set", backend),
				Fix:      "export ANTHROPIC_API_KEY=sk-ant-...\nOr: biomark config set api_keys.anthropic sk-ant-...",
			})
		} else {
			issues = append(issues, ConfigIssue{
				Key:      "backend",
				Severity: "info",
				Message:  "Anthropic API key configured",
			})
		}
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			key = viper.GetString("api_keys.openai")
		}
		if key == "" {
			issues = append(issues, ConfigIssue{
				Key:      "backend",
				Severity: "error",
				Message:  fmt.Sprintf("backend is %q but OPENAI_API_KEY is not set", backend),
				Fix:      "export OPENAI_API_KEY=sk-...",
			})
		}
	case "ollama":
		issues = append(issues, ConfigIssue{
			Key:      "backend",
			Severity: "info",
			Message:  "Ollama configured (no API key needed)",
		})
	default:
		issues = append(issues, ConfigIssue{
			Key:      "backend",
			Severity: "error",
			Message:  fmt.Sprintf("unknown backend %q", backend),
			Fix:      "biomark config set backend scispacy",
		})
	}

	// Check palette file
	palette := viper.GetString("highlight.palette")
	if palette != "" {
		if _, err := os.Stat(palette); os.IsNotExist(err) {
			issues = append(issues, ConfigIssue{
				Key:      "highlight.palette",
				Severity: "warning",
				Message:  fmt.Sprintf("palette file %s does not exist — default colors will be used", palette),
				Fix:      "biomark config set highlight.palette path/to/palette.yaml",
			})
		}
	}

	return issues
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)

	if b := viper.GetString("backend"); b != "" {
		env["BIOMARK_BACKEND"] = b
	}
	if m := viper.GetString("model"); m != "" {
		env["BIOMARK_MODEL"] = m
	}
	if u := viper.GetString("ner.url"); u != "" {
		env["BIOMARK_NER_URL"] = u
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		env["ANTHROPIC_API_KEY"] = k
	}
	if k := viper.GetString("api_keys.openai"); k != "" {
		env["OPENAI_API_KEY"] = k
	}
	if h := viper.GetString("ollama.host"); h != "" {
		env["OLLAMA_HOST"] = h
	}

	return env
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	// Reset viper defaults
	viper.Set("backend", "scispacy")
	viper.Set("ner.url", "http://localhost:8765")
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return nil
}

// SaveConfig writes the current config to ~/.biomark/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	// Set secure permissions
	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("NER\n")
	sb.WriteString(fmt.Sprintf("  backend:   %s\n", viper.GetString("backend")))
	if m := viper.GetString("model"); m != "" {
		sb.WriteString(fmt.Sprintf("  model:     %s\n", m))
	}
	if u := viper.GetString("ner.url"); u != "" {
		sb.WriteString(fmt.Sprintf("  sidecar:   %s\n", u))
	}
	if h := viper.GetString("ollama.host"); h != "" {
		sb.WriteString(fmt.Sprintf("  ollama:    %s\n", h))
	}
	if k := viper.GetString("api_keys.anthropic"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	if k := viper.GetString("api_keys.openai"); k != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", k[:min(10, len(k))]))
	}
	sb.WriteString("\n")

	if p := viper.GetString("highlight.palette"); p != "" {
		sb.WriteString("Highlight\n")
		sb.WriteString(fmt.Sprintf("  palette:   %s\n", p))
		sb.WriteString("\n")
	}

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  format:    %s\n", viper.GetString("output.format")))
	sb.WriteString(fmt.Sprintf("  color:     %v\n", viper.GetBool("output.color")))

	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
