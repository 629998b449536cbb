// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
	NER     struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"ner"`
	APIKeys struct {
		Anthropic string `mapstructure:"anthropic"`
		OpenAI    string `mapstructure:"openai"`
	} `mapstructure:"api_keys"`
	Ollama struct {
		Host string `mapstructure:"host"`
	} `mapstructure:"ollama"`
	Highlight struct {
		Palette string `mapstructure:"palette"`
	} `mapstructure:"highlight"`
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.biomark/config.yaml and environment
// variables.
func Load() (*Config, error) {
	configDir := configDir()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Defaults
	viper.SetDefault("backend", "scispacy")
	viper.SetDefault("ner.url", "http://localhost:8765")
	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")

	// Environment variable overrides (BIOMARK_NER_URL → ner.url)
	viper.SetEnvPrefix("BIOMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".biomark"
	}
	return filepath.Join(home, ".biomark")
}
