// Package ner provides a unified interface to the external NER backends that
// recognize biomedical entities in text. The default backend is a scispaCy
// sidecar server; Anthropic, OpenAI, and Ollama models can stand in where no
// sidecar is available.
package ner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/entity"
)

// Backend is implemented by every entity-recognition backend. Annotate
// returns the recognized spans of a single text. Implementations do not
// filter labels; the extractor keeps only the labels of interest.
type Backend interface {
	// Annotate sends one text to the backend and returns its entity spans.
	Annotate(ctx context.Context, text string) ([]entity.Match, error)

	// Name returns the backend identifier.
	Name() string

	// Model returns the model the backend annotates with, after defaulting.
	Model() string
}

// NewBackend creates a backend instance based on the backend name.
// An empty name selects the scispaCy sidecar. Settings resolve from the
// environment first, then the config file.
func NewBackend(name string, model string) (Backend, error) {
	cfg, _ := config.Load()

	switch strings.ToLower(name) {
	case "", "scispacy":
		url := os.Getenv("BIOMARK_NER_URL")
		if url == "" && cfg != nil {
			url = cfg.NER.URL
		}
		if url == "" {
			url = DefaultSidecarURL
		}
		return NewSciSpacyBackend(url, model), nil
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" && cfg != nil {
			apiKey = cfg.APIKeys.Anthropic
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set — get your API key at https://console.anthropic.com/settings/keys")
		}
		return NewAnthropicBackend(apiKey, model), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" && cfg != nil {
			apiKey = cfg.APIKeys.OpenAI
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIBackend(apiKey, model), nil
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" && cfg != nil {
			host = cfg.Ollama.Host
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaBackend(host, model), nil
	default:
		return nil, fmt.Errorf("unknown NER backend %q — supported backends: scispacy, anthropic, openai, ollama", name)
	}
}
