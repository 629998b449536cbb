package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scilens/biomark/internal/entity"
)

const defaultOllamaModel = "llama3.1"

// OllamaBackend runs entity recognition through a local Ollama server.
type OllamaBackend struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaBackend creates an Ollama-backed recognizer with the given host
// and model.
func NewOllamaBackend(host, model string) *OllamaBackend {
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaBackend{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: 300 * time.Second},
	}
}

// Name returns the backend identifier.
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// Model returns the model the backend sends requests to.
func (b *OllamaBackend) Model() string {
	return b.model
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Annotate asks the local model to tag biomedical entities in text.
func (b *OllamaBackend) Annotate(ctx context.Context, text string) ([]entity.Match, error) {
	reqBody := ollamaRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: llmSystemPrompt},
			{Role: "user", Content: text},
		},
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	url := b.host + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not connect to Ollama at %s — is Ollama running? Start it with 'ollama serve'", b.host)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("could not parse response: %w", err)
	}

	return parseLLMMatches(apiResp.Message.Content, text)
}
