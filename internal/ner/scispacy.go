package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scilens/biomark/internal/entity"
)

const (
	// DefaultSidecarURL is where the bundled scispaCy sidecar listens.
	DefaultSidecarURL = "http://localhost:8765"

	// DefaultSciSpacyModel recognizes genes and gene products.
	DefaultSciSpacyModel = "en_ner_bionlp13cg_md"
)

// SciSpacyModels lists the published scispaCy NER models the sidecar can
// serve: bionlp13cg for genes, jnlpba for proteins, bc5cdr for chemicals
// and diseases.
var SciSpacyModels = []string{
	"en_ner_bionlp13cg_md",
	"en_ner_jnlpba_md",
	"en_ner_bc5cdr_md",
}

// scispacyReleaseURL is the AI2 release bucket the model wheels install from.
const scispacyReleaseURL = "https://s3-us-west-2.amazonaws.com/ai2-s2-scispacy/releases/v0.5.4"

// SciSpacyBackend calls the scispaCy sidecar's /annotate endpoint.
type SciSpacyBackend struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewSciSpacyBackend creates a backend pointing at the given sidecar base URL
// (e.g. "http://localhost:8765").
func NewSciSpacyBackend(baseURL, model string) *SciSpacyBackend {
	if model == "" {
		model = DefaultSciSpacyModel
	}
	return &SciSpacyBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the backend identifier.
func (b *SciSpacyBackend) Name() string {
	return "scispacy"
}

// Model returns the scispaCy model the backend annotates with.
func (b *SciSpacyBackend) Model() string {
	return b.model
}

type annotateRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type annotateResponse struct {
	Model    string `json:"model"`
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
		Start int    `json:"start"`
		End   int    `json:"end"`
	} `json:"entities"`
	Error string `json:"error,omitempty"`
}

// Annotate sends text to the sidecar and returns every span it reports.
// Backend failures propagate to the caller; there is no retry.
func (b *SciSpacyBackend) Annotate(ctx context.Context, text string) ([]entity.Match, error) {
	body, err := json.Marshal(annotateRequest{Text: text, Model: b.model})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, b.unreachableError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiResp annotateResponse
		if json.Unmarshal(respBody, &apiResp) == nil && apiResp.Error != "" {
			if strings.Contains(apiResp.Error, "model") {
				return nil, b.modelMissingError(apiResp.Error)
			}
			return nil, fmt.Errorf("NER server error: %s", apiResp.Error)
		}
		return nil, fmt.Errorf("NER server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp annotateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("could not parse NER response: %w", err)
	}

	matches := make([]entity.Match, 0, len(apiResp.Entities))
	for _, e := range apiResp.Entities {
		matches = append(matches, entity.Match{
			Text:  e.Text,
			Label: entity.Label(e.Label),
			Start: e.Start,
			End:   e.End,
		})
	}
	return matches, nil
}

// Health checks that the sidecar is up. Used by the doctor command.
func (b *SciSpacyBackend) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return b.unreachableError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NER server health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (b *SciSpacyBackend) unreachableError(err error) error {
	return fmt.Errorf(`could not reach the scispaCy NER server at %s: %v

The scispaCy backend needs a running sidecar. Start one with:

  pip install scispacy
  pip install %s/%s-0.5.4.tar.gz
  python3 scripts/ner_server.py --model %s --port 8765

or point BIOMARK_NER_URL at an existing server, or pick another backend
with --backend anthropic|openai|ollama`, b.baseURL, err, scispacyReleaseURL, b.model, b.model)
}

func (b *SciSpacyBackend) modelMissingError(detail string) error {
	return fmt.Errorf(`NER server could not load model %q: %s

Install it with:

  pip install %s/%s-0.5.4.tar.gz

Published models: %s`, b.model, detail, scispacyReleaseURL, b.model, strings.Join(SciSpacyModels, ", "))
}
