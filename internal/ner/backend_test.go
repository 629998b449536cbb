package ner

import (
	"testing"
)

func TestNewBackendDefault(t *testing.T) {
	t.Setenv("BIOMARK_NER_URL", "")
	b, err := NewBackend("", "")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "scispacy" {
		t.Errorf("expected scispacy backend, got %s", b.Name())
	}
	if b.Model() != DefaultSciSpacyModel {
		t.Errorf("expected %s, got %s", DefaultSciSpacyModel, b.Model())
	}
}

func TestNewBackendSidecarURLFromEnv(t *testing.T) {
	t.Setenv("BIOMARK_NER_URL", "http://ner.lab.internal:9000")
	b, err := NewBackend("scispacy", "en_ner_bc5cdr_md")
	if err != nil {
		t.Fatal(err)
	}
	sb, ok := b.(*SciSpacyBackend)
	if !ok {
		t.Fatalf("expected *SciSpacyBackend, got %T", b)
	}
	if sb.baseURL != "http://ner.lab.internal:9000" {
		t.Errorf("expected env URL, got %s", sb.baseURL)
	}
	if sb.Model() != "en_ner_bc5cdr_md" {
		t.Errorf("expected en_ner_bc5cdr_md, got %s", sb.Model())
	}
}

func TestNewBackendAnthropicNoKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // keep a real ~/.biomark/config.yaml out of the test
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewBackend("anthropic", "")
	if err == nil {
		t.Fatal("expected error when ANTHROPIC_API_KEY is not set")
	}
}

func TestNewBackendAnthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	b, err := NewBackend("anthropic", "")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "anthropic" {
		t.Errorf("expected anthropic, got %s", b.Name())
	}
	if b.Model() != defaultAnthropicModel {
		t.Errorf("expected default model, got %s", b.Model())
	}
}

func TestNewBackendOpenAINoKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewBackend("openai", "")
	if err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is not set")
	}
}

func TestNewBackendOllamaDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	b, err := NewBackend("ollama", "")
	if err != nil {
		t.Fatal(err)
	}
	ob, ok := b.(*OllamaBackend)
	if !ok {
		t.Fatalf("expected *OllamaBackend, got %T", b)
	}
	if ob.host != "http://localhost:11434" {
		t.Errorf("expected default host, got %s", ob.host)
	}
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend("watson", "")
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewBackendCaseInsensitive(t *testing.T) {
	t.Setenv("BIOMARK_NER_URL", "")
	b, err := NewBackend("SciSpacy", "")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "scispacy" {
		t.Errorf("expected scispacy, got %s", b.Name())
	}
}
