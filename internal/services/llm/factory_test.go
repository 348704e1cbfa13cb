package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"scannamer/internal/config"
	"scannamer/internal/services"
)

func factoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LLM.Provider = "xai"
	return &cfg
}

func TestFactoryBuildsXAI(t *testing.T) {
	t.Setenv("XAI_API_KEY", "key")
	client, err := New(context.Background(), factoryConfig(t), nil)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if client.Provider() != "xai" {
		t.Fatalf("unexpected provider: %q", client.Provider())
	}
	if client.Model() != "grok-4-0709" {
		t.Fatalf("expected provider default model, got %q", client.Model())
	}
	if !client.SupportsPDFUpload() {
		t.Fatal("grok-4-0709 should support PDF upload")
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	cfg := factoryConfig(t)
	cfg.LLM.Provider = "mystery"
	_, err := New(context.Background(), cfg, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFactoryMissingCredential(t *testing.T) {
	t.Setenv("XAI_API_KEY", "")
	_, err := New(context.Background(), factoryConfig(t), nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFactoryModelOverrideDisablesPDF(t *testing.T) {
	t.Setenv("XAI_API_KEY", "key")
	cfg := factoryConfig(t)
	cfg.LLM.Model = "grok-3-mini"
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if client.SupportsPDFUpload() {
		t.Fatal("grok-3-mini must not report PDF support")
	}
}

func TestFactoryBuildsOpenAIAndAnthropic(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("ANTHROPIC_API_KEY", "key")

	cfg := factoryConfig(t)
	cfg.LLM.Provider = "openai"
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("openai factory: %v", err)
	}
	if client.Provider() != "openai" || client.Model() != "gpt-4o-mini" {
		t.Fatalf("unexpected client: %s/%s", client.Provider(), client.Model())
	}

	cfg.LLM.Provider = "anthropic"
	client, err = New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("anthropic factory: %v", err)
	}
	if client.Provider() != "anthropic" {
		t.Fatalf("unexpected provider: %q", client.Provider())
	}
}

func TestRequestTimeoutDefaults(t *testing.T) {
	if got := requestTimeout(0); got != defaultRequestTimeout {
		t.Fatalf("zero timeout should default, got %v", got)
	}
	if got := requestTimeout(-1 * time.Second); got != defaultRequestTimeout {
		t.Fatalf("negative timeout should default, got %v", got)
	}
	if got := requestTimeout(5 * time.Second); got != 5*time.Second {
		t.Fatalf("configured timeout not preserved, got %v", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Fatalf("empty text should estimate 0, got %d", got)
	}
	if got := EstimateTokens("ab"); got != 1 {
		t.Fatalf("short text should estimate at least 1, got %d", got)
	}
	if got := EstimateTokens("12345678"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestNormalizeSuggestion(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Invoice_ACME\n\nThis name reflects...", "Invoice_ACME"},
		{"\n\n  Tax_Return_2023  \n", "Tax_Return_2023"},
		{"", ""},
		{"\n \n", ""},
	}
	for _, tc := range cases {
		if got := normalizeSuggestion(tc.in); got != tc.want {
			t.Errorf("normalizeSuggestion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
