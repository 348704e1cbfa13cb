package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scannamer/internal/prompts"
	"scannamer/internal/services"
)

func testSettings() Settings {
	return Settings{
		Provider:    "xai",
		Model:       "grok-4-0709",
		APIKey:      "test-key",
		MaxTokens:   1000,
		Temperature: 0.3,
		SupportsPDF: true,
	}
}

func testPrompts() prompts.Spec {
	return prompts.Spec{System: "You name documents.", User: "Name this document."}
}

func TestXAIAnalyzeText(t *testing.T) {
	var captured xaiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Invoice_ACME_2024-03-01\n"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     120,
				"completion_tokens": 9,
				"total_tokens":      129,
			},
		})
	}))
	defer server.Close()

	client := NewXAI(testSettings(), server.URL)
	result, err := client.Analyze(context.Background(), Request{
		Text:    "--- Page 1 ---\nInvoice from ACME dated 2024-03-01",
		Prompts: testPrompts(),
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.SuggestedName != "Invoice_ACME_2024-03-01" {
		t.Fatalf("unexpected suggestion: %q", result.SuggestedName)
	}
	if result.Usage.Total != 129 {
		t.Fatalf("unexpected usage: %+v", result.Usage)
	}
	if captured.Model != "grok-4-0709" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	user, ok := captured.Messages[1].Content.(string)
	if !ok || !strings.Contains(user, "Invoice from ACME") {
		t.Fatalf("document text missing from user message: %v", captured.Messages[1].Content)
	}
}

func TestXAIAnalyzePDFSendsDataURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		messages := raw["messages"].([]any)
		user := messages[1].(map[string]any)
		parts := user["content"].([]any)
		imagePart := parts[1].(map[string]any)
		url := imagePart["image_url"].(map[string]any)["url"].(string)
		if !strings.HasPrefix(url, "data:application/pdf;base64,") {
			t.Errorf("expected PDF data URL, got %q", url)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Lease_Agreement"}},
			},
		})
	}))
	defer server.Close()

	client := NewXAI(testSettings(), server.URL)
	result, err := client.Analyze(context.Background(), Request{
		PDF:     []byte("%PDF-1.4 fake"),
		Prompts: testPrompts(),
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.SuggestedName != "Lease_Agreement" {
		t.Fatalf("unexpected suggestion: %q", result.SuggestedName)
	}
	// No usage block in the response, so tokens must be estimated.
	if result.Usage.Total == 0 {
		t.Fatal("expected estimated usage")
	}
}

func TestXAIAnalyzePDFWithoutSupport(t *testing.T) {
	settings := testSettings()
	settings.SupportsPDF = false
	settings.PDFModels = []string{"grok-2-vision-1212"}
	client := NewXAI(settings, "http://unused.invalid")

	_, err := client.Analyze(context.Background(), Request{PDF: []byte("x"), Prompts: testPrompts()})
	if !errors.Is(err, services.ErrUnsupportedModel) {
		t.Fatalf("expected unsupported model error, got %v", err)
	}
	if !strings.Contains(err.Error(), "grok-2-vision-1212") {
		t.Fatalf("error should list PDF-capable models, got %v", err)
	}
}

func TestXAIAnalyzeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewXAI(testSettings(), server.URL)
	_, err := client.Analyze(context.Background(), Request{Text: "x", Prompts: testPrompts()})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

func TestXAIAnalyzeTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	settings := testSettings()
	settings.Timeout = 20 * time.Millisecond
	client := NewXAI(settings, server.URL)

	_, err := client.Analyze(context.Background(), Request{Text: "x", Prompts: testPrompts()})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error from timeout, got %v", err)
	}
}

func TestXAIAnalyzeMissingKey(t *testing.T) {
	settings := testSettings()
	settings.APIKey = ""
	client := NewXAI(settings, "http://unused.invalid")

	_, err := client.Analyze(context.Background(), Request{Text: "x", Prompts: testPrompts()})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestXAIAccumulatesUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Name"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     10,
				"completion_tokens": 5,
				"total_tokens":      15,
			},
		})
	}))
	defer server.Close()

	client := NewXAI(testSettings(), server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Analyze(context.Background(), Request{Text: "x", Prompts: testPrompts()}); err != nil {
			t.Fatalf("analyze %d: %v", i, err)
		}
	}
	total := client.AccumulatedUsage()
	if total.Total != 45 || total.Prompt != 30 || total.Completion != 15 {
		t.Fatalf("unexpected accumulated usage: %+v", total)
	}
}
