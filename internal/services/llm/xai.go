package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// XAI talks to the xAI chat completions API directly over HTTP.
type XAI struct {
	base
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// XAIOption customizes the xAI client.
type XAIOption func(*XAI)

// WithXAIHTTPClient overrides the default HTTP client.
func WithXAIHTTPClient(client *http.Client) XAIOption {
	return func(c *XAI) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithXAIEndpoint overrides the chat completions endpoint (useful for tests).
func WithXAIEndpoint(endpoint string) XAIOption {
	return func(c *XAI) {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// NewXAI constructs an xAI client.
func NewXAI(settings Settings, endpoint string, opts ...XAIOption) *XAI {
	client := &XAI{
		base: base{
			provider:    "xai",
			model:       settings.Model,
			maxTokens:   settings.MaxTokens,
			temperature: settings.Temperature,
			supportsPDF: settings.SupportsPDF,
			pdfModels:   settings.PDFModels,
			logger:      logging.NewComponentLogger(settings.Logger, "llm"),
		},
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: requestTimeout(settings.Timeout)},
	}
	client.apiKey = strings.TrimSpace(settings.APIKey)
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Analyze sends one naming request to the xAI API.
func (c *XAI) Analyze(ctx context.Context, req Request) (Result, error) {
	var empty Result
	if c.apiKey == "" {
		return empty, services.Wrap(services.ErrConfiguration, "llm", "xai", "api key required", nil)
	}

	body, promptText, err := c.buildRequest(req)
	if err != nil {
		return empty, err
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return empty, fmt.Errorf("xai analyze: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("xai analyze: request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "llm", "xai", "request failed", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("xai analyze: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, services.Wrap(services.ErrTransient, "llm", "xai",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody))), nil)
	}

	var completion xaiResponse
	if err := json.Unmarshal(responseBody, &completion); err != nil {
		return empty, fmt.Errorf("xai analyze: decode response: %w", err)
	}
	if completion.Error != nil {
		return empty, services.Wrap(services.ErrTransient, "llm", "xai",
			"api error: "+strings.TrimSpace(completion.Error.Message), nil)
	}
	if len(completion.Choices) == 0 {
		return empty, errors.New("xai analyze: empty choices")
	}

	content := normalizeSuggestion(completion.Choices[0].Message.Content)
	if content == "" {
		return empty, errors.New("xai analyze: empty content")
	}

	usage := TokenUsage{
		Prompt:     completion.Usage.PromptTokens,
		Completion: completion.Usage.CompletionTokens,
		Total:      completion.Usage.TotalTokens,
	}
	if usage.Total == 0 {
		usage.Prompt = EstimateTokens(promptText)
		usage.Completion = EstimateTokens(content)
		usage.Total = usage.Prompt + usage.Completion
	}
	c.usage.record(usage)
	return Result{SuggestedName: content, Usage: usage}, nil
}

func (c *XAI) buildRequest(req Request) (xaiRequest, string, error) {
	var userContent any
	var promptText string

	if len(req.PDF) > 0 {
		if !c.supportsPDF {
			return xaiRequest{}, "", c.pdfUnsupportedError("xai")
		}
		dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(req.PDF)
		userContent = []xaiContentPart{
			{Type: "text", Text: req.Prompts.User},
			{Type: "image_url", ImageURL: &xaiImageURL{URL: dataURL}},
		}
		promptText = req.Prompts.System + req.Prompts.User
	} else {
		promptText = req.Prompts.System + req.Prompts.UserWithText(req.Text)
		userContent = req.Prompts.UserWithText(req.Text)
	}

	return xaiRequest{
		Model: c.model,
		Messages: []xaiMessage{
			{Role: "system", Content: req.Prompts.System},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}, promptText, nil
}

type xaiRequest struct {
	Model       string       `json:"model"`
	Messages    []xaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type xaiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type xaiContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *xaiImageURL `json:"image_url,omitempty"`
}

type xaiImageURL struct {
	URL string `json:"url"`
}

type xaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
