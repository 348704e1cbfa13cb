package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// OpenAI adapts the OpenAI chat completions API.
type OpenAI struct {
	base
	client *openai.Client
}

// NewOpenAI constructs an OpenAI client.
func NewOpenAI(settings Settings) *OpenAI {
	cfg := openai.DefaultConfig(strings.TrimSpace(settings.APIKey))
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout(settings.Timeout)}

	return &OpenAI{
		base: base{
			provider:    "openai",
			model:       settings.Model,
			maxTokens:   settings.MaxTokens,
			temperature: settings.Temperature,
			supportsPDF: settings.SupportsPDF,
			pdfModels:   settings.PDFModels,
			logger:      logging.NewComponentLogger(settings.Logger, "llm"),
		},
		client: openai.NewClientWithConfig(cfg),
	}
}

// Analyze sends one naming request to the OpenAI API.
func (c *OpenAI) Analyze(ctx context.Context, req Request) (Result, error) {
	var empty Result

	userMessage, promptText, err := c.buildUserMessage(req)
	if err != nil {
		return empty, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Prompts.System},
			userMessage,
		},
	})
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "llm", "openai", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return empty, errors.New("openai analyze: empty choices")
	}

	content := normalizeSuggestion(resp.Choices[0].Message.Content)
	if content == "" {
		return empty, errors.New("openai analyze: empty content")
	}

	usage := TokenUsage{
		Prompt:     resp.Usage.PromptTokens,
		Completion: resp.Usage.CompletionTokens,
		Total:      resp.Usage.TotalTokens,
	}
	if usage.Total == 0 {
		usage.Prompt = EstimateTokens(promptText)
		usage.Completion = EstimateTokens(content)
		usage.Total = usage.Prompt + usage.Completion
	}
	c.usage.record(usage)
	return Result{SuggestedName: content, Usage: usage}, nil
}

func (c *OpenAI) buildUserMessage(req Request) (openai.ChatCompletionMessage, string, error) {
	if len(req.PDF) > 0 {
		if !c.supportsPDF {
			return openai.ChatCompletionMessage{}, "", c.pdfUnsupportedError("openai")
		}
		dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(req.PDF)
		return openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompts.User},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}, req.Prompts.System + req.Prompts.User, nil
	}

	user := req.Prompts.UserWithText(req.Text)
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	}, req.Prompts.System + user, nil
}
