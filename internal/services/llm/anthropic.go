package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// Anthropic adapts the Anthropic Messages API.
type Anthropic struct {
	base
	client *anthropic.Client
}

// NewAnthropic constructs an Anthropic client.
func NewAnthropic(settings Settings) *Anthropic {
	cl := anthropic.NewClient(
		anthropicopt.WithAPIKey(strings.TrimSpace(settings.APIKey)),
		anthropicopt.WithHTTPClient(&http.Client{Timeout: requestTimeout(settings.Timeout)}),
	)
	return &Anthropic{
		base: base{
			provider:    "anthropic",
			model:       settings.Model,
			maxTokens:   settings.MaxTokens,
			temperature: settings.Temperature,
			supportsPDF: settings.SupportsPDF,
			pdfModels:   settings.PDFModels,
			logger:      logging.NewComponentLogger(settings.Logger, "llm"),
		},
		client: &cl,
	}
}

// Analyze sends one naming request to the Anthropic Messages API.
func (c *Anthropic) Analyze(ctx context.Context, req Request) (Result, error) {
	var empty Result

	userMessage, promptText, err := c.buildUserMessage(req)
	if err != nil {
		return empty, err
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.Prompts.System},
		},
		Messages: []anthropic.MessageParam{userMessage},
	})
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "llm", "anthropic", "message request failed", err)
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			builder.WriteString(textBlock.Text)
		}
	}
	content := normalizeSuggestion(builder.String())
	if content == "" {
		return empty, errors.New("anthropic analyze: empty content")
	}

	usage := TokenUsage{
		Prompt:     int(msg.Usage.InputTokens),
		Completion: int(msg.Usage.OutputTokens),
	}
	usage.Total = usage.Prompt + usage.Completion
	if usage.Total == 0 {
		usage.Prompt = EstimateTokens(promptText)
		usage.Completion = EstimateTokens(content)
		usage.Total = usage.Prompt + usage.Completion
	}
	c.usage.record(usage)
	return Result{SuggestedName: content, Usage: usage}, nil
}

func (c *Anthropic) buildUserMessage(req Request) (anthropic.MessageParam, string, error) {
	if len(req.PDF) > 0 {
		if !c.supportsPDF {
			return anthropic.MessageParam{}, "", c.pdfUnsupportedError("anthropic")
		}
		document := anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
			Data: base64.StdEncoding.EncodeToString(req.PDF),
		})
		return anthropic.NewUserMessage(document, anthropic.NewTextBlock(req.Prompts.User)),
			req.Prompts.System + req.Prompts.User, nil
	}

	user := req.Prompts.UserWithText(req.Text)
	return anthropic.NewUserMessage(anthropic.NewTextBlock(user)), req.Prompts.System + user, nil
}
