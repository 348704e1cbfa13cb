package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// Google adapts the Gemini API via the generative-ai-go SDK. The SDK manages
// its own transport, so the per-request timeout is applied as a context
// deadline on each call rather than on an HTTP client.
type Google struct {
	base
	client  *genai.Client
	genai   *genai.GenerativeModel
	timeout time.Duration
}

// NewGoogle constructs a Gemini client. Callers should Close it when done.
func NewGoogle(ctx context.Context, settings Settings) (*Google, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(settings.APIKey)))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "google", "create Gemini client", err)
	}

	model := client.GenerativeModel(settings.Model)
	model.SetMaxOutputTokens(int32(settings.MaxTokens))
	model.SetTemperature(float32(settings.Temperature))

	return &Google{
		base: base{
			provider:    "google",
			model:       settings.Model,
			maxTokens:   settings.MaxTokens,
			temperature: settings.Temperature,
			supportsPDF: settings.SupportsPDF,
			pdfModels:   settings.PDFModels,
			logger:      logging.NewComponentLogger(settings.Logger, "llm"),
		},
		client:  client,
		genai:   model,
		timeout: requestTimeout(settings.Timeout),
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Google) Close() error {
	return c.client.Close()
}

// Analyze sends one naming request to the Gemini API.
func (c *Google) Analyze(ctx context.Context, req Request) (Result, error) {
	var empty Result

	parts, promptText, err := c.buildParts(req)
	if err != nil {
		return empty, err
	}
	c.genai.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.Prompts.System)},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.genai.GenerateContent(ctx, parts...)
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "llm", "google", "generate content failed", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return empty, errors.New("google analyze: empty candidates")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	content := normalizeSuggestion(builder.String())
	if content == "" {
		return empty, errors.New("google analyze: empty content")
	}

	var usage TokenUsage
	if meta := resp.UsageMetadata; meta != nil {
		usage = TokenUsage{
			Prompt:     int(meta.PromptTokenCount),
			Completion: int(meta.CandidatesTokenCount),
			Total:      int(meta.TotalTokenCount),
		}
	}
	if usage.Total == 0 {
		usage.Prompt = EstimateTokens(promptText)
		usage.Completion = EstimateTokens(content)
		usage.Total = usage.Prompt + usage.Completion
	}
	c.usage.record(usage)
	return Result{SuggestedName: content, Usage: usage}, nil
}

func (c *Google) buildParts(req Request) ([]genai.Part, string, error) {
	if len(req.PDF) > 0 {
		if !c.supportsPDF {
			return nil, "", c.pdfUnsupportedError("google")
		}
		parts := []genai.Part{
			genai.Blob{MIMEType: "application/pdf", Data: req.PDF},
			genai.Text(req.Prompts.User),
		}
		return parts, req.Prompts.System + req.Prompts.User, nil
	}

	user := req.Prompts.UserWithText(req.Text)
	return []genai.Part{genai.Text(user)}, req.Prompts.System + user, nil
}
