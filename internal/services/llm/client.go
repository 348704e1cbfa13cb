package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scannamer/internal/services"
)

// Client is implemented by each provider adapter. Implementations are safe
// for concurrent use.
type Client interface {
	// Analyze asks the model for a filename suggestion.
	Analyze(ctx context.Context, req Request) (Result, error)
	// SupportsPDFUpload reports whether the configured model accepts raw
	// PDF input.
	SupportsPDFUpload() bool
	// AccumulatedUsage returns the token usage summed across all Analyze
	// calls made through this client.
	AccumulatedUsage() TokenUsage
	// Provider returns the provider name (xai, openai, anthropic, google).
	Provider() string
	// Model returns the configured model identifier.
	Model() string
}

// Settings carries the provider-independent construction parameters.
// PDFModels lists the provider's PDF-capable models for capability-mismatch
// messages.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	SupportsPDF bool
	PDFModels   []string
	Logger      *slog.Logger
}

// defaultRequestTimeout bounds a single provider round-trip when the config
// does not set one. A hung call must fail the file, not stall the batch.
const defaultRequestTimeout = 60 * time.Second

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultRequestTimeout
	}
	return d
}

type base struct {
	provider    string
	model       string
	maxTokens   int
	temperature float64
	supportsPDF bool
	pdfModels   []string
	logger      *slog.Logger
	usage       usageTracker
}

func (b *base) Provider() string { return b.provider }

func (b *base) Model() string { return b.model }

func (b *base) SupportsPDFUpload() bool { return b.supportsPDF }

func (b *base) AccumulatedUsage() TokenUsage { return b.usage.snapshot() }

// pdfUnsupportedError builds the capability-mismatch error, naming the
// models that would work.
func (b *base) pdfUnsupportedError(adapter string) error {
	message := fmt.Sprintf("model %s does not accept PDF input", b.model)
	if len(b.pdfModels) > 0 {
		message += "; PDF-capable models: " + strings.Join(b.pdfModels, ", ")
	}
	return services.Wrap(services.ErrUnsupportedModel, "llm", adapter, message, nil)
}
