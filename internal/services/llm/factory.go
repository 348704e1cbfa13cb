package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"scannamer/internal/config"
	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// New builds the Client for the provider selected in cfg. Credential and
// catalog problems are configuration errors; an unrecognized model only
// produces a warning since provider catalogs lag new releases.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Client, error) {
	providerName := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	providerCfg, ok := cfg.LLM.Providers[providerName]
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "factory",
			fmt.Sprintf("unknown provider %q", providerName), nil)
	}

	model := cfg.ResolveModel(providerName)
	if model == "" {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "factory",
			fmt.Sprintf("no model configured for provider %q", providerName), nil)
	}

	apiKey := strings.TrimSpace(os.Getenv(providerCfg.APIKeyEnv))
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "factory",
			fmt.Sprintf("missing credential: set %s", providerCfg.APIKeyEnv), nil)
	}

	componentLogger := logging.NewComponentLogger(logger, "llm")
	if !knownModel(providerCfg, model) {
		componentLogger.Warn("model not in provider catalog, proceeding anyway",
			logging.String("provider", providerName), logging.String("model", model))
	}

	settings := Settings{
		Provider:    providerName,
		Model:       model,
		APIKey:      apiKey,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		SupportsPDF: providerCfg.SupportsPDF(model),
		PDFModels:   providerCfg.PDFModels,
		Logger:      logger,
	}

	switch providerName {
	case "xai":
		return NewXAI(settings, providerCfg.Endpoint), nil
	case "openai":
		return NewOpenAI(settings), nil
	case "anthropic":
		return NewAnthropic(settings), nil
	case "google":
		return NewGoogle(ctx, settings)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "llm", "factory",
			fmt.Sprintf("provider %q has no adapter", providerName), nil)
	}
}

func knownModel(providerCfg config.Provider, model string) bool {
	for _, candidate := range providerCfg.AvailableModels {
		if strings.EqualFold(candidate, model) {
			return true
		}
	}
	return false
}
