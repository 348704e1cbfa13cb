package config

const (
	defaultDataDir           = "~/.local/share/scannamer"
	defaultLogDir            = "~/.local/share/scannamer/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultProvider          = "xai"
	defaultMaxTokens         = 1000
	defaultTemperature       = 0.3
	defaultTimeoutSeconds    = 60
	defaultMaxPagesExtract   = 3
	defaultExtractionPages   = 3
	defaultMaxFilenameLength = 100
	defaultExtension         = ".pdf"
	defaultCredentialsFile   = "~/.config/scannamer/credentials.json"
	defaultTokenFile         = "~/.config/scannamer/token.json"
	defaultXAIEndpoint       = "https://api.x.ai/v1/chat/completions"
)

// Default returns a Config populated with repository defaults, including the
// built-in provider catalog. Capability lists may lag provider releases; the
// factory treats unknown models as a warning, not an error.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		LLM: LLM{
			Provider:       defaultProvider,
			MaxTokens:      defaultMaxTokens,
			Temperature:    defaultTemperature,
			TimeoutSeconds: defaultTimeoutSeconds,
			Providers: map[string]Provider{
				"xai": {
					APIKeyEnv:    "XAI_API_KEY",
					Endpoint:     defaultXAIEndpoint,
					DefaultModel: "grok-4-0709",
					AvailableModels: []string{
						"grok-4-0709",
						"grok-3",
						"grok-3-mini",
						"grok-vision-beta",
					},
					PDFModels: []string{"grok-4-0709", "grok-vision-beta"},
				},
				"openai": {
					APIKeyEnv:    "OPENAI_API_KEY",
					DefaultModel: "gpt-4o-mini",
					AvailableModels: []string{
						"o3",
						"gpt-4.1",
						"gpt-4o",
						"gpt-4o-mini",
					},
					PDFModels: []string{"o3", "gpt-4o", "gpt-4o-mini"},
				},
				"anthropic": {
					APIKeyEnv:    "ANTHROPIC_API_KEY",
					DefaultModel: "claude-sonnet-4-20250514",
					AvailableModels: []string{
						"claude-opus-4-20250514",
						"claude-sonnet-4-20250514",
						"claude-3-7-sonnet-20250219",
						"claude-3-5-sonnet-20241022",
						"claude-3-5-haiku-20241022",
					},
					PDFModels: []string{
						"claude-opus-4-20250514",
						"claude-sonnet-4-20250514",
						"claude-3-7-sonnet-20250219",
						"claude-3-5-sonnet-20241022",
					},
				},
				"google": {
					APIKeyEnv:    "GEMINI_API_KEY",
					DefaultModel: "gemini-2.5-flash",
					AvailableModels: []string{
						"gemini-2.5-pro",
						"gemini-2.5-flash",
						"gemini-2.5-flash-lite",
					},
					PDFModels: []string{
						"gemini-2.5-pro",
						"gemini-2.5-flash",
						"gemini-2.5-flash-lite",
					},
				},
			},
		},
		PDF: PDF{
			MaxPagesBeforeExtraction: defaultMaxPagesExtract,
			ExtractionPages:          defaultExtractionPages,
		},
		Drive: Drive{
			CredentialsFile: defaultCredentialsFile,
			TokenFile:       defaultTokenFile,
		},
		Naming: Naming{
			GenericPatterns:   []string{"raven_scan"},
			MaxFilenameLength: defaultMaxFilenameLength,
			Extension:         defaultExtension,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
