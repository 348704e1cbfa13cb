package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Provider describes one LLM backend in the provider catalog.
type Provider struct {
	APIKeyEnv       string   `toml:"api_key_env"`
	Endpoint        string   `toml:"endpoint"`
	DefaultModel    string   `toml:"default_model"`
	AvailableModels []string `toml:"available_models"`
	PDFModels       []string `toml:"pdf_models"`
}

// SupportsPDF reports whether the given model appears in the provider's
// PDF-capable model list.
func (p Provider) SupportsPDF(model string) bool {
	model = strings.TrimSpace(model)
	for _, candidate := range p.PDFModels {
		if strings.EqualFold(candidate, model) {
			return true
		}
	}
	return false
}

// LLM contains connection and request settings shared by all providers.
type LLM struct {
	Provider       string              `toml:"provider"`
	Model          string              `toml:"model"`
	MaxTokens      int                 `toml:"max_tokens"`
	Temperature    float64             `toml:"temperature"`
	TimeoutSeconds int                 `toml:"timeout_seconds"`
	Providers      map[string]Provider `toml:"providers"`
}

// PDF contains content-extraction thresholds.
type PDF struct {
	MaxPagesBeforeExtraction int `toml:"max_pages_before_extraction"`
	ExtractionPages          int `toml:"extraction_pages"`
}

// Drive contains Google Drive access settings.
type Drive struct {
	CredentialsFile string `toml:"credentials_file"`
	TokenFile       string `toml:"token_file"`
	FolderID        string `toml:"folder_id"`
}

// Naming contains eligibility and sanitization settings.
type Naming struct {
	GenericPatterns   []string `toml:"generic_patterns"`
	MaxFilenameLength int      `toml:"max_filename_length"`
	Extension         string   `toml:"extension"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// History contains configuration for the run-history ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Config encapsulates all configuration values for scannamer.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - LLM: provider selection, request parameters, provider catalog
//   - PDF: page thresholds controlling extraction vs. upload
//   - Drive: OAuth credential/token locations and the target folder
//   - Naming: generic-name denylist and sanitizer limits
//   - Logging: log format, level, and optional file
//   - History: SQLite run ledger
type Config struct {
	Paths   Paths   `toml:"paths"`
	LLM     LLM     `toml:"llm"`
	PDF     PDF     `toml:"pdf"`
	Drive   Drive   `toml:"drive"`
	Naming  Naming  `toml:"naming"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scannamer/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded and env overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scannamer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ProviderCatalog returns the provider catalog with stable iteration helpers.
func (c *Config) ProviderCatalog() map[string]Provider {
	return c.LLM.Providers
}

// ResolveModel returns the model to use for the named provider, falling back
// to the provider's default when no explicit model is configured.
func (c *Config) ResolveModel(providerName string) string {
	if model := strings.TrimSpace(c.LLM.Model); model != "" {
		return model
	}
	if provider, ok := c.LLM.Providers[providerName]; ok {
		return strings.TrimSpace(provider.DefaultModel)
	}
	return ""
}
