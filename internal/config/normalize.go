package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// normalize applies env overrides and expands paths. Resolution per key:
// environment override, else file value, else built-in default.
func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLLM(); err != nil {
		return err
	}
	if err := c.normalizePDF(); err != nil {
		return err
	}
	if err := c.normalizeDrive(); err != nil {
		return err
	}
	if err := c.normalizeNaming(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeHistory()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() error {
	if value, ok := os.LookupEnv("LLM_PROVIDER"); ok && strings.TrimSpace(value) != "" {
		c.LLM.Provider = value
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultProvider
	}

	if value, ok := os.LookupEnv("LLM_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.LLM.Model = value
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)

	if value, ok := lookupPositiveInt("LLM_MAX_TOKENS"); ok {
		c.LLM.MaxTokens = value
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultMaxTokens
	}

	if value, ok := os.LookupEnv("LLM_TEMPERATURE"); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			c.LLM.Temperature = parsed
		}
	}

	if value, ok := lookupPositiveInt("LLM_TIMEOUT_SECONDS"); ok {
		c.LLM.TimeoutSeconds = value
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultTimeoutSeconds
	}

	// Providers declared in the config file overlay the built-in catalog
	// rather than replacing it wholesale.
	defaults := Default().LLM.Providers
	if c.LLM.Providers == nil {
		c.LLM.Providers = defaults
	} else {
		for name, provider := range defaults {
			if _, ok := c.LLM.Providers[name]; !ok {
				c.LLM.Providers[name] = provider
			}
		}
	}
	for name, provider := range c.LLM.Providers {
		provider.APIKeyEnv = strings.TrimSpace(provider.APIKeyEnv)
		provider.Endpoint = strings.TrimSpace(provider.Endpoint)
		provider.DefaultModel = strings.TrimSpace(provider.DefaultModel)
		c.LLM.Providers[name] = provider
	}
	return nil
}

func (c *Config) normalizePDF() error {
	if value, ok := lookupPositiveInt("PDF_MAX_PAGES_BEFORE_EXTRACTION"); ok {
		c.PDF.MaxPagesBeforeExtraction = value
	}
	if c.PDF.MaxPagesBeforeExtraction <= 0 {
		c.PDF.MaxPagesBeforeExtraction = defaultMaxPagesExtract
	}
	if value, ok := lookupPositiveInt("PDF_EXTRACTION_PAGES"); ok {
		c.PDF.ExtractionPages = value
	}
	if c.PDF.ExtractionPages <= 0 {
		c.PDF.ExtractionPages = defaultExtractionPages
	}
	return nil
}

func (c *Config) normalizeDrive() error {
	if value, ok := os.LookupEnv("GOOGLE_DRIVE_CREDENTIALS_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Drive.CredentialsFile = value
	}
	if value, ok := os.LookupEnv("GOOGLE_DRIVE_TOKEN_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Drive.TokenFile = value
	}
	if value, ok := os.LookupEnv("SCAN_FOLDER_ID"); ok && strings.TrimSpace(value) != "" {
		c.Drive.FolderID = value
	}
	var err error
	if strings.TrimSpace(c.Drive.CredentialsFile) == "" {
		c.Drive.CredentialsFile = defaultCredentialsFile
	}
	if c.Drive.CredentialsFile, err = expandPath(c.Drive.CredentialsFile); err != nil {
		return fmt.Errorf("drive.credentials_file: %w", err)
	}
	if strings.TrimSpace(c.Drive.TokenFile) == "" {
		c.Drive.TokenFile = defaultTokenFile
	}
	if c.Drive.TokenFile, err = expandPath(c.Drive.TokenFile); err != nil {
		return fmt.Errorf("drive.token_file: %w", err)
	}
	c.Drive.FolderID = strings.TrimSpace(c.Drive.FolderID)
	return nil
}

func (c *Config) normalizeNaming() error {
	if value, ok := os.LookupEnv("GENERIC_FILENAME_PATTERNS"); ok {
		patterns := make([]string, 0, 4)
		for _, pattern := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(pattern); trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
		c.Naming.GenericPatterns = patterns
	}
	if value, ok := lookupPositiveInt("MAX_FILENAME_LENGTH"); ok {
		c.Naming.MaxFilenameLength = value
	}
	if c.Naming.MaxFilenameLength <= 0 {
		c.Naming.MaxFilenameLength = defaultMaxFilenameLength
	}
	c.Naming.Extension = strings.ToLower(strings.TrimSpace(c.Naming.Extension))
	if c.Naming.Extension == "" {
		c.Naming.Extension = defaultExtension
	}
	if !strings.HasPrefix(c.Naming.Extension, ".") {
		c.Naming.Extension = "." + c.Naming.Extension
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("LOG_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}

func (c *Config) normalizeHistory() {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, "history.db")
	}
	if expanded, err := expandPath(c.History.Path); err == nil {
		c.History.Path = expanded
	}
}

func lookupPositiveInt(name string) (int, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
