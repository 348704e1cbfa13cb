package config

import (
	"fmt"
	"strings"
)

// Validate confirms the configuration is internally consistent. It does not
// check credentials; the provider factory handles that at construction time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.Provider) == "" {
		return fmt.Errorf("llm.provider must be set")
	}
	if _, ok := c.LLM.Providers[c.LLM.Provider]; !ok {
		return fmt.Errorf("llm.provider %q is not in the provider catalog", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.PDF.MaxPagesBeforeExtraction <= 0 {
		return fmt.Errorf("pdf.max_pages_before_extraction must be positive, got %d", c.PDF.MaxPagesBeforeExtraction)
	}
	if c.PDF.ExtractionPages <= 0 {
		return fmt.Errorf("pdf.extraction_pages must be positive, got %d", c.PDF.ExtractionPages)
	}
	if c.Naming.MaxFilenameLength <= 0 {
		return fmt.Errorf("naming.max_filename_length must be positive, got %d", c.Naming.MaxFilenameLength)
	}
	if !strings.HasPrefix(c.Naming.Extension, ".") {
		return fmt.Errorf("naming.extension must start with a dot, got %q", c.Naming.Extension)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
