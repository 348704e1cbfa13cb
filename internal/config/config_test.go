package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.LLM.Provider != "xai" {
		t.Fatalf("expected default provider, got %q", cfg.LLM.Provider)
	}
	if cfg.Naming.MaxFilenameLength != 100 {
		t.Fatalf("expected default filename length, got %d", cfg.Naming.MaxFilenameLength)
	}
}

func TestLoadParsesFileAndKeepsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "anthropic"
max_tokens = 500

[naming]
generic_patterns = ["scan_", "img_"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Fatalf("expected anthropic, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 500 {
		t.Fatalf("expected max_tokens 500, got %d", cfg.LLM.MaxTokens)
	}
	if len(cfg.Naming.GenericPatterns) != 2 || cfg.Naming.GenericPatterns[0] != "scan_" {
		t.Fatalf("unexpected patterns: %v", cfg.Naming.GenericPatterns)
	}
	// File did not declare providers, so the built-in catalog must survive.
	if _, ok := cfg.LLM.Providers["google"]; !ok {
		t.Fatal("expected built-in provider catalog to be preserved")
	}
}

func TestEnvOverridesFileValues(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MAX_TOKENS", "250")
	t.Setenv("GENERIC_FILENAME_PATTERNS", "foo_, bar_")
	t.Setenv("SCAN_FOLDER_ID", "folder123")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("expected openai, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 250 {
		t.Fatalf("expected 250, got %d", cfg.LLM.MaxTokens)
	}
	want := []string{"foo_", "bar_"}
	if len(cfg.Naming.GenericPatterns) != len(want) {
		t.Fatalf("unexpected patterns: %v", cfg.Naming.GenericPatterns)
	}
	for i, pattern := range want {
		if cfg.Naming.GenericPatterns[i] != pattern {
			t.Fatalf("pattern %d: got %q want %q", i, cfg.Naming.GenericPatterns[i], pattern)
		}
	}
	if cfg.Drive.FolderID != "folder123" {
		t.Fatalf("expected folder override, got %q", cfg.Drive.FolderID)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.LLM.Provider = "mystery"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidateRejectsBadTemperature(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.LLM.Temperature = 3.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range temperature")
	}
}

func TestSupportsPDF(t *testing.T) {
	provider := Default().LLM.Providers["anthropic"]
	if !provider.SupportsPDF("claude-sonnet-4-20250514") {
		t.Fatal("expected sonnet to support PDF upload")
	}
	if provider.SupportsPDF("claude-3-5-haiku-20241022") {
		t.Fatal("haiku should not report PDF support")
	}
}

func TestResolveModelFallsBackToProviderDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := cfg.ResolveModel("google"); got != "gemini-2.5-flash" {
		t.Fatalf("expected provider default, got %q", got)
	}
	cfg.LLM.Model = "custom-model"
	if got := cfg.ResolveModel("google"); got != "custom-model" {
		t.Fatalf("expected explicit model, got %q", got)
	}
}

func TestCreateSampleWritesEmbeddedTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatalf("sample config missing llm section: %s", data)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
