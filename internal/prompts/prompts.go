// Package prompts loads the LLM prompt templates used for document naming.
// A built-in template ships with the binary; a TOML file on disk can replace
// it for local experimentation.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_prompts.toml
var defaultPrompts []byte

// Spec holds the system and user prompt for one naming request.
type Spec struct {
	System string `toml:"system_prompt"`
	User   string `toml:"user_prompt"`
}

type promptFile struct {
	DocumentNaming Spec `toml:"document_naming"`
}

// Load returns the naming prompts. When path is empty the embedded defaults
// are used; otherwise the file at path must parse and provide both prompts.
func Load(path string) (Spec, error) {
	data := defaultPrompts
	if strings.TrimSpace(path) != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return Spec{}, fmt.Errorf("read prompts file: %w", err)
		}
		data = fileData
	}

	var parsed promptFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return Spec{}, fmt.Errorf("parse prompts: %w", err)
	}

	spec := parsed.DocumentNaming
	if strings.TrimSpace(spec.System) == "" {
		return Spec{}, fmt.Errorf("prompts: document_naming.system_prompt is empty")
	}
	if strings.TrimSpace(spec.User) == "" {
		return Spec{}, fmt.Errorf("prompts: document_naming.user_prompt is empty")
	}
	return spec, nil
}

// UserWithText renders the user prompt with extracted document text appended.
func (s Spec) UserWithText(text string) string {
	if strings.TrimSpace(text) == "" {
		return s.User
	}
	return s.User + "\n\nDocument content:\n" + text
}
