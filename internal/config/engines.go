package config

import (
	"fmt"
	"time"

	"draftsmith/internal/task"
)

// Supported engine backends.
const (
	BackendLlamaCpp = "llamacpp" // llama.cpp server /completion API
	BackendGemini   = "gemini"   // Google Gemini via genai
)

// ValidBackends lists all supported engine backends.
var ValidBackends = []string{BackendLlamaCpp, BackendGemini}

// EnginesConfig holds one engine per task family.
type EnginesConfig struct {
	Creative  EngineConfig `yaml:"creative"`
	Summarize EngineConfig `yaml:"summarize"`
	Draft     EngineConfig `yaml:"draft"`
}

// EngineConfig configures the decoding engine and tokenizer of one family.
type EngineConfig struct {
	Backend string `yaml:"backend"` // llamacpp, gemini
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key,omitempty"`
	Timeout string `yaml:"timeout"`

	// MaxConcurrent caps in-flight calls to this engine. 1 serializes calls
	// for engines that are not safe for concurrent use.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// For returns the engine config of a family. Unknown families get the zero value.
func (e EnginesConfig) For(f task.Family) EngineConfig {
	switch f {
	case task.FamilyCreative:
		return e.Creative
	case task.FamilySummarize:
		return e.Summarize
	case task.FamilyDraft:
		return e.Draft
	default:
		return EngineConfig{}
	}
}

// Redacted returns a copy with API keys masked, for display.
func (e EnginesConfig) Redacted() EnginesConfig {
	for _, ec := range e.all() {
		if ec.APIKey != "" {
			ec.APIKey = "****"
		}
	}
	return e
}

func (e *EnginesConfig) all() []*EngineConfig {
	return []*EngineConfig{&e.Creative, &e.Summarize, &e.Draft}
}

// GetTimeout returns the engine call timeout as a duration.
func (e EngineConfig) GetTimeout() time.Duration {
	return parseDuration(e.Timeout, 120*time.Second)
}

// GetMaxConcurrent returns the concurrency cap, at least 1.
func (e EngineConfig) GetMaxConcurrent() int {
	if e.MaxConcurrent < 1 {
		return 1
	}
	return e.MaxConcurrent
}

// Validate checks the backend-specific required fields.
func (e EngineConfig) Validate() error {
	switch e.Backend {
	case BackendLlamaCpp:
		if e.BaseURL == "" {
			return fmt.Errorf("llamacpp backend requires base_url")
		}
	case BackendGemini:
		if e.APIKey == "" {
			return fmt.Errorf("gemini backend requires an API key (set api_key or GEMINI_API_KEY)")
		}
		if e.Model == "" {
			return fmt.Errorf("gemini backend requires model")
		}
	default:
		return fmt.Errorf("invalid backend: %q (valid: %v)", e.Backend, ValidBackends)
	}
	return nil
}
