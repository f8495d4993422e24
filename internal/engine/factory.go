package engine

import (
	"context"
	"fmt"

	"draftsmith/internal/config"
	"draftsmith/internal/logging"
)

// New builds the engine and tokenizer described by cfg. The engine is capped
// at cfg.GetMaxConcurrent() in-flight calls.
func New(ctx context.Context, cfg config.EngineConfig) (Engine, Tokenizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		eng Engine
		tok Tokenizer
	)
	switch cfg.Backend {
	case config.BackendLlamaCpp:
		c := NewLlamaCppClient(cfg.BaseURL, cfg.Model, cfg.GetTimeout())
		eng, tok = c, c
	case config.BackendGemini:
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.GetTimeout())
		if err != nil {
			return nil, nil, err
		}
		eng, tok = c, c
	default:
		return nil, nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}

	s := Serialize(eng, cfg.GetMaxConcurrent())
	logging.Get(logging.CategoryEngine).Info("engine %s ready (max_concurrent=%d)", s.Name(), s.Limit())
	return s, tok, nil
}
