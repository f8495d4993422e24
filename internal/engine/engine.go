// Package engine abstracts the decoding runtime behind two capabilities:
// encode text to token ids, and run constrained decoding over a prompt.
// Backends talk to model servers; weights are never loaded in-process.
package engine

import (
	"context"
	"errors"
	"fmt"

	"draftsmith/internal/decoding"
)

// ErrUnsupported is returned when a backend has no way to perform an operation.
var ErrUnsupported = errors.New("not supported by backend")

// Request is a single decoding call.
type Request struct {
	Prompt string
	Config decoding.Config

	// BannedTokens are Config.BannedSequences encoded with the engine's own
	// tokenizer. Backends that ban token ids use these.
	BannedTokens [][]int
}

// Result is the raw decoder output for one request.
type Result struct {
	Text            string
	TokensGenerated int
	FinishReason    string
}

// Engine runs decoding. Implementations must be safe for concurrent use, or be
// wrapped with Serialize.
type Engine interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Tokenizer encodes text into the token ids of one engine's vocabulary.
type Tokenizer interface {
	Encode(ctx context.Context, text string) ([]int, error)
}

// StatusError is a non-2xx reply from a model server.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Backend, e.StatusCode, e.Body)
}
