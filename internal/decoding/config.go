// Package decoding fixes the decoding parameters each task runs with.
//
// The values are empirical tuning choices for small instruction models. They
// are not caller-overridable; a different engine may need them re-tuned.
package decoding

import (
	"context"
	"fmt"

	"draftsmith/internal/task"
)

// Strategy selects between stochastic and deterministic decoding.
type Strategy int

const (
	Sampling Strategy = iota
	BeamSearch
)

func (s Strategy) String() string {
	switch s {
	case Sampling:
		return "sampling"
	case BeamSearch:
		return "beam-search"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Config is the full set of decoding constraints for one task.
// Zero values mean "not set" for the optional knobs.
type Config struct {
	Strategy     Strategy
	MaxNewTokens int

	// Sampling only.
	Temperature float64
	TopP        float64

	// Beam search only.
	NumBeams      int
	LengthPenalty float64
	EarlyStopping bool

	RepetitionPenalty float64
	NoRepeatNGramSize int

	// MinNewTokens forbids end-of-text before this many tokens are generated.
	MinNewTokens int

	// BannedSequences may never appear in the output.
	BannedSequences []string
}

// Deterministic reports whether the config yields the same output for the
// same prompt.
func (c Config) Deterministic() bool {
	return c.Strategy == BeamSearch
}

// emailBans covers list markers and attachment claims, which leave drafts must
// not contain.
var emailBans = []string{
	"1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9.", "0.",
	"- ", "• ",
	"Attached", "attached",
}

// For returns the fixed decoding config of a task. Unknown tasks get the zero
// Config; callers dispatch on known tasks before asking.
func For(name task.Name) Config {
	switch name {
	case task.Blog:
		return Config{
			Strategy:          Sampling,
			MaxNewTokens:      250,
			Temperature:       0.7,
			TopP:              0.9,
			RepetitionPenalty: 1.05,
			NoRepeatNGramSize: 3,
		}
	case task.Summary:
		return Config{
			Strategy:          BeamSearch,
			MaxNewTokens:      1610,
			NumBeams:          4,
			LengthPenalty:     1.0,
			EarlyStopping:     true,
			NoRepeatNGramSize: 3,
		}
	case task.Email:
		bans := make([]string, len(emailBans))
		copy(bans, emailBans)
		return Config{
			Strategy:          BeamSearch,
			MaxNewTokens:      220,
			NumBeams:          5,
			LengthPenalty:     1.0,
			EarlyStopping:     true,
			NoRepeatNGramSize: 5,
			MinNewTokens:      60,
			BannedSequences:   bans,
		}
	default:
		return Config{}
	}
}

// Encoder turns text into the token ids an engine decodes over.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]int, error)
}

// EncodeBanned encodes each banned string without special tokens. Strings
// that encode to nothing are dropped; nil means nothing is banned.
func EncodeBanned(ctx context.Context, enc Encoder, seqs []string) ([][]int, error) {
	if len(seqs) == 0 {
		return nil, nil
	}
	var out [][]int
	for _, s := range seqs {
		ids, err := enc.Encode(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("encode banned sequence %q: %w", s, err)
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out, nil
}
