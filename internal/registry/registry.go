// Package registry holds the engine and tokenizer of each task family. A
// Registry is built once at startup and never changes afterwards, so lookups
// need no locking.
package registry

import (
	"context"
	"fmt"

	"draftsmith/internal/config"
	"draftsmith/internal/engine"
	"draftsmith/internal/logging"
	"draftsmith/internal/task"
)

// Pair is the engine and tokenizer of one family. The tokenizer shares the
// engine's vocabulary.
type Pair struct {
	Engine    engine.Engine
	Tokenizer engine.Tokenizer
}

// Registry maps every family to its pair.
type Registry struct {
	pairs map[task.Family]Pair
}

// New builds a registry from complete pairs for all three families.
func New(pairs map[task.Family]Pair) (*Registry, error) {
	r := &Registry{pairs: make(map[task.Family]Pair, len(task.Families))}
	for _, f := range task.Families {
		p, ok := pairs[f]
		if !ok {
			return nil, fmt.Errorf("no engine registered for family %q", f)
		}
		if p.Engine == nil || p.Tokenizer == nil {
			return nil, fmt.Errorf("family %q: engine and tokenizer are both required", f)
		}
		r.pairs[f] = p
	}
	for f := range pairs {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown family %q", f)
		}
	}
	return r, nil
}

// FromConfig builds every family's pair from cfg. Any failure aborts startup.
func FromConfig(ctx context.Context, cfg *config.Config) (*Registry, error) {
	pairs := make(map[task.Family]Pair, len(task.Families))
	for _, f := range task.Families {
		eng, tok, err := engine.New(ctx, cfg.Engines.For(f))
		if err != nil {
			return nil, fmt.Errorf("engines.%s: %w", f, err)
		}
		pairs[f] = Pair{Engine: eng, Tokenizer: tok}
		logging.Get(logging.CategoryBoot).Info("family %s -> %s", f, eng.Name())
	}
	return New(pairs)
}

// Get returns the pair of a family. Families are a closed set, so an unknown
// one is a programming error and panics.
func (r *Registry) Get(f task.Family) Pair {
	p, ok := r.pairs[f]
	if !ok {
		panic(fmt.Sprintf("registry: unknown family %q", f))
	}
	return p
}

// Names returns each family's engine name, keyed by family.
func (r *Registry) Names() map[task.Family]string {
	out := make(map[task.Family]string, len(r.pairs))
	for f, p := range r.pairs {
		out[f] = p.Engine.Name()
	}
	return out
}
