// Package orchestrator dispatches a task request through prompt building,
// constrained decoding and output normalization.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"draftsmith/internal/decoding"
	"draftsmith/internal/engine"
	"draftsmith/internal/leave"
	"draftsmith/internal/logging"
	"draftsmith/internal/normalize"
	"draftsmith/internal/prompt"
	"draftsmith/internal/registry"
	"draftsmith/internal/task"
)

// Fixed replies that are returned without calling a model.
const (
	NotSupported  = "Task not supported."
	NeedSummary   = "Please provide the text you want to summarize."
	ErrorTask     = "error"
	errorTextHead = "Error: "
)

// Decodes slower than this are logged as warnings.
const slowDecode = 30 * time.Second

// Result is what a front end renders for one request.
type Result struct {
	Task  string
	Topic string
	Text  string
}

// Orchestrator holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	reg *registry.Registry
}

// New creates an orchestrator over a built registry.
func New(reg *registry.Registry) *Orchestrator {
	return &Orchestrator{reg: reg}
}

// Generate produces the final text for a task. Unsupported tasks and an empty
// summary text yield fixed replies with a nil error; engine failures are
// returned as errors.
func (o *Orchestrator) Generate(ctx context.Context, taskName string, fields task.Fields) (Result, error) {
	res := Result{Task: taskName, Topic: fields.Get(task.KeyTopic)}

	name, ok := task.Parse(taskName)
	if !ok {
		res.Text = NotSupported
		return res, nil
	}

	var p string
	switch name {
	case task.Blog:
		p = prompt.Blog(fields.Blog())
	case task.Summary:
		sf := fields.Summary()
		if sf.Text == "" {
			res.Text = NeedSummary
			return res, nil
		}
		p = prompt.Summary(sf)
	case task.Email:
		ef := fields.Email()
		w := leave.Window{StartDate: ef.StartDate, DurationDays: ef.DurationDays, ReturnDate: ef.ReturnDate}.Complete()
		ef.ReturnDate = w.ReturnDate
		p = prompt.Email(ef)
	}

	text, err := o.decode(ctx, name, p)
	if err != nil {
		return Result{}, fmt.Errorf("generate %s: %w", name, err)
	}
	res.Text = normalize.For(name)(text)
	return res, nil
}

func (o *Orchestrator) decode(ctx context.Context, name task.Name, p string) (string, error) {
	log := logging.Get(logging.CategoryGeneration)
	timer := logging.StartTimer(logging.CategoryGeneration, "decode "+string(name))
	defer timer.StopWithThreshold(slowDecode)

	pair := o.reg.Get(name.Family())
	cfg := decoding.For(name)

	banned, err := decoding.EncodeBanned(ctx, pair.Tokenizer, cfg.BannedSequences)
	if err != nil {
		if !errors.Is(err, engine.ErrUnsupported) {
			return "", err
		}
		log.Debug("%s: token bans unavailable, relying on normalizer", pair.Engine.Name())
		banned = nil
	}

	out, err := pair.Engine.Generate(ctx, engine.Request{Prompt: p, Config: cfg, BannedTokens: banned})
	if err != nil {
		return "", err
	}
	log.Info("%s: %d tokens via %s (%s)", name, out.TokensGenerated, pair.Engine.Name(), out.FinishReason)
	return out.Text, nil
}

// Display is the boundary adapter. Errors and panics become "Error: ..." text
// under the "error" task so callers always have something to render.
func (o *Orchestrator) Display(ctx context.Context, taskName string, fields task.Fields) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Get(logging.CategoryGeneration).Error("panic generating %s: %v", taskName, r)
			res = errorResult(fmt.Sprint(r))
		}
	}()

	res, err := o.Generate(ctx, taskName, fields)
	if err != nil {
		logging.Get(logging.CategoryGeneration).Error("generating %s: %v", taskName, err)
		return errorResult(err.Error())
	}
	return res
}

func errorResult(msg string) Result {
	return Result{Task: ErrorTask, Text: errorTextHead + msg}
}
