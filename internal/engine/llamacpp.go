package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"draftsmith/internal/decoding"
	"draftsmith/internal/logging"
)

// =============================================================================
// LLAMA.CPP SERVER ENGINE
// =============================================================================

// DRY multiplier used to approximate a no-repeat n-gram constraint.
const dryMultiplier = 0.8

// LlamaCppClient decodes and tokenizes against a llama.cpp server.
// The server has no beam search; deterministic configs decode greedily.
type LlamaCppClient struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewLlamaCppClient creates a client for the server at endpoint.
func NewLlamaCppClient(endpoint, model string, timeout time.Duration) *LlamaCppClient {
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LlamaCppClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the engine name.
func (c *LlamaCppClient) Name() string {
	if c.model == "" {
		return "llamacpp"
	}
	return fmt.Sprintf("llamacpp:%s", c.model)
}

// Encode tokenizes text without BOS or other special tokens, so banned
// phrases map to the ids the decoder would actually emit mid-text.
func (c *LlamaCppClient) Encode(ctx context.Context, text string) ([]int, error) {
	var resp llamaTokenizeResponse
	if err := c.post(ctx, "/tokenize", llamaTokenizeRequest{Content: text, AddSpecial: false}, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// Generate runs a completion. A minimum length is enforced in two phases: the
// first suppresses end-of-sequence until the minimum is reached, the second
// continues from the partial output with the remaining budget.
func (c *LlamaCppClient) Generate(ctx context.Context, req Request) (Result, error) {
	cfg := req.Config
	base := completionRequest(req)

	if cfg.MinNewTokens <= 0 || cfg.MinNewTokens >= cfg.MaxNewTokens {
		base.IgnoreEOS = cfg.MinNewTokens > 0
		resp, err := c.complete(ctx, base)
		if err != nil {
			return Result{}, err
		}
		return resp.result(), nil
	}

	first := base
	first.NPredict = cfg.MinNewTokens
	first.IgnoreEOS = true
	head, err := c.complete(ctx, first)
	if err != nil {
		return Result{}, err
	}
	if head.StoppedWord {
		return head.result(), nil
	}

	rest := cfg.MaxNewTokens - head.TokensPredicted
	if rest <= 0 {
		return head.result(), nil
	}
	second := base
	second.Prompt = req.Prompt + head.Content
	second.NPredict = rest
	tail, err := c.complete(ctx, second)
	if err != nil {
		return Result{}, err
	}

	logging.Get(logging.CategoryEngine).Debug("%s: two-phase decode %d+%d tokens", c.Name(), head.TokensPredicted, tail.TokensPredicted)

	res := tail.result()
	res.Text = head.Content + tail.Content
	res.TokensGenerated = head.TokensPredicted + tail.TokensPredicted
	return res, nil
}

func (c *LlamaCppClient) complete(ctx context.Context, req llamaCompletionRequest) (llamaCompletionResponse, error) {
	var resp llamaCompletionResponse
	err := c.post(ctx, "/completion", req, &resp)
	return resp, err
}

func (c *LlamaCppClient) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	apiLog := logging.Get(logging.CategoryAPI)
	apiLog.Debug("POST %s%s (%d bytes)", c.endpoint, path, len(body))
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("llamacpp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiLog.Warn("POST %s returned %d", path, resp.StatusCode)
		return &StatusError{Backend: "llamacpp", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// completionRequest maps a decoding config onto llama.cpp sampling parameters.
func completionRequest(req Request) llamaCompletionRequest {
	cfg := req.Config
	out := llamaCompletionRequest{
		Prompt:   req.Prompt,
		NPredict: cfg.MaxNewTokens,
	}

	if cfg.Deterministic() {
		out.Temperature = 0
		out.TopK = 1
	} else {
		out.Temperature = cfg.Temperature
		out.TopP = cfg.TopP
	}
	if cfg.RepetitionPenalty > 0 {
		out.RepeatPenalty = cfg.RepetitionPenalty
	}
	if cfg.NoRepeatNGramSize > 1 {
		out.DryMultiplier = dryMultiplier
		out.DryAllowedLength = cfg.NoRepeatNGramSize - 1
	}

	// logit_bias works on single ids; multi-token bans are left to the
	// email normalizer.
	for _, seq := range req.BannedTokens {
		if len(seq) == 1 {
			out.LogitBias = append(out.LogitBias, []interface{}{seq[0], false})
		}
	}
	return out
}

// =============================================================================
// LLAMA.CPP API TYPES
// =============================================================================

type llamaCompletionRequest struct {
	Prompt           string          `json:"prompt"`
	NPredict         int             `json:"n_predict"`
	Temperature      float64         `json:"temperature"`
	TopK             int             `json:"top_k,omitempty"`
	TopP             float64         `json:"top_p,omitempty"`
	RepeatPenalty    float64         `json:"repeat_penalty,omitempty"`
	DryMultiplier    float64         `json:"dry_multiplier,omitempty"`
	DryAllowedLength int             `json:"dry_allowed_length,omitempty"`
	LogitBias        [][]interface{} `json:"logit_bias,omitempty"`
	IgnoreEOS        bool            `json:"ignore_eos,omitempty"`
	Stream           bool            `json:"stream"`
}

type llamaCompletionResponse struct {
	Content         string `json:"content"`
	TokensPredicted int    `json:"tokens_predicted"`
	StoppedEOS      bool   `json:"stopped_eos"`
	StoppedLimit    bool   `json:"stopped_limit"`
	StoppedWord     bool   `json:"stopped_word"`
}

func (r llamaCompletionResponse) result() Result {
	reason := "stop"
	switch {
	case r.StoppedEOS:
		reason = "eos"
	case r.StoppedLimit:
		reason = "limit"
	}
	return Result{Text: r.Content, TokensGenerated: r.TokensPredicted, FinishReason: reason}
}

type llamaTokenizeRequest struct {
	Content    string `json:"content"`
	AddSpecial bool   `json:"add_special"`
}

type llamaTokenizeResponse struct {
	Tokens []int `json:"tokens"`
}

var (
	_ Engine           = (*LlamaCppClient)(nil)
	_ Tokenizer        = (*LlamaCppClient)(nil)
	_ decoding.Encoder = (*LlamaCppClient)(nil)
)
