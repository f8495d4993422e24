package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"draftsmith/internal/decoding"
	"draftsmith/internal/logging"
)

// =============================================================================
// GOOGLE GEMINI ENGINE
// =============================================================================

// GeminiClient decodes with a hosted Gemini model. Gemini exposes sampling
// parameters only, so beam configs run at temperature 0 and token bans are
// ignored.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client. baseURL overrides the API host
// and is normally empty.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Name returns the engine name.
func (c *GeminiClient) Name() string {
	return fmt.Sprintf("gemini:%s", c.model)
}

// Generate runs one GenerateContent call.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Result, error) {
	if len(req.BannedTokens) > 0 {
		logging.Get(logging.CategoryEngine).Debug("%s: ignoring %d banned sequences", c.Name(), len(req.BannedTokens))
	}

	logging.Get(logging.CategoryAPI).Debug("GenerateContent model=%s max_tokens=%d", c.model, req.Config.MaxNewTokens)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), generationConfig(req.Config))
	if err != nil {
		logging.Get(logging.CategoryAPI).Error("GenerateContent failed: %v", err)
		return Result{}, fmt.Errorf("gemini request failed: %w", err)
	}

	res := Result{Text: resp.Text()}
	if resp.UsageMetadata != nil {
		res.TokensGenerated = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		res.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	return res, nil
}

// Encode always fails with ErrUnsupported: ComputeTokens is served only by
// Vertex AI, and token bans are ignored by Generate anyway.
func (c *GeminiClient) Encode(_ context.Context, _ string) ([]int, error) {
	return nil, fmt.Errorf("%s has no tokenizer endpoint: %w", c.Name(), ErrUnsupported)
}

// generationConfig maps a decoding config onto Gemini parameters.
func generationConfig(cfg decoding.Config) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(cfg.MaxNewTokens),
		CandidateCount:  1,
	}
	if cfg.Deterministic() {
		out.Temperature = genai.Ptr[float32](0)
		return out
	}
	out.Temperature = genai.Ptr(float32(cfg.Temperature))
	if cfg.TopP > 0 {
		out.TopP = genai.Ptr(float32(cfg.TopP))
	}
	return out
}

var (
	_ Engine    = (*GeminiClient)(nil)
	_ Tokenizer = (*GeminiClient)(nil)
)
