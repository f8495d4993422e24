package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftsmith/internal/decoding"
	"draftsmith/internal/task"
)

// fakeLlama records /completion bodies and answers from a script.
type fakeLlama struct {
	mu       sync.Mutex
	requests []map[string]interface{}
	replies  []llamaCompletionResponse
}

func (f *fakeLlama) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/completion", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode completion body: %v", err)
		}
		f.mu.Lock()
		i := len(f.requests)
		f.requests = append(f.requests, body)
		f.mu.Unlock()
		if i >= len(f.replies) {
			http.Error(w, "unexpected call", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(f.replies[i])
	})
	mux.HandleFunc("/tokenize", func(w http.ResponseWriter, r *http.Request) {
		var body llamaTokenizeRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.AddSpecial {
			t.Errorf("tokenize must not add special tokens")
		}
		ids := make([]int, 0, len(body.Content))
		for _, r := range body.Content {
			ids = append(ids, int(r))
		}
		_ = json.NewEncoder(w).Encode(llamaTokenizeResponse{Tokens: ids})
	})
	return mux
}

func newFakeLlama(t *testing.T, replies ...llamaCompletionResponse) (*fakeLlama, *LlamaCppClient) {
	t.Helper()
	f := &fakeLlama{replies: replies}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return f, NewLlamaCppClient(srv.URL+"/", "test", 0)
}

func TestLlamaCpp_SamplingSingleCall(t *testing.T) {
	f, c := newFakeLlama(t, llamaCompletionResponse{Content: "A post.", TokensPredicted: 3, StoppedEOS: true})

	res, err := c.Generate(context.Background(), Request{Prompt: "P", Config: decoding.For(task.Blog)})
	require.NoError(t, err)
	assert.Equal(t, "A post.", res.Text)
	assert.Equal(t, "eos", res.FinishReason)

	require.Len(t, f.requests, 1)
	body := f.requests[0]
	assert.Equal(t, "P", body["prompt"])
	assert.EqualValues(t, 250, body["n_predict"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.InDelta(t, 0.9, body["top_p"], 1e-9)
	assert.InDelta(t, 1.05, body["repeat_penalty"], 1e-9)
	assert.EqualValues(t, 2, body["dry_allowed_length"])
	assert.NotContains(t, body, "ignore_eos")
	assert.NotContains(t, body, "logit_bias")
}

func TestLlamaCpp_BeamConfigDecodesGreedily(t *testing.T) {
	f, c := newFakeLlama(t, llamaCompletionResponse{Content: "Short.", StoppedLimit: true})

	res, err := c.Generate(context.Background(), Request{Prompt: "P", Config: decoding.For(task.Summary)})
	require.NoError(t, err)
	assert.Equal(t, "limit", res.FinishReason)

	body := f.requests[0]
	assert.EqualValues(t, 0, body["temperature"])
	assert.EqualValues(t, 1, body["top_k"])
	assert.EqualValues(t, 1610, body["n_predict"])
}

func TestLlamaCpp_MinimumLengthRunsTwoPhases(t *testing.T) {
	f, c := newFakeLlama(t,
		llamaCompletionResponse{Content: "Dear Manager, I", TokensPredicted: 60, StoppedLimit: true},
		llamaCompletionResponse{Content: " request leave.", TokensPredicted: 5, StoppedEOS: true},
	)

	req := Request{
		Prompt:       "Email:",
		Config:       decoding.For(task.Email),
		BannedTokens: [][]int{{49, 46}, {65}, {97}},
	}
	res, err := c.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Dear Manager, I request leave.", res.Text)
	assert.Equal(t, 65, res.TokensGenerated)
	assert.Equal(t, "eos", res.FinishReason)

	require.Len(t, f.requests, 2)
	first, second := f.requests[0], f.requests[1]
	assert.EqualValues(t, 60, first["n_predict"])
	assert.Equal(t, true, first["ignore_eos"])
	assert.Equal(t, "Email:", first["prompt"])

	assert.EqualValues(t, 160, second["n_predict"])
	assert.NotContains(t, second, "ignore_eos")
	assert.Equal(t, "Email:Dear Manager, I", second["prompt"])

	// Only single-id bans become logit biases.
	bias, ok := first["logit_bias"].([]interface{})
	require.True(t, ok)
	assert.Len(t, bias, 2)
	assert.Equal(t, []interface{}{float64(65), false}, bias[0])
}

func TestLlamaCpp_MinimumFillsBudget(t *testing.T) {
	f, c := newFakeLlama(t, llamaCompletionResponse{Content: "x", TokensPredicted: 5, StoppedLimit: true})

	cfg := decoding.For(task.Email)
	cfg.MaxNewTokens = 5
	cfg.MinNewTokens = 5
	_, err := c.Generate(context.Background(), Request{Prompt: "P", Config: cfg})
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	assert.Equal(t, true, f.requests[0]["ignore_eos"])
}

func TestLlamaCpp_StatusError(t *testing.T) {
	_, c := newFakeLlama(t)

	_, err := c.Generate(context.Background(), Request{Prompt: "P", Config: decoding.For(task.Blog)})
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "unexpected call", se.Body)
}

func TestLlamaCpp_Encode(t *testing.T) {
	_, c := newFakeLlama(t)

	ids, err := c.Encode(context.Background(), "1.")
	require.NoError(t, err)
	assert.Equal(t, []int{'1', '.'}, ids)

	banned, err := decoding.EncodeBanned(context.Background(), c, []string{"- ", ""})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{'-', ' '}}, banned)
}

func TestLlamaCpp_Name(t *testing.T) {
	assert.Equal(t, "llamacpp", NewLlamaCppClient("", "", 0).Name())
	assert.Equal(t, "llamacpp:gemma", NewLlamaCppClient("", "gemma", 0).Name())
}
