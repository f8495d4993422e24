package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"draftsmith/internal/orchestrator"
	"draftsmith/internal/task"
)

type fakeGenerator struct {
	calls  int
	task   string
	fields task.Fields
	result orchestrator.Result
}

func (f *fakeGenerator) Display(_ context.Context, taskName string, fields task.Fields) orchestrator.Result {
	f.calls++
	f.task, f.fields = taskName, fields
	return f.result
}

// callTool connects a client to the server over in-memory transports and
// calls a tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()
	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func extractText(result *gomcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func decodeOutput(t *testing.T, result *gomcp.CallToolResult) generateOutput {
	t.Helper()
	var out generateOutput
	if result.StructuredContent != nil {
		data, _ := json.Marshal(result.StructuredContent)
		if err := json.Unmarshal(data, &out); err == nil {
			return out
		}
	}
	if err := json.Unmarshal([]byte(extractText(result)), &out); err != nil {
		t.Fatalf("unmarshalling output: %v (text was: %s)", err, extractText(result))
	}
	return out
}

func TestGenerateText(t *testing.T) {
	gen := &fakeGenerator{result: orchestrator.Result{Task: "blog", Topic: "Go", Text: "A post."}}
	srv := NewServer(gen, "test")

	result := callTool(t, srv, "generate_text", map[string]any{
		"task":   "blog",
		"fields": map[string]any{"topic": "Go", "keywords": "types,errors"},
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	out := decodeOutput(t, result)
	if out.Content != "A post." || out.Topic != "Go" || out.Task != "blog" {
		t.Errorf("unexpected output: %+v", out)
	}
	if gen.task != "blog" {
		t.Errorf("expected task blog, got %q", gen.task)
	}
	if gen.fields.Get("keywords") != "types,errors" {
		t.Errorf("fields not forwarded: %v", gen.fields)
	}
}

func TestGenerateText_ErrorResult(t *testing.T) {
	gen := &fakeGenerator{result: orchestrator.Result{Task: "error", Text: "Error: engine down"}}
	srv := NewServer(gen, "test")

	result := callTool(t, srv, "generate_text", map[string]any{"task": "summary", "fields": map[string]any{"text": "t"}})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := extractText(result); text != "Error: engine down" {
		t.Errorf("unexpected error text %q", text)
	}
}

func TestGenerateText_FallbackIsNotAnError(t *testing.T) {
	gen := &fakeGenerator{result: orchestrator.Result{Task: "poem", Text: orchestrator.NotSupported}}
	srv := NewServer(gen, "")

	result := callTool(t, srv, "generate_text", map[string]any{"task": "poem"})
	if result.IsError {
		t.Fatalf("fallback should not be an error: %s", extractText(result))
	}
	if out := decodeOutput(t, result); out.Content != "Task not supported." {
		t.Errorf("unexpected content %q", out.Content)
	}
}

func TestGenerateText_EmptyTaskFallsBack(t *testing.T) {
	gen := &fakeGenerator{result: orchestrator.Result{Text: orchestrator.NotSupported}}
	srv := NewServer(gen, "test")

	result := callTool(t, srv, "generate_text", map[string]any{"task": ""})
	if result.IsError {
		t.Fatalf("empty task should fall back, got error: %s", extractText(result))
	}
	if gen.calls != 1 {
		t.Errorf("expected one Display call, got %d", gen.calls)
	}
	if out := decodeOutput(t, result); out.Content != orchestrator.NotSupported {
		t.Errorf("unexpected content %q", out.Content)
	}
}
