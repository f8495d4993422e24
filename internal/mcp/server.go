// Package mcp exposes draftsmith generation as an MCP (Model Context
// Protocol) tool so assistants can request blog posts, summaries and leave
// emails over stdio.
package mcp

import (
	"context"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"draftsmith/internal/logging"
	"draftsmith/internal/orchestrator"
	"draftsmith/internal/task"
)

// Generator renders one task request. *orchestrator.Orchestrator implements it.
type Generator interface {
	Display(ctx context.Context, taskName string, fields task.Fields) orchestrator.Result
}

// Server wraps a generator and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	gen    Generator
}

// NewServer creates an MCP server over gen.
func NewServer(gen Generator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{gen: gen}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "draftsmith", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio, blocking until the client disconnects or the context
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type generateInput struct {
	Task   string            `json:"task" jsonschema:"the task to run: blog, summary or email"`
	Fields map[string]string `json:"fields,omitempty" jsonschema:"task fields such as topic, keywords, tone, text, recipient_name, reason, start_date, duration_days, return_date, handover_name, handover_contact"`
}

type generateOutput struct {
	Task    string `json:"task"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_text",
		Description: "Generate a blog post (blog), a summary of supplied text (summary) or a leave request email (email). Dates use YYYY-MM-DD.",
	}, s.handleGenerate)
}

// --- Tool handlers ---

func (s *Server) handleGenerate(ctx context.Context, _ *gomcp.CallToolRequest, input generateInput) (*gomcp.CallToolResult, generateOutput, error) {
	res := s.gen.Display(ctx, input.Task, task.Fields(input.Fields))
	logging.Get(logging.CategoryMCP).Info("generate_text task=%s result=%s", input.Task, res.Task)

	out := generateOutput{Task: res.Task, Topic: res.Topic, Content: res.Text}
	if res.Task == orchestrator.ErrorTask {
		return errorResult(res.Text), out, nil
	}
	return nil, out, nil
}

// --- Helpers ---

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
