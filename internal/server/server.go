// Package server is the HTTP front end: an HTML form, a form-post result page
// and a JSON endpoint. Generation outcomes, failures included, are always
// rendered with status 200.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"draftsmith/internal/config"
	"draftsmith/internal/logging"
	"draftsmith/internal/orchestrator"
	"draftsmith/internal/task"
)

//go:embed templates/*.html
var templateFS embed.FS

// Generator renders one task request. *orchestrator.Orchestrator implements it.
type Generator interface {
	Display(ctx context.Context, taskName string, fields task.Fields) orchestrator.Result
}

// Server serves the draftsmith HTTP endpoints.
type Server struct {
	cfg   *config.Config
	gen   Generator
	mux   *http.ServeMux
	pages *template.Template
}

// New creates a server. Templates are parsed once here.
func New(cfg *config.Config, gen Generator) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s := &Server{cfg: cfg, gen: gen, mux: http.NewServeMux(), pages: pages}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /generate", s.handleGenerateForm)
	s.mux.HandleFunc("POST /api/generate", s.handleGenerateJSON)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routed handler wrapped with request ids and panic
// recovery.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.recoverer(s.mux))
}

// HTTPServer returns an *http.Server bound to the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.GetReadTimeout(),
		WriteTimeout: s.cfg.GetWriteTimeout(),
	}
}

// generate applies the boundary timeout and calls the generator.
func (s *Server) generate(r *http.Request, taskName string, fields task.Fields) orchestrator.Result {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.GetRequestTimeout())
	defer cancel()

	log := logging.WithRequestID(logging.CategoryServer, requestID(r.Context()))
	timer := logging.StartTimer(logging.CategoryServer, "generate "+taskName)
	res := s.gen.Display(ctx, taskName, fields)
	elapsed := timer.Stop()
	log.Info("task=%s result=%s elapsed=%v", taskName, res.Task, elapsed)
	return res
}

// formFields copies every known field key out of a parsed form.
func formFields(r *http.Request) task.Fields {
	fields := make(task.Fields, len(task.Keys))
	for _, k := range task.Keys {
		if v := r.PostFormValue(k); v != "" {
			fields[k] = v
		}
	}
	return fields
}

type requestIDKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// recoverer turns a handler panic into an error result instead of a dropped
// connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logging.WithRequestID(logging.CategoryServer, requestID(r.Context())).Error("panic serving %s: %v", r.URL.Path, p)
				res := orchestrator.Result{Task: orchestrator.ErrorTask, Text: fmt.Sprintf("Error: %v", p)}
				if strings.HasPrefix(r.URL.Path, "/api/") {
					writeJSON(w, http.StatusOK, toResponse(res))
					return
				}
				s.renderResult(w, res)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
