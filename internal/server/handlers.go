package server

import (
	"encoding/json"
	"net/http"

	"draftsmith/internal/logging"
	"draftsmith/internal/orchestrator"
	"draftsmith/internal/task"
)

// GenerateRequest is the POST /api/generate payload.
type GenerateRequest struct {
	Task   string            `json:"task"`
	Fields map[string]string `json:"fields"`
}

// GenerateResponse is the POST /api/generate response.
type GenerateResponse struct {
	Task    string `json:"task"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

type indexPage struct {
	Name string
}

type resultPage struct {
	Task    string
	Topic   string
	Content string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", indexPage{Name: s.cfg.Name})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid form"})
		return
	}
	res := s.generate(r, r.PostFormValue("task"), formFields(r))
	s.renderResult(w, res)
}

func (s *Server) handleGenerateJSON(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	res := s.generate(r, req.Task, task.Fields(req.Fields))
	writeJSON(w, http.StatusOK, toResponse(res))
}

func toResponse(res orchestrator.Result) GenerateResponse {
	return GenerateResponse{Task: res.Task, Topic: res.Topic, Content: res.Text}
}

func (s *Server) renderResult(w http.ResponseWriter, res orchestrator.Result) {
	s.render(w, "result", resultPage{Task: res.Task, Topic: res.Topic, Content: res.Text})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		logging.Get(logging.CategoryServer).Error("render %s: %v", name, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
