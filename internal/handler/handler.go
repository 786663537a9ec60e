// Package handler exposes the dashboard's JSON API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
	"github.com/anaya-patel/llm-disability-dashboard/internal/store"
)

// QuestionGenerator is the completion-provider surface the handlers need.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, profile model.StudentProfile) (*model.GeneratedQuestion, error)
	TestConnection(ctx context.Context) model.ConnectionResult
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	llm   QuestionGenerator
}

// New creates a new Handler.
func New(s *store.Store, g QuestionGenerator) *Handler {
	return &Handler{store: s, llm: g}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/student", h.handleCreateStudent)
	r.Post("/api/generate-question", h.handleGenerateQuestion)
	r.Get("/api/test-openai", h.handleTestConnection)
	r.Post("/api/feedback", h.handleSaveFeedback)
	r.Get("/api/student/{studentID}/history", h.handleStudentHistory)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeError emits the {"detail": "..."} error body used by the original
// dashboard API. Validation errors map to 400, everything else to 500.
func writeError(w http.ResponseWriter, prefix string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrValidation) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"detail": fmt.Sprintf("%s: %s", prefix, err)})
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	// Age decodes through a pointer so required-field semantics do not
	// reject a literal age of 0, which the API accepts.
	var req struct {
		Name  string `json:"name"`
		Grade string `json:"grade"`
		Age   *int   `json:"age"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Failed to create student", fmt.Errorf("%w: invalid JSON body: %v", model.ErrValidation, err))
		return
	}
	if req.Name == "" || req.Grade == "" || req.Age == nil {
		writeError(w, "Failed to create student", fmt.Errorf("%w: name, grade and age are required", model.ErrValidation))
		return
	}

	id, err := h.store.CreateStudent(model.Student{Name: req.Name, Grade: req.Grade, Age: *req.Age})
	if err != nil {
		writeError(w, "Failed to create student", err)
		return
	}
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, ID: &id})
}

func (h *Handler) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	// All profile fields are optional; absent ones keep their defaults, and
	// an empty body is treated as an empty profile.
	profile := model.DefaultProfile()
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Failed to generate question", fmt.Errorf("%w: invalid JSON body: %v", model.ErrValidation, err))
		return
	}

	question, err := h.llm.GenerateQuestion(r.Context(), profile)
	if err != nil {
		writeError(w, "Failed to generate question", err)
		return
	}

	h.saveSessionSnapshot(profile, *question)

	writeJSON(w, http.StatusOK, question)
}

// saveSessionSnapshot mirrors the interaction to the store. Best effort: a
// failed write is logged and must not cost the student their question.
func (h *Handler) saveSessionSnapshot(profile model.StudentProfile, question model.GeneratedQuestion) {
	studentID, err := h.store.StudentIDByName(profile.Name)
	if err != nil {
		slog.Warn("student lookup for session snapshot failed", "error", err)
	}
	rec := model.SessionRecord{
		StudentID:   studentID,
		StudentInfo: profile,
		Generated:   question,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		SessionType: model.SessionTypeQuestionGeneration,
	}
	if err := h.store.SaveSession(rec); err != nil {
		slog.Warn("session snapshot not saved", "error", err)
	}
}

func (h *Handler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	// Provider failure is reported inside a 200 envelope, not as an error.
	res := h.llm.TestConnection(r.Context())
	data := res.Message
	if !res.Success {
		data = res.Error
	}
	writeJSON(w, http.StatusOK, model.Envelope{Success: res.Success, Data: data})
}

func (h *Handler) handleSaveFeedback(w http.ResponseWriter, r *http.Request) {
	var fb model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, "Failed to save feedback", fmt.Errorf("%w: invalid JSON body: %v", model.ErrValidation, err))
		return
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		writeError(w, "Failed to save feedback", fmt.Errorf("%w: rating must be between 1 and 5", model.ErrValidation))
		return
	}

	id, err := h.store.SaveFeedback(fb)
	if err != nil {
		writeError(w, "Failed to save feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, ID: &id})
}

func (h *Handler) handleStudentHistory(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")

	records, err := h.store.StudentHistory(studentID)
	if err != nil {
		writeError(w, "Failed to fetch student history", err)
		return
	}
	if records == nil {
		records = []model.SessionRecord{}
	}
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: records})
}
