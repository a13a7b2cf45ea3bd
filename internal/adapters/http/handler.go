package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PabloGalante/planbuddy/internal/app/conversation"
	"github.com/PabloGalante/planbuddy/internal/app/project"
	"github.com/PabloGalante/planbuddy/internal/app/report"
	"github.com/PabloGalante/planbuddy/internal/app/tools"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
)

type Deps struct {
	Projects      *project.Service
	Conversations *conversation.Service
	Tools         *tools.Service
	Reports       *report.Service
	Metrics       *observability.Metrics
}

type Server struct {
	projects *project.Service
	convs    *conversation.Service
	tools    *tools.Service
	reports  *report.Service
}

func NewServer(d Deps) http.Handler {
	s := &Server{
		projects: d.Projects,
		convs:    d.Conversations,
		tools:    d.Tools,
		reports:  d.Reports,
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withLogging(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Get("/current", s.handleGetCurrent)
		r.Put("/current", s.handleSetCurrent)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Patch("/", s.handleRenameProject)
			r.Delete("/", s.handleDeleteProject)
			r.Post("/status", s.handleTransition)

			r.Get("/conversations/{surface}", s.handleGetTranscript)
			r.Post("/conversations/{surface}/messages", s.handleSendMessage)
			r.Post("/conversations/{surface}/stream", s.handleStreamMessage)

			r.Get("/plan", s.handleGetPlan)
			r.Put("/plan", s.handleSetPlan)
			r.Post("/plan/report", s.handleWorkReport)
			r.Get("/reports", s.handleListReports)
			r.Post("/completion-report", s.handleCompletionReport)

			r.Get("/tasks", s.handleListTasks)
			r.Post("/tasks", s.handleAddTask)
			r.Patch("/tasks/{taskID}", s.handleUpdateTask)
			r.Post("/tasks/{taskID}/toggle", s.handleToggleTask)
			r.Delete("/tasks/{taskID}", s.handleDeleteTask)

			r.Get("/gantt", s.handleListGantt)
			r.Post("/gantt", s.handleAddGantt)
			r.Put("/gantt/{itemID}", s.handleUpdateGantt)
			r.Delete("/gantt/{itemID}", s.handleDeleteGantt)

			r.Get("/tools", s.handleListTools)
			r.Get("/custom-tools", s.handleListCustomTools)
			r.Post("/custom-tools", s.handleRecommendCustomTools)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func projectID(r *http.Request) domain.ProjectID {
	return domain.ProjectID(chi.URLParam(r, "projectID"))
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyConversation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal errors; domain errors are safe to show.
func errorMessage(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		return "the assistant could not generate a response, please try again"
	default:
		return err.Error()
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{
		"error": errorMessage(err, status),
	})
}
