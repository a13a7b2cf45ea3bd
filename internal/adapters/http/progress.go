package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PabloGalante/planbuddy/internal/app/project"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

type addTaskRequest struct {
	Title           string          `json:"title"`
	RecommendedTool *domain.ToolRef `json:"recommendedTool,omitempty"`
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.projects.Plan(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSetPlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.PlanReport
	if !decodeJSON(w, r, &plan) {
		return
	}
	out, err := s.projects.SetPlan(r.Context(), projectID(r), plan)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ts, err := s.projects.Tasks(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := s.projects.AddTask(r.Context(), projectID(r), req.Title, req.RecommendedTool)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch project.TaskPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	t, err := s.projects.UpdateTask(r.Context(), projectID(r), domain.TaskID(chi.URLParam(r, "taskID")), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.projects.ToggleTask(r.Context(), projectID(r), domain.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.DeleteTask(r.Context(), projectID(r), domain.TaskID(chi.URLParam(r, "taskID"))); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGantt(w http.ResponseWriter, r *http.Request) {
	items, err := s.projects.Gantt(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddGantt(w http.ResponseWriter, r *http.Request) {
	var item domain.GanttItem
	if !decodeJSON(w, r, &item) {
		return
	}
	out, err := s.projects.AddGanttItem(r.Context(), projectID(r), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// handleUpdateGantt replaces the item; the path ID wins over the body.
func (s *Server) handleUpdateGantt(w http.ResponseWriter, r *http.Request) {
	var item domain.GanttItem
	if !decodeJSON(w, r, &item) {
		return
	}
	item.ID = domain.GanttItemID(chi.URLParam(r, "itemID"))
	out, err := s.projects.UpdateGanttItem(r.Context(), projectID(r), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteGantt(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.DeleteGanttItem(r.Context(), projectID(r), domain.GanttItemID(chi.URLParam(r, "itemID"))); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
