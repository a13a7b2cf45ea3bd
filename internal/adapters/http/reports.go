package httpadapter

import (
	"net/http"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

type completionReportRequest struct {
	Result domain.ProjectResult `json:"result"`
	Notes  string               `json:"notes"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tools.Recommended(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleListCustomTools(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tools.Custom(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleRecommendCustomTools(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tools.RecommendCustom(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleWorkReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.WorkReport(r.Context(), projectID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCompletionReport(w http.ResponseWriter, r *http.Request) {
	var req completionReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rep, err := s.reports.CompletionReport(r.Context(), projectID(r), req.Result, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleListReports returns the most recent reports; ?limit caps the list.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reps, err := s.reports.History(r.Context(), projectID(r), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}
