package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PabloGalante/planbuddy/internal/app/conversation"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

// sendMessageResponse carries the appended turns even when generation failed.
type sendMessageResponse struct {
	*conversation.SendMessageOutput
	Error string `json:"error,omitempty"`
}

func surfaceParam(w http.ResponseWriter, r *http.Request) (domain.Surface, bool) {
	s, ok := domain.ParseSurface(chi.URLParam(r, "surface"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown conversation surface"})
	}
	return s, ok
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	surface, ok := surfaceParam(w, r)
	if !ok {
		return
	}
	turns, err := s.convs.Transcript(r.Context(), projectID(r), surface)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	surface, ok := surfaceParam(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := s.convs.SendMessage(r.Context(), conversation.SendMessageInput{
		ProjectID: projectID(r),
		Surface:   surface,
		Text:      req.Text,
	})
	if err != nil {
		if out != nil && errors.Is(err, domain.ErrGenerationFailed) {
			status := http.StatusBadGateway
			writeJSON(w, status, sendMessageResponse{SendMessageOutput: out, Error: errorMessage(err, status)})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendMessageResponse{SendMessageOutput: out})
}

// handleStreamMessage answers with Server-Sent Events: one "chunk" event per
// text delta, then a "done" event with the stored turns, or "error".
func (s *Server) handleStreamMessage(w http.ResponseWriter, r *http.Request) {
	surface, ok := surfaceParam(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}
	send := func(event string, v any) error {
		start()
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		if canFlush {
			flusher.Flush()
		}
		return r.Context().Err()
	}

	out, err := s.convs.StreamMessage(r.Context(), conversation.SendMessageInput{
		ProjectID: projectID(r),
		Surface:   surface,
		Text:      req.Text,
	}, func(chunk string) error {
		return send("chunk", map[string]string{"text": chunk})
	})

	if err != nil && !started {
		if out != nil && errors.Is(err, domain.ErrGenerationFailed) {
			status := http.StatusBadGateway
			writeJSON(w, status, sendMessageResponse{SendMessageOutput: out, Error: errorMessage(err, status)})
			return
		}
		writeError(w, r, err)
		return
	}
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("stream ended with error", "error", err)
		_ = send("error", sendMessageResponse{SendMessageOutput: out, Error: errorMessage(err, statusFor(err))})
		return
	}
	_ = send("done", sendMessageResponse{SendMessageOutput: out})
}
