package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/planbuddy/internal/adapters/http"
	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/config"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func newTestServer(t *testing.T, backend string) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Mode:            config.ModeLocal,
		LLMBackend:      backend,
		StorageBackend:  config.StorageMemory,
		InitiationMode:  config.InitiationStructured,
		ModelName:       "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 1024,
	}
	app, err := bootstrap.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return httpadapter.NewServer(httpadapter.Deps{
		Projects:      app.Projects,
		Conversations: app.Conversations,
		Tools:         app.Tools,
		Reports:       app.Reports,
		Metrics:       app.Metrics,
	})
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)
	w := do(t, srv, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)

	w := do(t, srv, http.MethodPost, "/v1/projects", `{"name":"Launch"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[domain.Project](t, w)
	assert.Equal(t, "Launch", p.Name)

	w = do(t, srv, http.MethodGet, "/v1/projects/current", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decode[domain.Project](t, w).ID)

	w = do(t, srv, http.MethodPatch, "/v1/projects/"+string(p.ID), `{"name":"Launch v2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Launch v2", decode[domain.Project](t, w).Name)

	w = do(t, srv, http.MethodPost, "/v1/projects/"+string(p.ID)+"/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "archiving needs a result")

	w = do(t, srv, http.MethodPost, "/v1/projects/"+string(p.ID)+"/status", `{"status":"completion"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodPost, "/v1/projects/"+string(p.ID)+"/status", `{"status":"progress"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, http.MethodGet, "/v1/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Project](t, w), 2)

	w = do(t, srv, http.MethodDelete, "/v1/projects/default", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodDelete, "/v1/projects/"+string(p.ID), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/v1/projects/"+string(p.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessage_MergesPlan(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)

	w := do(t, srv, http.MethodPost, "/v1/projects/default/conversations/initiation/messages", `{"text":"a bakery website"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		UserTurn      domain.Turn        `json:"userTurn"`
		AssistantTurn domain.Turn        `json:"assistantTurn"`
		Plan          *domain.PlanReport `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "a bakery website", out.UserTurn.Text)
	assert.Contains(t, out.AssistantTurn.Text, "a bakery website")
	require.NotNil(t, out.Plan)
	assert.False(t, out.Plan.IsEmpty())

	w = do(t, srv, http.MethodGet, "/v1/projects/default/plan", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, *out.Plan, decode[domain.PlanReport](t, w))

	w = do(t, srv, http.MethodGet, "/v1/projects/default/conversations/initiation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Turn](t, w), 2)
}

func TestSendMessage_Errors(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)

	cases := []struct {
		name, path, body string
		want             int
	}{
		{"blank text", "/v1/projects/default/conversations/general/messages", `{"text":"  "}`, http.StatusBadRequest},
		{"bad json", "/v1/projects/default/conversations/general/messages", `{`, http.StatusBadRequest},
		{"unknown surface", "/v1/projects/default/conversations/nope/messages", `{"text":"hi"}`, http.StatusNotFound},
		{"unknown project", "/v1/projects/missing/conversations/general/messages", `{"text":"hi"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestSendMessage_GenerationFailure(t *testing.T) {
	// gemini without an API key fails every generation
	srv := newTestServer(t, config.LLMGemini)

	w := do(t, srv, http.MethodPost, "/v1/projects/default/conversations/general/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var out struct {
		AssistantTurn domain.Turn `json:"assistantTurn"`
		Error         string      `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, domain.GenerationFailedReply, out.AssistantTurn.Text)
	assert.NotEmpty(t, out.Error)

	w = do(t, srv, http.MethodGet, "/v1/projects/default/conversations/general", "")
	assert.Len(t, decode[[]domain.Turn](t, w), 2)
}

func TestStreamMessage(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)

	w := do(t, srv, http.MethodPost, "/v1/projects/default/conversations/general/stream", `{"text":"hello there"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event: chunk")
	assert.Contains(t, body, "event: done")

	w = do(t, srv, http.MethodPost, "/v1/projects/default/conversations/initiation/stream", `{"text":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasksAndGantt(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)
	base := "/v1/projects/default"

	w := do(t, srv, http.MethodPost, base+"/tasks", `{"title":"Write copy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[domain.Task](t, w)

	w = do(t, srv, http.MethodPost, base+"/tasks/"+string(task.ID)+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Task](t, w).Completed)

	w = do(t, srv, http.MethodPatch, base+"/tasks/"+string(task.ID), `{"title":"Write the copy"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Write the copy", decode[domain.Task](t, w).Title)

	w = do(t, srv, http.MethodDelete, base+"/tasks/"+string(task.ID), "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, srv, http.MethodDelete, base+"/tasks/"+string(task.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, base+"/gantt", `{"title":"Design","startDate":"2025-12-01","endDate":"2025-11-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, base+"/gantt", `{"title":"Design","startDate":"2025-12-01","endDate":"2025-12-05"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[domain.GanttItem](t, w)
	assert.Equal(t, "bg-blue-500", item.Color)

	w = do(t, srv, http.MethodPut, base+"/gantt/"+string(item.ID), `{"title":"Design v2","startDate":"2025-12-01","endDate":"2025-12-09","color":"bg-red-500"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, item.ID, decode[domain.GanttItem](t, w).ID)

	w = do(t, srv, http.MethodGet, base+"/gantt", "")
	items := decode[[]domain.GanttItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Design v2", items[0].Title)
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)
	base := "/v1/projects/default"

	w := do(t, srv, http.MethodPost, base+"/plan/report", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "no conversation yet")

	do(t, srv, http.MethodPost, base+"/conversations/initiation/messages", `{"text":"a podcast"}`)

	w = do(t, srv, http.MethodPost, base+"/plan/report", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.ReportWork, decode[domain.Report](t, w).Kind)

	w = do(t, srv, http.MethodPost, base+"/completion-report", `{"result":"success","notes":"shipped"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, srv, http.MethodGet, base+"/reports?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	reps := decode[[]domain.Report](t, w)
	require.Len(t, reps, 1)
	assert.Equal(t, domain.ReportCompletion, reps[0].Kind)
}

func TestCustomTools(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)

	w := do(t, srv, http.MethodPost, "/v1/projects/default/custom-tools", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ts := decode[[]domain.CustomTool](t, w)
	require.NotEmpty(t, ts)
	assert.Equal(t, "Mock Tool", ts[0].Name)

	w = do(t, srv, http.MethodGet, "/v1/projects/default/custom-tools", "")
	assert.Len(t, decode[[]domain.CustomTool](t, w), len(ts))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, config.LLMMock)
	do(t, srv, http.MethodGet, "/v1/projects", "")

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `planbuddy_http_requests_total{method="GET",route="/v1/projects`)
}
