package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PabloGalante/planbuddy/internal/adapters/llm"
	"github.com/PabloGalante/planbuddy/internal/adapters/storage/memory"
	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/app/conversation"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLLM replies with a fixed text, or blocks until release is closed.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
}

func (f *fakeLLM) Generate(ctx context.Context, _ domain.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func setup(t *testing.T, client domain.LLMClient) (*conversation.Service, *repo.Repository) {
	t.Helper()
	r := repo.New(memory.NewKVStore())
	require.NoError(t, r.SaveProjects(context.Background(), []domain.Project{{ID: "p1", Name: "App", Status: domain.StatusInitiation}}))
	orch := agentflow.NewOrchestrator(client, agentflow.Options{Model: "m"})
	return conversation.NewService(r, orch, observability.NewMetrics()), r
}

func TestSendMessage_InitiationMergesPlan(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t, &fakeLLM{reply: `{"reply":"Noted.","report":{"goal":"Ship v1"}}`})

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceInitiation, Text: "we want to ship v1"})
	require.NoError(t, err)
	assert.Equal(t, "Noted.", out.AssistantTurn.Text)
	require.NotNil(t, out.Plan)
	assert.Equal(t, "Ship v1", out.Plan.Goal)

	// same fragment again: plan unchanged
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceInitiation, Text: "again"})
	require.NoError(t, err)

	plan, err := r.Plan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ship v1", plan.Goal)

	turns, err := svc.Transcript(ctx, "p1", domain.SurfaceInitiation)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, domain.RoleAssistant, turns[3].Role)
}

func TestSendMessage_ToolSearchMergesTools(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t, &fakeLLM{reply: `{"reply":"Here","tools":[{"tool_name":"Figma","description":"d"},{"tool_name":"figma","description":"dup"}]}`})

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceToolSearch, Text: "design?"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.AddedTools)

	out, err = svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceToolSearch, Text: "more"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.AddedTools)

	tools, err := r.Tools(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "Figma", tools[0].Name)
	assert.NotEmpty(t, tools[0].ID)
}

func TestSendMessage_GenerationFailureStoresPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t, llm.Unavailable{Reason: "no credentials"})

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceInitiation, Text: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	require.NotNil(t, out)
	assert.Equal(t, domain.GenerationFailedReply, out.AssistantTurn.Text)

	turns, err := r.Conversation(ctx, "p1", domain.SurfaceInitiation)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hi", turns[0].Text)

	plan, err := r.Plan(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestSendMessage_Validation(t *testing.T) {
	ctx := context.Background()
	f := &fakeLLM{reply: "x"}
	svc, _ := setup(t, f)

	_, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: "nope", Text: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "missing", Surface: domain.SurfaceGeneral, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 0, f.calls)
}

func TestSendMessage_BusySurface(t *testing.T) {
	ctx := context.Background()
	f := &fakeLLM{reply: "done", started: make(chan struct{}), release: make(chan struct{})}
	svc, _ := setup(t, f)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "first"})
		errc <- err
	}()

	select {
	case <-f.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first send never reached the model")
	}

	_, err := svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "second"})
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(f.release)
	require.NoError(t, <-errc)

	f.started = nil
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "third"})
	assert.NoError(t, err)
}

func TestStreamMessage(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t, llm.NewMockLLM())

	var chunks []string
	out, err := svc.StreamMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "hello"}, func(c string) error {
		chunks = append(chunks, c)
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	assert.Contains(t, out.AssistantTurn.Text, "hello")

	turns, err := r.Conversation(ctx, "p1", domain.SurfaceGeneral)
	require.NoError(t, err)
	assert.Len(t, turns, 2)

	_, err = svc.StreamMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceInitiation, Text: "x"}, func(string) error { return nil })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStreamMessage_ClientStops(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, llm.NewMockLLM())

	n := 0
	out, err := svc.StreamMessage(ctx, conversation.SendMessageInput{ProjectID: "p1", Surface: domain.SurfaceGeneral, Text: "hello"}, func(string) error {
		n++
		return errors.New("client gone")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotEmpty(t, out.AssistantTurn.Text)
}
