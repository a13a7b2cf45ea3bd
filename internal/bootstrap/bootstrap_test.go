package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/planbuddy/internal/adapters/llm"
	"github.com/PabloGalante/planbuddy/internal/config"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:            config.ModeLocal,
		LLMBackend:      config.LLMMock,
		StorageBackend:  config.StorageMemory,
		InitiationMode:  config.InitiationStructured,
		ModelName:       "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 1024,
	}
}

func TestNew_MemoryMock(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.SeedDemo = true

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	defer app.Close()

	cur, err := app.Projects.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectID, cur.ID)

	ps, err := app.Projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 6)
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.StorageBackend = config.StorageSQLite
	cfg.Workspace = t.TempDir()

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = app.Projects.Create(ctx, "Persisted")
	require.NoError(t, err)
	require.NoError(t, app.Close())

	again, err := New(ctx, cfg)
	require.NoError(t, err)
	defer again.Close()
	ps, err := again.Projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}

func TestNewLLMClient_MissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLMBackend = config.LLMGemini

	client, err := NewLLMClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, llm.Unavailable{}, client)
}

func TestInstructions(t *testing.T) {
	in := Instructions(config.PromptOverrides{General: "be brief"})
	assert.Equal(t, "be brief", in.General)
	assert.NotEmpty(t, in.PlanChat)
}
