// Package bootstrap wires configuration into the LLM client, the store and
// the application services. Both binaries start from here.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/option"

	"github.com/PabloGalante/planbuddy/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/planbuddy/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/planbuddy/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/planbuddy/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/app/conversation"
	"github.com/PabloGalante/planbuddy/internal/app/project"
	"github.com/PabloGalante/planbuddy/internal/app/report"
	"github.com/PabloGalante/planbuddy/internal/app/tools"
	"github.com/PabloGalante/planbuddy/internal/config"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

// App holds every service of a running instance.
type App struct {
	Config        *config.Config
	Metrics       *observability.Metrics
	Repo          *repo.Repository
	Projects      *project.Service
	Conversations *conversation.Service
	Tools         *tools.Service
	Reports       *report.Service

	closers []io.Closer
}

// Close releases the store.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// New builds the application from cfg. The default project always exists
// afterwards; demo data is added when cfg.SeedDemo is set.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := observability.Logger()
	app := &App{Config: cfg, Metrics: observability.NewMetrics()}

	llmClient, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	kv, closer, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	overrides, err := config.LoadPromptOverrides(cfg.PromptsFile)
	if err != nil {
		app.Close()
		return nil, err
	}

	planMode := domain.ModeStructured
	if cfg.InitiationMode == config.InitiationFreeform {
		planMode = domain.ModeFreeform
	}

	orch := agentflow.NewOrchestrator(llmClient, agentflow.Options{
		Model:        cfg.ModelName,
		Instructions: Instructions(overrides),
		PlanChatMode: planMode,
		Metrics:      app.Metrics,
	})

	app.Repo = repo.New(kv)
	app.Projects = project.NewService(app.Repo)
	app.Conversations = conversation.NewService(app.Repo, orch, app.Metrics)
	app.Tools = tools.NewService(app.Repo, orch)
	app.Reports = report.NewService(app.Repo, orch)

	if err := app.Projects.EnsureDefault(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("creating default project: %w", err)
	}
	if cfg.SeedDemo {
		n, err := app.Projects.Seed(ctx)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
		log.Info("demo data seeded", "projects", n)
	}

	log.Info("application ready",
		"llm_backend", cfg.LLMBackend,
		"storage_backend", cfg.StorageBackend,
		"initiation_mode", cfg.InitiationMode)
	return app, nil
}

// Instructions maps YAML overrides onto the flow instructions; blanks keep the defaults.
func Instructions(p config.PromptOverrides) agentflow.Instructions {
	return agentflow.Instructions{
		PlanChat:         p.PlanChat,
		PlanChatFreeform: p.PlanChatFreeform,
		ToolSearch:       p.ToolSearch,
		CustomTools:      p.CustomTools,
		ToolReport:       p.ToolReport,
		General:          p.General,
		WorkReport:       p.WorkReport,
		CompletionReport: p.CompletionReport,
	}.WithDefaults()
}

// NewLLMClient picks the model backend. Missing credentials do not stop the
// service: every generation then fails with domain.ErrGenerationFailed.
func NewLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	log := observability.Logger()

	switch cfg.LLMBackend {
	case config.LLMMock:
		log.Info("using mock LLM client")
		return llm.NewMockLLM(), nil

	case config.LLMGemini:
		if cfg.GoogleAPIKey == "" {
			log.Warn("GOOGLE_API_KEY is missing, generations will fail")
			return llm.Unavailable{Reason: "API key is not configured"}, nil
		}
		log.Info("using Gemini API client", "model", cfg.ModelName)
		c, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:          cfg.GoogleAPIKey,
			Model:           cfg.ModelName,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case config.LLMVertex:
		log.Info("using Vertex AI client", "model", cfg.ModelName, "project", cfg.GCPProjectID)
		c, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Project:         cfg.GCPProjectID,
			Location:        cfg.GCPLocation,
			Model:           cfg.ModelName,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
}

// NewStore opens the configured KV backend. The closer is nil for memory.
func NewStore(ctx context.Context, cfg *config.Config) (domain.KVStore, io.Closer, error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memstore.NewKVStore(), nil, nil

	case config.StorageSQLite:
		log.Info("using sqlite storage", "path", sqlitestore.Path(cfg.Workspace))
		s, err := sqlitestore.Open(ctx, cfg.Workspace)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID, "collection", cfg.FirestoreCollection)
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.FirestoreCollection, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
