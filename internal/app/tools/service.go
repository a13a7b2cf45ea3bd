package tools

import (
	"context"

	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

// Service exposes the tool lists of a project. Recommended tools grow through
// the tool search chat; custom tools are regenerated on demand.
type Service struct {
	repo *repo.Repository
	orch *agentflow.Orchestrator
}

func NewService(r *repo.Repository, orch *agentflow.Orchestrator) *Service {
	return &Service{repo: r, orch: orch}
}

func (s *Service) Recommended(ctx context.Context, id domain.ProjectID) ([]domain.RecommendedTool, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Tools(ctx, id)
}

func (s *Service) Custom(ctx context.Context, id domain.ProjectID) ([]domain.CustomTool, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.CustomTools(ctx, id)
}

// RecommendCustom asks the model for tools fitting the plan, schedule and
// to-do list, and replaces the stored custom tools with the answer. On failure
// the stored list is left as it was.
func (s *Service) RecommendCustom(ctx context.Context, id domain.ProjectID) ([]domain.CustomTool, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	plan, err := s.repo.Plan(ctx, id)
	if err != nil {
		return nil, err
	}
	gantt, err := s.repo.Gantt(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.Tasks(ctx, id)
	if err != nil {
		return nil, err
	}

	tools, err := s.orch.CustomTools(ctx, plan, gantt, tasks)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCustomTools(ctx, id, tools); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("custom tools recommended",
		"project_id", id,
		"count", len(tools))
	return tools, nil
}
