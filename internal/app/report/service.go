package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

// defaultHistoryLimit bounds History when the caller passes no limit.
const defaultHistoryLimit = 20

// Service generates Markdown reports and keeps them in the project's report history.
type Service struct {
	repo *repo.Repository
	orch *agentflow.Orchestrator
	now  func() time.Time
}

func NewService(r *repo.Repository, orch *agentflow.Orchestrator) *Service {
	return &Service{repo: r, orch: orch, now: time.Now}
}

// WorkReport writes the work definition document from the initiation chat and
// the plan. A transcript without user turns is rejected before any model call.
func (s *Service) WorkReport(ctx context.Context, id domain.ProjectID) (domain.Report, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return domain.Report{}, err
	}
	turns, err := s.repo.Conversation(ctx, id, domain.SurfaceInitiation)
	if err != nil {
		return domain.Report{}, err
	}
	if domain.CountUserTurns(turns) == 0 {
		return domain.Report{}, fmt.Errorf("%w: chat about the project before requesting a report", domain.ErrEmptyConversation)
	}
	plan, err := s.repo.Plan(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}

	md, err := s.orch.WorkReport(ctx, turns, plan)
	if err != nil {
		return domain.Report{}, err
	}
	return s.keep(ctx, id, domain.ReportWork, nil, md)
}

// CompletionReport writes the closing report for a success or failure result.
func (s *Service) CompletionReport(ctx context.Context, id domain.ProjectID, result domain.ProjectResult, notes string) (domain.Report, error) {
	if !result.Valid() {
		return domain.Report{}, fmt.Errorf("%w: result must be success or failure", domain.ErrInvalidInput)
	}
	p, err := s.repo.Project(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	plan, err := s.repo.Plan(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	tasks, err := s.repo.Tasks(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}

	md, err := s.orch.CompletionReport(ctx, p, result, plan, tasks, notes)
	if err != nil {
		return domain.Report{}, err
	}
	return s.keep(ctx, id, domain.ReportCompletion, &result, md)
}

// History returns the last limit reports of a project.
// If limit <= 0, a reasonable default value is used.
func (s *Service) History(ctx context.Context, id domain.ProjectID, limit int) ([]domain.Report, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.Reports(ctx, id, limit)
}

func (s *Service) keep(ctx context.Context, id domain.ProjectID, kind domain.ReportKind, result *domain.ProjectResult, md string) (domain.Report, error) {
	rep := domain.Report{
		ID:        domain.ReportID(uuid.NewString()),
		Kind:      kind,
		Result:    result,
		Markdown:  md,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AppendReport(ctx, id, rep); err != nil {
		return domain.Report{}, err
	}
	observability.LoggerFromContext(ctx).Info("report generated",
		"project_id", id,
		"kind", kind,
		"length", len(md))
	return rep, nil
}
