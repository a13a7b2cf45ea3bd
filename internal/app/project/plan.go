package project

import (
	"context"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (s *Service) Plan(ctx context.Context, id domain.ProjectID) (domain.PlanReport, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return domain.PlanReport{}, err
	}
	return s.repo.Plan(ctx, id)
}

// SetPlan stores a user edit of the plan as is. It overwrites whatever the
// chat merged in meanwhile.
func (s *Service) SetPlan(ctx context.Context, id domain.ProjectID, plan domain.PlanReport) (domain.PlanReport, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return domain.PlanReport{}, err
	}
	if err := s.repo.SavePlan(ctx, id, plan); err != nil {
		return domain.PlanReport{}, err
	}
	return plan, nil
}
