package project

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

// Service manages projects and the user-edited collections of a project:
// plan fields, tasks and gantt items.
type Service struct {
	repo *repo.Repository
	// mu serializes read-modify-write of lists inside this process.
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewService(r *repo.Repository) *Service {
	return &Service{
		repo:  r,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.Projects(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	return s.repo.Project(ctx, id)
}

// Create adds a project in the initiation status and makes it current.
func (s *Service) Create(ctx context.Context, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	return s.create(ctx, domain.ProjectID(s.newID()), name)
}

func (s *Service) create(ctx context.Context, id domain.ProjectID, name string) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.repo.Projects(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	now := s.now().UTC()
	p := domain.Project{
		ID:        id,
		Name:      name,
		Status:    domain.StatusInitiation,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.SaveProjects(ctx, append(ps, p)); err != nil {
		return domain.Project{}, err
	}
	if err := s.repo.SetCurrentProject(ctx, p.ID); err != nil {
		return domain.Project{}, err
	}

	observability.LoggerFromContext(ctx).Info("project created", "project_id", p.ID)
	return p, nil
}

// EnsureDefault creates the default project when it does not exist yet.
func (s *Service) EnsureDefault(ctx context.Context) error {
	if _, err := s.repo.Project(ctx, domain.DefaultProjectID); err == nil {
		return nil
	}
	_, err := s.create(ctx, domain.DefaultProjectID, "My project")
	return err
}

func (s *Service) Rename(ctx context.Context, id domain.ProjectID, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	return s.update(ctx, id, func(p *domain.Project) error {
		p.Name = name
		p.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Transition moves a project through its workflow; see domain.Project.Transition.
func (s *Service) Transition(ctx context.Context, id domain.ProjectID, to domain.ProjectStatus, result *domain.ProjectResult) (domain.Project, error) {
	p, err := s.update(ctx, id, func(p *domain.Project) error {
		return p.Transition(to, result, s.now().UTC())
	})
	if err != nil {
		return p, err
	}
	observability.LoggerFromContext(ctx).Info("project status changed",
		"project_id", id,
		"status", p.Status)
	return p, nil
}

func (s *Service) update(ctx context.Context, id domain.ProjectID, fn func(*domain.Project) error) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.repo.Projects(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	i := slices.IndexFunc(ps, func(p domain.Project) bool { return p.ID == id })
	if i < 0 {
		return domain.Project{}, fmt.Errorf("%w: project %q", domain.ErrNotFound, id)
	}
	if err := fn(&ps[i]); err != nil {
		return ps[i], err
	}
	if err := s.repo.SaveProjects(ctx, ps); err != nil {
		return domain.Project{}, err
	}
	return ps[i], nil
}

// Delete removes the project and all of its data. When it was the current
// project the pointer is cleared. The default project cannot be deleted since
// the pointer falls back to it.
func (s *Service) Delete(ctx context.Context, id domain.ProjectID) error {
	if id == domain.DefaultProjectID {
		return fmt.Errorf("%w: the default project cannot be deleted", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.repo.Projects(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(ps, func(p domain.Project) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: project %q", domain.ErrNotFound, id)
	}

	if err := s.repo.DeleteProjectData(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SaveProjects(ctx, slices.Delete(ps, i, i+1)); err != nil {
		return err
	}

	cur, err := s.repo.CurrentProject(ctx)
	if err != nil {
		return err
	}
	if cur == id {
		if err := s.repo.ClearCurrentProject(ctx); err != nil {
			return err
		}
	}

	observability.LoggerFromContext(ctx).Info("project deleted", "project_id", id)
	return nil
}

// Current returns the selected project. The pointer falls back to the default project.
func (s *Service) Current(ctx context.Context) (domain.Project, error) {
	id, err := s.repo.CurrentProject(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	return s.repo.Project(ctx, id)
}

func (s *Service) Use(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	p, err := s.repo.Project(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	return p, s.repo.SetCurrentProject(ctx, id)
}
