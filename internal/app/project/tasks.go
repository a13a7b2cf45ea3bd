package project

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (s *Service) Tasks(ctx context.Context, id domain.ProjectID) ([]domain.Task, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Tasks(ctx, id)
}

func (s *Service) AddTask(ctx context.Context, id domain.ProjectID, title string, tool *domain.ToolRef) (domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Task{}, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	t := domain.Task{ID: domain.TaskID(s.newID()), Title: title, RecommendedTool: tool}
	err := s.editTasks(ctx, id, func(ts []domain.Task) ([]domain.Task, error) {
		return append(ts, t), nil
	})
	return t, err
}

// TaskPatch holds the fields of a partial task update; nil leaves a field as is.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (s *Service) UpdateTask(ctx context.Context, id domain.ProjectID, taskID domain.TaskID, patch TaskPatch) (domain.Task, error) {
	var out domain.Task
	err := s.editTasks(ctx, id, func(ts []domain.Task) ([]domain.Task, error) {
		i := slices.IndexFunc(ts, func(t domain.Task) bool { return t.ID == taskID })
		if i < 0 {
			return nil, fmt.Errorf("%w: task %q", domain.ErrNotFound, taskID)
		}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
			}
			ts[i].Title = title
		}
		if patch.Completed != nil {
			ts[i].Completed = *patch.Completed
		}
		out = ts[i]
		return ts, nil
	})
	return out, err
}

// ToggleTask flips the completed flag.
func (s *Service) ToggleTask(ctx context.Context, id domain.ProjectID, taskID domain.TaskID) (domain.Task, error) {
	var out domain.Task
	err := s.editTasks(ctx, id, func(ts []domain.Task) ([]domain.Task, error) {
		i := slices.IndexFunc(ts, func(t domain.Task) bool { return t.ID == taskID })
		if i < 0 {
			return nil, fmt.Errorf("%w: task %q", domain.ErrNotFound, taskID)
		}
		ts[i].Completed = !ts[i].Completed
		out = ts[i]
		return ts, nil
	})
	return out, err
}

func (s *Service) DeleteTask(ctx context.Context, id domain.ProjectID, taskID domain.TaskID) error {
	return s.editTasks(ctx, id, func(ts []domain.Task) ([]domain.Task, error) {
		i := slices.IndexFunc(ts, func(t domain.Task) bool { return t.ID == taskID })
		if i < 0 {
			return nil, fmt.Errorf("%w: task %q", domain.ErrNotFound, taskID)
		}
		return slices.Delete(ts, i, i+1), nil
	})
}

func (s *Service) editTasks(ctx context.Context, id domain.ProjectID, fn func([]domain.Task) ([]domain.Task, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Project(ctx, id); err != nil {
		return err
	}
	ts, err := s.repo.Tasks(ctx, id)
	if err != nil {
		return err
	}
	ts, err = fn(ts)
	if err != nil {
		return err
	}
	return s.repo.SaveTasks(ctx, id, ts)
}
