package project

import (
	"context"
	"fmt"
	"slices"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

const defaultGanttColor = "bg-blue-500"

func (s *Service) Gantt(ctx context.Context, id domain.ProjectID) ([]domain.GanttItem, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Gantt(ctx, id)
}

// AddGanttItem validates the item, assigns an ID and appends it.
func (s *Service) AddGanttItem(ctx context.Context, id domain.ProjectID, item domain.GanttItem) (domain.GanttItem, error) {
	if item.Color == "" {
		item.Color = defaultGanttColor
	}
	if err := item.Validate(); err != nil {
		return domain.GanttItem{}, err
	}
	item.ID = domain.GanttItemID(s.newID())
	err := s.editGantt(ctx, id, func(items []domain.GanttItem) ([]domain.GanttItem, error) {
		return append(items, item), nil
	})
	return item, err
}

// UpdateGanttItem replaces the item with the same ID.
func (s *Service) UpdateGanttItem(ctx context.Context, id domain.ProjectID, item domain.GanttItem) (domain.GanttItem, error) {
	if item.Color == "" {
		item.Color = defaultGanttColor
	}
	if err := item.Validate(); err != nil {
		return domain.GanttItem{}, err
	}
	err := s.editGantt(ctx, id, func(items []domain.GanttItem) ([]domain.GanttItem, error) {
		i := slices.IndexFunc(items, func(g domain.GanttItem) bool { return g.ID == item.ID })
		if i < 0 {
			return nil, fmt.Errorf("%w: gantt item %q", domain.ErrNotFound, item.ID)
		}
		items[i] = item
		return items, nil
	})
	return item, err
}

func (s *Service) DeleteGanttItem(ctx context.Context, id domain.ProjectID, itemID domain.GanttItemID) error {
	return s.editGantt(ctx, id, func(items []domain.GanttItem) ([]domain.GanttItem, error) {
		i := slices.IndexFunc(items, func(g domain.GanttItem) bool { return g.ID == itemID })
		if i < 0 {
			return nil, fmt.Errorf("%w: gantt item %q", domain.ErrNotFound, itemID)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func (s *Service) editGantt(ctx context.Context, id domain.ProjectID, fn func([]domain.GanttItem) ([]domain.GanttItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Project(ctx, id); err != nil {
		return err
	}
	items, err := s.repo.Gantt(ctx, id)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return s.repo.SaveGantt(ctx, id, items)
}
