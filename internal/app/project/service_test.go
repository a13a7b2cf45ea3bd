package project

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/planbuddy/internal/adapters/storage/memory"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

func newTestService(t *testing.T) (*Service, *repo.Repository, *memory.KVStore) {
	t.Helper()
	kv := memory.NewKVStore()
	r := repo.New(kv)
	s := NewService(r)
	s.now = func() time.Time { return time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC) }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	return s, r, kv
}

func TestCreateAndCurrent(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	_, err := s.Create(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.EnsureDefault(ctx))
	require.NoError(t, s.EnsureDefault(ctx))
	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectID, cur.ID)

	p, err := s.Create(ctx, "Website")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInitiation, p.Status)

	cur, err = s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, cur.ID)

	_, err = s.Use(ctx, domain.DefaultProjectID)
	require.NoError(t, err)
	cur, _ = s.Current(ctx)
	assert.Equal(t, domain.DefaultProjectID, cur.ID)

	_, err = s.Use(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ps, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}

func TestRenameAndTransition(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	p, err := s.Create(ctx, "Old")
	require.NoError(t, err)

	p, err = s.Rename(ctx, p.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)

	p, err = s.Transition(ctx, p.ID, domain.StatusProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProgress, p.Status)

	_, err = s.Transition(ctx, p.ID, domain.StatusInitiation, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.Transition(ctx, p.ID, domain.StatusArchived, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	fail := domain.ResultFailure
	p, err = s.Transition(ctx, p.ID, domain.StatusArchived, &fail)
	require.NoError(t, err)
	require.NotNil(t, p.Result)
	assert.Equal(t, domain.ResultFailure, *p.Result)

	stored, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, stored.Status)

	_, err = s.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s, r, kv := newTestService(t)

	keep, err := s.Create(ctx, "Keep")
	require.NoError(t, err)
	gone, err := s.Create(ctx, "Gone")
	require.NoError(t, err)

	_, err = s.AddTask(ctx, gone.ID, "task", nil)
	require.NoError(t, err)
	_, err = s.SetPlan(ctx, gone.ID, domain.PlanReport{Goal: "g"})
	require.NoError(t, err)
	require.NoError(t, r.SaveConversation(ctx, gone.ID, domain.SurfaceGeneral, []domain.Turn{{Role: domain.RoleUser, Text: "x"}}))
	_, err = s.AddTask(ctx, keep.ID, "kept task", nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, gone.ID))

	keys, err := kv.Keys(ctx, fmt.Sprintf("chat-%s-", gone.ID))
	require.NoError(t, err)
	assert.Empty(t, keys)

	// the deleted project was current: the pointer falls back to default
	cur, err := r.CurrentProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectID, cur)

	tasks, err := s.Tasks(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, s.Delete(ctx, gone.ID), domain.ErrNotFound)
}

func TestDeleteDefaultRejected(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	require.NoError(t, s.EnsureDefault(ctx))

	other, err := s.Create(ctx, "Other")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, domain.DefaultProjectID), domain.ErrInvalidInput)
	require.NoError(t, s.Delete(ctx, other.ID))

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectID, cur.ID)

	ps, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	p, err := s.Create(ctx, "P")
	require.NoError(t, err)

	_, err = s.AddTask(ctx, p.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	task, err := s.AddTask(ctx, p.ID, "Write proposal", &domain.ToolRef{Name: "Claude"})
	require.NoError(t, err)

	toggled, err := s.ToggleTask(ctx, p.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	title := "Write the proposal"
	done := false
	updated, err := s.UpdateTask(ctx, p.ID, task.ID, TaskPatch{Title: &title, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "Write the proposal", updated.Title)
	assert.False(t, updated.Completed)
	assert.Equal(t, "Claude", updated.RecommendedTool.Name)

	_, err = s.ToggleTask(ctx, p.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.DeleteTask(ctx, p.ID, task.ID))
	tasks, err := s.Tasks(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.AddTask(ctx, "missing", "x", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGantt(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	p, err := s.Create(ctx, "P")
	require.NoError(t, err)

	_, err = s.AddGanttItem(ctx, p.ID, domain.GanttItem{Title: "Design", StartDate: "2025-01-05", EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	item, err := s.AddGanttItem(ctx, p.ID, domain.GanttItem{Title: "Design", StartDate: "2025-01-01", EndDate: "2025-01-05"})
	require.NoError(t, err)
	assert.Equal(t, defaultGanttColor, item.Color)
	assert.NotEmpty(t, item.ID)

	item.EndDate = "2025-01-10"
	_, err = s.UpdateGanttItem(ctx, p.ID, item)
	require.NoError(t, err)

	items, err := s.Gantt(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2025-01-10", items[0].EndDate)

	require.NoError(t, s.DeleteGanttItem(ctx, p.ID, item.ID))
	assert.ErrorIs(t, s.DeleteGanttItem(ctx, p.ID, item.ID), domain.ErrNotFound)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	n, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	again, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	p, err := s.Get(ctx, "demo-annual-report")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, p.Status)
	require.NotNil(t, p.Result)
	assert.Equal(t, domain.ResultSuccess, *p.Result)

	tasks, err := s.Tasks(ctx, "demo-service")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.True(t, tasks[2].Completed)

	gantt, err := s.Gantt(ctx, "demo-service")
	require.NoError(t, err)
	require.Len(t, gantt, 2)
	assert.Equal(t, "2025-12-20", gantt[0].StartDate)
	assert.Equal(t, "2025-12-22", gantt[0].EndDate)

	plan, err := s.Plan(ctx, "demo-service")
	require.NoError(t, err)
	assert.Contains(t, plan.Goal, "beta")

	cur, err := s.repo.CurrentProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectID, cur)
}
