// Package repo maps the persisted key layout onto typed accessors.
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
)

const (
	keyProjects       = "chat-projects"
	keyCurrentProject = "chat-current-project"
)

// Per-project collections, stored under chat-<projectID>-<collection>.
const (
	collPlan        = "initiation-planData"
	collTasks       = "progress-tasks"
	collGantt       = "progress-gantt"
	collTools       = "tool-search-tools"
	collCustomTools = "custom-tools"
	collReports     = "reports"
)

func messagesCollection(s domain.Surface) string {
	return string(s) + "-messages"
}

func projectKey(id domain.ProjectID, collection string) string {
	return fmt.Sprintf("chat-%s-%s", id, collection)
}

// projectCollections lists every per-project collection, for cascading deletes.
func projectCollections() []string {
	out := []string{collPlan, collTasks, collGantt, collTools, collCustomTools, collReports}
	for _, s := range domain.Surfaces() {
		out = append(out, messagesCollection(s))
	}
	return out
}

// Repository is a typed view over a KVStore. It does not serialize
// read-modify-write sequences; callers that need that hold their own lock.
type Repository struct {
	kv domain.KVStore
}

func New(kv domain.KVStore) *Repository {
	return &Repository{kv: kv}
}

// getJSON decodes key into out. Absent keys leave out untouched; undecodable
// values are logged and also leave out untouched.
func (r *Repository) getJSON(ctx context.Context, key string, out any) error {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		observability.LoggerFromContext(ctx).Warn("ignoring undecodable value",
			"key", key,
			"error", err)
	}
	return nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Projects returns the project list, empty when nothing is stored.
func (r *Repository) Projects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := r.getJSON(ctx, keyProjects, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Project{}
	}
	return out, nil
}

func (r *Repository) SaveProjects(ctx context.Context, ps []domain.Project) error {
	return r.setJSON(ctx, keyProjects, ps)
}

// Project looks a project up in the project list.
func (r *Repository) Project(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	ps, err := r.Projects(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Project{}, fmt.Errorf("%w: project %q", domain.ErrNotFound, id)
}

type currentPointer struct {
	ID domain.ProjectID `json:"id"`
}

// CurrentProject returns the selected project ID, DefaultProjectID when unset.
func (r *Repository) CurrentProject(ctx context.Context) (domain.ProjectID, error) {
	var p currentPointer
	if err := r.getJSON(ctx, keyCurrentProject, &p); err != nil {
		return "", err
	}
	if p.ID == "" {
		return domain.DefaultProjectID, nil
	}
	return p.ID, nil
}

func (r *Repository) SetCurrentProject(ctx context.Context, id domain.ProjectID) error {
	return r.setJSON(ctx, keyCurrentProject, currentPointer{ID: id})
}

func (r *Repository) ClearCurrentProject(ctx context.Context) error {
	return r.kv.Delete(ctx, keyCurrentProject)
}

// Conversation returns the transcript of a surface.
func (r *Repository) Conversation(ctx context.Context, id domain.ProjectID, s domain.Surface) ([]domain.Turn, error) {
	var out []domain.Turn
	if err := r.getJSON(ctx, projectKey(id, messagesCollection(s)), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Turn{}
	}
	return out, nil
}

func (r *Repository) SaveConversation(ctx context.Context, id domain.ProjectID, s domain.Surface, turns []domain.Turn) error {
	return r.setJSON(ctx, projectKey(id, messagesCollection(s)), turns)
}

func (r *Repository) Plan(ctx context.Context, id domain.ProjectID) (domain.PlanReport, error) {
	var out domain.PlanReport
	err := r.getJSON(ctx, projectKey(id, collPlan), &out)
	return out, err
}

func (r *Repository) SavePlan(ctx context.Context, id domain.ProjectID, p domain.PlanReport) error {
	return r.setJSON(ctx, projectKey(id, collPlan), p)
}

func (r *Repository) Tasks(ctx context.Context, id domain.ProjectID) ([]domain.Task, error) {
	var out []domain.Task
	if err := r.getJSON(ctx, projectKey(id, collTasks), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Task{}
	}
	return out, nil
}

func (r *Repository) SaveTasks(ctx context.Context, id domain.ProjectID, ts []domain.Task) error {
	return r.setJSON(ctx, projectKey(id, collTasks), ts)
}

func (r *Repository) Gantt(ctx context.Context, id domain.ProjectID) ([]domain.GanttItem, error) {
	var out []domain.GanttItem
	if err := r.getJSON(ctx, projectKey(id, collGantt), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.GanttItem{}
	}
	return out, nil
}

func (r *Repository) SaveGantt(ctx context.Context, id domain.ProjectID, items []domain.GanttItem) error {
	return r.setJSON(ctx, projectKey(id, collGantt), items)
}

func (r *Repository) Tools(ctx context.Context, id domain.ProjectID) ([]domain.RecommendedTool, error) {
	var out []domain.RecommendedTool
	if err := r.getJSON(ctx, projectKey(id, collTools), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.RecommendedTool{}
	}
	return out, nil
}

func (r *Repository) SaveTools(ctx context.Context, id domain.ProjectID, tools []domain.RecommendedTool) error {
	return r.setJSON(ctx, projectKey(id, collTools), tools)
}

func (r *Repository) CustomTools(ctx context.Context, id domain.ProjectID) ([]domain.CustomTool, error) {
	var out []domain.CustomTool
	if err := r.getJSON(ctx, projectKey(id, collCustomTools), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CustomTool{}
	}
	return out, nil
}

func (r *Repository) SaveCustomTools(ctx context.Context, id domain.ProjectID, tools []domain.CustomTool) error {
	return r.setJSON(ctx, projectKey(id, collCustomTools), tools)
}

// Reports returns the newest limit reports, oldest first. limit <= 0 returns all.
func (r *Repository) Reports(ctx context.Context, id domain.ProjectID, limit int) ([]domain.Report, error) {
	var out []domain.Report
	if err := r.getJSON(ctx, projectKey(id, collReports), &out); err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	if out == nil {
		out = []domain.Report{}
	}
	return out, nil
}

func (r *Repository) AppendReport(ctx context.Context, id domain.ProjectID, rep domain.Report) error {
	all, err := r.Reports(ctx, id, 0)
	if err != nil {
		return err
	}
	return r.setJSON(ctx, projectKey(id, collReports), append(all, rep))
}

// Keys lists stored keys with the prefix when the store supports listing.
func (r *Repository) Keys(ctx context.Context, prefix string) ([]string, error) {
	l, ok := r.kv.(domain.KVLister)
	if !ok {
		return nil, fmt.Errorf("%w: store cannot list keys", domain.ErrInvalidInput)
	}
	return l.Keys(ctx, prefix)
}

// DeleteProjectData removes every per-project key. The project list is not touched.
func (r *Repository) DeleteProjectData(ctx context.Context, id domain.ProjectID) error {
	for _, c := range projectCollections() {
		key := projectKey(id, c)
		if err := r.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return nil
}
