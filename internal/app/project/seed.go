package project

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	ID     string               `yaml:"id"`
	Name   string               `yaml:"name"`
	Status domain.ProjectStatus `yaml:"status"`
	Result domain.ProjectResult `yaml:"result"`
	Plan   struct {
		Reason       string `yaml:"reason"`
		Goal         string `yaml:"goal"`
		DetailedPlan string `yaml:"detailedPlan"`
		Resources    string `yaml:"resources"`
	} `yaml:"plan"`
	Tasks []struct {
		Title     string          `yaml:"title"`
		Completed bool            `yaml:"completed"`
		Tool      *domain.ToolRef `yaml:"tool"`
	} `yaml:"tasks"`
	Gantt []struct {
		Title        string `yaml:"title"`
		StartOffset  int    `yaml:"start_offset_days"`
		DurationDays int    `yaml:"duration_days"`
		Color        string `yaml:"color"`
	} `yaml:"gantt"`
}

// Seed loads the demo projects. Projects that already exist are skipped, so
// seeding twice is harmless. It returns the number of projects added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return 0, fmt.Errorf("parsing seed data: %w", err)
	}

	existing, err := s.repo.Projects(ctx)
	if err != nil {
		return 0, err
	}

	prev, err := s.repo.CurrentProject(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now().UTC()
	added := 0
	for _, sp := range f.Projects {
		id := domain.ProjectID(sp.ID)
		if slices.ContainsFunc(existing, func(p domain.Project) bool { return p.ID == id }) {
			continue
		}
		if _, err := s.create(ctx, id, sp.Name); err != nil {
			return added, err
		}
		if err := s.seedStatus(ctx, id, sp); err != nil {
			return added, err
		}

		plan := domain.PlanReport(sp.Plan)
		if !plan.IsEmpty() {
			if err := s.repo.SavePlan(ctx, id, plan); err != nil {
				return added, err
			}
		}
		for _, t := range sp.Tasks {
			task, err := s.AddTask(ctx, id, t.Title, t.Tool)
			if err != nil {
				return added, err
			}
			if t.Completed {
				if _, err := s.ToggleTask(ctx, id, task.ID); err != nil {
					return added, err
				}
			}
		}
		for _, g := range sp.Gantt {
			start := today.AddDate(0, 0, g.StartOffset)
			_, err := s.AddGanttItem(ctx, id, domain.GanttItem{
				Title:     g.Title,
				StartDate: start.Format(domain.DateLayout),
				EndDate:   start.AddDate(0, 0, g.DurationDays).Format(domain.DateLayout),
				Color:     g.Color,
			})
			if err != nil {
				return added, err
			}
		}
		added++
	}
	if added > 0 {
		if err := s.repo.SetCurrentProject(ctx, prev); err != nil {
			return added, err
		}
	}
	return added, nil
}

func (s *Service) seedStatus(ctx context.Context, id domain.ProjectID, sp seedProject) error {
	if sp.Status == "" || sp.Status == domain.StatusInitiation {
		return nil
	}
	var result *domain.ProjectResult
	if sp.Status == domain.StatusArchived {
		r := sp.Result
		result = &r
	}
	_, err := s.Transition(ctx, id, sp.Status, result)
	return err
}
