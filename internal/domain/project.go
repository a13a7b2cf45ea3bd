package domain

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	StatusInitiation ProjectStatus = "initiation"
	StatusProgress   ProjectStatus = "progress"
	StatusCompletion ProjectStatus = "completion"
	StatusArchived   ProjectStatus = "archived"
)

type ProjectResult string

const (
	ResultSuccess ProjectResult = "success"
	ResultFailure ProjectResult = "failure"
)

// DefaultProjectID is used when no current project has been selected yet.
const DefaultProjectID ProjectID = "default"

// Project is the root aggregate; every other collection is namespaced by its ID.
type Project struct {
	ID        ProjectID      `json:"id"`
	Name      string         `json:"name"`
	Status    ProjectStatus  `json:"status"`
	Result    *ProjectResult `json:"result,omitempty"` // only set once archived
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (s ProjectStatus) rank() int {
	switch s {
	case StatusInitiation:
		return 0
	case StatusProgress:
		return 1
	case StatusCompletion:
		return 2
	case StatusArchived:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the four workflow statuses.
func (s ProjectStatus) Valid() bool { return s.rank() >= 0 }

// Valid reports whether r is success or failure.
func (r ProjectResult) Valid() bool { return r == ResultSuccess || r == ResultFailure }

// Transition moves the project forward in its workflow.
//
// Statuses only move forward (initiation -> progress -> completion -> archived);
// skipping ahead is allowed, going back is not. Archiving requires a result, and
// once archived the project is terminal: repeating the same archive is a no-op,
// anything else fails with ErrInvalidTransition.
func (p *Project) Transition(to ProjectStatus, result *ProjectResult, now time.Time) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	if to == StatusArchived {
		if result == nil || !result.Valid() {
			return fmt.Errorf("%w: archiving requires result success or failure", ErrInvalidInput)
		}
	} else if result != nil {
		return fmt.Errorf("%w: result can only be set when archiving", ErrInvalidInput)
	}

	if p.Status == StatusArchived {
		if to == StatusArchived && p.Result != nil && *p.Result == *result {
			return nil
		}
		return fmt.Errorf("%w: project %s is archived", ErrInvalidTransition, p.ID)
	}
	if to.rank() < p.Status.rank() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	if to == p.Status {
		return nil
	}

	p.Status = to
	if to == StatusArchived {
		r := *result
		p.Result = &r
	}
	p.UpdatedAt = now
	return nil
}
