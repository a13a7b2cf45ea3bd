package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by gantt items.
const DateLayout = "2006-01-02"

// ToolRef is the tool suggested next to a task.
type ToolRef struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	URL  string `json:"url"`
}

// Task is a to-do item. Tasks are only created by explicit user action or seeding.
type Task struct {
	ID              TaskID   `json:"id"`
	Title           string   `json:"title"`
	Completed       bool     `json:"completed"`
	RecommendedTool *ToolRef `json:"recommendedTool,omitempty"`
}

// GanttItem is a scheduled work item on the project timeline.
type GanttItem struct {
	ID        GanttItemID `json:"id"`
	Title     string      `json:"title"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Color     string      `json:"color"`
}

// Validate checks the title and that both dates parse and are ordered.
func (g GanttItem) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: gantt item title is required", ErrInvalidInput)
	}
	start, err := time.Parse(DateLayout, g.StartDate)
	if err != nil {
		return fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(DateLayout, g.EndDate)
	if err != nil {
		return fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return nil
}
