package domain

import "time"

type ReportKind string

const (
	ReportWork       ReportKind = "work"
	ReportCompletion ReportKind = "completion"
)

// Report is a generated Markdown document kept in the project's report history.
type Report struct {
	ID        ReportID       `json:"id"`
	Kind      ReportKind     `json:"kind"`
	Result    *ProjectResult `json:"result,omitempty"` // completion reports only
	Markdown  string         `json:"markdown"`
	CreatedAt time.Time      `json:"createdAt"`
}
