package agentflow

import (
	"context"
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// WorkReport writes the Markdown work definition from the initiation transcript
// and the plan. Callers check that the transcript has a user turn.
func (o *Orchestrator) WorkReport(ctx context.Context, turns []domain.Turn, plan domain.PlanReport) (string, error) {
	req := ComposeSingle(o.model, o.instr.WorkReport, nil, BuildWorkReportPrompt(turns, plan))
	resp, err := o.Invoke(ctx, FlowWorkReport, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// CompletionReport writes the closing report for a project result.
func (o *Orchestrator) CompletionReport(ctx context.Context, p domain.Project, result domain.ProjectResult, plan domain.PlanReport, tasks []domain.Task, notes string) (string, error) {
	req := ComposeSingle(o.model, o.instr.CompletionReport, nil, BuildCompletionPrompt(p, result, plan, tasks, notes))
	resp, err := o.Invoke(ctx, FlowCompletionReport, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
