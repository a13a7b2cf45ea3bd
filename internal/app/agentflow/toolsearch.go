package agentflow

import (
	"context"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

type ToolSearchResult struct {
	Reply string
	Tools []domain.ToolSuggestion
}

// ToolSearch answers the newest turn of the tool search transcript.
func (o *Orchestrator) ToolSearch(ctx context.Context, turns []domain.Turn) (ToolSearchResult, error) {
	req := Compose(o.model, o.instr.ToolSearch, ToolSearchSchema(), NormalizeHistory(turns))

	resp, err := o.Invoke(ctx, FlowToolSearch, req)
	if err != nil {
		return ToolSearchResult{}, err
	}

	parsed := Parse[[]domain.ToolSuggestion](resp, fieldTools, FallbackReply)
	o.noteParse(ctx, FlowToolSearch, parsed.DecodeErr)

	out := ToolSearchResult{Reply: parsed.Reply}
	if parsed.Fragment != nil {
		out.Tools = *parsed.Fragment
	}
	return out, nil
}

// CustomTools asks for tools fitting the whole project.
func (o *Orchestrator) CustomTools(ctx context.Context, plan domain.PlanReport, gantt []domain.GanttItem, tasks []domain.Task) ([]domain.CustomTool, error) {
	req := ComposeSingle(o.model, o.instr.CustomTools, CustomToolsSchema(), BuildCustomToolsPrompt(plan, gantt, tasks))

	resp, err := o.Invoke(ctx, FlowCustomTools, req)
	if err != nil {
		return nil, err
	}

	parsed := Parse[[]domain.ToolSuggestion](resp, fieldTools, "")
	o.noteParse(ctx, FlowCustomTools, parsed.DecodeErr)
	if parsed.Fragment == nil {
		return []domain.CustomTool{}, nil
	}
	return ToCustomTools(*parsed.Fragment, o.newToolID), nil
}
