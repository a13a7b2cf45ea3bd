package agentflow

import (
	"context"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// PlanChatResult is one plan drafting turn: the reply and what it adds to the plan.
type PlanChatResult struct {
	Reply    string
	Fragment *domain.PlanFragment
}

// PlanChat answers the newest turn of the initiation transcript.
func (o *Orchestrator) PlanChat(ctx context.Context, turns []domain.Turn) (PlanChatResult, error) {
	req := o.planChatRequest(NormalizeHistory(turns))

	resp, err := o.Invoke(ctx, FlowPlanChat, req)
	if err != nil {
		return PlanChatResult{}, err
	}

	parsed := Parse[domain.PlanFragment](resp, fieldReport, FallbackReply)
	o.noteParse(ctx, FlowPlanChat, parsed.DecodeErr)

	return PlanChatResult{
		Reply:    parsed.Reply,
		Fragment: parsed.Fragment,
	}, nil
}

func (o *Orchestrator) planChatRequest(n Normalized) domain.GenerationRequest {
	if o.planMode == domain.ModeFreeform {
		return Compose(o.model, o.instr.PlanChatFreeform, nil, n)
	}
	return Compose(o.model, o.instr.PlanChat, PlanChatSchema(), n)
}
