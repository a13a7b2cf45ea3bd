package agentflow

import (
	"context"
	"iter"
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// ToolReport answers the newest turn of the tool advisor transcript in plain text.
func (o *Orchestrator) ToolReport(ctx context.Context, turns []domain.Turn) (string, error) {
	return o.freeformChat(ctx, FlowToolReport, o.instr.ToolReport, turns)
}

// General answers the newest turn of the general transcript in plain text.
func (o *Orchestrator) General(ctx context.Context, turns []domain.Turn) (string, error) {
	return o.freeformChat(ctx, FlowGeneral, o.instr.General, turns)
}

// GeneralStream is General delivered in chunks.
func (o *Orchestrator) GeneralStream(ctx context.Context, turns []domain.Turn) iter.Seq2[string, error] {
	req := Compose(o.model, o.instr.General, nil, NormalizeHistory(turns))
	return o.Stream(ctx, FlowGeneral, req)
}

func (o *Orchestrator) freeformChat(ctx context.Context, flow, instruction string, turns []domain.Turn) (string, error) {
	req := Compose(o.model, instruction, nil, NormalizeHistory(turns))
	resp, err := o.Invoke(ctx, flow, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
