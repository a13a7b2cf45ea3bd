package agentflow_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func turn(role domain.Role, text string) domain.Turn {
	return domain.Turn{Role: role, Text: text}
}

func TestNormalizeHistory(t *testing.T) {
	tests := []struct {
		name  string
		turns []domain.Turn
		want  agentflow.Normalized
	}{
		{
			name: "empty",
			want: agentflow.Normalized{},
		},
		{
			name:  "greeting is dropped",
			turns: []domain.Turn{turn(domain.RoleAssistant, "hi"), turn(domain.RoleUser, "build a plan")},
			want:  agentflow.Normalized{History: []domain.HistoryTurn{}, Message: "build a plan"},
		},
		{
			name: "several leading assistant turns",
			turns: []domain.Turn{
				turn(domain.RoleAssistant, "hi"),
				turn(domain.RoleAssistant, "what are we building?"),
				turn(domain.RoleUser, "an app"),
				turn(domain.RoleAssistant, "for whom?"),
				turn(domain.RoleUser, "students"),
			},
			want: agentflow.Normalized{
				History: []domain.HistoryTurn{
					{Role: domain.HistoryRoleUser, Text: "an app"},
					{Role: domain.HistoryRoleModel, Text: "for whom?"},
				},
				Message: "students",
			},
		},
		{
			name:  "single user turn",
			turns: []domain.Turn{turn(domain.RoleUser, "hello")},
			want:  agentflow.Normalized{History: []domain.HistoryTurn{}, Message: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agentflow.NormalizeHistory(tt.turns)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeHistory() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeHistory_NeverStartsWithModel(t *testing.T) {
	roles := []domain.Role{domain.RoleUser, domain.RoleAssistant}
	// every transcript of length 0..6 over both roles
	for n := 0; n <= 6; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			turns := make([]domain.Turn, n)
			for i := range turns {
				turns[i] = turn(roles[(mask>>i)&1], "x")
			}
			got := agentflow.NormalizeHistory(turns)
			if len(got.History) > 0 {
				assert.Equal(t, domain.HistoryRoleUser, got.History[0].Role, "mask=%b n=%d", mask, n)
			}
			assert.LessOrEqual(t, len(got.History), max(n-1, 0))
		}
	}
}

func TestCompose(t *testing.T) {
	n := agentflow.NormalizeHistory([]domain.Turn{
		turn(domain.RoleUser, "a"),
		turn(domain.RoleAssistant, "b"),
		turn(domain.RoleUser, "c"),
	})

	structured := agentflow.Compose("m", "sys", agentflow.PlanChatSchema(), n)
	assert.Equal(t, domain.ModeStructured, structured.Mode())
	assert.Equal(t, "c", structured.Message)
	assert.Len(t, structured.History, 2)
	assert.Equal(t, "sys", structured.SystemInstruction)

	freeform := agentflow.ComposeSingle("m", "sys", nil, "only")
	assert.Equal(t, domain.ModeFreeform, freeform.Mode())
	assert.Empty(t, freeform.History)
	assert.Equal(t, "only", freeform.Message)
}
