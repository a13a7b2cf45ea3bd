package agentflow

import "github.com/PabloGalante/planbuddy/internal/domain"

// Normalized is a transcript converted to the provider vocabulary:
// everything but the newest turn as History, and the newest turn as Message.
type Normalized struct {
	History []domain.HistoryTurn
	Message string
}

// NormalizeHistory excludes the newest turn from the history, maps roles to
// "user"/"model" and drops every leading model turn, because the provider
// rejects a history that does not open with a user turn.
//
// An empty or all-assistant transcript is not an error: it yields an empty history.
func NormalizeHistory(turns []domain.Turn) Normalized {
	if len(turns) == 0 {
		return Normalized{}
	}

	last := turns[len(turns)-1]
	prior := turns[:len(turns)-1]

	start := 0
	for start < len(prior) && historyRole(prior[start].Role) == domain.HistoryRoleModel {
		start++
	}

	history := make([]domain.HistoryTurn, 0, len(prior)-start)
	for _, t := range prior[start:] {
		history = append(history, domain.HistoryTurn{
			Role: historyRole(t.Role),
			Text: t.Text,
		})
	}

	return Normalized{
		History: history,
		Message: last.Text,
	}
}

func historyRole(r domain.Role) string {
	if r == domain.RoleAssistant {
		return domain.HistoryRoleModel
	}
	return domain.HistoryRoleUser
}
