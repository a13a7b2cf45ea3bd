package domain

// Turn is one message of a transcript. Turns are never edited after creation;
// their order in the slice is the conversation.
type Turn struct {
	ID        TurnID    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"content"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
}

// GenerationFailedReply replaces the assistant turn when the provider call fails.
const GenerationFailedReply = "Sorry, I could not generate a response. Please try again."

// CountUserTurns returns how many turns were written by the user.
func CountUserTurns(turns []Turn) int {
	n := 0
	for _, t := range turns {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}
