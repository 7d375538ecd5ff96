package internal

import (
	"time"
)

// InputSnapshot is one user-submitted input. Ephemeral; never persisted
// beyond the page session.
type InputSnapshot struct {
	Text       string    `json:"text"`
	CapturedAt time.Time `json:"captured_at"`
}

// ConversationSession accumulates the user's inputs for one chat thread.
// Inputs is append-only; InterventionCount only increases. A change in the
// derived session identifier always replaces the session, never merges.
type ConversationSession struct {
	SessionID           string
	Platform            Platform
	StartedAt           time.Time
	Inputs              []InputSnapshot
	ConsolidatedContext string
	InterventionCount   int
}

// InputTexts returns the accepted input texts in submission order.
func (s *ConversationSession) InputTexts() []string {
	texts := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		texts[i] = in.Text
	}
	return texts
}
