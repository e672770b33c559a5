package types

import "strings"

// Intent is the classified purpose of a user request.
type Intent string

const (
	IntentFood   Intent = "FOOD"
	IntentSpot   Intent = "SPOT"
	IntentCourse Intent = "COURSE"
)

// ParseIntent normalises a raw classification into a known Intent,
// defaulting to COURSE when the value is blank or unknown.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(raw))) {
	case IntentFood:
		return IntentFood
	case IntentSpot:
		return IntentSpot
	case IntentCourse:
		return IntentCourse
	default:
		return IntentCourse
	}
}

// ConversationTurn is one prior message of the conversation, oldest first.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// IntentResult is produced once per request by the intent resolver and
// never mutated afterwards.
type IntentResult struct {
	Intent   Intent `json:"intent"`
	Location string `json:"location,omitempty"` // empty when no location could be resolved
}

type RecommendationRequest struct {
	Query   string             `json:"query"`
	History []ConversationTurn `json:"history"`
}

type RecommendationResponse struct {
	Message string  `json:"message"`
	Summary string  `json:"summary"`
	Places  []Place `json:"places"`
}
