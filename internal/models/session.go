package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateInitializing        SessionState = "initializing"
	StateAwaitingInput       SessionState = "awaiting_input"
	StateGeneratingResponses SessionState = "generating_responses"
	StateDrainingQueue       SessionState = "draining_queue"
	StateVerdictPending      SessionState = "verdict_pending"
	StateVerdictShown        SessionState = "verdict_shown"
	StateTerminated          SessionState = "terminated"
)

type Mode string

const (
	ModeRandom   Mode = "random"
	ModeTutorial Mode = "tutorial"
)

// SessionView is a point-in-time copy of a session for the presentation layer.
type SessionView struct {
	SessionId    uuid.UUID    `json:"sessionId"`
	Player       string       `json:"player"`
	Mode         Mode         `json:"mode"`
	Difficulty   Difficulty   `json:"difficulty,omitempty"`
	State        SessionState `json:"state"`
	Case         Case         `json:"case"`
	Messages     []Message    `json:"messages"`
	Pending      int          `json:"pending"`
	Score        float64      `json:"score"`
	RoundedScore int          `json:"roundedScore"`
	TurnCount    int          `json:"turnCount"`
	Rules        Rules        `json:"rules"`
	Verdict      *Verdict     `json:"verdict,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type EventType string

const (
	EventMessage EventType = "message"
	EventState   EventType = "state"
	EventScore   EventType = "score"
	EventVerdict EventType = "verdict"
	EventError   EventType = "error"
)

// Event is pushed to session subscribers; only the field matching Type is set.
type Event struct {
	Type    EventType    `json:"type"`
	Message *Message     `json:"message,omitempty"`
	State   SessionState `json:"state,omitempty"`
	Score   *float64     `json:"score,omitempty"`
	Verdict *Verdict     `json:"verdict,omitempty"`
	Error   string       `json:"error,omitempty"`
}
