package models

import "time"

type Role string

const (
	RolePlayer   Role = "player"
	RoleJudge    Role = "judge"
	RoleOpponent Role = "opponent"
	RoleWitness  Role = "witness"
	RoleSystem   Role = "system"
)

type Message struct {
	Role      Role      `json:"role"`
	Sender    string    `json:"sender"` // "You", "Judge", "Prosecution", "Witness (expert)" or "Court"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Terminal  bool      `json:"terminal,omitempty"` // final verdict line of the session
}

// SenderName is the label the court view shows for a role.
func SenderName(role Role) string {
	switch role {
	case RolePlayer:
		return "You"
	case RoleJudge:
		return "Judge"
	case RoleOpponent:
		return "Prosecution"
	case RoleWitness:
		return "Witness"
	default:
		return "Court"
	}
}

func NewMessage(role Role, content string, at time.Time) Message {
	return Message{
		Role:      role,
		Sender:    SenderName(role),
		Content:   content,
		Timestamp: at,
	}
}
