package models

import "github.com/google/uuid"

type Case struct {
	Id          uuid.UUID `json:"caseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	KeyPoints   []string  `json:"keyPoints"`
	Tips        []string  `json:"tips,omitempty"`
	Humorous    bool      `json:"humorous"`
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rules are the turn limit and winning score of one session.
type Rules struct {
	MaxTurns     int `json:"maxTurns"`
	WinThreshold int `json:"winThreshold"`
}

var difficultyRules = map[Difficulty]Rules{
	DifficultyEasy:   {MaxTurns: 5, WinThreshold: 3},
	DifficultyMedium: {MaxTurns: 7, WinThreshold: 4},
	DifficultyHard:   {MaxTurns: 10, WinThreshold: 5},
}

var TutorialRules = Rules{MaxTurns: 3, WinThreshold: 2}

// RulesFor falls back to medium for unknown difficulties.
func RulesFor(d Difficulty) Rules {
	if r, ok := difficultyRules[d]; ok {
		return r
	}
	return difficultyRules[DifficultyMedium]
}

func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	}
	return DifficultyMedium
}
