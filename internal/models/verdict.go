package models

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

type Verdict struct {
	CaseId    uuid.UUID `json:"caseId"`
	Outcome   Outcome   `json:"outcome"`
	Score     int       `json:"score"`
	Turns     int       `json:"turns"`
	Tutorial  bool      `json:"tutorial"`
	DecidedAt time.Time `json:"decidedAt"`
}

// Note is the text recorded alongside the verdict on the ledger.
func (v Verdict) Note() string {
	if v.Outcome == OutcomeWin {
		return "Case won by the defense"
	}
	return "Case won by the prosecution"
}

type Stats struct {
	Player        string `json:"player"`
	GamesWon      int    `json:"gamesWon"`
	GamesLost     int    `json:"gamesLost"`
	CurrentStreak int    `json:"currentStreak"`
	TutorialDone  bool   `json:"tutorialDone"`
}

func (s *Stats) Record(v Verdict) {
	if v.Tutorial {
		s.TutorialDone = s.TutorialDone || v.Outcome == OutcomeWin
		return
	}
	if v.Outcome == OutcomeWin {
		s.GamesWon++
		s.CurrentStreak++
		return
	}
	s.GamesLost++
	s.CurrentStreak = 0
}
