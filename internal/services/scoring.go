package services

import (
	"strings"
	"unicode/utf8"

	"github.com/latestcomment/courtroom-game/internal/models"
)

// Length above which a well-formed argument earns the substance point.
const substantiveArgumentChars = 30

// ScoreResult reports one turn's scoring. Deltas are in half points.
type ScoreResult struct {
	State      models.GameState `json:"state"`
	DeltaHalf  int              `json:"deltaHalf"`
	Evaluation Evaluation       `json:"evaluation"`
}

// Delta is the turn's score change before clamping.
func (r ScoreResult) Delta() float64 {
	return float64(r.DeltaHalf) / 2
}

// Score applies one turn's rules to state and returns the new state. It is pure:
// TurnCount is carried over unchanged and identical inputs give identical output.
func Score(playerText, judgeReply string, state models.GameState, c models.Case) ScoreResult {
	ev := Evaluate(playerText, judgeReply, c)
	judge := strings.ToLower(judgeReply)
	text := strings.TrimSpace(playerText)

	delta := 0
	if strings.Contains(judge, "overruled") {
		delta += 2
	}
	if strings.Contains(judge, "sustained") {
		delta -= 2
	}
	if utf8.RuneCountInString(text) > substantiveArgumentChars && ev.HasLegalVocabulary && !ev.LowQuality {
		delta += 2
	}
	if ev.HasYourHonor {
		delta++
	}
	if ev.ReferencesKeyPoint {
		delta++
	}
	// A weak argument dampens a positive turn but never reverses it.
	if ev.LowQuality && delta > 0 {
		delta--
	}
	if ev.CitesAuthority && !ev.LowQuality {
		delta += 2
	}

	next := state
	next.HalfPoints = state.HalfPoints + delta
	if next.HalfPoints < 0 {
		next.HalfPoints = 0
	}
	return ScoreResult{State: next, DeltaHalf: delta, Evaluation: ev}
}
