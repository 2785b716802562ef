package models

// GameState keeps the score in half points so +0.5 bonuses stay exact.
type GameState struct {
	HalfPoints int `json:"-"`
	TurnCount  int `json:"turnCount"`
}

// Score is the exact, unrounded score.
func (g GameState) Score() float64 {
	return float64(g.HalfPoints) / 2
}

// Rounded rounds half down: 3.5 counts as 3 against a threshold.
func (g GameState) Rounded() int {
	if g.HalfPoints <= 0 {
		return 0
	}
	return g.HalfPoints / 2
}
