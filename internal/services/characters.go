package services

import (
	"fmt"
	"strings"

	"github.com/latestcomment/courtroom-game/internal/models"
)

// WitnessArchetypes are drawn uniformly when a witness takes the stand.
var WitnessArchetypes = []string{"expert", "eyewitness", "character", "forensic"}

const (
	judgePrompt = `You are an AI judge in a legal game simulation. Provide a brief, concise response (1-2 sentences) that maintains judicial decorum and guides the proceedings. When ruling on the defense's argument, say "Overruled" if it holds up and "Sustained" if the prosecution's objection stands. Respond as judge.`
	opponentPrompt = `You are an AI opposing counsel in a legal game simulation. Provide a brief, concise response (1-2 sentences) that challenges the player's arguments while maintaining professionalism. Respond as opposing counsel.`
	witnessPrompt  = `You are a %s witness in a legal game simulation. Provide a brief, concise response (1-2 sentences) that stays in character and provides relevant testimony. Respond as the witness.`
)

var fallbackLines = map[models.Role]string{
	models.RoleJudge:    "The court will take that under advisement.",
	models.RoleOpponent: "I object to that line of questioning, your honor.",
	models.RoleWitness:  "I don't recall, your honor.",
}

// RolePrompt is the instruction sent to the reply service for a character.
func RolePrompt(role models.Role, archetype string) string {
	switch role {
	case models.RoleJudge:
		return judgePrompt
	case models.RoleOpponent:
		return opponentPrompt
	default:
		return fmt.Sprintf(witnessPrompt, archetype)
	}
}

// FallbackLine is shown when the reply service fails for role.
func FallbackLine(role models.Role) string {
	if line, ok := fallbackLines[role]; ok {
		return line
	}
	return fallbackLines[models.RoleJudge]
}

// replyContext gives the characters the case and the argument they answer.
func replyContext(c models.Case, playerText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case: %s. %s\n", c.Title, c.Description)
	fmt.Fprintf(&b, "Defense argument: %s", strings.TrimSpace(playerText))
	return b.String()
}

func openingLines(c models.Case, mode models.Mode) []models.Message {
	var lines []models.Message
	add := func(role models.Role, content string) {
		lines = append(lines, models.Message{Role: role, Sender: models.SenderName(role), Content: content})
	}
	if mode == models.ModeTutorial {
		add(models.RoleSystem, "Welcome to the Tutorial Case! This is a practice case to help you learn the game.")
	}
	add(models.RoleJudge, "Court is now in session. The case before us today is: "+c.Title)
	add(models.RoleSystem, c.Description)
	if mode == models.ModeTutorial {
		add(models.RoleOpponent, "Your Honor, we have a witness who saw the defendant near the cookie jar!")
		add(models.RoleSystem, "Tip: Try saying 'Your Honor, my client was in a meeting at the time of the incident.'")
	} else {
		add(models.RoleOpponent, "Your Honor, we have substantial evidence against the defendant.")
	}
	return lines
}

func verdictLine(mode models.Mode, won bool) string {
	switch {
	case mode == models.ModeTutorial && won:
		return "Having heard the arguments, I find the defendant NOT GUILTY. Case dismissed!"
	case mode == models.ModeTutorial:
		return "Having heard the arguments, I find the defendant GUILTY."
	case won:
		return "Based on the evidence presented, I find in favor of the defense. Case dismissed!"
	default:
		return "The defense has failed to make its case. I find in favor of the prosecution."
	}
}
