package services

import (
	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
)

// TutorialCase is the fixed practice case.
func TutorialCase() models.Case {
	return models.Case{
		Id:          uuid.New(),
		Title:       "The Missing Cookie Case",
		Description: "You are defending your client who has been accused of stealing cookies from the office kitchen. The prosecution claims to have a witness who saw your client near the cookie jar at the time of the incident.",
		KeyPoints: []string{
			"Your client has a strong alibi - they were in a meeting at the time",
			"The witness's testimony is unreliable - they were wearing glasses but claim to have perfect vision",
			"Security cameras were not working that day",
			"Multiple people had access to the kitchen",
		},
		Tips: []string{
			"Mention the meeting alibi in your first response",
			"Question the witness's credibility in your second response",
			"Use the security camera issue as supporting evidence",
		},
	}
}

// tutorialGuidance is queued after the given turn of a tutorial session.
var tutorialGuidance = map[int]string{
	1: "Good! For your next response, try questioning the witness's credibility.",
	2: "For your final response, mention the security cameras were not working.",
}
