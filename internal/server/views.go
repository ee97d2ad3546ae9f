package server

import (
	"time"

	"github.com/teckzite/round2/internal/contest"
)

type ParticipantAnswer struct {
	ItemID int    `json:"itemId"`
	Value  string `json:"value"`
}

// ParticipantView is what a participant sees of their own session. Answer
// correctness is withheld.
type ParticipantView struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Role          contest.Role        `json:"role"`
	Status        contest.Status      `json:"status"`
	CurrentRound  contest.Round       `json:"currentRound"`
	Scores        contest.Scores      `json:"scores"`
	Timings       contest.Timings     `json:"timings"`
	Violations    contest.Violations  `json:"violations"`
	Phase1Answers []ParticipantAnswer `json:"phase1Answers"`
	Phase2Answers []ParticipantAnswer `json:"phase2Answers"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func participantView(s *contest.Session) ParticipantView {
	v := ParticipantView{
		ID:            s.ID,
		Name:          s.Name,
		Role:          s.Role,
		Status:        s.Status,
		CurrentRound:  s.CurrentRound,
		Scores:        s.Scores,
		Timings:       s.Timings,
		Violations:    s.Violations,
		Phase1Answers: make([]ParticipantAnswer, 0, len(s.Phase1Answers)),
		Phase2Answers: make([]ParticipantAnswer, 0, len(s.Phase2Answers)),
		UpdatedAt:     s.UpdatedAt,
	}
	for _, a := range s.Phase1Answers {
		v.Phase1Answers = append(v.Phase1Answers, ParticipantAnswer{ItemID: a.QuestionID, Value: a.AnswerText})
	}
	for _, a := range s.Phase2Answers {
		v.Phase2Answers = append(v.Phase2Answers, ParticipantAnswer{ItemID: a.LevelID, Value: a.SubmittedCode})
	}
	return v
}
