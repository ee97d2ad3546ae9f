// Package contest defines the participant session and the rules that move it
// through the instructions screen and the two timed rounds. It has no
// storage or transport dependencies: every operation takes the session and the
// current time and mutates the session in place.
package contest

import (
	"strings"
	"time"
)

type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusLocked       Status = "locked"
	StatusDisqualified Status = "disqualified"
	StatusCompleted    Status = "completed"
)

// Terminal reports whether no further scoring or locking may happen.
func (s Status) Terminal() bool {
	return s == StatusDisqualified || s == StatusCompleted
}

type Round string

const (
	RoundInstructions Round = "instructions"
	RoundGame1        Round = "game1"
	RoundGame2        Round = "game2"
)

type Scores struct {
	Phase1 int `json:"phase1Score"`
	Phase2 int `json:"phase2Score"`
	Total  int `json:"total"`
}

// Timings holds the round boundaries. Durations are in seconds.
type Timings struct {
	StartTime      *time.Time `json:"startTime,omitempty"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Phase1Duration float64    `json:"phase1Duration"`
	Phase2Duration float64    `json:"phase2Duration"`
}

// Total is the combined time spent across both rounds.
func (t Timings) Total() float64 {
	return t.Phase1Duration + t.Phase2Duration
}

type Violations struct {
	LockCount       int        `json:"lockCount"`
	UnlockCount     int        `json:"unlockCount"`
	LastViolationAt *time.Time `json:"lastViolationAt,omitempty"`
}

type Phase1Answer struct {
	QuestionID int    `json:"questionId"`
	AnswerText string `json:"answerText"`
	IsCorrect  bool   `json:"isCorrect"`
}

type Phase2Answer struct {
	LevelID       int    `json:"levelId"`
	SubmittedCode string `json:"submittedCode"`
	IsCorrect     bool   `json:"isCorrect"`
}

type Session struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Secret        string         `json:"-"`
	Role          Role           `json:"role"`
	Status        Status         `json:"status"`
	CurrentRound  Round          `json:"currentRound"`
	Scores        Scores         `json:"scores"`
	Timings       Timings        `json:"timings"`
	Violations    Violations     `json:"violations"`
	Phase1Answers []Phase1Answer `json:"phase1Answers"`
	Phase2Answers []Phase2Answer `json:"phase2Answers"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewSession returns a session in its initial state: active, on the
// instructions screen, with no score and no timings.
func NewSession(id, secret, name string, now time.Time) *Session {
	return &Session{
		ID:            strings.TrimSpace(id),
		Name:          strings.TrimSpace(name),
		Secret:        strings.TrimSpace(secret),
		Role:          RoleParticipant,
		Status:        StatusActive,
		CurrentRound:  RoundInstructions,
		Phase1Answers: []Phase1Answer{},
		Phase2Answers: []Phase2Answer{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MatchSecret compares a login secret against the stored one after trimming.
func (s *Session) MatchSecret(secret string) bool {
	return s.Secret == strings.TrimSpace(secret)
}

// LookupKey normalises an external ID for case-insensitive lookup.
func LookupKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
