package server

import (
	"log/slog"
	"net/http"

	"github.com/teckzite/round2/internal/contest"
)

// HTMLAnswerRequest is the body for POST /api/game/submit/html.
type HTMLAnswerRequest struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// FlexboxAnswerRequest is the body for POST /api/game/submit/flexbox.
type FlexboxAnswerRequest struct {
	Level     int    `json:"level"`
	Code      string `json:"code"`
	IsCorrect bool   `json:"isCorrect"`
}

// AnswerResponse never echoes whether the submitted item was correct.
type AnswerResponse struct {
	Success bool           `json:"success"`
	Scores  contest.Scores `json:"scores"`
}

type answer struct {
	itemID    int
	value     string
	isCorrect bool
}

func handleSubmitHTML(logger *slog.Logger, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return handleSubmit(logger, sessions, broker, contest.Phase1, func(r *http.Request) (answer, error) {
		var req HTMLAnswerRequest
		if err := readJSON(r, &req); err != nil {
			return answer{}, err
		}
		return answer{itemID: req.QuestionID, value: req.Answer, isCorrect: req.IsCorrect}, nil
	})
}

func handleSubmitFlexbox(logger *slog.Logger, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return handleSubmit(logger, sessions, broker, contest.Phase2, func(r *http.Request) (answer, error) {
		var req FlexboxAnswerRequest
		if err := readJSON(r, &req); err != nil {
			return answer{}, err
		}
		return answer{itemID: req.Level, value: req.Code, isCorrect: req.IsCorrect}, nil
	})
}

func handleSubmit(logger *slog.Logger, sessions SessionStore, broker *Broker, phase contest.Phase, decode func(*http.Request) (answer, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := decode(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if a.itemID <= 0 {
			writeError(w, http.StatusBadRequest, "item id must be positive")
			return
		}

		sess, err := sessions.Update(r.Context(), credentialFrom(r).Subject, func(s *contest.Session) error {
			return s.SubmitAnswer(phase, a.itemID, a.value, a.isCorrect)
		})
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		broker.Publish("scored", sess)
		writeJSON(w, http.StatusOK, AnswerResponse{Success: true, Scores: sess.Scores})
	}
}
