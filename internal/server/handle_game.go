package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/contest"
)

// transition applies a state machine step to the caller's session.
type transition func(s *contest.Session, now time.Time) (changed bool, err error)

func startRound1(s *contest.Session, now time.Time) (bool, error)  { return s.StartRound1(now) }
func finishRound1(s *contest.Session, now time.Time) (bool, error) { return s.FinishRound1(now) }
func finishRound2(s *contest.Session, now time.Time) (bool, error) { return s.FinishRound2(now) }

func reportViolation(s *contest.Session, now time.Time) (bool, error) {
	return s.ReportViolation(now), nil
}

// handleTransition runs step inside a store update and responds with the
// resulting participant view. Subscribers hear about it only when the
// session actually changed.
func handleTransition(logger *slog.Logger, sessions SessionStore, broker *Broker, clock clockwork.Clock, event string, step transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred := credentialFrom(r)
		now := clock.Now().UTC()

		var changed bool
		sess, err := sessions.Update(r.Context(), cred.Subject, func(s *contest.Session) error {
			var err error
			changed, err = step(s, now)
			return err
		})
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		if changed {
			logger.Info("session "+event,
				"session_id", sess.ID,
				"status", sess.Status,
				"round", sess.CurrentRound,
			)
			broker.Publish(event, sess)
		}
		writeJSON(w, http.StatusOK, participantView(sess))
	}
}
