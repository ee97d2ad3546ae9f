package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/server"
)

const PollInterval = 2 * time.Second

// ErrSessionEnded is returned by WaitUntilActive when the session reaches a
// terminal status instead of being unlocked.
var ErrSessionEnded = errors.New("session ended while locked")

type StatusFetcher interface {
	Status(ctx context.Context) (server.ParticipantView, error)
}

// WaitUntilActive polls the session every interval until it is active again.
// Transient failures are retried; authentication failures end the wait.
func WaitUntilActive(ctx context.Context, f StatusFetcher, clock clockwork.Clock, interval time.Duration) (server.ParticipantView, error) {
	if interval <= 0 {
		interval = PollInterval
	}
	for {
		v, err := f.Status(ctx)
		switch {
		case err == nil && v.Status == contest.StatusActive:
			return v, nil
		case err == nil && v.Status.Terminal():
			return v, ErrSessionEnded
		case err != nil && fatal(err):
			return v, err
		}

		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-clock.After(interval):
		}
	}
}

func fatal(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
