package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/teckzite/round2/internal/contest"
)

// handleEvents streams the caller's own session changes as Server-Sent
// Events. The first event is the current snapshot so a client can replace
// its polling loop with the stream.
func handleEvents(logger *slog.Logger, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred := credentialFrom(r)

		sess, err := sessions.Get(r.Context(), cred.Subject)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := broker.Subscribe(contest.LookupKey(sess.ID))
		defer broker.Unsubscribe(contest.LookupKey(sess.ID), ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		snapshot, _ := json.Marshal(Event{Type: "snapshot", Session: summarize(sess)})
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", snapshot)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
