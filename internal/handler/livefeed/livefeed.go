// Package livefeed pushes session events to the admin dashboard over a
// WebSocket.
package livefeed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// Source is a topic-based publisher such as server.Broker.
type Source interface {
	Subscribe(topic string) chan []byte
	Unsubscribe(topic string, ch chan []byte)
}

// Authorizer validates the token carried in the query string.
type Authorizer func(token string) error

type Handler struct {
	logger    *slog.Logger
	source    Source
	topic     string
	authorize Authorizer
}

func NewHandler(logger *slog.Logger, source Source, topic string, authorize Authorizer) *Handler {
	return &Handler{logger: logger, source: source, topic: topic, authorize: authorize}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.stream)
	return r
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r.URL.Query().Get("token")); err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"not authenticated"}` + "\n"))
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch := h.source.Subscribe(h.topic)
	defer h.source.Unsubscribe(h.topic, ch)

	// The dashboard never sends; CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("live feed closed", "error", ctx.Err())
			return
		case data := <-ch:
			wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.logger.Debug("live feed write failed", "error", err)
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				h.logger.Debug("live feed ping failed", "error", err)
				return
			}
		}
	}
}
