package livefeed_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/teckzite/round2/internal/handler/livefeed"
)

type fakeSource struct {
	mu   sync.Mutex
	subs map[string][]chan []byte
	got  chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: map[string][]chan []byte{}, got: make(chan struct{}, 1)}
}

func (f *fakeSource) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 4)
	f.mu.Lock()
	f.subs[topic] = append(f.subs[topic], ch)
	f.mu.Unlock()
	f.got <- struct{}{}
	return ch
}

func (f *fakeSource) Unsubscribe(topic string, ch chan []byte) {}

func (f *fakeSource) publish(topic string, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs[topic] {
		ch <- []byte(msg)
	}
}

func allow(token string) error {
	if token != "good" {
		return errors.New("bad token")
	}
	return nil
}

func TestLiveFeed(t *testing.T) {
	src := newFakeSource()
	h := livefeed.NewHandler(slog.Default(), src, "admin", allow)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/?token=good", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	select {
	case <-src.got:
	case <-ctx.Done():
		t.Fatal("handler never subscribed")
	}

	want := []string{`{"type":"locked"}`, `{"type":"unlocked"}`}
	for _, msg := range want {
		src.publish("admin", msg)
	}
	for _, msg := range want {
		_, got, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != msg {
			t.Errorf("got %s, want %s", got, msg)
		}
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}

func TestLiveFeedRejectsBadToken(t *testing.T) {
	h := livefeed.NewHandler(slog.Default(), newFakeSource(), "admin", allow)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/?token=bad")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
