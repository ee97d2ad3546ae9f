package server

import (
	"encoding/json"
	"sync"

	"github.com/teckzite/round2/internal/contest"
)

// AdminTopic receives every session event.
const AdminTopic = "admin"

// Event is the payload pushed to SSE and WebSocket subscribers.
type Event struct {
	Type    string         `json:"type"`
	Session SessionSummary `json:"session"`
}

// SessionSummary is the part of a session that is safe to broadcast.
type SessionSummary struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Status       contest.Status     `json:"status"`
	CurrentRound contest.Round      `json:"currentRound"`
	Scores       contest.Scores     `json:"scores"`
	Timings      contest.Timings    `json:"timings"`
	Violations   contest.Violations `json:"violations"`
}

func summarize(s *contest.Session) SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Name:         s.Name,
		Status:       s.Status,
		CurrentRound: s.CurrentRound,
		Scores:       s.Scores,
		Timings:      s.Timings,
		Violations:   s.Violations,
	}
}

// Broker is an in-process pub/sub keyed by topic: one topic per session ID
// plus AdminTopic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish fans the event out to the session's own topic and to AdminTopic.
func (b *Broker) Publish(eventType string, s *contest.Session) {
	data, _ := json.Marshal(Event{Type: eventType, Session: summarize(s)})
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, topic := range []string{contest.LookupKey(s.ID), AdminTopic} {
		for ch := range b.subs[topic] {
			select {
			case ch <- data:
			default:
				// Drop if subscriber is slow.
			}
		}
	}
}
