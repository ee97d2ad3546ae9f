package client

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MinGrace is the shortest window after mount during which visibility
// changes are ignored. Browsers fire spurious blur events while a page
// settles.
const MinGrace = 3 * time.Second

// FocusGuard turns visibility-hidden signals from a single source into at
// most one lock report until it is re-armed.
type FocusGuard struct {
	clock     clockwork.Clock
	grace     time.Duration
	mountedAt time.Time
	report    func(ctx context.Context) error

	mu    sync.Mutex
	armed bool
}

func NewFocusGuard(clock clockwork.Clock, grace time.Duration, report func(ctx context.Context) error) *FocusGuard {
	if grace < MinGrace {
		grace = MinGrace
	}
	return &FocusGuard{
		clock:     clock,
		grace:     grace,
		mountedAt: clock.Now(),
		report:    report,
		armed:     true,
	}
}

// Hidden handles a visibility-hidden signal. It reports whether a lock was
// sent to the server.
func (g *FocusGuard) Hidden(ctx context.Context) (bool, error) {
	g.mu.Lock()
	if g.clock.Since(g.mountedAt) < g.grace || !g.armed {
		g.mu.Unlock()
		return false, nil
	}
	g.armed = false
	g.mu.Unlock()

	if err := g.report(ctx); err != nil {
		g.mu.Lock()
		g.armed = true
		g.mu.Unlock()
		return false, err
	}
	return true, nil
}

// Rearm allows the next hidden signal to report again. Call it once the
// session is observed active after an unlock.
func (g *FocusGuard) Rearm() {
	g.mu.Lock()
	g.armed = true
	g.mu.Unlock()
}

// Armed reports whether the next hidden signal would be reported.
func (g *FocusGuard) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}
