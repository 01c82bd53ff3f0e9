package server

import (
	"sync"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// Gate implements the two-level admission policy for processing requests.
//
// The waiting room is a counted semaphore with a non-blocking acquire: a
// request either takes a slot immediately or is turned away, so load never
// queues up invisibly behind the listener. Admitted requests then serialize
// on the render lock, because the composition backend keeps per-document
// importer state that is not safe for concurrent use.
type Gate struct {
	slots      chan struct{}
	render     sync.Mutex
	retryAfter int
}

// NewGate creates a gate admitting at most waitingRoom concurrent requests.
func NewGate(waitingRoom, retryAfter int) *Gate {
	return &Gate{
		slots:      make(chan struct{}, waitingRoom),
		retryAfter: retryAfter,
	}
}

// Enter takes a waiting room slot without blocking. When the room is full
// it returns a CapacityError carrying the retry hint.
func (g *Gate) Enter() error {
	select {
	case g.slots <- struct{}{}:
		return nil
	default:
		return &errors.CapacityError{
			RetryAfter: g.retryAfter,
			Message:    "waiting room is full",
		}
	}
}

// Leave releases a waiting room slot. Callers pair it with Enter via defer
// so a slot is returned on every exit path.
func (g *Gate) Leave() {
	select {
	case <-g.slots:
	default:
		// Unpaired Leave; nothing to release.
	}
}

// Render runs fn while holding the render lock. At most one job composes
// output at any time.
func (g *Gate) Render(fn func() error) error {
	g.render.Lock()
	defer g.render.Unlock()
	return fn()
}

// InUse returns the number of occupied waiting room slots.
func (g *Gate) InUse() int { return len(g.slots) }

// Capacity returns the waiting room size.
func (g *Gate) Capacity() int { return cap(g.slots) }
