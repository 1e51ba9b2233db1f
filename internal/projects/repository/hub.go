package repository

import (
	"sync"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

// hub fans list snapshots out to subscribers. Delivery happens under the
// subscriber's own lock so a callback can never arrive after unsubscribe,
// even when a publish was already in flight.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	mu     sync.Mutex
	fn     func([]domain.Project)
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]*subscriber)}
}

// subscribe registers fn and delivers the initial snapshot while still
// holding the subscriber's lock, so a publish racing the registration cannot
// get its (newer) snapshot in ahead of the initial one.
func (h *hub) subscribe(fn func([]domain.Project), initial func() []domain.Project) func() {
	sub := &subscriber{fn: fn}
	sub.mu.Lock()

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	fn(initial())
	sub.mu.Unlock()

	return func() {
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()

		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *hub) publish(snapshot []domain.Project) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.mu.Lock()
		if !s.closed {
			s.fn(snapshot)
		}
		s.mu.Unlock()
	}
}
