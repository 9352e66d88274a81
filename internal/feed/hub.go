// Package feed fans out live habit-set updates. Every delivery is the
// complete current set for one user, never a diff; consumers replace their
// state wholesale on each event.
package feed

import (
	"log/slog"
	"sync"

	"github.com/dailyvibe/dailyvibe/internal/model"
)

// subscriberBuffer bounds how far a consumer may lag before deliveries are
// dropped. A dropped delivery is harmless: the next one carries the full set.
const subscriberBuffer = 8

type subscriber struct {
	ch     chan []*model.Habit
	userID string
}

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*subscriber
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]*subscriber),
	}
}

// Subscribe opens a delivery channel for one user's habit set. The returned
// cancel func stops deliveries and releases the slot; it is safe to call
// more than once, and no delivery arrives after it returns.
func (h *Hub) Subscribe(userID string) (<-chan []*model.Habit, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		ch:     make(chan []*model.Habit, subscriberBuffer),
		userID: userID,
	}

	id := h.nextID
	h.nextID++

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]*subscriber)
	}
	h.subs[userID][id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subs[userID]
		if !ok {
			return
		}
		if _, ok := subs[id]; !ok {
			return // already cancelled, or hub closed
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(h.subs, userID)
		}
		close(sub.ch)
	}

	return sub.ch, cancel
}

// Publish delivers the full habit set to every subscriber of userID. A
// subscriber that cannot keep up has the delivery dropped and logged rather
// than blocking the store.
func (h *Hub) Publish(userID string, habits []*model.Habit) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for _, sub := range h.subs[userID] {
		select {
		case sub.ch <- habits:
		default:
			slog.Warn("feed delivery dropped, subscriber lagging", "user_id", userID)
		}
	}
}

// Subscribers reports how many channels are open for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Close tears down the hub, closing every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	h.subs = make(map[string]map[int]*subscriber)
}
