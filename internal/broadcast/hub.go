package broadcast

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Subscriber is a transport handle the hub can push JSON messages to.
// *websocket.Conn satisfies it once wrapped for write serialization.
type Subscriber interface {
	WriteJSON(v any) error
}

// Hub fans one message out to every subscriber of the incoming-call topic.
// Membership changes only through Subscribe/Unsubscribe; a subscriber whose
// send fails is dropped after the publish pass completes.
type Hub struct {
	mu   sync.Mutex
	subs []Subscriber
	log  *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{log: log}
}

// Subscribe adds s if not already present.
func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cur := range h.subs {
		if cur == s {
			return
		}
	}
	h.subs = append(h.subs, s)
}

// Unsubscribe removes s; no-op if absent.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(s)
}

func (h *Hub) remove(s Subscriber) {
	for i, cur := range h.subs {
		if cur == s {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers msg to every current subscriber. The subscriber list is
// snapshotted first, so Subscribe/Unsubscribe during the pass is safe and a
// joiner mid-pass does not receive msg. One failing send never aborts
// delivery to the rest; failed subscribers are unsubscribed afterwards.
func (h *Hub) Publish(msg any) {
	h.mu.Lock()
	snapshot := make([]Subscriber, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.Unlock()

	var stale []Subscriber
	for _, s := range snapshot {
		if err := s.WriteJSON(msg); err != nil {
			stale = append(stale, s)
		}
	}
	if len(stale) == 0 {
		return
	}

	h.mu.Lock()
	for _, s := range stale {
		h.remove(s)
	}
	h.mu.Unlock()
	h.log.WithField("dropped", len(stale)).Warn("pruned stale incoming-call subscribers")
}

// Len reports the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
