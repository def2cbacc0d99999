package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
)

// subscriberBuffer is the per-stream delivery buffer. A full buffer means the
// client is not draining; the item is dropped from the live stream and will
// resurface through the unread backlog on reconnect.
const subscriberBuffer = 16

// Subscriber is one open push stream bound to a recipient. It lives from
// Subscribe until the stream completes, times out, or errors.
type Subscriber struct {
	RecipientID uuid.UUID

	ch        chan *domain.Notification
	done      chan struct{}
	closeOnce sync.Once
}

// Notifications is the stream of items addressed to this subscriber.
func (s *Subscriber) Notifications() <-chan *domain.Notification {
	return s.ch
}

// Done is closed when the hub has discarded this subscriber, e.g. because the
// recipient opened a replacement stream.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Hub manages the open push streams, indexed by recipient so that Push
// reaches only the notification's addressee. Each recipient holds at most
// one stream; subscribing again replaces (and completes) the previous one.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*Subscriber
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]*Subscriber),
	}
}

// Subscribe opens a stream for the recipient. An existing stream for the same
// recipient is completed first.
func (h *Hub) Subscribe(recipientID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		RecipientID: recipientID,
		ch:          make(chan *domain.Notification, subscriberBuffer),
		done:        make(chan struct{}),
	}

	h.mu.Lock()
	if old, ok := h.subs[recipientID]; ok {
		old.close()
	}
	h.subs[recipientID] = sub
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscriber. It is a no-op when the subscriber has
// already been replaced, so a late teardown cannot evict its successor.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if current, ok := h.subs[sub.RecipientID]; ok && current == sub {
		delete(h.subs, sub.RecipientID)
	}
	h.mu.Unlock()
	sub.close()
}

// Push delivers the notification to its recipient's open stream, if any.
// No stream open is not an error; the record is already durable and will be
// served as backlog. A lagging stream does not block the caller.
func (h *Hub) Push(n *domain.Notification) {
	h.mu.Lock()
	sub, ok := h.subs[n.RecipientID]
	h.mu.Unlock()
	if !ok {
		return
	}

	select {
	case sub.ch <- n:
	case <-sub.done:
	default:
		log.Printf("[HUB] Stream for recipient %s is lagging, dropping live push %s", n.RecipientID, n.ID)
	}
}

// Subscribers returns the number of currently open streams.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
