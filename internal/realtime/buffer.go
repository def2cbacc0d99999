package realtime

import (
	"sync"

	"github.com/teamgrid/collab-service/internal/domain"
)

// Buffer is the append-only queue between business operations and the batch
// dispatcher. Record may be called concurrently with Snapshot/Commit; the
// snapshot-then-commit discipline guarantees an event is neither lost nor
// flushed twice: Commit removes exactly the events a successful flush saw,
// and a failed flush commits nothing.
type Buffer struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Record appends one event.
func (b *Buffer) Record(e domain.Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

// Snapshot returns a copy of the currently buffered events without
// consuming them.
func (b *Buffer) Snapshot() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	out := make([]domain.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Commit drops the first n events. Events recorded after the snapshot stay
// queued for the next flush.
func (b *Buffer) Commit(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n >= len(b.events) {
		b.events = nil
		return
	}
	b.events = append([]domain.Event(nil), b.events[n:]...)
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
