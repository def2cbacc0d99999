// Package realtime holds the live-session state of the server: channel chat
// sessions, notification push streams, and the event pipeline feeding them.
// All shared collections here are internally synchronized; callers never
// lock around them.
package realtime

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Conn is the transport-level connection a chat session writes to.
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is one authenticated socket in one channel. Created only after a
// successful handshake, removed on close/error. The write mutex keeps the
// single-writer discipline the underlying websocket requires.
type Session struct {
	AccountID   uuid.UUID
	DisplayName string
	ChannelID   string

	conn Conn
	mu   sync.Mutex
}

// NewSession wraps an open connection with the identity it authenticated as.
func NewSession(conn Conn, accountID uuid.UUID, displayName, channelID string) *Session {
	return &Session{
		AccountID:   accountID,
		DisplayName: displayName,
		ChannelID:   channelID,
		conn:        conn,
	}
}

// Send writes one text frame to the session's connection.
func (s *Session) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Registry tracks live sessions grouped by channel. Safe for concurrent
// Add/Remove/Broadcast from many connection handlers.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[*Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[*Session]struct{}),
	}
}

// Add registers the session under its channel.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.channels[s.ChannelID]
	if !ok {
		sessions = make(map[*Session]struct{})
		r.channels[s.ChannelID] = sessions
	}
	sessions[s] = struct{}{}
}

// Remove unregisters the session. The channel entry is dropped when its last
// session leaves so the registry does not accumulate empty channels.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.channels[s.ChannelID]
	if !ok {
		return
	}
	delete(sessions, s)
	if len(sessions) == 0 {
		delete(r.channels, s.ChannelID)
	}
}

// Broadcast delivers payload to every session in the channel except `except`
// (pass nil to deliver to all). It iterates a snapshot, so connects and
// disconnects during delivery neither panic nor reach a removed session.
// A failed send drops only the failing session; delivery continues.
func (r *Registry) Broadcast(channelID string, payload []byte, except *Session) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.channels[channelID]))
	for s := range r.channels[channelID] {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if s == except {
			continue
		}
		if err := s.Send(payload); err != nil {
			log.Printf("[REGISTRY] Dropping session in channel %s after send failure: %v", channelID, err)
			r.Remove(s)
		}
	}
}

// Count returns the number of live sessions in the channel.
func (r *Registry) Count(channelID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[channelID])
}
