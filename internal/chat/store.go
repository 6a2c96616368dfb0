// Package chat holds the client-side session state and the send state
// machine that drives it.
package chat

import (
	"context"
	"sync"

	"github.com/diogo/docchat/internal/api"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

// SessionStore tracks the session list and the active session's timeline.
// The list keeps the server's ordering; it is never re-sorted locally.
// Rename and delete go through the server first and then reload the
// canonical list, so the local copy is never patched ahead of an
// acknowledgment. A single mutex serializes all mutations, so overlapping
// rename and delete calls settle in call order.
type SessionStore struct {
	client api.ClientInterface

	mu       sync.Mutex
	sessions []models.Session
	total    int
	activeID string
	timeline []models.Message
}

// NewSessionStore creates a store backed by the given client
func NewSessionStore(client api.ClientInterface) *SessionStore {
	return &SessionStore{client: client}
}

// Refresh reloads the session list from the server
func (s *SessionStore) Refresh(ctx context.Context) error {
	list, err := s.client.ListSessions(ctx, 0, 100)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions = list.Sessions
	s.total = list.Total
	s.mu.Unlock()
	return nil
}

// Sessions returns the session list in server order
func (s *SessionStore) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Total returns the server-reported session count
func (s *SessionStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ActiveID returns the active session id, empty when no session is active
func (s *SessionStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Timeline returns the active session's messages, pending entries included
func (s *SessionStore) Timeline() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.timeline))
	copy(out, s.timeline)
	return out
}

// Activate switches to the given session and reloads its timeline from the
// server. Switching away discards any unconfirmed state of the previous
// session. Activating the already-active session is a no-op.
func (s *SessionStore) Activate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apierrors.ErrSessionNotFound
	}

	s.mu.Lock()
	if s.activeID == sessionID {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	messages, err := s.client.ListMessages(ctx, sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.activeID = sessionID
	s.timeline = messages
	s.mu.Unlock()
	return nil
}

// Clear drops the active session and its timeline, returning to the fresh
// empty state used before the first send.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.activeID = ""
	s.timeline = nil
	s.mu.Unlock()
}

// Rename changes a session's title. The local list is refreshed from the
// server after the rename is acknowledged, never patched in place.
func (s *SessionStore) Rename(ctx context.Context, sessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.RenameSession(ctx, sessionID, title); err != nil {
		return err
	}
	return s.reloadLocked(ctx)
}

// Delete removes a session. When the deleted session is active, the active
// session and timeline are cleared before the list reload, so no reader
// observes an active id that no longer exists.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	if s.activeID == sessionID {
		s.activeID = ""
		s.timeline = nil
	}
	return s.reloadLocked(ctx)
}

func (s *SessionStore) reloadLocked(ctx context.Context) error {
	list, err := s.client.ListSessions(ctx, 0, 100)
	if err != nil {
		return err
	}
	s.sessions = list.Sessions
	s.total = list.Total
	return nil
}

// insertPending appends an optimistic user message and returns its id
func (s *SessionStore) insertPending(msg models.Message) string {
	msg.Pending = true
	s.mu.Lock()
	s.timeline = append(s.timeline, msg)
	s.mu.Unlock()
	return msg.ID
}

// confirm marks the pending message as server-confirmed and appends the
// assistant reply. When the send created a new session server-side, the
// returned session id becomes active.
func (s *SessionStore) confirm(pendingID, sessionID string, assistant models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.timeline {
		if s.timeline[i].ID == pendingID {
			s.timeline[i].Pending = false
			break
		}
	}
	if s.activeID == "" {
		s.activeID = sessionID
	}
	s.timeline = append(s.timeline, assistant)
}

// rollback removes the pending message, leaving the timeline exactly as it
// was before the send started.
func (s *SessionStore) rollback(pendingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.timeline {
		if s.timeline[i].ID == pendingID {
			s.timeline = append(s.timeline[:i], s.timeline[i+1:]...)
			return
		}
	}
}
