package domain

import (
	"fmt"
	"time"
)

// SessionState represents the lifecycle state of a session.
type SessionState string

const (
	// SessionStateRunning indicates the session is currently active.
	SessionStateRunning SessionState = "running"

	// SessionStateClosed indicates the session has been shut down.
	SessionStateClosed SessionState = "closed"
)

// String returns the string representation of the session state.
func (s SessionState) String() string { return string(s) }

// IsValid reports whether the state is a recognized session state.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateRunning, SessionStateClosed:
		return true
	}
	return false
}

// SessionKind distinguishes what a session is attached to.
type SessionKind string

const (
	// SessionKindDocument is a session backing an open document widget.
	SessionKindDocument SessionKind = "document"

	// SessionKindConsole is a scratch session not bound to a document.
	SessionKindConsole SessionKind = "console"
)

// IsValid reports whether the kind is recognized.
func (k SessionKind) IsValid() bool {
	return k == SessionKindDocument || k == SessionKindConsole
}

// Session is a tracked association between a client widget and a workspace
// resource. Fields are unexported to enforce encapsulation.
type Session struct {
	id        int64
	guid      string
	kind      SessionKind
	path      string
	state     SessionState
	createdAt time.Time
	updatedAt time.Time
	closedAt  *time.Time
}

// NewSession creates a running session with the given identity.
func NewSession(guid string, kind SessionKind, path string) *Session {
	now := time.Now()
	return &Session{
		guid:      guid,
		kind:      kind,
		path:      path,
		state:     SessionStateRunning,
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateSession reconstructs a session from persisted state.
// Intended for repository implementations only.
func RehydrateSession(id int64, guid string, kind SessionKind, path string, state SessionState, createdAt, updatedAt time.Time, closedAt *time.Time) *Session {
	return &Session{
		id:        id,
		guid:      guid,
		kind:      kind,
		path:      path,
		state:     state,
		createdAt: createdAt,
		updatedAt: updatedAt,
		closedAt:  closedAt,
	}
}

func (s *Session) ID() int64            { return s.id }
func (s *Session) GUID() string         { return s.guid }
func (s *Session) Kind() SessionKind    { return s.kind }
func (s *Session) Path() string         { return s.path }
func (s *Session) State() SessionState  { return s.state }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }
func (s *Session) ClosedAt() *time.Time { return s.closedAt }

// SetID assigns the database id after the first save.
// Intended for repository implementations only.
func (s *Session) SetID(id int64) { s.id = id }

// Close transitions the session to the closed state. Closing a closed
// session is a no-op.
func (s *Session) Close() {
	if s.state == SessionStateClosed {
		return
	}
	now := time.Now()
	s.state = SessionStateClosed
	s.closedAt = &now
	s.updatedAt = now
}

// SessionNotFoundError indicates no session exists with a GUID.
type SessionNotFoundError struct {
	GUID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.GUID)
}
