// Package chat answers follow-up questions about an extracted statement.
// Each upload gets its own session keyed by an opaque ID, so concurrent
// users never share conversation state.
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jerusan/FinSight/internal/domain"
)

var (
	// ErrSessionNotFound means no session exists for the given ID.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrSessionExpired means the session existed but its TTL elapsed.
	ErrSessionExpired = errors.New("chat session expired")
)

// Turn is one utterance in a conversation. Role values match the model's
// wire contract ("user" / "model").
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Session binds one finalized statement to one conversation.
type Session struct {
	ID         string
	Statement  domain.BankStatement
	History    []Turn
	CreatedAt  time.Time
	LastActive time.Time
	ExpiresAt  time.Time
}

// Registry holds active chat sessions. Safe for concurrent use. Lookups
// slide the expiry forward, so a session stays alive while it is in use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewRegistry creates a registry whose sessions expire after ttl of
// inactivity.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session for the given statement and returns it.
func (r *Registry) Create(stmt domain.BankStatement) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session := &Session{
		ID:         uuid.NewString(),
		Statement:  stmt,
		CreatedAt:  now,
		LastActive: now,
		ExpiresAt:  now.Add(r.ttl),
	}
	r.sessions[session.ID] = session
	return snapshot(session)
}

// Get returns a snapshot of the session with the given ID, touching its
// activity time. Expired sessions are removed on access.
func (r *Registry) Get(sessionID string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		delete(r.sessions, sessionID)
		return Session{}, ErrSessionExpired
	}

	session.LastActive = now
	session.ExpiresAt = now.Add(r.ttl)
	return snapshot(session), nil
}

// AppendExchange records a question/answer pair on the session's history.
// A missing session is not an error here: it may have expired between the
// agent call and the append, and the answer was already delivered.
func (r *Registry) AppendExchange(sessionID, question, answer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	session.History = append(session.History,
		Turn{Role: RoleUser, Text: question},
		Turn{Role: RoleModel, Text: answer},
	)
}

// Delete removes a session.
func (r *Registry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// CleanupExpired removes every expired session and reports how many were
// dropped. Intended to run periodically from the server.
func (r *Registry) CleanupExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, session := range r.sessions {
		if now.After(session.ExpiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// snapshot copies a session so callers never share the registry's mutable
// state.
func snapshot(s *Session) Session {
	copied := *s
	copied.History = append([]Turn(nil), s.History...)
	return copied
}
