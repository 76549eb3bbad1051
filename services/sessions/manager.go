// Package sessions assigns every browser a visitor id and keeps its
// in-memory application state.
package sessions

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"streamhub/models"
)

const (
	CookieName = "streamhub_session"
	// cookieMaxAge keeps the visitor id, and so its persisted watchlist, for a year.
	cookieMaxAge = 365 * 24 * time.Hour
)

// Session is one visitor and its application state.
type Session[T any] struct {
	Visitor models.Visitor
	State   T
}

type entry[T any] struct {
	session *Session[T]
	expires time.Time
}

// Manager holds the sessions of all visitors. Idle sessions expire after ttl;
// a returning visitor keeps its id and gets a fresh state.
type Manager[T any] struct {
	mu       sync.Mutex
	sessions map[string]*entry[T]
	ttl      time.Duration
	newState func() T
	now      func() time.Time
	secure   bool
}

// NewManager returns a manager creating states with newState.
func NewManager[T any](ttl time.Duration, newState func() T) *Manager[T] {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager[T]{
		sessions: make(map[string]*entry[T]),
		ttl:      ttl,
		newState: newState,
		now:      time.Now,
	}
}

// SetSecureCookies marks issued cookies Secure.
func (m *Manager[T]) SetSecureCookies(secure bool) {
	m.secure = secure
}

// Get returns the live session of id and extends its expiry.
func (m *Manager[T]) Get(id string) (*Session[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if !e.expires.After(now) {
		delete(m.sessions, id)
		return nil, false
	}
	e.expires = now.Add(m.ttl)
	e.session.Visitor.SeenAt = now
	return e.session, true
}

// Open returns the session of id, creating it when missing or expired.
// An empty or malformed id gets a new random one.
func (m *Manager[T]) Open(id string) *Session[T] {
	if parsed, err := uuid.Parse(id); err == nil {
		id = parsed.String()
		if s, ok := m.Get(id); ok {
			return s
		}
	} else {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.sessions[id]; ok && e.expires.After(now) {
		return e.session
	}
	s := &Session[T]{
		Visitor: models.Visitor{ID: id, CreatedAt: now, SeenAt: now},
		State:   m.newState(),
	}
	m.sessions[id] = &entry[T]{session: s, expires: now.Add(m.ttl)}

	for key, e := range m.sessions {
		if !e.expires.After(now) {
			delete(m.sessions, key)
		}
	}
	return s
}

// Resolve returns the session named by the request cookie, issuing a cookie
// when the request had none or an invalid one.
func (m *Manager[T]) Resolve(w http.ResponseWriter, r *http.Request) *Session[T] {
	var id string
	if cookie, err := r.Cookie(CookieName); err == nil {
		id = cookie.Value
	}
	s := m.Open(id)
	if s.Visitor.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    s.Visitor.ID,
			Path:     "/",
			MaxAge:   int(cookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// Len returns the number of live sessions.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
