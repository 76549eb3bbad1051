package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type counterState struct {
	n int
}

func newTestManager(ttl time.Duration) (*Manager[*counterState], *time.Time) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(ttl, func() *counterState { return &counterState{} })
	m.now = func() time.Time { return clock }
	return m, &clock
}

func TestResolveIssuesCookieOnce(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	rec := httptest.NewRecorder()
	s := m.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != s.Visitor.ID {
		t.Fatalf("expected session cookie for %q, got %+v", s.Visitor.ID, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}

	s.State.n = 3

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	again := m.Resolve(rec, req)
	if again != s {
		t.Fatalf("expected the same session to be returned")
	}
	if again.State.n != 3 {
		t.Fatalf("expected state to persist between requests")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie for a known visitor")
	}
}

func TestResolveReplacesMalformedCookie(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	s := m.Resolve(rec, req)

	if s.Visitor.ID == "not-a-uuid" {
		t.Fatalf("expected a fresh visitor id")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a replacement cookie")
	}
}

func TestExpiredSessionKeepsVisitorID(t *testing.T) {
	m, clock := newTestManager(time.Hour)

	first := m.Open("")
	first.State.n = 7
	id := first.Visitor.ID

	*clock = clock.Add(2 * time.Hour)

	if _, ok := m.Get(id); ok {
		t.Fatalf("expected session to have expired")
	}
	second := m.Open(id)
	if second.Visitor.ID != id {
		t.Fatalf("expected visitor id %q to be kept, got %q", id, second.Visitor.ID)
	}
	if second.State.n != 0 {
		t.Fatalf("expected a fresh state after expiry")
	}
}

func TestOpenEvictsExpiredSessions(t *testing.T) {
	m, clock := newTestManager(time.Minute)

	m.Open("")
	m.Open("")
	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}

	*clock = clock.Add(time.Hour)
	m.Open("")
	if m.Len() != 1 {
		t.Fatalf("expected expired sessions to be evicted, got %d", m.Len())
	}
}

func TestGetExtendsExpiry(t *testing.T) {
	m, clock := newTestManager(time.Hour)
	s := m.Open("")

	for i := 0; i < 3; i++ {
		*clock = clock.Add(50 * time.Minute)
		if _, ok := m.Get(s.Visitor.ID); !ok {
			t.Fatalf("expected session to stay alive while in use (step %d)", i)
		}
	}
}
