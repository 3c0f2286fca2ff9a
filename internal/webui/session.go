package webui

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "notecards_session"

// busyGuard allows one outstanding generation per session.
type busyGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newBusyGuard() *busyGuard {
	return &busyGuard{busy: make(map[string]struct{})}
}

// acquire marks id busy. It returns false if id already has a request running.
func (g *busyGuard) acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[id]; ok {
		return false
	}
	g.busy[id] = struct{}{}
	return true
}

func (g *busyGuard) release(id string) {
	g.mu.Lock()
	delete(g.busy, id)
	g.mu.Unlock()
}

// sessionID returns the caller's session id, issuing a new cookie when absent or malformed.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
