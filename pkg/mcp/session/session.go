// Package session tracks the server's active MCP sessions: an in-memory
// table keyed by the transport-minted session id, with lookup-with-touch,
// per-session credential checks, timer-driven idle eviction, and shutdown
// teardown.
package session

import (
	"net/http"
	"time"
)

// Transport is the per-session protocol engine a session owns. The
// dispatcher forwards accepted requests into it; closing it terminates any
// attached stream and fires the transport's closed callback.
type Transport interface {
	SessionID() string
	HandleRequest(w http.ResponseWriter, r *http.Request, body []byte) error
	Close() error
}

// Session binds a session id to the credential that bootstrapped it. A
// continuation request must present the same credential; the upstream
// validator is consulted only once, at bootstrap.
type Session struct {
	ID             string
	Credential     string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	Transport      Transport
}

// IdleFor reports how long the session has gone without an accepted request.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastAccessedAt)
}
