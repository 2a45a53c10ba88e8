// Package session holds the server-side per-visitor state: an opaque
// identifier propagated through a cookie, the authenticated identity if
// any, a per-session CSRF token, and the last-activity timestamp used
// for passive inactivity expiry.
package session

import (
	"time"
)

type Session struct {
	ID           string
	UserID       int // 0 = anonymous
	Username     string
	FirstName    string
	CSRFToken    string
	LastActivity time.Time
}

// Authenticated reports whether a user identity is attached.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}
