package web

import (
	"context"
	"net/http"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession resolves the request's session before anything else runs.
// A session idle past the inactivity limit is destroyed and the visitor
// is sent to the login page with the expired indicator; the login and
// registration routes are exempt.
func (s *Server) withSession(next http.HandlerFunc, exempt bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, expired, err := s.sessions.LoadOrCreate(w, r, exempt)
		if err != nil {
			http.Error(w, genericErrorMessage, http.StatusInternalServerError)
			return
		}

		if expired {
			http.Redirect(w, r, "/login?expired=true", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next(w, r.WithContext(ctx))
	}
}

// requireAuth is the access-control gate for protected routes: no
// authenticated identity means a redirect to login, with no partial
// rendering.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if sess == nil || !sess.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// sessionFrom pulls the session placed in the context by withSession.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}

// verifyCSRF compares the submitted token against the session's token
// and aborts the request outright on mismatch, before any state change.
// It returns false when the request has already been answered.
func (s *Server) verifyCSRF(w http.ResponseWriter, r *http.Request, submitted string) bool {
	sess := sessionFrom(r)
	if sess == nil || !s.sessions.VerifyCSRF(sess, submitted) {
		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelWarning,
			Action:   audit.ActionCSRFMismatch,
			Resource: "web",
			Success:  false,
			Metadata: r.URL.Path,
		})
		http.Error(w, "Invalid CSRF token.", http.StatusForbidden)
		return false
	}
	return true
}
