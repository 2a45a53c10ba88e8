package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/internal/security"
)

// Manager loads or creates the session for each request and applies the
// inactivity policy.
type Manager struct {
	store           Store
	cookieName      string
	inactivityLimit time.Duration

	// now is swappable for tests
	now func() time.Time
}

func NewManager(store Store, cookieName string, inactivityLimit time.Duration) *Manager {
	return &Manager{
		store:           store,
		cookieName:      cookieName,
		inactivityLimit: inactivityLimit,
		now:             time.Now,
	}
}

// LoadOrCreate resolves the request's session. With no valid cookie a
// fresh anonymous session is created with a new CSRF token. An existing
// session idle past the inactivity limit is destroyed and replaced by a
// fresh one, and expired=true tells the caller to redirect to the login
// page, unless exempt is set (the login and registration routes, where
// a timed-out visitor is already in the right place).
func (m *Manager) LoadOrCreate(w http.ResponseWriter, r *http.Request, exempt bool) (sess *Session, expired bool, err error) {
	cookie, cookieErr := r.Cookie(m.cookieName)
	if cookieErr == nil {
		if existing, ok := m.store.Get(cookie.Value); ok {
			if !exempt && m.now().Sub(existing.LastActivity) > m.inactivityLimit {
				m.store.Delete(existing.ID)

				fresh, err := m.create(w)
				if err != nil {
					return nil, false, err
				}
				return fresh, true, nil
			}

			existing.LastActivity = m.now()
			m.store.Put(existing.ID, existing)
			return existing, false, nil
		}
	}

	fresh, err := m.create(w)
	if err != nil {
		return nil, false, err
	}
	return fresh, false, nil
}

// create builds a fresh anonymous session and sets its cookie.
func (m *Manager) create(w http.ResponseWriter) (*Session, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF token: %w", err)
	}

	sess := &Session{
		ID:           uuid.NewString(),
		CSRFToken:    token,
		LastActivity: m.now(),
	}

	m.store.Put(sess.ID, sess)
	m.setCookie(w, sess.ID, 0)

	return sess, nil
}

// Login attaches the user identity to the session.
func (m *Manager) Login(sess *Session, user *models.User) {
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.FirstName = user.FirstName
	sess.LastActivity = m.now()
	m.store.Put(sess.ID, sess)
}

// Logout destroys the server-side session and expires the cookie.
func (m *Manager) Logout(w http.ResponseWriter, sess *Session) {
	m.store.Delete(sess.ID)
	m.setCookie(w, "", -1)
}

// VerifyCSRF compares the submitted token against the session's token
// byte-for-byte in constant time. A mismatch must abort the request
// before any state change.
func (m *Manager) VerifyCSRF(sess *Session, submitted string) bool {
	if sess.CSRFToken == "" || submitted == "" {
		return false
	}
	return security.TokensEqual(sess.CSRFToken, submitted)
}

func (m *Manager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
