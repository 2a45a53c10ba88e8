// Package web is the HTTP surface of the tracker: session middleware,
// the authentication gate, and the form handlers. Handlers never see
// raw storage errors; those are audited server-side and the client
// only gets a generic message.
package web

import (
	"net/http"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/service"
	"github.com/amirk1998/project-tracker/internal/session"
)

// genericErrorMessage is the only text shown to users for storage
// failures; detail stays in the audit log.
const genericErrorMessage = "Sorry, we're having technical issues. Please try again later."

type Server struct {
	sessions    *session.Manager
	auth        *service.AuthService
	projects    *service.ProjectService
	search      *service.SearchService
	auditLogger *audit.Logger
}

// NewServer creates the HTTP server around its collaborators.
func NewServer(
	sessions *session.Manager,
	auth *service.AuthService,
	projects *service.ProjectService,
	search *service.SearchService,
	auditLogger *audit.Logger,
) *Server {
	return &Server{
		sessions:    sessions,
		auth:        auth,
		projects:    projects,
		search:      search,
		auditLogger: auditLogger,
	}
}

// Routes builds the route table. The login and registration routes are
// exempt from the inactivity redirect; everything under requireAuth is
// a protected route.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.withSession(s.handleHome, false))

	mux.HandleFunc("GET /register", s.withSession(s.handleRegisterForm, true))
	mux.HandleFunc("POST /register", s.withSession(s.handleRegister, true))
	mux.HandleFunc("GET /login", s.withSession(s.handleLoginForm, true))
	mux.HandleFunc("POST /login", s.withSession(s.handleLogin, true))
	mux.HandleFunc("GET /logout", s.withSession(s.handleLogout, false))

	mux.HandleFunc("GET /projects", s.withSession(s.handleProjects, false))

	mux.HandleFunc("GET /myprojects", s.withSession(s.requireAuth(s.handleMyProjects), false))
	mux.HandleFunc("GET /projects/add", s.withSession(s.requireAuth(s.handleAddProjectForm), false))
	mux.HandleFunc("POST /projects/add", s.withSession(s.requireAuth(s.handleAddProject), false))
	mux.HandleFunc("GET /projects/edit", s.withSession(s.requireAuth(s.handleEditProjectForm), false))
	mux.HandleFunc("POST /projects/edit", s.withSession(s.requireAuth(s.handleEditProject), false))
	mux.HandleFunc("GET /projects/delete", s.withSession(s.requireAuth(s.handleDeleteProject), false))

	mux.HandleFunc("GET /profile", s.withSession(s.requireAuth(s.handleProfile), false))
	mux.HandleFunc("GET /password", s.withSession(s.requireAuth(s.handleChangePasswordForm), false))
	mux.HandleFunc("POST /password", s.withSession(s.requireAuth(s.handleChangePassword), false))

	return mux
}

// handleHome sends visitors to the public project list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
