package web

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

const (
	msgSessionExpired    = "Your session has expired. Please log in again."
	msgAccountLocked     = "Account locked due to too many failed logins. Try again later."
	msgBadCredentials    = "Invalid username or password."
	msgTooManyRequests   = "Too many attempts. Please try again later."
	msgDuplicateUser     = "Username or email already exists."
	msgRegisterSucceeded = "Registration successful! You may now log in."
	msgPasswordUpdated   = "Your password has been updated successfully!"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	// Logged-in users go straight to the homepage
	if sessionFrom(r).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := s.view(r, "Login")
	data.Data = &models.LoginRequest{}
	if r.URL.Query().Get("expired") == "true" {
		data.Errors = []string{msgSessionExpired}
	}
	s.render(w, "login.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !s.verifyCSRF(w, r, r.PostFormValue("csrf_token")) {
		return
	}

	req := &models.LoginRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
	}

	user, err := s.auth.Login(r.Context(), req)
	if err != nil {
		data := s.view(r, "Login")
		data.Data = req
		data.Errors = []string{loginErrorMessage(err)}
		s.render(w, "login.html", data)
		return
	}

	s.sessions.Login(sessionFrom(r), user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	switch {
	case goerrors.Is(err, errors.ErrAccountLocked):
		return msgAccountLocked
	case goerrors.Is(err, errors.ErrInvalidCredentials):
		return msgBadCredentials
	case goerrors.Is(err, errors.ErrRateLimitExceeded):
		return msgTooManyRequests
	default:
		return genericErrorMessage
	}
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := s.view(r, "Register")
	data.Data = &models.RegisterRequest{}
	s.render(w, "register.html", data)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !s.verifyCSRF(w, r, r.PostFormValue("csrf_token")) {
		return
	}

	req := &models.RegisterRequest{
		FirstName:       strings.TrimSpace(r.PostFormValue("firstname")),
		LastName:        strings.TrimSpace(r.PostFormValue("lastname")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Password:        strings.TrimSpace(r.PostFormValue("password")),
		ConfirmPassword: strings.TrimSpace(r.PostFormValue("confirm_password")),
	}

	data := s.view(r, "Register")
	data.Data = req

	if _, err := s.auth.Register(r.Context(), req); err != nil {
		if verrs, ok := errors.AsValidation(err); ok {
			data.Errors = verrs.Messages
		} else if goerrors.Is(err, errors.ErrUserAlreadyExists) {
			data.Errors = []string{msgDuplicateUser}
		} else if goerrors.Is(err, errors.ErrRateLimitExceeded) {
			data.Errors = []string{msgTooManyRequests}
		} else {
			data.Errors = []string{genericErrorMessage}
		}
		s.render(w, "register.html", data)
		return
	}

	data.Data = &models.RegisterRequest{}
	data.Success = msgRegisterSucceeded
	s.render(w, "register.html", data)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(w, sessionFrom(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	user, err := s.auth.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	count, err := s.projects.CountMine(r.Context(), sess.UserID)
	if err != nil {
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	data := s.view(r, "Profile")
	data.Data = struct {
		User         *models.User
		ProjectCount int
	}{user, count}
	s.render(w, "profile.html", data)
}

func (s *Server) handleChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	data := s.view(r, "Change Password")
	s.render(w, "password.html", data)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if !s.verifyCSRF(w, r, r.PostFormValue("csrf_token")) {
		return
	}

	req := &models.ChangePasswordRequest{
		CurrentPassword: strings.TrimSpace(r.PostFormValue("current_password")),
		NewPassword:     strings.TrimSpace(r.PostFormValue("new_password")),
		ConfirmPassword: strings.TrimSpace(r.PostFormValue("confirm_new_password")),
	}

	data := s.view(r, "Change Password")

	if err := s.auth.ChangePassword(r.Context(), sessionFrom(r).UserID, req); err != nil {
		if verrs, ok := errors.AsValidation(err); ok {
			data.Errors = verrs.Messages
		} else {
			data.Errors = []string{genericErrorMessage}
		}
		s.render(w, "password.html", data)
		return
	}

	data.Success = msgPasswordUpdated
	s.render(w, "password.html", data)
}
