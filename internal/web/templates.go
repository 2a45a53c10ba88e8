package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/amirk1998/project-tracker/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// viewData is the envelope every page receives: the session for the
// navbar, the CSRF token for forms, flash messages, and the
// page-specific payload.
type viewData struct {
	Title     string
	Session   *session.Session
	CSRFToken string
	Errors    []string
	Success   string
	Data      any
}

var pageTemplates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	pages := []string{
		"login.html",
		"register.html",
		"projects.html",
		"myprojects.html",
		"project_form.html",
		"profile.html",
		"password.html",
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed[page] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+page))
	}
	return parsed
}

// render writes the page; template failures are logged server-side and
// surfaced only as the generic message.
func (s *Server) render(w http.ResponseWriter, page string, data *viewData) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		log.Printf("unknown template %q", page)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("failed to render %s: %v", page, err)
	}
}

// view builds the common envelope for the request's session.
func (s *Server) view(r *http.Request, title string) *viewData {
	sess := sessionFrom(r)
	data := &viewData{
		Title:   title,
		Session: sess,
	}
	if sess != nil {
		data.CSRFToken = sess.CSRFToken
	}
	return data
}
