package web

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
	"github.com/amirk1998/project-tracker/pkg/validator"
)

const (
	msgProjectAdded    = "Project added successfully!"
	msgProjectUpdated  = "Project updated successfully!"
	msgProjectDeleted  = "Project deleted successfully."
	msgProjectNotFound = "Project not found."
)

// projectFormData is the payload for the shared add/edit form template.
type projectFormData struct {
	Heading   string
	Action    string
	Submit    string
	ProjectID int
	Form      *models.ProjectForm
	Phases    []models.Phase
}

// handleProjects is the public browse view: optional filters, all
// bound as parameters, owner usernames redacted for guests.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.SearchFilters{
		Title:     q.Get("searchTitle"),
		Username:  q.Get("searchUsername"),
		Phase:     q.Get("searchPhase"),
		StartDate: q.Get("searchStartDate"),
	}

	sess := sessionFrom(r)
	data := s.view(r, "View Projects")
	payload := struct {
		Projects []*models.Project
		Filters  models.SearchFilters
		Phases   []models.Phase
	}{Filters: filters, Phases: models.Phases}

	projects, err := s.search.Search(r.Context(), filters, sess.Authenticated())
	if err != nil {
		data.Errors = []string{genericErrorMessage}
	} else {
		payload.Projects = projects
	}

	data.Data = payload
	s.render(w, "projects.html", data)
}

func (s *Server) handleMyProjects(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	data := s.view(r, "My Projects")

	// Flash indicators from the delete redirect
	q := r.URL.Query()
	if q.Get("deleted") == "1" {
		data.Success = msgProjectDeleted
	}
	switch q.Get("error") {
	case "noproject":
		data.Errors = []string{"No project selected."}
	case "notfound":
		data.Errors = []string{msgProjectNotFound}
	case "db":
		data.Errors = []string{genericErrorMessage}
	}

	projects, err := s.projects.ListMine(r.Context(), sess.UserID)
	if err != nil {
		data.Errors = append(data.Errors, genericErrorMessage)
	}

	data.Data = struct {
		Projects []*models.Project
	}{projects}
	s.render(w, "myprojects.html", data)
}

func (s *Server) handleAddProjectForm(w http.ResponseWriter, r *http.Request) {
	data := s.view(r, "Add Project")
	data.Data = projectFormData{
		Heading: "Add a New Project",
		Action:  "/projects/add",
		Submit:  "Add Project",
		Form:    &models.ProjectForm{},
		Phases:  models.Phases,
	}
	s.render(w, "project_form.html", data)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	if !s.verifyCSRF(w, r, r.PostFormValue("csrf_token")) {
		return
	}

	form := parseProjectForm(r)
	data := s.view(r, "Add Project")
	payload := projectFormData{
		Heading: "Add a New Project",
		Action:  "/projects/add",
		Submit:  "Add Project",
		Form:    form,
		Phases:  models.Phases,
	}

	if _, err := s.projects.Create(r.Context(), sessionFrom(r).UserID, form); err != nil {
		data.Errors = formErrorMessages(err)
		data.Data = payload
		s.render(w, "project_form.html", data)
		return
	}

	payload.Form = &models.ProjectForm{}
	data.Data = payload
	data.Success = msgProjectAdded
	s.render(w, "project_form.html", data)
}

func (s *Server) handleEditProjectForm(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseProjectID(r.URL.Query().Get("pid"))
	if !ok {
		http.Error(w, "No project selected.", http.StatusBadRequest)
		return
	}

	project, err := s.projects.Get(r.Context(), sessionFrom(r).UserID, projectID)
	if err != nil {
		if goerrors.Is(err, errors.ErrProjectNotFound) {
			http.Error(w, msgProjectNotFound, http.StatusNotFound)
			return
		}
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	form := &models.ProjectForm{
		Title:            project.Title,
		ShortDescription: project.ShortDescription,
		StartDate:        project.StartDate.Format(validator.DateLayout),
		Phase:            string(project.Phase),
	}
	if project.EndDate != nil {
		form.EndDate = project.EndDate.Format(validator.DateLayout)
	}

	data := s.view(r, "Edit Project")
	data.Data = projectFormData{
		Heading:   "Edit Project",
		Action:    "/projects/edit",
		Submit:    "Save Changes",
		ProjectID: project.ID,
		Form:      form,
		Phases:    models.Phases,
	}
	s.render(w, "project_form.html", data)
}

func (s *Server) handleEditProject(w http.ResponseWriter, r *http.Request) {
	if !s.verifyCSRF(w, r, r.PostFormValue("csrf_token")) {
		return
	}

	projectID, ok := parseProjectID(r.PostFormValue("pid"))
	if !ok {
		http.Error(w, "No project selected.", http.StatusBadRequest)
		return
	}

	form := parseProjectForm(r)
	data := s.view(r, "Edit Project")
	payload := projectFormData{
		Heading:   "Edit Project",
		Action:    "/projects/edit",
		Submit:    "Save Changes",
		ProjectID: projectID,
		Form:      form,
		Phases:    models.Phases,
	}
	data.Data = payload

	if _, err := s.projects.Update(r.Context(), sessionFrom(r).UserID, projectID, form); err != nil {
		if goerrors.Is(err, errors.ErrProjectNotFound) {
			http.Error(w, msgProjectNotFound, http.StatusNotFound)
			return
		}
		data.Errors = formErrorMessages(err)
		s.render(w, "project_form.html", data)
		return
	}

	data.Success = msgProjectUpdated
	s.render(w, "project_form.html", data)
}

// handleDeleteProject deletes via the confirmation link. The link
// carries the CSRF token as a query parameter (see DESIGN.md); it is
// verified before any persistence call runs.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	projectID, ok := parseProjectID(q.Get("pid"))
	if !ok {
		http.Redirect(w, r, "/myprojects?error=noproject", http.StatusSeeOther)
		return
	}

	if !s.verifyCSRF(w, r, q.Get("csrf")) {
		return
	}

	err := s.projects.Delete(r.Context(), sessionFrom(r).UserID, projectID)
	switch {
	case err == nil:
		http.Redirect(w, r, "/myprojects?deleted=1", http.StatusSeeOther)
	case goerrors.Is(err, errors.ErrProjectNotFound):
		http.Redirect(w, r, "/myprojects?error=notfound", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/myprojects?error=db", http.StatusSeeOther)
	}
}

func parseProjectForm(r *http.Request) *models.ProjectForm {
	return &models.ProjectForm{
		Title:            r.PostFormValue("title"),
		ShortDescription: r.PostFormValue("short_description"),
		StartDate:        r.PostFormValue("start_date"),
		EndDate:          r.PostFormValue("end_date"),
		Phase:            r.PostFormValue("phase"),
	}
}

func parseProjectID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formErrorMessages turns a service error into the messages shown above
// the form: the full ordered rule list for validation failures, the
// generic message for anything internal.
func formErrorMessages(err error) []string {
	if verrs, ok := errors.AsValidation(err); ok {
		return verrs.Messages
	}
	return []string{genericErrorMessage}
}
