package service

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
	"github.com/amirk1998/project-tracker/pkg/validator"
)

// ProjectStore is the storage surface for project records. Every
// mutating method is owner-scoped at the query level.
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	GetByIDForOwner(ctx context.Context, projectID, userID int) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, projectID, userID int) error
	ListByOwner(ctx context.Context, userID int) ([]*models.Project, error)
	CountByOwner(ctx context.Context, userID int) (int, error)
	Search(ctx context.Context, filters models.SearchFilters) ([]*models.Project, error)
}

// ProjectService validates and persists project changes. Ownership is
// enforced twice: the handlers only pass the session's identity in, and
// the store binds that identity into every mutating WHERE clause.
type ProjectService struct {
	projects    ProjectStore
	validator   *validator.Validator
	auditLogger *audit.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projects ProjectStore, auditLogger *audit.Logger) *ProjectService {
	return &ProjectService{
		projects:    projects,
		validator:   validator.New(),
		auditLogger: auditLogger,
	}
}

// Create validates the form and persists a new project owned by userID.
// On validation failure every violated rule is returned in order and
// nothing is written.
func (s *ProjectService) Create(ctx context.Context, userID int, form *models.ProjectForm) (*models.Project, error) {
	s.sanitize(form)

	start, end, verrs := s.validator.ValidateProject(form)
	if verrs.HasErrors() {
		return nil, verrs
	}

	project := &models.Project{
		UserID:           userID,
		Title:            form.Title,
		ShortDescription: form.ShortDescription,
		StartDate:        start,
		EndDate:          end,
		Phase:            models.Phase(form.Phase),
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logStorageError(&userID, err)
		return nil, errors.ErrStorage
	}

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &userID,
		Action:   audit.ActionProjectCreated,
		Resource: "projects",
		Success:  true,
		Metadata: fmt.Sprintf("pid=%d", project.ID),
	})

	return project, nil
}

// Get fetches a single project scoped to its owner. A missing record
// and someone else's record are the same not-found outcome.
func (s *ProjectService) Get(ctx context.Context, userID, projectID int) (*models.Project, error) {
	project, err := s.projects.GetByIDForOwner(ctx, projectID, userID)
	if err != nil {
		if goerrors.Is(err, errors.ErrProjectNotFound) {
			return nil, err
		}
		s.logStorageError(&userID, err)
		return nil, errors.ErrStorage
	}
	return project, nil
}

// Update revalidates all fields and rewrites the record. The store
// binds both project ID and owner, so a mismatched owner updates zero
// rows and reports not-found.
func (s *ProjectService) Update(ctx context.Context, userID, projectID int, form *models.ProjectForm) (*models.Project, error) {
	s.sanitize(form)

	start, end, verrs := s.validator.ValidateProject(form)
	if verrs.HasErrors() {
		return nil, verrs
	}

	project := &models.Project{
		ID:               projectID,
		UserID:           userID,
		Title:            form.Title,
		ShortDescription: form.ShortDescription,
		StartDate:        start,
		EndDate:          end,
		Phase:            models.Phase(form.Phase),
	}

	if err := s.projects.Update(ctx, project); err != nil {
		if goerrors.Is(err, errors.ErrProjectNotFound) {
			return nil, err
		}
		s.logStorageError(&userID, err)
		return nil, errors.ErrStorage
	}

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &userID,
		Action:   audit.ActionProjectUpdated,
		Resource: "projects",
		Success:  true,
		Metadata: fmt.Sprintf("pid=%d", projectID),
	})

	return project, nil
}

// Delete removes a project in a single owner-scoped statement. Zero
// affected rows (wrong ID or wrong owner) is not-found, not an error.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID int) error {
	if err := s.projects.Delete(ctx, projectID, userID); err != nil {
		if goerrors.Is(err, errors.ErrProjectNotFound) {
			return err
		}
		s.logStorageError(&userID, err)
		return errors.ErrStorage
	}

	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelInfo,
		UserID:   &userID,
		Action:   audit.ActionProjectDeleted,
		Resource: "projects",
		Success:  true,
		Metadata: fmt.Sprintf("pid=%d", projectID),
	})

	return nil
}

// ListMine returns the session user's projects, newest start date
// first.
func (s *ProjectService) ListMine(ctx context.Context, userID int) ([]*models.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		s.logStorageError(&userID, err)
		return nil, errors.ErrStorage
	}
	return projects, nil
}

// CountMine returns how many projects the user owns, for the profile
// page.
func (s *ProjectService) CountMine(ctx context.Context, userID int) (int, error) {
	count, err := s.projects.CountByOwner(ctx, userID)
	if err != nil {
		s.logStorageError(&userID, err)
		return 0, errors.ErrStorage
	}
	return count, nil
}

func (s *ProjectService) sanitize(form *models.ProjectForm) {
	form.Title = s.validator.SanitizeString(form.Title)
	form.ShortDescription = s.validator.SanitizeString(form.ShortDescription)
	form.StartDate = s.validator.SanitizeString(form.StartDate)
	form.EndDate = s.validator.SanitizeString(form.EndDate)
	form.Phase = s.validator.SanitizeString(form.Phase)
}

func (s *ProjectService) logStorageError(userID *int, err error) {
	s.auditLogger.Log(&audit.Event{
		Level:    audit.LevelError,
		UserID:   userID,
		Action:   audit.ActionStorageError,
		Resource: "projects",
		Success:  false,
		ErrorMsg: err.Error(),
	})
}
