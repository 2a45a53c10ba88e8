package service

import (
	"context"
	"strings"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
	"github.com/amirk1998/project-tracker/pkg/validator"
)

// SearchService serves the public browse view over all projects. It is
// deliberately not ownership-scoped; instead, owner identities are
// partially redacted for anonymous viewers.
type SearchService struct {
	projects    ProjectStore
	validator   *validator.Validator
	auditLogger *audit.Logger
}

// NewSearchService creates a new search service
func NewSearchService(projects ProjectStore, auditLogger *audit.Logger) *SearchService {
	return &SearchService{
		projects:    projects,
		validator:   validator.New(),
		auditLogger: auditLogger,
	}
}

// Search applies the optional filters (all bound as parameters by the
// store) and returns projects newest-created first. When the viewer is
// anonymous, owner usernames are masked down to their first character.
func (s *SearchService) Search(ctx context.Context, filters models.SearchFilters, authenticated bool) ([]*models.Project, error) {
	filters.Title = s.validator.SanitizeString(filters.Title)
	filters.Username = s.validator.SanitizeString(filters.Username)
	filters.Phase = s.validator.SanitizeString(filters.Phase)
	filters.StartDate = s.validator.SanitizeString(filters.StartDate)

	projects, err := s.projects.Search(ctx, filters)
	if err != nil {
		s.auditLogger.Log(&audit.Event{
			Level:    audit.LevelError,
			Action:   audit.ActionStorageError,
			Resource: "search",
			Success:  false,
			ErrorMsg: err.Error(),
		})
		return nil, errors.ErrStorage
	}

	if !authenticated {
		for _, p := range projects {
			p.OwnerUsername = RedactUsername(p.OwnerUsername)
		}
	}

	return projects, nil
}

// RedactUsername keeps the first character and masks the remainder,
// limiting what the public view reveals about other users.
func RedactUsername(username string) string {
	runes := []rune(username)
	if len(runes) <= 1 {
		return username
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
