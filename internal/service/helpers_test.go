package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

// newTestAuditLogger builds a real audit logger over a mocked database
// and a throwaway file. Event inserts fail against the mock; the logger
// tolerates that and keeps writing the file, which is all the tests
// need.
func newTestAuditLogger(t *testing.T) *audit.Logger {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_log").
		WillReturnResult(sqlmock.NewResult(0, 0))

	logger, err := audit.NewLogger(db, filepath.Join(t.TempDir(), "audit.log"), false)
	require.NoError(t, err)

	t.Cleanup(func() {
		logger.Close()
		db.Close()
	})
	return logger
}

// fakeUserStore is an in-memory UserStore recording every mutating call.
type fakeUserStore struct {
	users map[string]*models.User

	createErr error
	getErr    error

	created       []*models.User
	recordCalls   []int
	resetCalls    []int
	updatedHash   map[int]string
	updateHashErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:       make(map[string]*models.User),
		updatedHash: make(map[int]string),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = len(s.users) + 1
	s.users[user.Username] = user
	s.created = append(s.created, user)
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, errors.ErrUserNotFound
}

func (s *fakeUserStore) RecordFailedAttempt(ctx context.Context, userID int) error {
	s.recordCalls = append(s.recordCalls, userID)
	return nil
}

func (s *fakeUserStore) ResetFailedAttempts(ctx context.Context, userID int) error {
	s.resetCalls = append(s.resetCalls, userID)
	for _, u := range s.users {
		if u.ID == userID {
			u.FailedAttempts = 0
		}
	}
	return nil
}

func (s *fakeUserStore) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	if s.updateHashErr != nil {
		return s.updateHashErr
	}
	s.updatedHash[userID] = hash
	for _, u := range s.users {
		if u.ID == userID {
			u.PasswordHash = hash
		}
	}
	return nil
}

// fakeProjectStore is an in-memory ProjectStore recording calls.
type fakeProjectStore struct {
	projects map[int]*models.Project
	nextID   int

	createErr error
	storeErr  error

	searchResult  []*models.Project
	searchFilters models.SearchFilters
	deleteCalls   [][2]int // projectID, userID
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects: make(map[int]*models.Project),
		nextID:   1,
	}
}

func (s *fakeProjectStore) Create(ctx context.Context, project *models.Project) error {
	if s.createErr != nil {
		return s.createErr
	}
	project.ID = s.nextID
	s.nextID++
	s.projects[project.ID] = project
	return nil
}

func (s *fakeProjectStore) GetByIDForOwner(ctx context.Context, projectID, userID int) (*models.Project, error) {
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	p, ok := s.projects[projectID]
	if !ok || p.UserID != userID {
		return nil, errors.ErrProjectNotFound
	}
	return p, nil
}

func (s *fakeProjectStore) Update(ctx context.Context, project *models.Project) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	existing, ok := s.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return errors.ErrProjectNotFound
	}
	s.projects[project.ID] = project
	return nil
}

func (s *fakeProjectStore) Delete(ctx context.Context, projectID, userID int) error {
	s.deleteCalls = append(s.deleteCalls, [2]int{projectID, userID})
	if s.storeErr != nil {
		return s.storeErr
	}
	p, ok := s.projects[projectID]
	if !ok || p.UserID != userID {
		return errors.ErrProjectNotFound
	}
	delete(s.projects, projectID)
	return nil
}

func (s *fakeProjectStore) ListByOwner(ctx context.Context, userID int) ([]*models.Project, error) {
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	var out []*models.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) CountByOwner(ctx context.Context, userID int) (int, error) {
	if s.storeErr != nil {
		return 0, s.storeErr
	}
	list, _ := s.ListByOwner(ctx, userID)
	return len(list), nil
}

func (s *fakeProjectStore) Search(ctx context.Context, filters models.SearchFilters) ([]*models.Project, error) {
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	s.searchFilters = filters
	return s.searchResult, nil
}
