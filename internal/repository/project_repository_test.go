package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

func newProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProjectRepository(db), mock
}

var projectColumns = []string{
	"pid", "uid", "title", "short_description", "start_date", "end_date",
	"phase", "created_at", "updated_at",
}

func projectRow(rows *sqlmock.Rows, p *models.Project) *sqlmock.Rows {
	var endDate interface{}
	if p.EndDate != nil {
		endDate = *p.EndDate
	}
	return rows.AddRow(
		p.ID, p.UserID, p.Title, p.ShortDescription, p.StartDate, endDate,
		p.Phase, p.CreatedAt, p.UpdatedAt,
	)
}

func sampleProject() *models.Project {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &models.Project{
		ID:               3,
		UserID:           7,
		Title:            "Website redesign",
		ShortDescription: "Refresh the marketing site.",
		StartDate:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:          &end,
		Phase:            models.PhaseDesign,
	}
}

func TestProjectCreate(t *testing.T) {
	repo, mock := newProjectRepo(t)
	p := sampleProject()
	p.ID = 0

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO projects`)).
		WithArgs(7, p.Title, p.ShortDescription, p.StartDate, p.EndDate,
			p.Phase, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, 3, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForOwner_BindsBothKeys(t *testing.T) {
	repo, mock := newProjectRepo(t)
	p := sampleProject()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pid = ? AND uid = ?`)).
		WithArgs(3, 7).
		WillReturnRows(projectRow(sqlmock.NewRows(projectColumns), p))

	got, err := repo.GetByIDForOwner(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForOwner_WrongOwnerIsNotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pid = ? AND uid = ?`)).
		WithArgs(3, 99).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := repo.GetByIDForOwner(context.Background(), 3, 99)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestProjectUpdate_OwnerBound(t *testing.T) {
	repo, mock := newProjectRepo(t)
	p := sampleProject()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE pid = ? AND uid = ?`)).
		WithArgs(p.Title, p.ShortDescription, p.StartDate, p.EndDate, p.Phase,
			sqlmock.AnyArg(), 3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectUpdate_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)
	p := sampleProject()
	p.UserID = 99

	mock.ExpectExec(regexp.QuoteMeta(`WHERE pid = ? AND uid = ?`)).
		WithArgs(p.Title, p.ShortDescription, p.StartDate, p.EndDate, p.Phase,
			sqlmock.AnyArg(), 3, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), p)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestProjectDelete_OwnerBound(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE pid = ? AND uid = ?`)).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectDelete_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE pid = ? AND uid = ?`)).
		WithArgs(3, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3, 99)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestListByOwner_OrdersByStartDateDesc(t *testing.T) {
	repo, mock := newProjectRepo(t)

	first := sampleProject()
	second := sampleProject()
	second.ID = 4
	second.Title = "Older project"
	second.StartDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(projectColumns)
	projectRow(rows, first)
	projectRow(rows, second)

	mock.ExpectQuery(`WHERE uid = \?\s+ORDER BY start_date DESC`).
		WithArgs(7).
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Website redesign", got[0].Title)
	assert.Equal(t, "Older project", got[1].Title)
}

func TestCountByOwner(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM projects WHERE uid = ?`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByOwner(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

var searchColumns = []string{
	"pid", "uid", "title", "short_description", "start_date", "end_date",
	"phase", "created_at", "updated_at", "username", "email",
}

func TestSearch_NoFilters(t *testing.T) {
	repo, mock := newProjectRepo(t)
	p := sampleProject()

	rows := sqlmock.NewRows(searchColumns).AddRow(
		p.ID, p.UserID, p.Title, p.ShortDescription, p.StartDate, *p.EndDate,
		p.Phase, p.CreatedAt, p.UpdatedAt, "alice", "alice@example.com",
	)

	mock.ExpectQuery(`JOIN users u ON p\.uid = u\.uid\s+ORDER BY p\.created_at DESC`).
		WillReturnRows(rows)

	got, err := repo.Search(context.Background(), models.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].OwnerUsername)
	assert.Equal(t, "alice@example.com", got[0].OwnerEmail)
}

func TestSearch_AllFiltersBoundAsParameters(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE p.title LIKE ? AND u.username LIKE ? AND p.phase = ? AND p.start_date >= ?`)).
		WithArgs("%redesign%", "%ali%", "design", "2025-01-01").
		WillReturnRows(sqlmock.NewRows(searchColumns))

	got, err := repo.Search(context.Background(), models.SearchFilters{
		Title:     "redesign",
		Username:  "ali",
		Phase:     "design",
		StartDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_HostileFilterStaysParameterized(t *testing.T) {
	repo, mock := newProjectRepo(t)

	// The injection attempt travels as a bound value, never as SQL
	hostile := "'; DROP TABLE projects; --"
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.title LIKE ?`)).
		WithArgs("%" + hostile + "%").
		WillReturnRows(sqlmock.NewRows(searchColumns))

	_, err := repo.Search(context.Background(), models.SearchFilters{Title: hostile})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
