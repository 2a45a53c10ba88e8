package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project owned by project.UserID
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
        INSERT INTO projects (uid, title, short_description, start_date, end_date, phase, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		project.UserID,
		project.Title,
		project.ShortDescription,
		project.StartDate,
		project.EndDate,
		project.Phase,
		now,
		now,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project ID: %w", err)
	}

	project.ID = int(id)
	project.CreatedAt = now
	project.UpdatedAt = now

	return nil
}

// GetByIDForOwner fetches a project scoped to its owner. A wrong ID and
// a wrong owner are the same not-found outcome.
func (r *ProjectRepository) GetByIDForOwner(ctx context.Context, projectID, userID int) (*models.Project, error) {
	query := `
        SELECT pid, uid, title, short_description, start_date, end_date, phase, created_at, updated_at
        FROM projects
        WHERE pid = ? AND uid = ?
    `

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(
		&project.ID,
		&project.UserID,
		&project.Title,
		&project.ShortDescription,
		&project.StartDate,
		&project.EndDate,
		&project.Phase,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// Update rewrites a project's fields. The WHERE clause binds both the
// project ID and the owner, so a mismatched owner affects zero rows
// even if the service-level check were bypassed.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
        UPDATE projects
        SET title = ?, short_description = ?, start_date = ?, end_date = ?, phase = ?, updated_at = ?
        WHERE pid = ? AND uid = ?
    `

	result, err := r.db.ExecContext(ctx, query,
		project.Title,
		project.ShortDescription,
		project.StartDate,
		project.EndDate,
		project.Phase,
		time.Now(),
		project.ID,
		project.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return errors.ErrProjectNotFound
	}

	return nil
}

// Delete removes a project, scoped to its owner in the same statement
func (r *ProjectRepository) Delete(ctx context.Context, projectID, userID int) error {
	query := `DELETE FROM projects WHERE pid = ? AND uid = ?`

	result, err := r.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return errors.ErrProjectNotFound
	}

	return nil
}

// ListByOwner returns all projects owned by userID, newest start first
func (r *ProjectRepository) ListByOwner(ctx context.Context, userID int) ([]*models.Project, error) {
	query := `
        SELECT pid, uid, title, short_description, start_date, end_date, phase, created_at, updated_at
        FROM projects
        WHERE uid = ?
        ORDER BY start_date DESC
    `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Title,
			&project.ShortDescription,
			&project.StartDate,
			&project.EndDate,
			&project.Phase,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// CountByOwner returns how many projects userID owns
func (r *ProjectRepository) CountByOwner(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE uid = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return count, nil
}

// Search builds the public-browse query over all projects. Conditions
// are AND-combined and every value is a bound parameter; filter text is
// never concatenated into the query.
func (r *ProjectRepository) Search(ctx context.Context, filters models.SearchFilters) ([]*models.Project, error) {
	query := `
        SELECT p.pid, p.uid, p.title, p.short_description, p.start_date, p.end_date,
               p.phase, p.created_at, p.updated_at, u.username, u.email
        FROM projects p
        JOIN users u ON p.uid = u.uid
    `

	var conditions []string
	var params []interface{}

	if filters.Title != "" {
		conditions = append(conditions, "p.title LIKE ?")
		params = append(params, "%"+filters.Title+"%")
	}
	if filters.Username != "" {
		conditions = append(conditions, "u.username LIKE ?")
		params = append(params, "%"+filters.Username+"%")
	}
	if filters.Phase != "" {
		conditions = append(conditions, "p.phase = ?")
		params = append(params, filters.Phase)
	}
	if filters.StartDate != "" {
		conditions = append(conditions, "p.start_date >= ?")
		params = append(params, filters.StartDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Title,
			&project.ShortDescription,
			&project.StartDate,
			&project.EndDate,
			&project.Phase,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.OwnerUsername,
			&project.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}
