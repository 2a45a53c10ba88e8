package database

import (
	"database/sql"
	"fmt"
)

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	// Create users table
	usersSchema := `
    CREATE TABLE IF NOT EXISTS users (
        uid INTEGER PRIMARY KEY AUTOINCREMENT,
        firstname TEXT NOT NULL,
        lastname TEXT NOT NULL,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        failed_attempts INTEGER NOT NULL DEFAULT 0,
        last_attempt DATETIME,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
    CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
    `

	if _, err := db.Exec(usersSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// Create projects table
	projectsSchema := `
    CREATE TABLE IF NOT EXISTS projects (
        pid INTEGER PRIMARY KEY AUTOINCREMENT,
        uid INTEGER NOT NULL,
        title TEXT NOT NULL,
        short_description TEXT NOT NULL,
        start_date DATE NOT NULL,
        end_date DATE,
        phase TEXT NOT NULL CHECK (phase IN ('design','development','testing','deployment','complete')),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (uid) REFERENCES users(uid) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_projects_uid ON projects(uid);
    CREATE INDEX IF NOT EXISTS idx_projects_phase ON projects(phase);
    CREATE INDEX IF NOT EXISTS idx_projects_start_date ON projects(start_date);
    CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at);
    `

	if _, err := db.Exec(projectsSchema); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	return nil
}
