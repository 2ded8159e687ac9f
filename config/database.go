package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates the schema. Statements are idempotent and avoid
// engine-specific defaults; ids are generated in Go and timestamps are always
// bound as arguments, so the same DDL runs on the in-memory driver used by
// the test suite.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			budget DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_spent DOUBLE PRECISION NOT NULL DEFAULT 0,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(50) NOT NULL,
			date TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS collaboration_requests (
			id TEXT PRIMARY KEY,
			from_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			from_user_name VARCHAR(255) NOT NULL,
			from_user_email VARCHAR(255) NOT NULL,
			to_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			to_user_email VARCHAR(255) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			collaboration_id TEXT,
			created_at TIMESTAMP NOT NULL,
			responded_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS collaborations (
			id TEXT PRIMARY KEY,
			user1_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user1_name VARCHAR(255) NOT NULL,
			user1_email VARCHAR(255) NOT NULL,
			user2_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_name VARCHAR(255) NOT NULL,
			user2_email VARCHAR(255) NOT NULL,
			budget_shared BOOLEAN NOT NULL DEFAULT FALSE,
			budget_shared_updated TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_to_user ON collaboration_requests(to_user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborations_user1 ON collaborations(user1_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborations_user2 ON collaborations(user2_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
