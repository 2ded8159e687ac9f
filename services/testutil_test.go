package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"quickcount-api/config"
	"quickcount-api/models"
)

// newTestDB opens an in-memory database with the production schema. A single
// connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open test database")
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, config.RunMigrations(db), "failed to run migrations")

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email, name string) models.UserSummary {
	t.Helper()

	user := models.UserSummary{
		ID:    uuid.New().String(),
		Email: email,
		Name:  name,
	}

	_, err := db.Exec(`
		INSERT INTO users (id, email, password_hash, name, budget, total_spent, totp_enabled, created_at, updated_at)
		VALUES ($1, $2, 'x', $3, 0, 0, 0, $4, $5)
	`, user.ID, user.Email, user.Name, time.Now(), time.Now())
	require.NoError(t, err, "failed to insert test user")

	return user
}

// link creates an accepted collaboration between two users via the full
// request workflow and returns it.
func link(t *testing.T, db *sql.DB, from, to models.UserSummary) *models.Collaboration {
	t.Helper()

	svc := NewCollaborationService(db)
	request, err := svc.SendRequest(context.Background(), from, to)
	require.NoError(t, err)

	_, collab, err := svc.Respond(context.Background(), request.ID, to.ID, true)
	require.NoError(t, err)
	require.NotNil(t, collab)

	return collab
}
