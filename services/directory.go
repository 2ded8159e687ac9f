package services

import (
	"context"
	"database/sql"
	"strings"

	"quickcount-api/models"
)

// DirectoryService resolves email addresses to user records. Lookups hit the
// indexed email column server-side instead of scanning the whole collection
// the way the mobile client did.
type DirectoryService struct {
	db *sql.DB
}

func NewDirectoryService(db *sql.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// FindByEmail returns the user matching email case-insensitively, excluding
// excludeUserID (the caller never matches their own row). Returns nil when
// no user matches.
func (s *DirectoryService) FindByEmail(ctx context.Context, email, excludeUserID string) (*models.UserSummary, error) {
	var user models.UserSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name
		FROM users
		WHERE LOWER(email) = $1 AND id <> $2
	`, strings.ToLower(strings.TrimSpace(email)), excludeUserID).Scan(&user.ID, &user.Email, &user.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
