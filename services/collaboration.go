package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"quickcount-api/models"
	"quickcount-api/utils"
)

var (
	ErrSelfRequest      = errors.New("cannot send a collaboration request to yourself")
	ErrDuplicateRequest = errors.New("a pending request to this user already exists")
	ErrAlreadyLinked    = errors.New("a collaboration with this user already exists")
	ErrAlreadyResponded = errors.New("request has already been responded to")
	ErrNotRecipient     = errors.New("only the recipient can respond to a request")
	ErrNotOwner         = errors.New("only the budget owner can change sharing")
	ErrNotParticipant   = errors.New("user is not part of this collaboration")
	ErrBudgetNotShared  = errors.New("the owner has not shared this budget")
)

type CollaborationService struct {
	db *sql.DB
}

func NewCollaborationService(db *sql.DB) *CollaborationService {
	return &CollaborationService{db: db}
}

// SendRequest creates a pending request from the authenticated sender to the
// target user. Duplicate pending requests and requests between already-linked
// users are rejected rather than silently duplicated.
func (s *CollaborationService) SendRequest(ctx context.Context, from models.UserSummary, to models.UserSummary) (*models.CollaborationRequest, error) {
	if from.ID == to.ID {
		return nil, ErrSelfRequest
	}

	var linked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM collaborations
			WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		)
	`, from.ID, to.ID).Scan(&linked)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, ErrAlreadyLinked
	}

	var pending bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM collaboration_requests
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'
		)
	`, from.ID, to.ID).Scan(&pending)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	request := &models.CollaborationRequest{
		ID:            uuid.New().String(),
		FromUserID:    from.ID,
		FromUserName:  from.Name,
		FromUserEmail: from.Email,
		ToUserID:      to.ID,
		ToUserEmail:   to.Email,
		Status:        models.RequestPending,
		CreatedAt:     time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collaboration_requests
			(id, from_user_id, from_user_name, from_user_email, to_user_id, to_user_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, request.ID, request.FromUserID, request.FromUserName, request.FromUserEmail,
		request.ToUserID, request.ToUserEmail, request.Status, request.CreatedAt)
	if err != nil {
		return nil, err
	}

	return request, nil
}

// PendingRequests lists the user's incoming pending requests, newest first.
func (s *CollaborationService) PendingRequests(ctx context.Context, userID string) ([]models.CollaborationRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_user_id, from_user_name, from_user_email, to_user_id, to_user_email, status, created_at
		FROM collaboration_requests
		WHERE to_user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.CollaborationRequest{}
	for rows.Next() {
		var r models.CollaborationRequest
		if err := rows.Scan(&r.ID, &r.FromUserID, &r.FromUserName, &r.FromUserEmail,
			&r.ToUserID, &r.ToUserEmail, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// Respond settles a pending request. Acceptance creates the collaboration
// and stamps the request with its id in a single transaction, so a crash can
// never leave an accepted request without its collaboration. Returns the
// updated request and, on acceptance, the new collaboration.
func (s *CollaborationService) Respond(ctx context.Context, requestID, responderID string, accept bool) (*models.CollaborationRequest, *models.Collaboration, error) {
	var request models.CollaborationRequest
	err := s.db.QueryRowContext(ctx, `
		SELECT id, from_user_id, from_user_name, from_user_email, to_user_id, to_user_email, status, created_at
		FROM collaboration_requests
		WHERE id = $1
	`, requestID).Scan(&request.ID, &request.FromUserID, &request.FromUserName, &request.FromUserEmail,
		&request.ToUserID, &request.ToUserEmail, &request.Status, &request.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	if request.ToUserID != responderID {
		return nil, nil, ErrNotRecipient
	}
	if request.Status != models.RequestPending {
		return nil, nil, ErrAlreadyResponded
	}

	now := time.Now()
	request.RespondedAt = &now

	if !accept {
		request.Status = models.RequestRejected
		_, err := s.db.ExecContext(ctx, `
			UPDATE collaboration_requests SET status = 'rejected', responded_at = $1 WHERE id = $2
		`, now, requestID)
		if err != nil {
			return nil, nil, err
		}
		return &request, nil, nil
	}

	var collab *models.Collaboration
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var responderName, responderEmail string
		err := tx.QueryRowContext(ctx, `
			SELECT name, email FROM users WHERE id = $1
		`, responderID).Scan(&responderName, &responderEmail)
		if err != nil {
			return err
		}

		collab = &models.Collaboration{
			ID:         uuid.New().String(),
			User1ID:    request.FromUserID,
			User1Name:  request.FromUserName,
			User1Email: request.FromUserEmail,
			User2ID:    responderID,
			User2Name:  responderName,
			User2Email: responderEmail,
			CreatedAt:  now,
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collaborations
				(id, user1_id, user1_name, user1_email, user2_id, user2_name, user2_email, budget_shared, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, collab.ID, collab.User1ID, collab.User1Name, collab.User1Email,
			collab.User2ID, collab.User2Name, collab.User2Email, false, collab.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE collaboration_requests
			SET status = 'accepted', collaboration_id = $1, responded_at = $2
			WHERE id = $3
		`, collab.ID, now, requestID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	request.Status = models.RequestAccepted
	request.CollaborationID = collab.ID
	return &request, collab, nil
}

// Collaborations lists everything the user participates in, along with the
// subset of budgets shared with them (they are user2 and sharing is on).
func (s *CollaborationService) Collaborations(ctx context.Context, userID string) (*models.CollaborationList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user1_id, user1_name, user1_email, user2_id, user2_name, user2_email,
		       budget_shared, budget_shared_updated, created_at
		FROM collaborations
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := &models.CollaborationList{
		Collaborations: []models.Collaboration{},
		SharedWithMe:   []models.Collaboration{},
	}

	for rows.Next() {
		c, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		list.Collaborations = append(list.Collaborations, *c)
		if c.User2ID == userID && c.BudgetShared {
			list.SharedWithMe = append(list.SharedWithMe, *c)
		}
	}

	return list, rows.Err()
}

// Get returns a collaboration by id, or nil when it no longer exists.
func (s *CollaborationService) Get(ctx context.Context, id string) (*models.Collaboration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user1_id, user1_name, user1_email, user2_id, user2_name, user2_email,
		       budget_shared, budget_shared_updated, created_at
		FROM collaborations
		WHERE id = $1
	`, id)

	c, err := scanCollaboration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ToggleSharing flips budget_shared. Only user1, the owner of the exposed
// budget, may toggle.
func (s *CollaborationService) ToggleSharing(ctx context.Context, collabID, userID string) (*models.Collaboration, error) {
	collab, err := s.Get(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if collab == nil {
		return nil, sql.ErrNoRows
	}
	if collab.User1ID != userID {
		return nil, ErrNotOwner
	}

	now := time.Now()
	collab.BudgetShared = !collab.BudgetShared
	collab.BudgetSharedUpdated = &now

	_, err = s.db.ExecContext(ctx, `
		UPDATE collaborations SET budget_shared = $1, budget_shared_updated = $2 WHERE id = $3
	`, collab.BudgetShared, now, collabID)
	if err != nil {
		return nil, err
	}

	return collab, nil
}

// Remove unconditionally deletes a collaboration. Either participant may
// remove; the other side learns through the realtime signal. The removed
// collaboration is returned so the caller can notify the other party.
func (s *CollaborationService) Remove(ctx context.Context, collabID, userID string) (*models.Collaboration, error) {
	collab, err := s.Get(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if collab == nil {
		return nil, sql.ErrNoRows
	}
	if collab.User1ID != userID && collab.User2ID != userID {
		return nil, ErrNotParticipant
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM collaborations WHERE id = $1`, collabID)
	if err != nil {
		return nil, err
	}

	return collab, nil
}

// SharedBudget re-reads user1's budget and expenses for the viewer. The
// viewer must be user2 and sharing must be on; there is no other
// access-control check and no caching. limit <= 0 returns all expenses.
func (s *CollaborationService) SharedBudget(ctx context.Context, collabID, viewerID string, limit int) (*models.SharedBudget, error) {
	collab, err := s.Get(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if collab == nil {
		return nil, sql.ErrNoRows
	}
	if collab.User2ID != viewerID {
		return nil, ErrNotParticipant
	}
	if !collab.BudgetShared {
		return nil, ErrBudgetNotShared
	}

	shared := &models.SharedBudget{
		CollaborationID: collab.ID,
		OwnerID:         collab.User1ID,
		OwnerName:       collab.User1Name,
		Expenses:        []models.Expense{},
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT budget, COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = users.id), 0)
		FROM users
		WHERE id = $1
	`, collab.User1ID).Scan(&shared.Budget, &shared.TotalSpent)
	if err == sql.ErrNoRows {
		// Owner record gone: project zero/empty rather than failing.
		return shared, nil
	}
	if err != nil {
		return nil, err
	}

	budgets := NewBudgetService(s.db)
	expenses, err := budgets.Expenses(ctx, collab.User1ID, limit)
	if err != nil {
		return nil, err
	}
	shared.Expenses = expenses

	return shared, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollaboration(row rowScanner) (*models.Collaboration, error) {
	var c models.Collaboration
	var sharedUpdated sql.NullTime
	err := row.Scan(&c.ID, &c.User1ID, &c.User1Name, &c.User1Email,
		&c.User2ID, &c.User2Name, &c.User2Email,
		&c.BudgetShared, &sharedUpdated, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sharedUpdated.Valid {
		c.BudgetSharedUpdated = &sharedUpdated.Time
	}
	return &c, nil
}
