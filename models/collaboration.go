package models

import "time"

// Collaboration request statuses. A request leaves "pending" exactly once.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

type CollaborationRequest struct {
	ID              string     `json:"id"`
	FromUserID      string     `json:"from_user_id"`
	FromUserName    string     `json:"from_user_name"`
	FromUserEmail   string     `json:"from_user_email"`
	ToUserID        string     `json:"to_user_id"`
	ToUserEmail     string     `json:"to_user_email"`
	Status          string     `json:"status"`
	CollaborationID string     `json:"collaboration_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

// Collaboration links two users. User1 is the requester and the only side
// whose budget is ever exposed; BudgetShared is the only gate on that
// visibility.
type Collaboration struct {
	ID                  string     `json:"id"`
	User1ID             string     `json:"user1_id"`
	User1Name           string     `json:"user1_name"`
	User1Email          string     `json:"user1_email"`
	User2ID             string     `json:"user2_id"`
	User2Name           string     `json:"user2_name"`
	User2Email          string     `json:"user2_email"`
	BudgetShared        bool       `json:"budget_shared"`
	BudgetSharedUpdated *time.Time `json:"budget_shared_updated,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// SharedBudget is the read-only projection of user1's budget shown to user2.
type SharedBudget struct {
	CollaborationID string    `json:"collaboration_id"`
	OwnerID         string    `json:"owner_id"`
	OwnerName       string    `json:"owner_name"`
	Budget          float64   `json:"budget"`
	TotalSpent      float64   `json:"total_spent"`
	Expenses        []Expense `json:"expenses"`
}

type SendRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondRequestRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type CollaborationList struct {
	Collaborations []Collaboration `json:"collaborations"`
	SharedWithMe   []Collaboration `json:"shared_with_me"`
}
