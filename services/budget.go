package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"quickcount-api/models"
	"quickcount-api/utils"
)

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// SetBudget sets the user's monthly budget figure.
func (s *BudgetService) SetBudget(ctx context.Context, userID string, budget float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET budget = $1, updated_at = $2 WHERE id = $3
	`, budget, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Status returns the budget against the recomputed spend. The stored
// total_spent column is never read here: it may drift and is not the source
// of truth.
func (s *BudgetService) Status(ctx context.Context, userID string) (*models.BudgetStatus, error) {
	var status models.BudgetStatus
	err := s.db.QueryRowContext(ctx, `
		SELECT budget, COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = users.id), 0)
		FROM users
		WHERE id = $1
	`, userID).Scan(&status.Budget, &status.TotalSpent)
	if err != nil {
		return nil, err
	}

	status.Remaining = status.Budget - status.TotalSpent
	return &status, nil
}

// AddExpense records an expense and bumps the advisory total_spent column in
// the same transaction, as the mobile app kept doing.
func (s *BudgetService) AddExpense(ctx context.Context, userID string, req models.AddExpenseRequest) (*models.Expense, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		CreatedAt:   time.Now(),
	}

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, user_id, amount, description, category, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, expense.ID, expense.UserID, expense.Amount, expense.Description, expense.Category, expense.Date, expense.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET total_spent = total_spent + $1, updated_at = $2 WHERE id = $3
		`, expense.Amount, time.Now(), userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// RemoveExpense deletes an expense owned by the user. Returns sql.ErrNoRows
// when no such expense exists for this user.
func (s *BudgetService) RemoveExpense(ctx context.Context, userID, expenseID string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var amount float64
		err := tx.QueryRowContext(ctx, `
			SELECT amount FROM expenses WHERE id = $1 AND user_id = $2
		`, expenseID, userID).Scan(&amount)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET total_spent = total_spent - $1, updated_at = $2 WHERE id = $3
		`, amount, time.Now(), userID)
		return err
	})
}

// Expenses lists the user's expenses newest first. limit <= 0 means no limit.
func (s *BudgetService) Expenses(ctx context.Context, userID string, limit int) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, amount, description, category, date, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// Total recomputes the sum of the user's current expenses.
func (s *BudgetService) Total(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// Summary aggregates per-category totals plus daily spending for the seven
// days ending at now. Daily bucketing happens in Go to keep the SQL portable.
func (s *BudgetService) Summary(ctx context.Context, userID string, now time.Time) (*models.ExpenseSummary, error) {
	summary := &models.ExpenseSummary{
		ByCategory: []models.CategoryTotal{},
		Daily:      []models.DailyTotal{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		summary.ByCategory = append(summary.ByCategory, ct)
		summary.Total += ct.Total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -6)
	daily := make(map[string]float64)

	dayRows, err := s.db.QueryContext(ctx, `
		SELECT date, amount FROM expenses WHERE user_id = $1 AND date >= $2
	`, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var date time.Time
		var amount float64
		if err := dayRows.Scan(&date, &amount); err != nil {
			return nil, err
		}
		daily[date.Format("2006-01-02")] += amount
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < 7; i++ {
		day := cutoff.AddDate(0, 0, i).Format("2006-01-02")
		summary.Daily = append(summary.Daily, models.DailyTotal{Date: day, Total: daily[day]})
	}

	return summary, nil
}
