package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcount-api/models"
)

func addExpense(t *testing.T, svc *BudgetService, userID string, amount float64, description, category string) *models.Expense {
	t.Helper()
	expense, err := svc.AddExpense(context.Background(), userID, models.AddExpenseRequest{
		Amount:      amount,
		Description: description,
		Category:    category,
	})
	require.NoError(t, err)
	return expense
}

func TestTotalsFollowExpenses(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")

	total, err := svc.Total(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	a := addExpense(t, svc, user.ID, 100, "Groceries", models.CategoryFood)
	addExpense(t, svc, user.ID, 49.5, "Train", models.CategoryTransport)
	addExpense(t, svc, user.ID, 0.5, "Candy", models.CategoryOthers)

	total, err = svc.Total(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, total, 1e-9)

	require.NoError(t, svc.RemoveExpense(context.Background(), user.ID, a.ID))

	total, err = svc.Total(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, total, 1e-9)
}

func TestTotalIgnoresStoredTotalSpent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")

	addExpense(t, svc, user.ID, 25, "Lunch", models.CategoryFood)

	// Corrupt the advisory column; reads must not believe it
	_, err := db.Exec(`UPDATE users SET total_spent = 9999 WHERE id = $1`, user.ID)
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, status.TotalSpent, 1e-9)
}

func TestBudgetStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")

	require.NoError(t, svc.SetBudget(context.Background(), user.ID, 1000))
	addExpense(t, svc, user.ID, 300, "Rent share", models.CategoryBills)

	status, err := svc.Status(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, status.Budget)
	assert.InDelta(t, 300.0, status.TotalSpent, 1e-9)
	assert.InDelta(t, 700.0, status.Remaining, 1e-9)
}

func TestSetBudgetUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)

	err := svc.SetBudget(context.Background(), "no-such-user", 100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRemoveExpenseOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")
	other := createTestUser(t, db, "other@example.com", "Other")

	expense := addExpense(t, svc, user.ID, 10, "Coffee", models.CategoryFood)

	err := svc.RemoveExpense(context.Background(), other.ID, expense.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	expenses, err := svc.Expenses(context.Background(), user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestExpensesNewestFirstWithLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")

	now := time.Now()
	for i, desc := range []string{"oldest", "middle", "newest"} {
		date := now.AddDate(0, 0, i-2)
		_, err := svc.AddExpense(context.Background(), user.ID, models.AddExpenseRequest{
			Amount:      float64(i + 1),
			Description: desc,
			Category:    models.CategoryOthers,
			Date:        &date,
		})
		require.NoError(t, err)
	}

	expenses, err := svc.Expenses(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "newest", expenses[0].Description)
	assert.Equal(t, "oldest", expenses[2].Description)

	expenses, err = svc.Expenses(context.Background(), user.ID, 2)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "newest", expenses[0].Description)
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewBudgetService(db)
	user := createTestUser(t, db, "user@example.com", "User")

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	lastMonth := now.AddDate(0, -1, 0)

	for _, e := range []struct {
		amount   float64
		category string
		date     time.Time
	}{
		{100, models.CategoryFood, now},
		{50, models.CategoryFood, yesterday},
		{200, models.CategoryBills, yesterday},
		{75, models.CategoryTransport, lastMonth},
	} {
		_, err := svc.AddExpense(context.Background(), user.ID, models.AddExpenseRequest{
			Amount:      e.amount,
			Description: "x",
			Category:    e.category,
			Date:        &e.date,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), user.ID, now)
	require.NoError(t, err)

	assert.InDelta(t, 425.0, summary.Total, 1e-9)

	byCategory := map[string]float64{}
	for _, ct := range summary.ByCategory {
		byCategory[ct.Category] = ct.Total
	}
	assert.InDelta(t, 150.0, byCategory[models.CategoryFood], 1e-9)
	assert.InDelta(t, 200.0, byCategory[models.CategoryBills], 1e-9)
	assert.InDelta(t, 75.0, byCategory[models.CategoryTransport], 1e-9)

	// Seven daily buckets; the month-old expense is outside the window
	require.Len(t, summary.Daily, 7)
	var windowTotal float64
	for _, day := range summary.Daily {
		windowTotal += day.Total
	}
	assert.InDelta(t, 350.0, windowTotal, 1e-9)
	assert.InDelta(t, 100.0, summary.Daily[6].Total, 1e-9, "today is the last bucket")
}
