package models

import "time"

// Expense categories as shown by the mobile category picker.
const (
	CategoryFood      = "Food"
	CategoryTransport = "Transport"
	CategoryBills     = "Bills"
	CategoryShopping  = "Shopping"
	CategoryOthers    = "Others"
)

type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddExpenseRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Description string     `json:"description" binding:"required"`
	Category    string     `json:"category" binding:"required,oneof=Food Transport Bills Shopping Others"`
	Date        *time.Time `json:"date,omitempty"`
}

type SetBudgetRequest struct {
	Budget float64 `json:"budget" binding:"min=0"`
}

// BudgetStatus is the home-screen view: the budget figure against the
// recomputed spend.
type BudgetStatus struct {
	Budget     float64 `json:"budget"`
	TotalSpent float64 `json:"total_spent"`
	Remaining  float64 `json:"remaining"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type DailyTotal struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// ExpenseSummary feeds the graph screen: per-category totals plus the last
// seven days of spending.
type ExpenseSummary struct {
	Total      float64         `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`
	Daily      []DailyTotal    `json:"daily"`
}
