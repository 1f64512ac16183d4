package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyExpense is one amount a member spent on a given calendar date.
// Expenses are created by the spending member and removed by that member or the
// group admin; they are never edited in place.
type DailyExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// UserID references a member of the owning group.
	UserID string `json:"userId"`

	// Amount is strictly positive. There is no upper bound.
	Amount decimal.Decimal `json:"amount"`

	// Description is what the money was spent on (e.g., "Plov", "Bus pass").
	Description string `json:"description"`

	// Category is one of the fixed Categories.
	Category Category `json:"category"`

	// Date is the day the expense is attributed to, independent of CreatedAt.
	Date Date `json:"date"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"createdAt"`
}
