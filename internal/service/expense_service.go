package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/dailysplit/internal/auth"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/state"
)

// AddExpenseRequest carries the add-expense form. Zero Category and Date fall back
// to food and today.
type AddExpenseRequest struct {
	Amount      decimal.Decimal
	Description string
	Category    models.Category
	Date        models.Date
}

// AddExpense records a spend by the acting user in the active group.
func (s *Session) AddExpense(ctx context.Context, req AddExpenseRequest) (models.DailyExpense, error) {
	const op = "add_expense"

	member, g, err := s.requireMember()
	if err != nil {
		return models.DailyExpense{}, s.fail(op, err)
	}

	description := strings.TrimSpace(req.Description)
	slog.Info("AddExpense request received",
		"group_id", g.ID,
		"user_id", member.ID,
		"amount", req.Amount.String(),
		"category", req.Category,
	)

	if !req.Amount.IsPositive() {
		return models.DailyExpense{}, s.fail(op, invalid("amount", "must be greater than zero"))
	}
	if description == "" {
		return models.DailyExpense{}, s.fail(op, invalid("description", "is required"))
	}

	category, err := models.ParseCategory(string(req.Category))
	if err != nil {
		return models.DailyExpense{}, s.fail(op, invalid("category", err.Error()))
	}

	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = models.DateOf(now)
	}

	expense := models.DailyExpense{
		ID:          uuid.New().String(),
		UserID:      member.ID,
		Amount:      req.Amount,
		Description: description,
		Category:    category,
		Date:        date,
		CreatedAt:   now.UTC(),
	}

	updated := g.Clone()
	updated.DailyExpenses = append(updated.DailyExpenses, expense)
	s.replaceGroup(updated)
	s.metrics.ExpensesAdded.Inc()

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", updated.ID, "date", expense.Date)
	return expense, s.fail(op, s.persist(ctx, op, state.KeyGroups))
}

// DeleteExpense removes an expense from the active group. The expense's owner and
// the group's admins may delete it.
func (s *Session) DeleteExpense(ctx context.Context, expenseID string) error {
	const op = "delete_expense"

	member, g, err := s.requireMember()
	if err != nil {
		return s.fail(op, err)
	}
	slog.Info("DeleteExpense request received", "group_id", g.ID, "expense_id", expenseID, "actor_id", member.ID)

	idx := g.Expense(expenseID)
	if idx < 0 {
		return s.fail(op, ErrExpenseNotFound)
	}
	if !auth.CanModify(g, member.ID, g.DailyExpenses[idx].UserID) {
		slog.Warn("DeleteExpense denied", "expense_id", expenseID, "owner_id", g.DailyExpenses[idx].UserID, "actor_id", member.ID)
		return s.fail(op, ErrPermissionDenied)
	}

	updated := g.Clone()
	updated.DailyExpenses = append(updated.DailyExpenses[:idx], updated.DailyExpenses[idx+1:]...)
	s.replaceGroup(updated)
	s.metrics.ExpensesDeleted.Inc()

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", updated.ID)
	return s.fail(op, s.persist(ctx, op, state.KeyGroups))
}

// ListExpenses returns the active group's expenses, newest date first. Expenses on
// the same date keep the order they were added in.
func (s *Session) ListExpenses() ([]models.DailyExpense, error) {
	g, err := s.activeGroup()
	if err != nil {
		return nil, err
	}

	expenses := append([]models.DailyExpense(nil), g.DailyExpenses...)
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses, nil
}
