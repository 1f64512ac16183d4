package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/dailysplit/internal/models"
)

// MemberTotal is how much one member spent over a set of expenses.
type MemberTotal struct {
	Member   models.User
	Total    decimal.Decimal
	Expenses int // number of expenses counted in Total
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category
	Total    decimal.Decimal
	Expenses int
}

// Spent sums expense amounts per member, in member order.
// Expenses whose UserID is not one of members are ignored.
func Spent(members []models.User, expenses []models.DailyExpense) []MemberTotal {
	totals := make([]MemberTotal, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		totals[i] = MemberTotal{Member: m, Total: decimal.Zero}
		index[m.ID] = i
	}

	for _, e := range expenses {
		i, ok := index[e.UserID]
		if !ok {
			continue
		}
		totals[i].Total = totals[i].Total.Add(e.Amount)
		totals[i].Expenses++
	}

	return totals
}

// ByCategory sums expense amounts per category in models.Categories order.
// Categories with no expenses are omitted.
func ByCategory(expenses []models.DailyExpense) []CategoryTotal {
	sums := make(map[models.Category]*CategoryTotal)
	for _, e := range expenses {
		ct, ok := sums[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Total: decimal.Zero}
			sums[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Expenses++
	}

	var out []CategoryTotal
	for _, c := range models.Categories {
		if ct, ok := sums[c]; ok {
			out = append(out, *ct)
		}
	}
	return out
}
