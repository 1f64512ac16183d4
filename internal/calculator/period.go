package calculator

import (
	"time"

	"github.com/mmynk/dailysplit/internal/models"
)

// Week returns the Monday..Sunday window containing d.
func Week(d models.Date) (from, to models.Date) {
	// time.Weekday counts from Sunday = 0.
	offset := (int(d.Time().Weekday()) + 6) % 7
	from = d.AddDays(-offset)
	return from, from.AddDays(6)
}

// InPeriod returns the expenses dated within [from, to], inclusive, preserving order.
func InPeriod(expenses []models.DailyExpense, from, to models.Date) []models.DailyExpense {
	var out []models.DailyExpense
	for _, e := range expenses {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsSettlementDay reports whether t falls on Sunday, the end of a settlement week.
func IsSettlementDay(t time.Time) bool {
	return t.Weekday() == time.Sunday
}
