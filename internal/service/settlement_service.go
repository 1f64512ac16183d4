package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/dailysplit/internal/calculator"
	"github.com/mmynk/dailysplit/internal/models"
)

// Settlement computes the equalization matrix over the active group's full history.
func (s *Session) Settlement() (calculator.Result, error) {
	g, err := s.activeGroup()
	if err != nil {
		return calculator.Result{}, s.fail("settlement", err)
	}
	return s.compute(g, g.DailyExpenses), nil
}

// SettlementForPeriod computes the matrix over expenses dated within [from, to].
func (s *Session) SettlementForPeriod(from, to models.Date) (calculator.Result, error) {
	const op = "settlement"

	g, err := s.activeGroup()
	if err != nil {
		return calculator.Result{}, s.fail(op, err)
	}
	if to.Before(from) {
		return calculator.Result{}, s.fail(op, invalid("period", fmt.Sprintf("%s is before %s", to, from)))
	}
	return s.compute(g, calculator.InPeriod(g.DailyExpenses, from, to)), nil
}

// SettlementForWeek computes the matrix for the Monday..Sunday week containing d.
// A zero d means the current week.
func (s *Session) SettlementForWeek(d models.Date) (calculator.Result, models.Date, models.Date, error) {
	if d.IsZero() {
		d = models.DateOf(s.now())
	}
	from, to := calculator.Week(d)
	result, err := s.SettlementForPeriod(from, to)
	return result, from, to, err
}

func (s *Session) compute(g *models.Group, expenses []models.DailyExpense) calculator.Result {
	result := calculator.Compute(g.Users, expenses)
	s.metrics.SettlementsComputed.Inc()

	if result.Stats != nil {
		slog.Debug("Settlement computed",
			"group_id", g.ID,
			"members", len(result.Members),
			"expenses", len(expenses),
			"total", result.Stats.TotalSpent.String(),
		)
	}
	return result
}

// CategoryBreakdown totals the active group's spending per category.
func (s *Session) CategoryBreakdown() ([]calculator.CategoryTotal, error) {
	g, err := s.activeGroup()
	if err != nil {
		return nil, err
	}
	return calculator.ByCategory(g.DailyExpenses), nil
}

// IsSettlementDay reports whether today, per the session clock, is settlement day.
func (s *Session) IsSettlementDay() bool {
	return calculator.IsSettlementDay(s.now())
}

// ExportReport renders the active group's settlement as a document. It does not
// change any session state.
func (s *Session) ExportReport(ctx context.Context) ([]byte, error) {
	const op = "export_report"

	g, err := s.activeGroup()
	if err != nil {
		return nil, s.fail(op, err)
	}
	result := s.compute(g, g.DailyExpenses)

	slog.Info("ExportReport request received", "group_id", g.ID, "members", len(result.Members))

	start := time.Now()
	doc, err := s.reporter.Generate(ctx, g.Clone(), result)
	s.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("ExportReport failed", "group_id", g.ID, "error", err)
		return nil, s.fail(op, fmt.Errorf("%w: %w", ErrReportGeneration, err))
	}

	slog.Info("Report generated", "group_id", g.ID, "bytes", len(doc))
	return doc, nil
}
