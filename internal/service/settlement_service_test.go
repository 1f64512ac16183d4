package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dailysplit/internal/calculator"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/report"
)

// spend logs in as name and records amount on date.
func spend(t *testing.T, s *Session, name string, amount int64, date string) {
	t.Helper()
	ctx := context.Background()

	var email string
	switch name {
	case "Alice":
		email = "alice@example.com"
	case "Bob":
		email = "bob@example.com"
	case "Carol":
		email = "carol@example.com"
	}
	_, err := s.Login(ctx, name, email)
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, AddExpenseRequest{
		Amount:      decimal.NewFromInt(amount),
		Description: "groceries",
		Date:        day(t, date),
	})
	require.NoError(t, err)
}

func TestSettlement_AliceBobCarol(t *testing.T) {
	env := setupTestSession(t)
	seedGroup(t, env.session)

	spend(t, env.session, "Alice", 60000, "2024-06-10")
	spend(t, env.session, "Alice", 30000, "2024-06-11")
	spend(t, env.session, "Bob", 30000, "2024-06-12")

	result, err := env.session.Settlement()
	require.NoError(t, err)

	want := [][]string{
		{"0", "-20000", "-30000"},
		{"20000", "0", "-10000"},
		{"30000", "10000", "0"},
	}
	for i := range want {
		for j := range want[i] {
			assert.True(t, result.Matrix[i][j].Equal(decimal.RequireFromString(want[i][j])),
				"M[%d][%d] = %s, want %s", i, j, result.Matrix[i][j], want[i][j])
		}
	}

	require.NotNil(t, result.Stats)
	assert.True(t, result.Stats.TotalSpent.Equal(decimal.NewFromInt(120000)))
	assert.True(t, result.Stats.AveragePerPerson.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SettlementsComputed))

	relations := calculator.Relations(result)
	require.Len(t, relations, 3)
	assert.Len(t, relations[0].Receives, 2)
	assert.Empty(t, relations[0].Pays)
	assert.Len(t, relations[2].Pays, 2)
}

func TestSettlement_RequiresActiveGroup(t *testing.T) {
	env := setupTestSession(t)

	_, err := env.session.Settlement()
	assert.ErrorIs(t, err, ErrNoActiveGroup)
}

func TestSettlementForWeek(t *testing.T) {
	env := setupTestSession(t)
	seedGroup(t, env.session)

	spend(t, env.session, "Alice", 9000, "2024-06-09") // previous Sunday
	spend(t, env.session, "Bob", 3000, "2024-06-10")
	spend(t, env.session, "Carol", 6000, "2024-06-16")

	result, from, to, err := env.session.SettlementForWeek(models.Date{})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", from.String())
	assert.Equal(t, "2024-06-16", to.String())
	assert.True(t, result.Stats.TotalSpent.Equal(decimal.NewFromInt(9000)))

	result, from, _, err = env.session.SettlementForWeek(day(t, "2024-06-09"))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", from.String())
	assert.True(t, result.Stats.TotalSpent.Equal(decimal.NewFromInt(9000)))
	assert.True(t, result.Matrix[1][0].Equal(decimal.NewFromInt(3000)))

	_, err = env.session.SettlementForPeriod(day(t, "2024-06-16"), day(t, "2024-06-10"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryBreakdown(t *testing.T) {
	env := setupTestSession(t)
	ctx := context.Background()
	seedGroup(t, env.session)

	for _, req := range []AddExpenseRequest{
		{Amount: decimal.NewFromInt(100), Description: "Lunch"},
		{Amount: decimal.NewFromInt(50), Description: "Metro", Category: models.CategoryTransport},
		{Amount: decimal.NewFromInt(25), Description: "Dinner"},
	} {
		_, err := env.session.AddExpense(ctx, req)
		require.NoError(t, err)
	}

	totals, err := env.session.CategoryBreakdown()
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, models.CategoryFood, totals[0].Category)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(125)))
	assert.Equal(t, models.CategoryTransport, totals[1].Category)
}

func TestIsSettlementDay(t *testing.T) {
	env := setupTestSession(t)
	assert.False(t, env.session.IsSettlementDay())

	sunday := setupTestSession(t, WithClock(func() time.Time { return testNow.AddDate(0, 0, 4) }))
	assert.True(t, sunday.session.IsSettlementDay())
}

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, group models.Group, result calculator.Result) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []byte(group.Name), nil
}

func TestExportReport(t *testing.T) {
	t.Run("renders pdf", func(t *testing.T) {
		env := setupTestSession(t)
		seedGroup(t, env.session)
		spend(t, env.session, "Bob", 30000, "2024-06-12")

		doc, err := env.session.ExportReport(context.Background())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	})

	t.Run("nothing to report", func(t *testing.T) {
		env := setupTestSession(t)
		seedGroup(t, env.session)

		_, err := env.session.ExportReport(context.Background())
		require.ErrorIs(t, err, ErrReportGeneration)
		require.ErrorIs(t, err, report.ErrNothingToReport)
	})

	t.Run("cancelled", func(t *testing.T) {
		env := setupTestSession(t)
		seedGroup(t, env.session)
		spend(t, env.session, "Bob", 30000, "2024-06-12")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := env.session.ExportReport(ctx)
		require.ErrorIs(t, err, ErrReportGeneration)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("generator failure leaves state untouched", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("disk full")}
		env := setupTestSession(t, WithReportGenerator(gen))
		seedGroup(t, env.session)
		spend(t, env.session, "Bob", 30000, "2024-06-12")

		before, err := env.session.ActiveGroup()
		require.NoError(t, err)

		_, err = env.session.ExportReport(context.Background())
		require.ErrorIs(t, err, ErrReportGeneration)
		assert.Equal(t, 1, gen.calls)

		after, err := env.session.ActiveGroup()
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.OperationErrors.WithLabelValues("export_report", "report")))
	})
}
