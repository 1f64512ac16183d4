package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/dailysplit/internal/models"
)

// Stats summarizes the spending behind a settlement.
type Stats struct {
	TotalSpent       decimal.Decimal
	AveragePerPerson decimal.Decimal
}

// Result is a computed settlement. It is derived from a group's members and
// expenses on every read and never stored.
type Result struct {
	// Members fixes the row/column order of Matrix.
	Members []models.User

	// Spent holds each member's total, index-aligned with Members.
	Spent []MemberTotal

	// Matrix[i][j] > 0 means member i pays member j that amount;
	// Matrix[i][j] < 0 means member i receives it from member j.
	Matrix [][]decimal.Decimal

	// Stats is nil when there are no members.
	Stats *Stats
}

// matrixPlaces is the precision every matrix cell is rounded to.
const matrixPlaces = 1

// Compute builds the pairwise equalization matrix for members.
//
// Algorithm:
//   - spent[m] = sum of amounts of m's expenses
//   - M[i][j] = spent[j]/n - spent[i]/n, rounded half away from zero to one decimal
//   - stats: total = sum of spent, average = total/n
//
// This is not a minimum-transfer settlement: every ordered pair of
// members gets an entry. Only the upper triangle is computed and the lower one is its
// negation, so M[i][j] == -M[j][i] holds exactly after rounding.
func Compute(members []models.User, expenses []models.DailyExpense) Result {
	n := len(members)
	if n == 0 {
		return Result{Matrix: [][]decimal.Decimal{}}
	}

	spent := Spent(members, expenses)
	count := decimal.NewFromInt(int64(n))

	shares := make([]decimal.Decimal, n)
	total := decimal.Zero
	for i, s := range spent {
		shares[i] = s.Total.Div(count)
		total = total.Add(s.Total)
	}

	matrix := make([][]decimal.Decimal, n)
	for i := range matrix {
		matrix[i] = make([]decimal.Decimal, n)
		matrix[i][i] = decimal.Zero
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cell := shares[j].Sub(shares[i]).Round(matrixPlaces)
			matrix[i][j] = cell
			matrix[j][i] = cell.Neg()
		}
	}

	return Result{
		Members: append([]models.User(nil), members...),
		Spent:   spent,
		Matrix:  matrix,
		Stats: &Stats{
			TotalSpent:       total,
			AveragePerPerson: total.Div(count),
		},
	}
}

// HasSpending reports whether the result has anything to settle.
func (r Result) HasSpending() bool {
	return r.Stats != nil && r.Stats.TotalSpent.IsPositive()
}

// Relation is one directed transfer between two members.
type Relation struct {
	Counterparty models.User
	Amount       decimal.Decimal // always positive
}

// MemberRelations lists what one member pays and receives.
type MemberRelations struct {
	Member   models.User
	Pays     []Relation
	Receives []Relation
}

// Relations derives per-member pay/receive lists from strictly positive and strictly
// negative matrix entries. Zero entries are omitted. Members with nothing to pay or
// receive still appear, with empty lists.
func Relations(r Result) []MemberRelations {
	out := make([]MemberRelations, len(r.Members))
	for i, m := range r.Members {
		out[i].Member = m
		for j, other := range r.Members {
			if i == j {
				continue
			}
			amount := r.Matrix[i][j]
			switch amount.Sign() {
			case 1:
				out[i].Pays = append(out[i].Pays, Relation{Counterparty: other, Amount: amount})
			case -1:
				out[i].Receives = append(out[i].Receives, Relation{Counterparty: other, Amount: amount.Neg()})
			}
		}
	}
	return out
}
