package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dailysplit/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func member(id, name string) models.User {
	return models.User{ID: id, Name: name, Role: models.RoleMember}
}

func expense(userID, amount string) models.DailyExpense {
	return models.DailyExpense{UserID: userID, Amount: dec(amount), Category: models.CategoryFood}
}

var (
	alice = member("a", "Alice")
	bob   = member("b", "Bob")
	carol = member("c", "Carol")
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		members      []models.User
		expenses     []models.DailyExpense
		validateFunc func(t *testing.T, r Result)
	}{
		{
			name:     "one member overpaid",
			members:  []models.User{alice, bob, carol},
			expenses: []models.DailyExpense{expense("a", "300")},
			validateFunc: func(t *testing.T, r Result) {
				// total = 300, average = 100
				// Alice receives 100 from each of Bob and Carol
				if !r.Stats.TotalSpent.Equal(dec("300")) {
					t.Errorf("total = %s, want 300", r.Stats.TotalSpent)
				}
				if !r.Stats.AveragePerPerson.Equal(dec("100")) {
					t.Errorf("average = %s, want 100", r.Stats.AveragePerPerson)
				}
				want := [][]string{
					{"0", "-100", "-100"},
					{"100", "0", "0"},
					{"100", "0", "0"},
				}
				assertMatrix(t, r.Matrix, want)
			},
		},
		{
			name:    "equal spend gives all zeros",
			members: []models.User{alice, bob, carol},
			expenses: []models.DailyExpense{
				expense("a", "50"), expense("a", "25.5"),
				expense("b", "75.5"),
				expense("c", "70"), expense("c", "5.5"),
			},
			validateFunc: func(t *testing.T, r Result) {
				for i := range r.Matrix {
					for j := range r.Matrix[i] {
						if !r.Matrix[i][j].IsZero() {
							t.Errorf("M[%d][%d] = %s, want 0", i, j, r.Matrix[i][j])
						}
					}
				}
			},
		},
		{
			name:     "no expenses",
			members:  []models.User{alice, bob},
			expenses: nil,
			validateFunc: func(t *testing.T, r Result) {
				assertMatrix(t, r.Matrix, [][]string{{"0", "0"}, {"0", "0"}})
				if !r.Stats.TotalSpent.IsZero() || !r.Stats.AveragePerPerson.IsZero() {
					t.Errorf("stats = %+v, want zeros", r.Stats)
				}
				if r.HasSpending() {
					t.Error("HasSpending() = true, want false")
				}
			},
		},
		{
			name:     "no members short-circuits",
			members:  nil,
			expenses: []models.DailyExpense{expense("a", "10")},
			validateFunc: func(t *testing.T, r Result) {
				if len(r.Matrix) != 0 {
					t.Errorf("matrix has %d rows, want 0", len(r.Matrix))
				}
				if r.Stats != nil {
					t.Errorf("stats = %+v, want nil", r.Stats)
				}
			},
		},
		{
			name:     "half rounds away from zero",
			members:  []models.User{alice, bob},
			expenses: []models.DailyExpense{expense("b", "0.1")},
			validateFunc: func(t *testing.T, r Result) {
				// 0.1/2 - 0 = 0.05 -> 0.1, and the mirror -0.05 -> -0.1
				assertMatrix(t, r.Matrix, [][]string{{"0", "0.1"}, {"-0.1", "0"}})
			},
		},
		{
			name:     "expenses of non-members are ignored",
			members:  []models.User{alice, bob},
			expenses: []models.DailyExpense{expense("a", "20"), expense("zed", "1000")},
			validateFunc: func(t *testing.T, r Result) {
				if !r.Stats.TotalSpent.Equal(dec("20")) {
					t.Errorf("total = %s, want 20", r.Stats.TotalSpent)
				}
				assertMatrix(t, r.Matrix, [][]string{{"0", "-10"}, {"10", "0"}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.members, tt.expenses)
			tt.validateFunc(t, r)
		})
	}
}

func TestComputeProperties(t *testing.T) {
	members := []models.User{alice, bob, carol, member("d", "Dilnoza"), member("e", "Eldor")}
	expenses := []models.DailyExpense{
		expense("a", "123.45"), expense("a", "0.07"),
		expense("b", "999.99"),
		expense("c", "13.33"), expense("c", "13.33"), expense("c", "13.34"),
		expense("d", "0.01"),
	}

	r := Compute(members, expenses)
	n := len(members)

	t.Run("anti-symmetric", func(t *testing.T) {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if !r.Matrix[i][j].Equal(r.Matrix[j][i].Neg()) {
					t.Errorf("M[%d][%d] = %s, M[%d][%d] = %s", i, j, r.Matrix[i][j], j, i, r.Matrix[j][i])
				}
			}
		}
	})

	t.Run("row sum approximates average minus spent", func(t *testing.T) {
		// each cell is off by at most 0.05 after rounding
		tolerance := dec("0.05").Mul(decimal.NewFromInt(int64(n - 1)))
		for i := 0; i < n; i++ {
			sum := decimal.Zero
			for j := 0; j < n; j++ {
				sum = sum.Add(r.Matrix[i][j])
			}
			want := r.Stats.AveragePerPerson.Sub(r.Spent[i].Total)
			if sum.Sub(want).Abs().GreaterThan(tolerance) {
				t.Errorf("row %d sums to %s, want %s within %s", i, sum, want, tolerance)
			}
		}
	})

	t.Run("diagonal is zero", func(t *testing.T) {
		for i := 0; i < n; i++ {
			if !r.Matrix[i][i].IsZero() {
				t.Errorf("M[%d][%d] = %s, want 0", i, i, r.Matrix[i][i])
			}
		}
	})
}

func TestRelations(t *testing.T) {
	r := Compute([]models.User{alice, bob, carol}, []models.DailyExpense{expense("a", "300")})
	rel := Relations(r)

	if len(rel) != 3 {
		t.Fatalf("got %d member relations, want 3", len(rel))
	}

	if len(rel[0].Pays) != 0 || len(rel[0].Receives) != 2 {
		t.Errorf("Alice: pays %d, receives %d; want 0 and 2", len(rel[0].Pays), len(rel[0].Receives))
	}
	for _, rc := range rel[0].Receives {
		if !rc.Amount.Equal(dec("100")) {
			t.Errorf("Alice receives %s from %s, want 100", rc.Amount, rc.Counterparty.Name)
		}
	}

	// Bob owes Alice only; the zero Bob/Carol entry is omitted
	if len(rel[1].Pays) != 1 || rel[1].Pays[0].Counterparty.ID != "a" {
		t.Errorf("Bob pays = %+v, want one relation to Alice", rel[1].Pays)
	}
	if len(rel[1].Receives) != 0 {
		t.Errorf("Bob receives = %+v, want none", rel[1].Receives)
	}
}

func assertMatrix(t *testing.T, got [][]decimal.Decimal, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("matrix has %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d has %d columns, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if !got[i][j].Equal(dec(want[i][j])) {
				t.Errorf("M[%d][%d] = %s, want %s", i, j, got[i][j], want[i][j])
			}
		}
	}
}
