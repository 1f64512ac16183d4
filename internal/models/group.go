package models

import "time"

// Group represents a fixed set of people sharing daily expenses.
// The group owns its users and expenses exclusively.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Dorm 4B", "Trip to Samarkand").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description"`

	// AdminID references the creating user, who is always present in Users.
	AdminID string `json:"adminId"`

	// AccessCode is the 6-character credential new members join with.
	AccessCode string `json:"accessCode"`

	// Users is never empty after creation; the creator is the first entry.
	Users []User `json:"users"`

	// DailyExpenses has no ordering guarantee; callers sort for display.
	DailyExpenses []DailyExpense `json:"dailyExpenses"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Member returns the member with the given ID.
func (g *Group) Member(userID string) (*User, bool) {
	for i := range g.Users {
		if g.Users[i].ID == userID {
			return &g.Users[i], true
		}
	}
	return nil, false
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	_, ok := g.Member(userID)
	return ok
}

// MemberByEmail returns the member with the given email, compared case-insensitively.
func (g *Group) MemberByEmail(email string) (*User, bool) {
	for i := range g.Users {
		if SameEmail(g.Users[i].Email, email) {
			return &g.Users[i], true
		}
	}
	return nil, false
}

// Expense returns the index of the expense with the given ID, or -1.
func (g *Group) Expense(expenseID string) int {
	for i := range g.DailyExpenses {
		if g.DailyExpenses[i].ID == expenseID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate it and swap it in whole.
func (g Group) Clone() Group {
	c := g
	c.Users = append([]User(nil), g.Users...)
	c.DailyExpenses = append([]DailyExpense(nil), g.DailyExpenses...)
	return c
}
