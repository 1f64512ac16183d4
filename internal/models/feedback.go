package models

import "time"

// Feedback rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a global, append-only note left by a user. It is independent of groups.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}
