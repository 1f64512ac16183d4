package middleware

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the acting user ID.
	UserIDKey contextKey = "user_id"
	// GroupIDKey is the context key for storing the active group ID.
	GroupIDKey contextKey = "group_id"
)

// RunFunc is the signature of cobra's RunE.
type RunFunc func(cmd *cobra.Command, args []string) error

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetGroupID extracts the active group ID from the context.
// Returns empty string if not found.
func GetGroupID(ctx context.Context) string {
	groupID, _ := ctx.Value(GroupIDKey).(string)
	return groupID
}

// RequireUser rejects the command with service.ErrNotAuthenticated unless the
// session has a logged-in user. The user and active group IDs are added to the
// command context. session is resolved when the command runs, after the root
// command has opened it.
func RequireUser(session func() *service.Session, next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		s := session()
		if s == nil {
			return service.ErrNotAuthenticated
		}
		user := s.CurrentUser()
		if user == nil {
			return service.ErrNotAuthenticated
		}

		ctx := context.WithValue(cmd.Context(), UserIDKey, user.ID)
		if g, err := s.ActiveGroup(); err == nil {
			ctx = context.WithValue(ctx, GroupIDKey, g.ID)
		}
		cmd.SetContext(ctx)

		return next(cmd, args)
	}
}
