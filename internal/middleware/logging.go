package middleware

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/service"
)

// LogCommand logs every command run.
// It logs the command path, user ID, duration, and the error kind if any.
// Caller mistakes are logged at warn level, system failures at error level.
func LogCommand(next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		err := next(cmd, args)

		command := cmd.CommandPath()
		userID := GetUserID(cmd.Context()) // empty if not logged in
		duration := time.Since(start).Milliseconds()

		switch {
		case err == nil:
			slog.Info("Command ok",
				"command", command,
				"user_id", userID,
				"duration_ms", duration,
			)
		case service.IsUserError(err):
			slog.Warn("Command rejected",
				"command", command,
				"kind", service.Kind(err),
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			)
		default:
			slog.Error("Command failed",
				"command", command,
				"kind", service.Kind(err),
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			)
		}

		return err
	}
}
