package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/state"
)

// Theme returns the stored display preference, light when unset.
func (s *Session) Theme() models.Theme {
	if s.snap.Theme == "" {
		return models.ThemeLight
	}
	return s.snap.Theme
}

// SetTheme stores the display preference.
func (s *Session) SetTheme(ctx context.Context, theme models.Theme) error {
	const op = "set_theme"

	parsed, err := models.ParseTheme(string(theme))
	if err != nil {
		return s.fail(op, invalid("theme", err.Error()))
	}
	s.snap.Theme = parsed

	slog.Debug("Theme changed", "theme", parsed)
	return s.fail(op, s.persist(ctx, op, state.KeyTheme))
}

// HasOnboarded reports whether the welcome flow was completed.
func (s *Session) HasOnboarded() bool {
	return s.snap.HasOnboarded
}

// CompleteOnboarding marks the welcome flow as done.
func (s *Session) CompleteOnboarding(ctx context.Context) error {
	const op = "complete_onboarding"

	s.snap.HasOnboarded = true
	return s.fail(op, s.persist(ctx, op, state.KeyHasOnboarded))
}
