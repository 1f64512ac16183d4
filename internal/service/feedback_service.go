package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/state"
)

// SubmitFeedback appends a note from the acting user to the global feedback list.
func (s *Session) SubmitFeedback(ctx context.Context, message string, rating int) (models.Feedback, error) {
	const op = "submit_feedback"

	user, err := s.requireUser()
	if err != nil {
		return models.Feedback{}, s.fail(op, err)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return models.Feedback{}, s.fail(op, invalid("message", "is required"))
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return models.Feedback{}, s.fail(op, invalid("rating", "must be between 1 and 5"))
	}

	fb := models.Feedback{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		Message:   message,
		Rating:    rating,
		CreatedAt: s.now().UTC(),
	}
	s.snap.Feedbacks = append(s.snap.Feedbacks, fb)
	s.metrics.FeedbackSubmitted.Inc()

	slog.Info("Feedback submitted", "feedback_id", fb.ID, "user_id", user.ID, "rating", rating)
	return fb, s.fail(op, s.persist(ctx, op, state.KeyFeedbacks))
}

// Feedbacks returns all feedback in submission order.
func (s *Session) Feedbacks() []models.Feedback {
	return append([]models.Feedback(nil), s.snap.Feedbacks...)
}
