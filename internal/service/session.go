// Package service implements the group, ledger and settlement operations on top of
// an explicit session state holder.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/dailysplit/internal/auth"
	"github.com/mmynk/dailysplit/internal/metrics"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/report"
	"github.com/mmynk/dailysplit/internal/state"
)

// Session owns the in-memory snapshot of one user's view of the system and is the
// only thing that mutates it. Every mutation replaces whole groups and then
// persists the affected keys; the in-memory state stays authoritative even when
// persisting fails.
//
// A Session is single-actor and not safe for concurrent use.
type Session struct {
	repo     *state.Repository
	snap     *state.Snapshot
	metrics  *metrics.Metrics
	reporter report.Generator
	now      func() time.Time
	codes    auth.CodeGenerator
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithMetrics records operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithReportGenerator replaces the default PDF generator.
func WithReportGenerator(g report.Generator) Option {
	return func(s *Session) { s.reporter = g }
}

// WithAccessCodeGenerator replaces the random access code source.
func WithAccessCodeGenerator(g auth.CodeGenerator) Option {
	return func(s *Session) { s.codes = g }
}

// NewSession loads the persisted snapshot from repo.
func NewSession(ctx context.Context, repo *state.Repository, opts ...Option) (*Session, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	s := &Session{
		repo:  repo,
		snap:  snap,
		now:   time.Now,
		codes: auth.GenerateAccessCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	if s.reporter == nil {
		s.reporter = report.NewPDFGenerator(report.Options{Now: s.now})
	}

	// A dangling active group (deleted elsewhere) is dropped rather than trusted.
	if snap.CurrentGroupID != "" && snap.CurrentGroup() < 0 {
		slog.Warn("Active group no longer exists", "group_id", snap.CurrentGroupID)
		snap.CurrentGroupID = ""
	}

	return s, nil
}

// CurrentUser returns a copy of the acting user, or nil when logged out.
func (s *Session) CurrentUser() *models.User {
	if s.snap.CurrentUser == nil {
		return nil
	}
	u := *s.snap.CurrentUser
	return &u
}

// ActiveGroup returns a copy of the active group.
func (s *Session) ActiveGroup() (models.Group, error) {
	g, err := s.activeGroup()
	if err != nil {
		return models.Group{}, err
	}
	return g.Clone(), nil
}

// GroupCount returns how many groups exist.
func (s *Session) GroupCount() int {
	return len(s.snap.Groups)
}

func (s *Session) requireUser() (*models.User, error) {
	if s.snap.CurrentUser == nil {
		return nil, ErrNotAuthenticated
	}
	return s.snap.CurrentUser, nil
}

// activeGroup resolves the current group from the group list on every call.
func (s *Session) activeGroup() (*models.Group, error) {
	i := s.snap.CurrentGroup()
	if i < 0 {
		return nil, ErrNoActiveGroup
	}
	return &s.snap.Groups[i], nil
}

// requireMember returns the acting user's membership record in the active group.
func (s *Session) requireMember() (*models.User, *models.Group, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, nil, err
	}
	g, err := s.activeGroup()
	if err != nil {
		return nil, nil, err
	}
	member, ok := g.Member(user.ID)
	if !ok {
		return nil, nil, ErrPermissionDenied
	}
	return member, g, nil
}

// replaceGroup swaps in updated for the group with the same ID.
func (s *Session) replaceGroup(updated models.Group) {
	for i := range s.snap.Groups {
		if s.snap.Groups[i].ID == updated.ID {
			s.snap.Groups[i] = updated
			return
		}
	}
	s.snap.Groups = append(s.snap.Groups, updated)
}

func (s *Session) persist(ctx context.Context, op string, keys ...string) error {
	if err := s.repo.Save(ctx, s.snap, keys...); err != nil {
		slog.Error("Failed to persist state", "operation", op, "keys", keys, "error", err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *Session) fail(op string, err error) error {
	if err != nil {
		s.metrics.OperationErrors.WithLabelValues(op, Kind(err)).Inc()
	}
	return err
}
