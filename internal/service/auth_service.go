package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/dailysplit/internal/auth"
	"github.com/mmynk/dailysplit/internal/metrics"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/state"
)

// RegisterRequest carries the sign-up form.
type RegisterRequest struct {
	Name       string
	Email      string
	AccessCode string // ignored while no group exists
}

// Register signs a new user up.
//
// While no group exists the first registration bootstraps an admin with no group;
// that user is expected to call CreateGroup next. Afterwards registration requires
// the access code of an existing group and joins it as a member.
//
// On a PersistenceError the session has still switched to the new user.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	const op = "register"

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" {
		return nil, s.fail(op, invalid("name", "is required"))
	}
	if email == "" {
		return nil, s.fail(op, invalid("email", "is required"))
	}

	if len(s.snap.Groups) == 0 {
		slog.Info("Register request received", "email", email, "path", metrics.PathBootstrap)

		user := models.NewUser(name, email, models.RoleAdmin, s.now())
		s.snap.CurrentUser = user
		s.snap.CurrentGroupID = ""
		s.metrics.Registrations.WithLabelValues(metrics.PathBootstrap).Inc()

		slog.Info("First admin registered", "user_id", user.ID)
		return s.CurrentUser(), s.fail(op, s.persist(ctx, op, state.KeyCurrentUser, state.KeyCurrentGroupID))
	}

	code := auth.NormalizeAccessCode(req.AccessCode)
	slog.Info("Register request received", "email", email, "path", metrics.PathAccessCode)
	if code == "" {
		return nil, s.fail(op, invalid("access_code", "is required"))
	}

	var target *models.Group
	for i := range s.snap.Groups {
		if s.snap.Groups[i].AccessCode == code {
			target = &s.snap.Groups[i]
			break
		}
	}
	if target == nil {
		slog.Warn("Register failed - no group for access code")
		return nil, s.fail(op, ErrInvalidAccessCode)
	}
	if _, dup := target.MemberByEmail(email); dup {
		slog.Warn("Register failed - duplicate member", "group_id", target.ID, "email", email)
		return nil, s.fail(op, ErrDuplicateMember)
	}

	user := models.NewUser(name, email, models.RoleMember, s.now())
	updated := target.Clone()
	updated.Users = append(updated.Users, *user)
	s.replaceGroup(updated)

	s.snap.CurrentUser = user
	s.snap.CurrentGroupID = updated.ID
	s.metrics.Registrations.WithLabelValues(metrics.PathAccessCode).Inc()

	slog.Info("Member joined group", "user_id", user.ID, "group_id", updated.ID, "members_count", len(updated.Users))
	return s.CurrentUser(), s.fail(op, s.persist(ctx, op, state.KeyGroups, state.KeyCurrentUser, state.KeyCurrentGroupID))
}

// Login finds the member with exactly this name and email and activates the
// first group containing them.
func (s *Session) Login(ctx context.Context, name, email string) (*models.User, error) {
	const op = "login"
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	slog.Info("Login request received", "email", email)

	for gi := range s.snap.Groups {
		g := &s.snap.Groups[gi]
		for ui := range g.Users {
			u := g.Users[ui]
			if u.Name != name || u.Email != email {
				continue
			}

			s.snap.CurrentUser = &u
			s.snap.CurrentGroupID = g.ID
			s.metrics.Logins.Inc()

			slog.Info("Login successful", "user_id", u.ID, "group_id", g.ID)
			return s.CurrentUser(), s.fail(op, s.persist(ctx, op, state.KeyCurrentUser, state.KeyCurrentGroupID))
		}
	}

	slog.Warn("Login failed - no matching member", "email", email)
	return nil, s.fail(op, ErrUserNotFound)
}

// Logout forgets the acting user, the active group and the onboarding flag.
// Groups and feedback are kept.
func (s *Session) Logout(ctx context.Context) error {
	const op = "logout"

	var userID string
	if s.snap.CurrentUser != nil {
		userID = s.snap.CurrentUser.ID
	}

	s.snap.CurrentUser = nil
	s.snap.CurrentGroupID = ""
	s.snap.HasOnboarded = false

	slog.Info("Logged out", "user_id", userID)
	return s.fail(op, s.persist(ctx, op, state.KeyCurrentUser, state.KeyCurrentGroupID, state.KeyHasOnboarded))
}
