package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/dailysplit/internal/auth"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/state"
)

// CreateGroupRequest carries the new-group form.
type CreateGroupRequest struct {
	Name        string
	Description string
}

// CreateGroup creates a group administered by the acting user and activates it.
// The creator becomes the group's first member with the admin role, and the
// acting user's role is promoted to admin.
func (s *Session) CreateGroup(ctx context.Context, req CreateGroupRequest) (models.Group, error) {
	const op = "create_group"

	user, err := s.requireUser()
	if err != nil {
		return models.Group{}, s.fail(op, err)
	}

	name := strings.TrimSpace(req.Name)
	slog.Info("CreateGroup request received", "name", name, "user_id", user.ID)
	if name == "" {
		return models.Group{}, s.fail(op, invalid("name", "is required"))
	}

	code, err := auth.UniqueAccessCode(s.codes, s.accessCodeTaken)
	if err != nil {
		slog.Error("CreateGroup failed - access code", "error", err)
		return models.Group{}, s.fail(op, err)
	}

	creator := *user
	creator.Role = models.RoleAdmin

	group := models.Group{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		AdminID:       creator.ID,
		AccessCode:    code,
		Users:         []models.User{creator},
		DailyExpenses: []models.DailyExpense{},
		CreatedAt:     s.now().UTC(),
	}

	s.snap.Groups = append(s.snap.Groups, group)
	s.snap.CurrentUser.Role = models.RoleAdmin
	s.snap.CurrentGroupID = group.ID
	s.metrics.GroupsCreated.Inc()

	slog.Info("Group created", "group_id", group.ID, "admin_id", creator.ID)
	return group.Clone(), s.fail(op, s.persist(ctx, op, state.KeyGroups, state.KeyCurrentUser, state.KeyCurrentGroupID))
}

func (s *Session) accessCodeTaken(code string) bool {
	for _, g := range s.snap.Groups {
		if g.AccessCode == code {
			return true
		}
	}
	return false
}

// MyGroups lists the groups the acting user belongs to, in creation order.
func (s *Session) MyGroups() ([]models.Group, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	var groups []models.Group
	for _, g := range s.snap.Groups {
		if g.HasMember(user.ID) {
			groups = append(groups, g.Clone())
		}
	}
	return groups, nil
}

// SelectGroup activates one of the acting user's groups. The acting user switches to
// their membership record in that group, so their role is the one held there.
func (s *Session) SelectGroup(ctx context.Context, groupID string) (models.Group, error) {
	const op = "select_group"

	user, err := s.requireUser()
	if err != nil {
		return models.Group{}, s.fail(op, err)
	}

	for i := range s.snap.Groups {
		g := &s.snap.Groups[i]
		if g.ID != groupID {
			continue
		}
		member, ok := g.Member(user.ID)
		if !ok {
			return models.Group{}, s.fail(op, ErrPermissionDenied)
		}

		m := *member
		s.snap.CurrentUser = &m
		s.snap.CurrentGroupID = g.ID

		slog.Info("Group selected", "group_id", g.ID, "user_id", m.ID, "role", m.Role)
		return g.Clone(), s.fail(op, s.persist(ctx, op, state.KeyCurrentUser, state.KeyCurrentGroupID))
	}

	return models.Group{}, s.fail(op, ErrGroupNotFound)
}

// Members lists the active group's members in join order.
func (s *Session) Members() ([]models.User, error) {
	g, err := s.activeGroup()
	if err != nil {
		return nil, err
	}
	return append([]models.User(nil), g.Users...), nil
}

// AccessCode returns the active group's access code. Only admins may see it.
func (s *Session) AccessCode() (string, error) {
	member, g, err := s.requireMember()
	if err != nil {
		return "", err
	}
	if !auth.IsGroupAdmin(g, member.ID) {
		return "", ErrPermissionDenied
	}
	return g.AccessCode, nil
}

// RemoveMember removes a member and their expenses from the active group.
// Only an admin may remove members, and the group's admin cannot be removed.
func (s *Session) RemoveMember(ctx context.Context, userID string) error {
	const op = "remove_member"

	actor, g, err := s.requireMember()
	if err != nil {
		return s.fail(op, err)
	}
	slog.Info("RemoveMember request received", "group_id", g.ID, "user_id", userID, "actor_id", actor.ID)

	if !auth.IsGroupAdmin(g, actor.ID) {
		return s.fail(op, ErrPermissionDenied)
	}
	if !g.HasMember(userID) {
		return s.fail(op, ErrMemberNotFound)
	}
	if userID == g.AdminID {
		return s.fail(op, invalid("user_id", "the group admin cannot be removed"))
	}

	updated := g.Clone()
	updated.Users = updated.Users[:0]
	for _, u := range g.Users {
		if u.ID != userID {
			updated.Users = append(updated.Users, u)
		}
	}
	updated.DailyExpenses = updated.DailyExpenses[:0]
	removed := 0
	for _, e := range g.DailyExpenses {
		if e.UserID == userID {
			removed++
			continue
		}
		updated.DailyExpenses = append(updated.DailyExpenses, e)
	}
	s.replaceGroup(updated)
	s.metrics.MembersRemoved.Inc()

	slog.Info("Member removed", "group_id", updated.ID, "user_id", userID, "expenses_removed", removed)
	return s.fail(op, s.persist(ctx, op, state.KeyGroups))
}
