// Package auth holds the membership credentials and permission rules for groups.
//
// There are no passwords: a group's access code admits new members, and an
// existing member logs in with the exact name and email they joined with.
package auth

import "github.com/mmynk/dailysplit/internal/models"

// IsGroupAdmin reports whether userID administers g, either as its creator or by role.
func IsGroupAdmin(g *models.Group, userID string) bool {
	if g == nil || userID == "" {
		return false
	}
	if g.AdminID == userID {
		return true
	}
	m, ok := g.Member(userID)
	return ok && m.IsAdmin()
}

// CanModify reports whether actorID may mutate a resource owned by ownerID inside g.
// The owner may always act; otherwise the actor must be an admin of g.
func CanModify(g *models.Group, actorID, ownerID string) bool {
	if actorID == "" || g == nil || !g.HasMember(actorID) {
		return false
	}
	return actorID == ownerID || IsGroupAdmin(g, actorID)
}
