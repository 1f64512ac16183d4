// Package state maps the session snapshot onto storage.Store keys.
//
// Each key holds one JSON document. The current group is stored as an ID
// (currentGroupId) and resolved against groups on demand, so there is a single
// copy of every group.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/storage"
)

// Storage keys.
const (
	KeyCurrentUser    = "currentUser"
	KeyGroups         = "groups"
	KeyCurrentGroupID = "currentGroupId"
	KeyFeedbacks      = "feedbacks"
	KeyTheme          = "theme"
	KeyHasOnboarded   = "hasOnboarded"

	// keyLegacyCurrentGroup held a full copy of the active group in older snapshots.
	keyLegacyCurrentGroup = "currentGroup"
)

// Snapshot is everything a session persists.
type Snapshot struct {
	CurrentUser    *models.User
	Groups         []models.Group
	CurrentGroupID string
	Feedbacks      []models.Feedback
	Theme          models.Theme
	HasOnboarded   bool
}

// CurrentGroup returns the index of the active group in Groups, or -1.
func (s *Snapshot) CurrentGroup() int {
	if s.CurrentGroupID == "" {
		return -1
	}
	for i := range s.Groups {
		if s.Groups[i].ID == s.CurrentGroupID {
			return i
		}
	}
	return -1
}

// Repository loads and saves snapshots through a storage.Store.
type Repository struct {
	store storage.Store
}

// NewRepository creates a repository over store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Load reads every key. Missing keys leave zero values.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := r.get(ctx, KeyCurrentUser, &snap.CurrentUser); err != nil {
		return nil, err
	}
	if err := r.get(ctx, KeyGroups, &snap.Groups); err != nil {
		return nil, err
	}
	if err := r.get(ctx, KeyCurrentGroupID, &snap.CurrentGroupID); err != nil {
		return nil, err
	}
	if err := r.get(ctx, KeyFeedbacks, &snap.Feedbacks); err != nil {
		return nil, err
	}
	if err := r.get(ctx, KeyTheme, &snap.Theme); err != nil {
		return nil, err
	}
	if err := r.get(ctx, KeyHasOnboarded, &snap.HasOnboarded); err != nil {
		return nil, err
	}

	if err := r.migrateLegacyCurrentGroup(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

// Save writes the given keys of snap. Keys whose value is empty (no current user,
// no current group, onboarding not done, no theme) are removed instead.
// Present keys are written atomically when the store supports batches.
func (r *Repository) Save(ctx context.Context, snap *Snapshot, keys ...string) error {
	var entries []storage.Entry
	var removals []string

	for _, key := range keys {
		value, present, err := encode(snap, key)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if !present {
			removals = append(removals, key)
			continue
		}
		entries = append(entries, storage.Entry{Key: key, Value: value})
	}

	if len(entries) > 0 {
		if err := storage.SetAll(ctx, r.store, entries); err != nil {
			return err
		}
	}
	for _, key := range removals {
		if err := r.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func encode(snap *Snapshot, key string) ([]byte, bool, error) {
	var v any
	switch key {
	case KeyCurrentUser:
		if snap.CurrentUser == nil {
			return nil, false, nil
		}
		v = snap.CurrentUser
	case KeyGroups:
		groups := snap.Groups
		if groups == nil {
			groups = []models.Group{}
		}
		v = groups
	case KeyCurrentGroupID:
		if snap.CurrentGroupID == "" {
			return nil, false, nil
		}
		v = snap.CurrentGroupID
	case KeyFeedbacks:
		feedbacks := snap.Feedbacks
		if feedbacks == nil {
			feedbacks = []models.Feedback{}
		}
		v = feedbacks
	case KeyTheme:
		if snap.Theme == "" {
			return nil, false, nil
		}
		v = snap.Theme
	case KeyHasOnboarded:
		if !snap.HasOnboarded {
			return nil, false, nil
		}
		v = true
	default:
		return nil, false, fmt.Errorf("unknown key %q", key)
	}

	data, err := json.Marshal(v)
	return data, true, err
}

func (r *Repository) get(ctx context.Context, key string, dst any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// migrateLegacyCurrentGroup replaces a stored copy of the current group with its ID.
func (r *Repository) migrateLegacyCurrentGroup(ctx context.Context, snap *Snapshot) error {
	var legacy *struct {
		ID string `json:"id"`
	}
	if err := r.get(ctx, keyLegacyCurrentGroup, &legacy); err != nil {
		return err
	}
	if legacy == nil {
		return nil
	}

	if snap.CurrentGroupID == "" {
		snap.CurrentGroupID = legacy.ID
		if err := r.Save(ctx, snap, KeyCurrentGroupID); err != nil {
			return fmt.Errorf("failed to migrate current group: %w", err)
		}
	}
	if err := r.store.Remove(ctx, keyLegacyCurrentGroup); err != nil {
		return fmt.Errorf("failed to migrate current group: %w", err)
	}

	slog.Info("Migrated legacy current group", "group_id", snap.CurrentGroupID)
	return nil
}
