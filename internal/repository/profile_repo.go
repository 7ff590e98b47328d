package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lifeos/internal/models"
	"lifeos/internal/store"
)

const (
	profileKeyPrefix = "profile:"
	activeSessionKey = "session:active"
)

// ActiveSession is the persisted pointer to the logged-in profile
type ActiveSession struct {
	Username  string    `json:"username"`
	SessionID string    `json:"sessionId"`
	StartedAt time.Time `json:"startedAt"`
}

// ProfileRepository handles persistence of profiles and the active session pointer
type ProfileRepository struct {
	store store.Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(s store.Store) *ProfileRepository {
	return &ProfileRepository{store: s}
}

func profileKey(username string) string {
	return profileKeyPrefix + username
}

// GetProfile retrieves a profile by exact username. Missing or unreadable
// records return nil.
func (r *ProfileRepository) GetProfile(ctx context.Context, username string) *models.Profile {
	p := store.Get[*models.Profile](ctx, r.store, profileKey(username), nil)
	if p == nil || p.Username != username {
		return nil
	}
	p.Normalize()
	return p
}

// SaveProfile writes the profile, replacing any previous record for the username
func (r *ProfileRepository) SaveProfile(ctx context.Context, p *models.Profile) error {
	if err := store.Set(ctx, r.store, profileKey(p.Username), p); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", p.Username, err)
	}
	return nil
}

// DeleteProfile removes a persisted profile
func (r *ProfileRepository) DeleteProfile(ctx context.Context, username string) error {
	if err := r.store.Delete(ctx, profileKey(username)); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// ListUsernames returns the usernames of all persisted profiles
func (r *ProfileRepository) ListUsernames(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, profileKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	usernames := make([]string, 0, len(keys))
	for _, key := range keys {
		usernames = append(usernames, strings.TrimPrefix(key, profileKeyPrefix))
	}
	return usernames, nil
}

// ListProfiles returns every readable persisted profile
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	usernames, err := r.ListUsernames(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]*models.Profile, 0, len(usernames))
	for _, username := range usernames {
		if p := r.GetProfile(ctx, username); p != nil {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// SaveProfiles writes several profiles in one batch where the backend allows it
func (r *ProfileRepository) SaveProfiles(ctx context.Context, profiles []*models.Profile) error {
	records := make(map[string][]byte, len(profiles))
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode profile %q: %w", p.Username, err)
		}
		records[profileKey(p.Username)] = raw
	}
	if err := store.SetMany(ctx, r.store, records); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	return nil
}

// SetActive records which profile is logged in
func (r *ProfileRepository) SetActive(ctx context.Context, active ActiveSession) error {
	if err := store.Set(ctx, r.store, activeSessionKey, active); err != nil {
		return fmt.Errorf("failed to set active session: %w", err)
	}
	return nil
}

// GetActive returns the active session pointer, or nil when logged out
func (r *ProfileRepository) GetActive(ctx context.Context) *ActiveSession {
	active := store.Get[*ActiveSession](ctx, r.store, activeSessionKey, nil)
	if active == nil || active.Username == "" {
		return nil
	}
	return active
}

// ClearActive removes the active session pointer. Profiles are kept.
func (r *ProfileRepository) ClearActive(ctx context.Context) error {
	if err := r.store.Delete(ctx, activeSessionKey); err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}
