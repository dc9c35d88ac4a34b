package devauth

import (
	"context"
	"sync"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// ProfileStore is an in-memory profile store for local development.
// Profiles live for the process lifetime only.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]domainauth.Profile
}

var _ ports.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore creates an empty in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domainauth.Profile)}
}

// Get fetches the profile for id, or ports.ErrProfileNotFound.
func (s *ProfileStore) Get(_ context.Context, id string) (*domainauth.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ports.ErrProfileNotFound
	}
	copied := p
	return &copied, nil
}

// Set writes the profile record. With merge true, zero-valued fields of the
// incoming record leave any existing stored values in place.
func (s *ProfileStore) Set(_ context.Context, profile domainauth.Profile, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if merge {
		if existing, ok := s.profiles[profile.ID]; ok {
			if profile.Email == "" {
				profile.Email = existing.Email
			}
			if profile.DisplayName == "" {
				profile.DisplayName = existing.DisplayName
			}
			if profile.Role == "" {
				profile.Role = existing.Role
			}
			if !existing.CreatedAt.IsZero() {
				profile.CreatedAt = existing.CreatedAt
			}
		}
	}
	s.profiles[profile.ID] = profile
	return nil
}
