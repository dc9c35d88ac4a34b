package redis

// Package redis implements the profile document store on Redis. Profiles
// are stored as JSON documents keyed by identity UID.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

const defaultKeyPrefix = "parkease:profile:"

// ProfileStore persists profile records in Redis.
type ProfileStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ ports.ProfileStore = (*ProfileStore)(nil)

// ProfileStoreOptions configures a ProfileStore.
type ProfileStoreOptions struct {
	Client    *redis.Client
	KeyPrefix string // defaults to "parkease:profile:"
}

// NewProfileStore creates a profile store backed by the given Redis client.
func NewProfileStore(opts ProfileStoreOptions) *ProfileStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ProfileStore{client: opts.Client, keyPrefix: prefix}
}

// Get fetches the profile document for id.
func (s *ProfileStore) Get(ctx context.Context, id string) (*domainauth.Profile, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var profile domainauth.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// Set writes the profile document. With merge true, zero-valued fields of
// the incoming record keep whatever the stored document already holds;
// otherwise the document is replaced wholesale.
func (s *ProfileStore) Set(ctx context.Context, profile domainauth.Profile, merge bool) error {
	if profile.ID == "" {
		return errors.New("profile id is required")
	}

	if merge {
		existing, err := s.Get(ctx, profile.ID)
		if err != nil && !errors.Is(err, ports.ErrProfileNotFound) {
			return err
		}
		if existing != nil {
			profile = mergeProfiles(*existing, profile)
		}
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, s.key(profile.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("set profile: %w", err)
	}
	return nil
}

// Ping verifies connectivity to the Redis backend.
func (s *ProfileStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ProfileStore) key(id string) string {
	return s.keyPrefix + id
}

// mergeProfiles overlays incoming onto existing: zero-valued incoming fields
// leave the stored values in place. The stored creation timestamp always
// wins so repeated federated logins never move it.
func mergeProfiles(existing, incoming domainauth.Profile) domainauth.Profile {
	out := existing
	if incoming.Email != "" {
		out.Email = incoming.Email
	}
	if incoming.Role != "" {
		out.Role = incoming.Role
	}
	if incoming.DisplayName != "" {
		out.DisplayName = incoming.DisplayName
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = incoming.CreatedAt
	}
	return out
}
