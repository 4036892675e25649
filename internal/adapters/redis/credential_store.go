package redis

// Package redis provides Redis-based adapters for durable credential storage.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

const (
	defaultTokenPrefix    = "auth:token:"
	defaultSnapshotPrefix = "auth:session:"
	defaultTTL            = 12 * time.Hour
)

// CredentialStore is the production two-slot credential storage, keyed per
// browser session. The token slot holds the opaque access token only; the
// snapshot slot holds the JSON {user, is_authenticated} document and never
// any token material.
type CredentialStore struct {
	client    redis.UniversalClient
	sessionID string
	ttl       time.Duration
}

// NewCredentialStore creates a credential store bound to one session id.
func NewCredentialStore(client redis.UniversalClient, sessionID string) *CredentialStore {
	return &CredentialStore{client: client, sessionID: sessionID, ttl: defaultTTL}
}

// NewCredentialStoreWithTTL creates a credential store with a custom slot TTL.
func NewCredentialStoreWithTTL(client redis.UniversalClient, sessionID string, ttl time.Duration) *CredentialStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CredentialStore{client: client, sessionID: sessionID, ttl: ttl}
}

func (s *CredentialStore) tokenKey() string    { return defaultTokenPrefix + s.sessionID }
func (s *CredentialStore) snapshotKey() string { return defaultSnapshotPrefix + s.sessionID }

// SaveToken writes the token slot.
func (s *CredentialStore) SaveToken(ctx context.Context, token string) error {
	if s.sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	return s.client.Set(ctx, s.tokenKey(), token, s.ttl).Err()
}

// SaveSnapshot writes the snapshot slot as JSON.
func (s *CredentialStore) SaveSnapshot(ctx context.Context, snap domainauth.Snapshot) error {
	if s.sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, s.snapshotKey(), data, s.ttl).Err()
}

// Rehydrate reads both slots in one round trip. A missing slot comes back as
// its zero value; a snapshot that fails to decode is reported as an error so
// the caller can resolve it conservatively.
func (s *CredentialStore) Rehydrate(ctx context.Context) (ports.Rehydrated, error) {
	if s.sessionID == "" {
		return ports.Rehydrated{}, nil
	}

	vals, err := s.client.MGet(ctx, s.tokenKey(), s.snapshotKey()).Result()
	if err != nil {
		return ports.Rehydrated{}, fmt.Errorf("redis mget: %w", err)
	}

	var out ports.Rehydrated
	if tok, ok := vals[0].(string); ok {
		out.AccessToken = tok
	}
	if raw, ok := vals[1].(string); ok && raw != "" {
		var snap domainauth.Snapshot
		if unmarshalErr := json.Unmarshal([]byte(raw), &snap); unmarshalErr != nil {
			return ports.Rehydrated{}, fmt.Errorf("unmarshal snapshot: %w", unmarshalErr)
		}
		out.Snapshot = &snap
	}
	return out, nil
}

// Purge removes both slots. Purging an empty store is a no-op.
func (s *CredentialStore) Purge(ctx context.Context) error {
	if s.sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.tokenKey(), s.snapshotKey()).Err()
}

// compile-time conformance
var _ ports.CredentialStore = (*CredentialStore)(nil)
