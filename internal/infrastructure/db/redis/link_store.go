package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

const defaultLinkTTL = 30 * time.Minute

// LinkStore holds pending magic-link tokens in Redis.
// Key format: magiclink:<sha256(token)> → email. Only the hash is stored, so
// a leaked Redis snapshot cannot be replayed as live links. Expiry enforces
// the link TTL; GETDEL enforces single use.
type LinkStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLinkStore creates a LinkStore wrapping the given Redis client.
func NewLinkStore(client *redis.Client, ttl time.Duration) *LinkStore {
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	return &LinkStore{client: client, ttl: ttl}
}

// Save binds token to email until the TTL elapses or the token is consumed.
func (s *LinkStore) Save(ctx context.Context, token, email string) error {
	if err := s.client.Set(ctx, s.key(token), email, s.ttl).Err(); err != nil {
		return fmt.Errorf("save link token: %w", err)
	}
	return nil
}

// Consume atomically returns the email bound to token and deletes it, so a
// second consumption of the same link fails with domain.ErrLinkInvalid.
func (s *LinkStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrLinkInvalid
		}
		return "", fmt.Errorf("consume link token: %w", err)
	}
	return email, nil
}

func (s *LinkStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "magiclink:" + hex.EncodeToString(sum[:])
}
