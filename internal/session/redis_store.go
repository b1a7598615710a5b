package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed refresh token store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "refresh:",
	}
}

func (r *RedisStore) key(tokenHash string) string {
	return r.prefix + tokenHash
}

func (r *RedisStore) Save(ctx context.Context, tokenHash string, rec RefreshRecord, ttl time.Duration) error {
	if tokenHash == "" || rec.Subject == "" {
		return fmt.Errorf("session: missing token hash or subject")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: ttl must be positive")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(tokenHash), data, ttl).Err()
}

// Take fetches and deletes the record in one round-trip, so a refresh
// token can be redeemed at most once.
func (r *RedisStore) Take(ctx context.Context, tokenHash string) (*RefreshRecord, error) {
	val, err := r.client.GetDel(ctx, r.key(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	var rec RefreshRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &rec, nil
}

func (r *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	return r.client.Del(ctx, r.key(tokenHash)).Err()
}
