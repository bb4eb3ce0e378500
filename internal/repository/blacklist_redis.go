package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "blacklist:token:"

// RedisBlacklist is the Redis-backed revocation ledger for deployments
// where several instances share revocation state. Keys are written without
// TTL; the ledger keeps everything, matching the database implementation.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (r *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedTokenKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisBlacklist) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// SET is idempotent; no membership pre-check needed here
	return r.client.Set(ctx, revokedTokenKeyPrefix+token, "1", 0).Err()
}
