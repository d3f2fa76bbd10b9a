package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

// AddSession stores the admin access flag under the session token. The TTL
// bounds how long a granted session stays valid without re-login.
func (r *Redis) AddSession(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	key := "admin_session:" + token
	ok, err := r.Client.SetNX(ctx, key, "granted", ttl).Result()
	return ok, err
}

// HasSession reports whether the token still marks a granted session.
func (r *Redis) HasSession(ctx context.Context, token string) (bool, error) {
	key := "admin_session:" + token
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "granted", nil
}

// RemoveSession clears the flag on logout. Removing an absent session is not
// an error.
func (r *Redis) RemoveSession(ctx context.Context, token string) error {
	key := "admin_session:" + token
	_, err := r.Client.Del(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	return err
}
