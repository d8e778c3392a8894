package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps credentials in Redis under the two storage keys.
// Used on shared/headless dev boxes where a local file is not available
// to every process that needs the token.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "boardgame:",
	}
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func (r *RedisStore) Save(ctx context.Context, c Credentials) error {
	if c.Token == "" {
		return fmt.Errorf("session: missing token")
	}

	// No TTL: the token's lifetime is the backend's business. A stale
	// token is detected on the next user lookup and cleared there.
	if err := r.client.Set(ctx, r.key(TokenKey), c.Token, 0).Err(); err != nil {
		return err
	}

	if c.SessionID == "" {
		return r.client.Del(ctx, r.key(SessionIDKey)).Err()
	}
	return r.client.Set(ctx, r.key(SessionIDKey), c.SessionID, 0).Err()
}

func (r *RedisStore) Load(ctx context.Context) (*Credentials, error) {
	token, err := r.client.Get(ctx, r.key(TokenKey)).Result()
	if err == redis.Nil {
		return nil, nil // not logged in
	}
	if err != nil {
		return nil, err
	}

	sessionID, err := r.client.Get(ctx, r.key(SessionIDKey)).Result()
	if err == redis.Nil {
		sessionID = ""
	} else if err != nil {
		return nil, err
	}

	return &Credentials{Token: token, SessionID: sessionID}, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key(TokenKey), r.key(SessionIDKey)).Err()
}
