package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the TTL-bound key-value store a session document lives in.
// Load returns (nil, nil) when no document exists or the previous one
// expired; expiry is a terminal state, not an error.
type Store interface {
	Load(ctx context.Context, identity string) (*Session, error)
	Save(ctx context.Context, identity string, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, identity string) error
}

// RedisStore persists session documents as JSON values in Redis under
// namespaced keys: <prefix>:chat:session:<identity>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisStoreOpts holds parameters for creating a RedisStore.
type RedisStoreOpts struct {
	Addr   string // host:port
	Prefix string // key namespace
}

// NewRedisStore creates a RedisStore with its own client connection.
func NewRedisStore(opts RedisStoreOpts) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("session: redis store: addr is required")
	}
	if opts.Prefix == "" {
		return nil, fmt.Errorf("session: redis store: prefix is required")
	}
	client := redis.NewClient(&redis.Options{Addr: opts.Addr})
	return &RedisStore{client: client, prefix: opts.Prefix}, nil
}

// keyFor builds the namespaced session key for an identity.
func (r *RedisStore) keyFor(identity string) string {
	return fmt.Sprintf("%s:chat:session:%s", r.prefix, identity)
}

// Load fetches and unmarshals the session document for an identity.
func (r *RedisStore) Load(ctx context.Context, identity string) (*Session, error) {
	data, err := r.client.Get(ctx, r.keyFor(identity)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", identity, err)
	}
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal %s: %w", identity, err)
	}
	return &s, nil
}

// Save marshals and writes the session document with the given TTL.
func (r *RedisStore) Save(ctx context.Context, identity string, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", identity, err)
	}
	if err := r.client.Set(ctx, r.keyFor(identity), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: save %s: %w", identity, err)
	}
	return nil
}

// Delete removes the session document for an identity.
func (r *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := r.client.Del(ctx, r.keyFor(identity)).Err(); err != nil {
		return fmt.Errorf("session: delete %s: %w", identity, err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("session: redis ping: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
