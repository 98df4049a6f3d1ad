package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"feed-go/internal/docstore"
)

var ctx = context.Background()

// RedisVault stores each blob as a plain Redis string value.
type RedisVault struct {
	name   string
	prefix string
	inner  *redis.Client
}

// NewRedisVault creates a vault backed by the Redis server at addr.
// Keys are stored as prefix+key.
func NewRedisVault(name, addr, password string, db int, prefix string) *RedisVault {
	return NewRedisVaultFromClient(name, redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix)
}

// NewRedisVaultFromClient wraps an existing client.
func NewRedisVaultFromClient(name string, client *redis.Client, prefix string) *RedisVault {
	return &RedisVault{
		name:   name,
		prefix: prefix,
		inner:  client,
	}
}

// Get returns the blob stored under key.
func (v *RedisVault) Get(key string) ([]byte, error) {
	data, err := v.inner.Get(ctx, v.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", docstore.ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key without expiry.
func (v *RedisVault) Put(key string, data []byte) error {
	if err := v.inner.Set(ctx, v.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	return nil
}

// ValidateSetup pings the Redis server.
func (v *RedisVault) ValidateSetup() error {
	if _, err := v.inner.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}

// Close closes the client.
func (v *RedisVault) Close() error {
	return v.inner.Close()
}

var _ docstore.BlobStore = (*RedisVault)(nil)
