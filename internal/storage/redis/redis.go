// Package redis implements storage.KV on top of Redis.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

type kv struct {
	client goredis.Cmdable
}

// New returns a storage.KV backed by client.
func New(client goredis.Cmdable) storage.KV {
	return kv{client: client}
}

func (s kv) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", storage.ErrNotFound
	}
	return v, err
}

func (s kv) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s kv) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s kv) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}
