package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const blobKeyPrefix = "smartmed:blob:"

// BlobStorage implements ports.BlobStorage with plain Redis strings. Values
// never expire.
// Key format: smartmed:blob:<key>
type BlobStorage struct {
	client *redis.Client
}

func NewBlobStorage(client *redis.Client) *BlobStorage {
	return &BlobStorage{client: client}
}

func (s *BlobStorage) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, blobKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get blob[%s]: %w", key, err)
	}
	return v, nil
}

func (s *BlobStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, blobKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set blob[%s]: %w", key, err)
	}
	return nil
}

func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, blobKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete blob[%s]: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *BlobStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
