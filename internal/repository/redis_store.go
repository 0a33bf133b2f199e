package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisDocumentStore keeps every document as a string value under
// prefix+name. Values carry no expiry.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
}

func NewRedisDocumentStore(client *redis.Client, prefix string) *RedisDocumentStore {
	return &RedisDocumentStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisDocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *RedisDocumentStore) Save(ctx context.Context, name string, data []byte) error {
	return r.client.Set(ctx, r.prefix+name, data, 0).Err()
}

func (r *RedisDocumentStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
