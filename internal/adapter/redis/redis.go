// Package redis implements the key/value store on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"calories/internal/domain"
)

// KeyPrefix namespaces every key written by the store.
const KeyPrefix = "calories:"

// Store keeps tracker values in Redis without expiry.
type Store struct {
	client *goredis.Client
}

var _ domain.KeyValueStore = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(addr, password string, db int) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Get returns the value stored under key, or nil when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, KeyPrefix+key, value, 0).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
