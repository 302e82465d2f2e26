// Package domain contains the core business entities and interfaces.
package domain

import "context"

// KeyValueStore is the port for durable key/value persistence. Get returns
// nil, nil when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
