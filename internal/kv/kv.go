// Package kv holds the byte-valued key-value stores the local collection
// backend persists into.
package kv

import "context"

type Store interface {
	// Get returns ok=false when key has never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
