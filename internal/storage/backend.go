// AngelaMos | 2026
// backend.go

package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("key not found")
	ErrInvalidScope = errors.New("invalid scope")
)

// Backend is the raw byte store behind an Adapter. Every key lives in
// a scope, one scope per device, so Clear only touches that device.
type Backend interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	Clear(ctx context.Context, scope string) error
	Ping(ctx context.Context) error
}
