// AngelaMos | 2026
// adapter.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Adapter is the key-value view of one device scope. It never returns
// errors: a failed read reports the key as absent and a failed write is
// dropped after being logged.
type Adapter struct {
	backend Backend
	scope   string
	logger  *slog.Logger
}

func NewAdapter(backend Backend, scope string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		backend: backend,
		scope:   scope,
		logger:  logger.With("scope", scope),
	}
}

func (a *Adapter) Scope() string {
	return a.scope
}

// Get decodes the value stored under key into dest and reports whether
// a usable value was found.
func (a *Adapter) Get(ctx context.Context, key string, dest any) bool {
	raw, err := a.backend.Get(ctx, a.scope, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		a.logger.WarnContext(ctx, "storage read failed",
			"key", key,
			"error", err,
		)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		a.logger.WarnContext(ctx, "storage value unreadable",
			"key", key,
			"error", err,
		)
		return false
	}

	return true
}

func (a *Adapter) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		a.logger.WarnContext(ctx, "storage value not serializable",
			"key", key,
			"error", err,
		)
		return
	}

	if err := a.backend.Set(ctx, a.scope, key, raw); err != nil {
		a.logger.WarnContext(ctx, "storage write failed",
			"key", key,
			"error", err,
		)
	}
}

func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, a.scope, key); err != nil {
		a.logger.WarnContext(ctx, "storage remove failed",
			"key", key,
			"error", err,
		)
	}
}

func (a *Adapter) Clear(ctx context.Context) {
	if err := a.backend.Clear(ctx, a.scope); err != nil {
		a.logger.WarnContext(ctx, "storage clear failed", "error", err)
	}
}
