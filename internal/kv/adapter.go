package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// Adapter reads and writes JSON values through a Store and absorbs every
// storage failure.
type Adapter struct {
	store  Store
	logger *slog.Logger
}

// NewAdapter wraps store. A nil logger discards log output.
func NewAdapter(store Store, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{store: store, logger: logger}
}

// Store returns the wrapped store.
func (a *Adapter) Store() Store {
	return a.store
}

// Read decodes the value stored under key into a T.
// An absent key, a storage error, or undecodable JSON all yield def.
func Read[T any](ctx context.Context, a *Adapter, key string, def T) T {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Error("kv read failed", "key", key, "error", err)
		return def
	}
	if !ok {
		a.logger.Debug("kv key absent", "key", key)
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.logger.Error("kv decode failed", "key", key, "error", err)
		return def
	}
	return v
}

// Write encodes v as JSON and stores it under key.
// Failures are logged and otherwise ignored.
func (a *Adapter) Write(ctx context.Context, key string, v any) {
	raw, err := encode(v)
	if err != nil {
		a.logger.Error("kv encode failed", "key", key, "error", err)
		return
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.Error("kv write failed", "key", key, "error", err)
		return
	}
	a.logger.Debug("kv write", "key", key, "bytes", len(raw))
}

// Remove deletes key. Failures are logged and otherwise ignored.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Error("kv delete failed", "key", key, "error", err)
	}
}

// encode marshals v without HTML escaping so stored text matches what the
// CLI prints.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
