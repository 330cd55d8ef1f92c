package storage

import (
	"context"
	"encoding/json"
)

// KV is the durable key-value surface every store persists through.
// Get returns (nil, nil) for an absent key; callers treat absent and
// unparsable values the same way, so read paths never fail on bad data.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

// ReadJSON loads key into out. It reports false when the key is absent or
// the stored value does not parse; a stale or corrupt record reads as "not
// there" rather than as a fault.
func ReadJSON(ctx context.Context, kv KV, key string, out any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// WriteJSON serializes v and stores it at key.
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}

type prefixed struct {
	kv     KV
	prefix string
}

// WithPrefix namespaces every key under prefix so independent visitors can
// share one backend while each store keeps its well-known key names.
func WithPrefix(kv KV, prefix string) KV {
	return &prefixed{kv: kv, prefix: prefix}
}

func (p *prefixed) key(k string) string { return p.prefix + ":" + k }

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.kv.Get(ctx, p.key(key))
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.key(key), value)
}

func (p *prefixed) Del(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, p.key(k))
	}
	return p.kv.Del(ctx, full...)
}
