package storage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/config"
)

// fakeRedis satisfies redisCmdable over a plain map.
type fakeRedis struct {
	data map[string][]byte
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}}
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedis_NilMapsToAbsent(t *testing.T) {
	ctx := context.Background()
	r := &Redis{store: newFakeRedis()}

	v, err := r.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil for absent key, got %q", v)
	}
}

func TestRedis_SetGetDel(t *testing.T) {
	ctx := context.Background()
	r := &Redis{store: newFakeRedis()}

	if err := r.Set(ctx, "authData", []byte(`{"isLoggedIn":true}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	v, err := r.Get(ctx, "authData")
	if err != nil || string(v) != `{"isLoggedIn":true}` {
		t.Fatalf("Get returned %q, %v", v, err)
	}
	if err := r.Del(ctx, "authData", "token"); err != nil {
		t.Fatalf("Del error: %v", err)
	}
	if v, _ := r.Get(ctx, "authData"); v != nil {
		t.Fatalf("expected key removed, got %q", v)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2"})
	if err != nil {
		t.Fatalf("url config error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options from url: %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{
		Address:     "10.0.0.5:6379",
		Password:    "pw",
		DB:          1,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("address config error: %v", err)
	}
	if opts.Addr != "10.0.0.5:6379" || opts.Password != "pw" || opts.DialTimeout != 2*time.Second {
		t.Fatalf("unexpected options from address: %+v", opts)
	}
}
