package storage

import (
	"context"
	"testing"
)

func TestMemory_GetAbsentReturnsNil(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	v, err := kv.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil for absent key, got %q", v)
	}
}

func TestMemory_SetGetDel(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	v, err := kv.Get(ctx, "k")
	if err != nil || string(v) != "v" {
		t.Fatalf("Get returned %q, %v", v, err)
	}

	if err := kv.Del(ctx, "k", "also-missing"); err != nil {
		t.Fatalf("Del error: %v", err)
	}
	v, _ = kv.Get(ctx, "k")
	if v != nil {
		t.Fatalf("expected key removed, got %q", v)
	}
}

func TestReadJSON_UnparsableTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	if err := kv.Set(ctx, "bad", []byte("{corrupt")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	var out map[string]string
	ok, err := ReadJSON(ctx, kv, "bad", &out)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt payload must read as absent")
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	in := map[string]int{"a": 1, "b": 2}
	if err := WriteJSON(ctx, kv, "obj", in); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var out map[string]int
	ok, err := ReadJSON(ctx, kv, "obj", &out)
	if err != nil || !ok {
		t.Fatalf("ReadJSON: ok=%v err=%v", ok, err)
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}

func TestWithPrefix_IsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()

	a := WithPrefix(backend, "visitor:a")
	b := WithPrefix(backend, "visitor:b")

	if err := a.Set(ctx, "basket_data", []byte("[1]")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	v, err := b.Get(ctx, "basket_data")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != nil {
		t.Fatalf("namespaces must not leak, got %q", v)
	}

	// the backend sees the joined key
	raw, _ := backend.Get(ctx, "visitor:a:basket_data")
	if string(raw) != "[1]" {
		t.Fatalf("expected prefixed key in backend, got %q", raw)
	}

	if err := a.Del(ctx, "basket_data"); err != nil {
		t.Fatalf("Del error: %v", err)
	}
	if raw, _ := backend.Get(ctx, "visitor:a:basket_data"); raw != nil {
		t.Fatalf("expected prefixed key removed, got %q", raw)
	}
}
