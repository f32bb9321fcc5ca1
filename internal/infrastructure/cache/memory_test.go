package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	if err := ms.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, found, err := ms.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || val != "value" {
		t.Fatalf("unexpected result: %q found=%v", val, found)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	if err := ms.Set(ctx, "key", "value", -time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	_, found, err := ms.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Fatal("expired key should not be found")
	}
}

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	ok, err := ms.SetNX(ctx, "key", "first", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if !ok {
		t.Fatal("first SetNX should succeed")
	}

	ok, err = ms.SetNX(ctx, "key", "second", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if ok {
		t.Fatal("second SetNX should be rejected")
	}

	val, _, _ := ms.Get(ctx, "key")
	if val != "first" {
		t.Fatalf("value should remain %q, got %q", "first", val)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	ms.Set(ctx, "key", "value", time.Minute)
	if err := ms.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, found, _ := ms.Get(ctx, "key")
	if found {
		t.Fatal("deleted key should not be found")
	}
}
