package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	key := NewDefaultKeyer().LayoutKey("abc", LayoutKeyOpts{Orientation: "down"})
	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(data) != "payload" {
		t.Errorf("got %q, want %q", data, "payload")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("expected miss after delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%q): %v", k, err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			t.Errorf("key %q survived Clear", k)
		}
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("null cache returned a hit: ok=%v err=%v", ok, err)
	}
}

func TestKeyerDeterminism(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LayoutKeyOpts{Orientation: "radial", UseEdgeLengths: true, MaxDaylightIterations: 3}
	if k.LayoutKey("h1", opts) != k.LayoutKey("h1", opts) {
		t.Error("identical inputs produced different keys")
	}
	if k.LayoutKey("h1", opts) == k.LayoutKey("h2", opts) {
		t.Error("different hashes produced the same key")
	}
	other := opts
	other.MaxDaylightIterations = 0
	if k.LayoutKey("h1", opts) == k.LayoutKey("h1", other) {
		t.Error("different options produced the same key")
	}
	if k.LayoutKey("h1", opts) == k.ConsensusKey("h1", ConsensusKeyOpts{}) {
		t.Error("layout and consensus keys collided")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "tenant1:")
	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	want := "tenant1:" + base.LayoutKey("h", LayoutKeyOpts{})
	if key != want {
		t.Errorf("got %q, want %q", key, want)
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("tree"))
	b := Hash([]byte("tree"))
	if a != b {
		t.Error("identical inputs hashed differently")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Error("different inputs produced the same hash")
	}
}
