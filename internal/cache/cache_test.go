// ABOUTME: Tests for the Badger-backed TTL cache.
// ABOUTME: Covers get/set, expiry and subject invalidation.
package cache

import (
	"bytes"
	"testing"
	"time"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	if got := Key("emma"); string(got) != "s:emma" {
		t.Errorf("Key = %q, want s:emma", got)
	}
	if got := Key("emma", "entries", "weight"); string(got) != "s:emma:entries:weight" {
		t.Errorf("Key = %q, want s:emma:entries:weight", got)
	}
}

func TestGetSet(t *testing.T) {
	c := setupCache(t)

	key := Key("emma", "latest")
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss on empty cache")
	}

	if err := c.Set(key, []byte(`{"value": 4.2}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get(key)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if !bytes.Equal(val, []byte(`{"value": 4.2}`)) {
		t.Errorf("Get = %q", val)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := setupCache(t).WithTTL(50 * time.Millisecond)

	key := Key("emma", "daily")
	if err := c.Set(key, []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get(key); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss after TTL expiry")
	}
}

func TestInvalidateSubject(t *testing.T) {
	c := setupCache(t)

	if err := c.Set(Key("emma", "latest"), []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(Key("emma", "daily"), []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(Key("noah", "latest"), []byte("c")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := c.InvalidateSubject("emma"); err != nil {
		t.Fatalf("InvalidateSubject failed: %v", err)
	}

	if _, ok := c.Get(Key("emma", "latest")); ok {
		t.Error("Expected emma keys to be dropped")
	}
	if _, ok := c.Get(Key("emma", "daily")); ok {
		t.Error("Expected emma keys to be dropped")
	}
	if _, ok := c.Get(Key("noah", "latest")); !ok {
		t.Error("Expected noah keys to survive")
	}
}

func TestInvalidateSubjectPrefixBounded(t *testing.T) {
	c := setupCache(t)

	if err := c.Set(Key("emma", "latest"), []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(Key("emmanuel", "latest"), []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := c.InvalidateSubject("emma"); err != nil {
		t.Fatalf("InvalidateSubject failed: %v", err)
	}

	if _, ok := c.Get(Key("emma", "latest")); ok {
		t.Error("Expected emma keys to be dropped")
	}
	if _, ok := c.Get(Key("emmanuel", "latest")); !ok {
		t.Error("Expected emmanuel keys to survive")
	}
}
