package cache

import (
	"strings"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss")
	}

	if err := c.Set("k", []byte("raster"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "raster" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("short", []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d", c.Len())
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("raster", "report-1", "1200")
	b := CacheKey("raster", "report-1", "1200")
	if a != b {
		t.Error("Expected deterministic keys")
	}
	if !strings.HasPrefix(a, "ideajudge:raster:v1:") {
		t.Errorf("Unexpected prefix: %s", a)
	}
	if CacheKey("raster", "report-1", "800") == a {
		t.Error("Expected different width to change the key")
	}
	// Parts are separated, so concatenation cannot collide
	if CacheKey("raster", "ab", "c") == CacheKey("raster", "a", "bc") {
		t.Error("Expected separator between parts")
	}
}
