package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDigest(t *testing.T) {
	a := NewDigest().Add("ab", "c").AddInt(1).Sum()
	b := NewDigest().Add("a", "bc").AddInt(1).Sum()
	if a == b {
		t.Error("field boundaries should change the digest")
	}
	if again := NewDigest().Add("ab", "c").AddInt(1).Sum(); again != a {
		t.Error("Digest should be deterministic")
	}
	if c := NewDigest().Add("ab", "c").AddInt(2).Sum(); c == a {
		t.Error("different ints should change the digest")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	fk1 := k.FingerprintKey("/repo", "abc", FingerprintKeyOpts{Config: "max=200"})
	fk2 := k.FingerprintKey("/repo", "abc", FingerprintKeyOpts{Config: "max=10"})
	fk3 := k.FingerprintKey("/repo", "def", FingerprintKeyOpts{Config: "max=200"})
	if fk1 == fk2 || fk1 == fk3 {
		t.Error("Different inputs should produce different fingerprint keys")
	}
	if fk1 != k.FingerprintKey("/repo", "abc", FingerprintKeyOpts{Config: "max=200"}) {
		t.Error("FingerprintKey should be deterministic")
	}
	if !strings.HasPrefix(fk1, "fingerprint:") {
		t.Errorf("FingerprintKey unexpected prefix: %s", fk1)
	}

	mk := k.ManifestKey("/repo", "abc")
	if !strings.HasPrefix(mk, "manifest:") || mk == fk1 {
		t.Errorf("ManifestKey unexpected: %s", mk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	key := scoped.FingerprintKey("/repo", "abc", FingerprintKeyOpts{})
	if key != "user:123:"+inner.FingerprintKey("/repo", "abc", FingerprintKeyOpts{}) {
		t.Errorf("ScopedKeyer FingerprintKey should be prefixed: %s", key)
	}

	mk := scoped.ManifestKey("/repo", "abc")
	if !strings.HasPrefix(mk, "user:123:manifest:") {
		t.Errorf("ScopedKeyer ManifestKey should be prefixed: %s", mk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ManifestKey("/repo", "abc")
	if key != "prefix:"+NewDefaultKeyer().ManifestKey("/repo", "abc") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get on empty cache should miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = (%q, %v, %v), want (value, true, nil)", data, hit, err)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "old", []byte("x"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "old"); !hit {
		t.Error("entry without ttl should not expire")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}

	if fc, ok := c.(*FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Dir() should return %s", dir)
	}
}

func TestClearDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearDir(dir)
	if err != nil {
		t.Fatalf("ClearDir error: %v", err)
	}
	if n != 3 {
		t.Errorf("ClearDir removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("ClearDir left %d entries in %s", len(entries), dir)
	}

	n, err = ClearDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil || n != 0 {
		t.Errorf("ClearDir(missing) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache error: %v", err)
	}
	defer c.Close()

	value := []byte("one")
	if err := c.Set(ctx, "1", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'
	data, hit, _ := c.Get(ctx, "1")
	if !hit || string(data) != "one" {
		t.Errorf("Get = (%q, %v), want stored copy", data, hit)
	}

	// Adding beyond capacity evicts the least recently used entry
	_ = c.Set(ctx, "2", []byte("two"), 0)
	_, _, _ = c.Get(ctx, "1")
	_ = c.Set(ctx, "3", []byte("three"), 0)
	if _, hit, _ := c.Get(ctx, "2"); hit {
		t.Error("least recently used entry should be evicted")
	}
	if _, hit, _ := c.Get(ctx, "1"); !hit {
		t.Error("recently used entry should survive")
	}

	_ = c.Set(ctx, "short", []byte("x"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	_ = c.Delete(ctx, "1")
	if _, hit, _ := c.Get(ctx, "1"); hit {
		t.Error("deleted entry should miss")
	}
}

func TestMemoryCacheDefaultSize(t *testing.T) {
	c, err := NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	mc := c.(*MemoryCache)
	for i := 0; i < DefaultMemorySize+10; i++ {
		_ = mc.Set(context.Background(), fmt.Sprint(i), nil, 0)
	}
	if mc.Len() != DefaultMemorySize {
		t.Errorf("Len() = %d, want %d", mc.Len(), DefaultMemorySize)
	}
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-redis-url"); err == nil {
		t.Error("NewRedisCache should reject an invalid url")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errNotRetryable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	defer func() { retryDelay = time.Second }()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errNotRetryable
	})
	if err != errNotRetryable {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

var errNotRetryable = fmt.Errorf("permanent failure")
