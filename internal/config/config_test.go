package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/stackprint/pkg/analyzer"
	"github.com/matzehuels/stackprint/pkg/cache"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := analyzer.DefaultConfig()
	if !slices.Equal(cfg.Analyze.Extensions, d.Extensions) {
		t.Errorf("Extensions = %v, want %v", cfg.Analyze.Extensions, d.Extensions)
	}
	if cfg.Analyze.MaxFiles != analyzer.DefaultMaxFiles {
		t.Errorf("MaxFiles = %d, want %d", cfg.Analyze.MaxFiles, analyzer.DefaultMaxFiles)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.Timeout != time.Minute {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `analyze:
  extensions: [".py"]
  exclude: ["vendor"]
  max_files: 50
cache:
  backend: memory
  memory_size: 10
server:
  timeout: 5s
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STACKPRINT_SERVER_ADDR", ":9999")
	t.Setenv("STACKPRINT_ANALYZE_MAX_FILES", "75")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !slices.Equal(cfg.Analyze.Extensions, []string{".py"}) {
		t.Errorf("Extensions = %v", cfg.Analyze.Extensions)
	}
	if !slices.Equal(cfg.Analyze.ExcludeDirs, []string{"vendor"}) {
		t.Errorf("ExcludeDirs = %v", cfg.Analyze.ExcludeDirs)
	}
	if cfg.Analyze.MaxFiles != 75 {
		t.Errorf("MaxFiles = %d, want env override 75", cfg.Analyze.MaxFiles)
	}
	if cfg.Cache.Backend != BackendMemory || cfg.Cache.MemorySize != 10 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9999" || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if filepath.Base(cfg.File) != FileName {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  backend: bogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unknown cache backend")
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		check   func(cache.Cache) bool
	}{
		{BackendNone, func(c cache.Cache) bool { _, ok := c.(*cache.NullCache); return ok }},
		{BackendMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{BackendFile, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c, err := CacheConfig{Backend: tt.backend, MemorySize: 4}.OpenCache(ctx, t.TempDir())
			if err != nil {
				t.Fatalf("OpenCache() error: %v", err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("OpenCache(%s) returned %T", tt.backend, c)
			}
		})
	}
}

func TestCacheTTLAndPrefix(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("cache:\n  prefix: \"ci:\"\n  ttl: 30m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STACKPRINT_CACHE_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("TTL = %s, want env override 2h", cfg.Cache.TTL)
	}
	if cfg.Cache.Prefix != "ci:" {
		t.Errorf("Prefix = %q, want ci:", cfg.Cache.Prefix)
	}

	scoped := cfg.Cache.Keyer()
	if _, ok := scoped.(*cache.ScopedKeyer); !ok {
		t.Fatalf("Keyer() = %T, want *cache.ScopedKeyer", scoped)
	}
	plain := CacheConfig{}.Keyer()
	key := scoped.ManifestKey("/repo", "abc")
	if key != "ci:"+plain.ManifestKey("/repo", "abc") {
		t.Errorf("scoped key = %q, want ci: prefix on the default key", key)
	}
}
