package fingerprint

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stackprint/pkg/analyzer"
	"github.com/matzehuels/stackprint/pkg/buildinfo"
	"github.com/matzehuels/stackprint/pkg/cache"
	"github.com/matzehuels/stackprint/pkg/deps"
	"github.com/matzehuels/stackprint/pkg/observability"
	"github.com/matzehuels/stackprint/pkg/patterns"
	"github.com/matzehuels/stackprint/pkg/syntax"
)

// Options controls a single Runner call.
type Options struct {
	// Config selects the analyzed files.
	Config analyzer.Config

	// Refresh bypasses cached results and overwrites them.
	Refresh bool
}

// Runner produces fingerprints with caching. Both the CLI and the HTTP
// server use it so that cache keys are derived the same way everywhere.
//
// The Runner holds no per-call state; one Runner may serve concurrent calls.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *syntax.Registry

	// TTL bounds how long a stored fingerprint is reused. Zero means
	// cache.TTLFingerprint.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer, a nil logger uses log.Default() and a nil
// registry gets the default grammars.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, reg *syntax.Registry) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = syntax.NewRegistry()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, Registry: reg}
}

// Fingerprint parses the manifest and analyzes the sources of root. The
// result is served from cache when neither the manifest, the collected
// files nor the configuration changed since it was stored. The boolean
// reports a cache hit.
func (r *Runner) Fingerprint(ctx context.Context, root string, opts Options) (*Fingerprint, bool, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, false, err
	}

	m, err := parseManifest(ctx, root)
	if err != nil {
		return nil, false, wrapStage("manifest", err)
	}

	a := analyzer.New(r.Registry, r.Logger)
	files, err := a.Collect(ctx, root, opts.Config)
	if err != nil {
		return nil, false, wrapStage("collect", err)
	}

	key := r.Keyer.FingerprintKey(root, contentHash(m, files), cache.FingerprintKeyOpts{
		Config:  opts.Config.Key(),
		Version: buildinfo.Version,
	})

	if !opts.Refresh {
		if fp, ok := r.cached(ctx, key); ok {
			r.Logger.Debug("fingerprint cache hit", "root", root, "id", fp.ID)
			return fp, true, nil
		}
	}

	start := time.Now()
	observability.Analysis().OnAnalyzeStart(ctx, root, len(files))
	analyses, err := a.AnalyzeFiles(ctx, files, opts.Config.Workers)
	observability.Analysis().OnAnalyzeComplete(ctx, root, len(analyses), time.Since(start), err)
	if err != nil {
		return nil, false, wrapStage("analyze", err)
	}

	fp := &Fingerprint{
		ID:          uuid.NewString(),
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Manifest:    m,
		Patterns:    patterns.Detect(analyses),
	}
	r.Logger.Info("fingerprinted project",
		"root", root,
		"ecosystem", m.Ecosystem,
		"dependencies", len(m.Dependencies),
		"files", fp.Patterns.FilesAnalyzed,
		"duration", time.Since(start))

	if data, err := json.Marshal(fp); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "fingerprint", len(data))
		}
	}
	return fp, false, nil
}

// Manifest parses the manifest of root, cached by its content.
func (r *Runner) Manifest(ctx context.Context, root string, refresh bool) (*deps.Manifest, bool, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, false, err
	}
	det, err := deps.Detect(root)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(det.ManifestPath)
	if err != nil {
		return nil, false, deps.ParseError(det.ManifestPath, err)
	}
	key := r.Keyer.ManifestKey(root, cache.Hash(data)+":"+string(det.Ecosystem))

	if !refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var m deps.Manifest
			if json.Unmarshal(cached, &m) == nil {
				observability.Cache().OnCacheHit(ctx, "manifest")
				return &m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "manifest")
	}

	m, err := parseManifest(ctx, root)
	if err != nil {
		return nil, false, err
	}
	if out, err := json.Marshal(m); err == nil {
		if err := r.Cache.Set(ctx, key, out, cache.TTLManifest); err == nil {
			observability.Cache().OnCacheSet(ctx, "manifest", len(out))
		}
	}
	return m, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLFingerprint
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Fingerprint, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err == nil && hit {
		var fp Fingerprint
		if json.Unmarshal(data, &fp) == nil {
			observability.Cache().OnCacheHit(ctx, "fingerprint")
			return &fp, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, "fingerprint")
	return nil, false
}

// contentHash identifies the inputs of a fingerprint: the parsed manifest
// (ecosystem, lockfile, dependencies and workspace members included) and
// the path, size and modification time of every collected file.
func contentHash(m *deps.Manifest, files []string) string {
	d := cache.NewDigest()
	data, err := json.Marshal(m)
	if err != nil {
		data = nil
	}
	d.Add(cache.Hash(data))
	for _, f := range files {
		d.Add(f)
		if info, err := os.Stat(f); err == nil {
			d.AddInt(info.Size(), info.ModTime().UnixNano())
		}
	}
	return d.Sum()
}
