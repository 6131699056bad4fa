// Package analyzer walks a project tree, parses every matching source file
// with a bounded pool of workers and folds the results into
// [patterns.ProjectPatterns].
//
// Traversal is depth first with directory entries in lexicographic order,
// and results are folded in traversal order regardless of which worker
// finishes first. Repeated runs over an unchanged tree therefore produce
// identical patterns.
//
//	a := analyzer.New(syntax.NewRegistry(), logger)
//	p, err := a.Analyze(ctx, "/path/to/project", analyzer.DefaultConfig())
package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackprint/pkg/errors"
	"github.com/matzehuels/stackprint/pkg/observability"
	"github.com/matzehuels/stackprint/pkg/patterns"
	"github.com/matzehuels/stackprint/pkg/syntax"
)

// Analyzer runs source analysis over project trees. It keeps no state
// between calls and may be used concurrently.
type Analyzer struct {
	Registry *syntax.Registry
	Logger   *log.Logger
}

// New creates an analyzer. A nil registry gets the default grammars and a
// nil logger falls back to log.Default().
func New(reg *syntax.Registry, logger *log.Logger) *Analyzer {
	if reg == nil {
		reg = syntax.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Analyzer{Registry: reg, Logger: logger}
}

// Analyze collects the files under root and returns their folded patterns.
// Only a cancelled or expired context makes it fail.
func (a *Analyzer) Analyze(ctx context.Context, root string, cfg Config) (patterns.ProjectPatterns, error) {
	files, err := a.Collect(ctx, root, cfg)
	if err != nil {
		return patterns.Empty(), err
	}

	start := time.Now()
	observability.Analysis().OnAnalyzeStart(ctx, root, len(files))

	analyses, err := a.AnalyzeFiles(ctx, files, cfg.Workers)
	observability.Analysis().OnAnalyzeComplete(ctx, root, len(analyses), time.Since(start), err)
	if err != nil {
		return patterns.Empty(), err
	}

	p := patterns.Detect(analyses)
	a.Logger.Debug("analyzed sources",
		"root", root,
		"files", len(files),
		"analyzed", len(analyses),
		"duration", time.Since(start))
	return p, nil
}

// AnalyzeFiles parses files with at most workers goroutines and returns one
// record per successfully parsed file, in the order of files. Files that
// fail are logged and skipped. Cancellation discards all results.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []string, workers int) ([]*syntax.FileAnalysis, error) {
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}

	results := make([]*syntax.FileAnalysis, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fa, err := a.Registry.AnalyzeFile(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				a.Logger.Debug("skipping file", "path", path, "error", err)
				observability.Analysis().OnFileSkipped(ctx, path, err)
				return nil
			}
			results[i] = fa
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, timeoutError(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, timeoutError(ctx, err)
	}

	analyses := make([]*syntax.FileAnalysis, 0, len(results))
	for _, fa := range results {
		if fa != nil {
			analyses = append(analyses, fa)
		}
	}
	return analyses, nil
}

// Collect returns the files under root selected by cfg, depth first with
// directory entries in lexicographic order. Unreadable directories are
// skipped.
func (a *Analyzer) Collect(ctx context.Context, root string, cfg Config) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "project root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "project root %s is not a directory", root)
	}

	cfg = cfg.withDefaults()
	w := &walker{
		ctx:      ctx,
		logger:   a.Logger,
		exts:     normalizeExtensions(cfg.Extensions),
		exclude:  make(map[string]bool, len(cfg.ExcludeDirs)),
		maxFiles: cfg.MaxFiles,
	}
	for _, d := range cfg.ExcludeDirs {
		w.exclude[d] = true
	}

	if err := w.walk(root); err != nil {
		return nil, timeoutError(ctx, err)
	}
	return w.files, nil
}

func timeoutError(ctx context.Context, err error) error {
	if errors.Is(err, errors.ErrCodeTimeout) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return errors.Wrap(errors.ErrCodeTimeout, err, "analysis interrupted")
}

type walker struct {
	ctx      context.Context
	logger   *log.Logger
	exts     map[string]struct{}
	exclude  map[string]bool
	maxFiles int
	files    []string
}

func (w *walker) full() bool {
	return w.maxFiles > 0 && len(w.files) >= w.maxFiles
}

func (w *walker) walk(dir string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, e := range entries {
		if w.full() {
			return nil
		}
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if w.exclude[e.Name()] {
				continue
			}
			if err := w.walk(path); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := w.exts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			w.files = append(w.files, path)
		}
	}
	return nil
}
