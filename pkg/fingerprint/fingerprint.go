// Package fingerprint combines dependency manifests and source patterns into
// a single project fingerprint.
//
// [ParseManifest] and [AnalyzePatterns] are the two consumer contracts used
// by downstream rule matching and document generation. [Runner] wraps both
// with caching for the CLI and the HTTP server.
package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackprint/pkg/analyzer"
	"github.com/matzehuels/stackprint/pkg/deps"
	"github.com/matzehuels/stackprint/pkg/deps/golang"
	"github.com/matzehuels/stackprint/pkg/deps/javascript"
	"github.com/matzehuels/stackprint/pkg/deps/python"
	"github.com/matzehuels/stackprint/pkg/deps/rust"
	"github.com/matzehuels/stackprint/pkg/errors"
	"github.com/matzehuels/stackprint/pkg/observability"
	"github.com/matzehuels/stackprint/pkg/patterns"
	"github.com/matzehuels/stackprint/pkg/syntax"
)

// Fingerprint is the combined description of a project.
type Fingerprint struct {
	ID          string                   `json:"id" yaml:"id"`
	Root        string                   `json:"root" yaml:"root"`
	GeneratedAt time.Time                `json:"generatedAt" yaml:"generatedAt"`
	Manifest    *deps.Manifest           `json:"manifest" yaml:"manifest"`
	Patterns    patterns.ProjectPatterns `json:"patterns" yaml:"patterns"`
}

// Languages lists every supported manifest family.
var Languages = []*deps.Language{
	javascript.Language,
	python.Language,
	rust.Language,
	golang.Language,
}

func allParsers() []deps.ManifestParser {
	var out []deps.ManifestParser
	for _, l := range Languages {
		out = append(out, l.Parsers()...)
	}
	return out
}

// ParseManifest detects the package manager used in root and parses its
// manifest. It fails with UNSUPPORTED_ECOSYSTEM when no manifest is found
// and MANIFEST_PARSE when the manifest cannot be read.
func ParseManifest(root string) (*deps.Manifest, error) {
	return parseManifest(context.Background(), root)
}

func parseManifest(ctx context.Context, root string) (m *deps.Manifest, err error) {
	start := time.Now()
	observability.Analysis().OnManifestStart(ctx, root)
	defer func() {
		var eco string
		var n int
		if m != nil {
			eco, n = string(m.Ecosystem), len(m.Dependencies)
		}
		observability.Analysis().OnManifestComplete(ctx, eco, n, time.Since(start), err)
	}()

	det, err := deps.Detect(root)
	if err != nil {
		return nil, err
	}
	parser, err := deps.DetectManifest(det.ManifestPath, allParsers()...)
	if err != nil {
		return nil, err
	}
	m, err = parser.Parse(det.ManifestPath)
	if err != nil {
		return nil, err
	}
	m.Ecosystem = det.Ecosystem
	m.ManifestPath = det.ManifestPath
	m.LockPath = det.LockPath
	return m, nil
}

// AnalyzePatterns derives the coding patterns of the sources under root.
// Unparseable files are skipped, so the only failure is TIMEOUT when ctx is
// cancelled or expires. A nil reg uses the default grammars.
func AnalyzePatterns(ctx context.Context, root string, cfg analyzer.Config, reg *syntax.Registry) (patterns.ProjectPatterns, error) {
	a := analyzer.New(reg, nil)
	p, err := a.Analyze(ctx, root, cfg)
	if err != nil && !errors.Is(err, errors.ErrCodeTimeout) {
		return patterns.Empty(), nil
	}
	return p, err
}

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", format)
	}
}

func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	return abs, nil
}

func wrapStage(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
