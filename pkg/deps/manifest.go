package deps

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/stackprint/pkg/errors"
)

// ManifestParser reads dependency information from a local manifest file.
type ManifestParser interface {
	// Parse reads the manifest at path and returns its normalized form.
	// Unreadable or malformed input yields a MANIFEST_PARSE error.
	Parse(path string) (*Manifest, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "package.json").
	Type() string
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupportedEcosystem, "unsupported manifest: %s", name)
}

// ReadManifest reads a manifest file, wrapping failures as MANIFEST_PARSE.
func ReadManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ParseError(path, err)
	}
	return data, nil
}

// ParseError wraps a manifest decoding failure.
func ParseError(path string, cause error) error {
	return errors.Wrap(errors.ErrCodeManifestParse, cause, "failed to parse %s", filepath.Base(path))
}
