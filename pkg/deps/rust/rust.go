// Package rust parses Cargo manifests.
package rust

import (
	"github.com/matzehuels/stackprint/pkg/deps"
)

var Language = &deps.Language{
	Name:            "rust",
	ManifestTypes:   []string{"cargo"},
	ManifestAliases: map[string]string{"Cargo.toml": "cargo", "cargo.toml": "cargo"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "cargo":
		return &CargoToml{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&CargoToml{}}
}
