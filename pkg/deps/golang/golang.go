package golang

import (
	"github.com/matzehuels/stackprint/pkg/deps"
)

// Language describes the Go module manifest family.
var Language = &deps.Language{
	Name:            "go",
	ManifestTypes:   []string{"gomod"},
	ManifestAliases: map[string]string{"go.mod": "gomod"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "gomod":
		return &GoModParser{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&GoModParser{}}
}
