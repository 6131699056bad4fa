package javascript

import (
	"github.com/matzehuels/stackprint/pkg/deps"
)

// Language describes the Node.js manifest family. npm, yarn and pnpm all
// share package.json; the lockfile only affects detection.
var Language = &deps.Language{
	Name:            "javascript",
	ManifestTypes:   []string{"package"},
	ManifestAliases: map[string]string{"package.json": "package"},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "package":
		return &PackageJSON{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{&PackageJSON{}}
}
