package deps

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/stackprint/pkg/errors"
)

// Detection is the outcome of package manager detection for a project root.
type Detection struct {
	Ecosystem    Ecosystem `json:"ecosystem"`
	ManifestPath string    `json:"manifestPath"`
	LockPath     string    `json:"lockPath,omitempty"`
}

type nodeLock struct {
	ecosystem Ecosystem
	lockfile  string
}

// nodeLocks is ordered by priority.
var nodeLocks = []nodeLock{
	{EcosystemPnpm, "pnpm-lock.yaml"},
	{EcosystemYarn, "yarn.lock"},
	{EcosystemNpm, "package-lock.json"},
}

// Detect identifies the package manager used in root. The first matching
// rule wins:
//
//  1. a Node lockfile (pnpm, yarn, npm) next to package.json
//  2. package.json alone (npm)
//  3. pyproject.toml, then requirements.txt (pip)
//  4. Cargo.toml (cargo)
//  5. go.mod (go)
//
// It returns an UNSUPPORTED_ECOSYSTEM error when nothing matches.
func Detect(root string) (*Detection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot access %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	pkgJSON := filepath.Join(root, "package.json")
	if fileExists(pkgJSON) {
		for _, nl := range nodeLocks {
			lock := filepath.Join(root, nl.lockfile)
			if fileExists(lock) {
				return &Detection{Ecosystem: nl.ecosystem, ManifestPath: pkgJSON, LockPath: lock}, nil
			}
		}
		return &Detection{Ecosystem: EcosystemNpm, ManifestPath: pkgJSON}, nil
	}

	for _, name := range []string{"pyproject.toml", "requirements.txt"} {
		if p := filepath.Join(root, name); fileExists(p) {
			return &Detection{Ecosystem: EcosystemPip, ManifestPath: p}, nil
		}
	}

	if p := filepath.Join(root, "Cargo.toml"); fileExists(p) {
		return &Detection{Ecosystem: EcosystemCargo, ManifestPath: p, LockPath: optional(root, "Cargo.lock")}, nil
	}

	if p := filepath.Join(root, "go.mod"); fileExists(p) {
		return &Detection{Ecosystem: EcosystemGo, ManifestPath: p, LockPath: optional(root, "go.sum")}, nil
	}

	return nil, errors.New(errors.ErrCodeUnsupportedEcosystem, "no supported package manager found in %s", root)
}

func optional(root, name string) string {
	if p := filepath.Join(root, name); fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
