package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackprint/pkg/errors"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		want     Ecosystem
		manifest string
		lock     string
	}{
		{"pnpm beats yarn", []string{"package.json", "pnpm-lock.yaml", "yarn.lock"}, EcosystemPnpm, "package.json", "pnpm-lock.yaml"},
		{"yarn beats npm", []string{"package.json", "yarn.lock", "package-lock.json"}, EcosystemYarn, "package.json", "yarn.lock"},
		{"npm lockfile", []string{"package.json", "package-lock.json"}, EcosystemNpm, "package.json", "package-lock.json"},
		{"package.json only", []string{"package.json"}, EcosystemNpm, "package.json", ""},
		{"node beats python", []string{"package.json", "requirements.txt"}, EcosystemNpm, "package.json", ""},
		{"pyproject beats requirements", []string{"pyproject.toml", "requirements.txt"}, EcosystemPip, "pyproject.toml", ""},
		{"requirements", []string{"requirements.txt"}, EcosystemPip, "requirements.txt", ""},
		{"cargo with lock", []string{"Cargo.toml", "Cargo.lock"}, EcosystemCargo, "Cargo.toml", "Cargo.lock"},
		{"cargo beats go", []string{"Cargo.toml", "go.mod"}, EcosystemCargo, "Cargo.toml", ""},
		{"go with sum", []string{"go.mod", "go.sum"}, EcosystemGo, "go.mod", "go.sum"},
		{"orphan lockfile", []string{"yarn.lock", "go.mod"}, EcosystemGo, "go.mod", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			got, err := Detect(dir)
			if err != nil {
				t.Fatalf("Detect() error: %v", err)
			}
			if got.Ecosystem != tt.want {
				t.Errorf("Ecosystem = %q, want %q", got.Ecosystem, tt.want)
			}
			if got.ManifestPath != filepath.Join(dir, tt.manifest) {
				t.Errorf("ManifestPath = %q, want %q", got.ManifestPath, tt.manifest)
			}
			wantLock := ""
			if tt.lock != "" {
				wantLock = filepath.Join(dir, tt.lock)
			}
			if got.LockPath != wantLock {
				t.Errorf("LockPath = %q, want %q", got.LockPath, wantLock)
			}
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "README.md")

	_, err := Detect(dir)
	if !errors.Is(err, errors.ErrCodeUnsupportedEcosystem) {
		t.Errorf("Detect() error = %v, want UNSUPPORTED_ECOSYSTEM", err)
	}
}

func TestDetectInvalidRoot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "package.json")

	if _, err := Detect(filepath.Join(dir, "missing")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing root: error = %v, want INVALID_PATH", err)
	}
	if _, err := Detect(filepath.Join(dir, "package.json")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("file root: error = %v, want INVALID_PATH", err)
	}
}
