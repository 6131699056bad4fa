package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackprint/pkg/deps"
	"github.com/matzehuels/stackprint/pkg/errors"
)

func TestLanguageDefinition(t *testing.T) {
	if Language == nil {
		t.Fatal("Language should not be nil")
	}
	if Language.Name != "go" {
		t.Errorf("Name = %q, want %q", Language.Name, "go")
	}
	p, ok := Language.Manifest("go.mod")
	if !ok {
		t.Fatal("Manifest(go.mod) not found")
	}
	if p.Type() != "go.mod" {
		t.Errorf("Type() = %q, want go.mod", p.Type())
	}
}

func TestGoModParser_Parse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	content := `module github.com/acme/service

go 1.22

require (
	github.com/go-chi/chi/v5 v5.2.3
	github.com/spf13/cobra v1.10.1
	github.com/acme/shared v0.0.0-00010101000000-000000000000
	golang.org/x/sys v0.36.0 // indirect
)

require github.com/google/uuid v1.6.0

replace github.com/acme/shared => ../shared
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := (&GoModParser{}).Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.ProjectName != "github.com/acme/service" {
		t.Errorf("ProjectName = %q", m.ProjectName)
	}
	if m.Engines["go"] != "1.22" {
		t.Errorf("Engines[go] = %q, want 1.22", m.Engines["go"])
	}

	want := []deps.Dependency{
		{Name: "github.com/go-chi/chi/v5", Version: "5.2.3", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "github.com/spf13/cobra", Version: "1.10.1", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "github.com/acme/shared", Version: "../shared", Role: deps.RoleProd, Source: deps.SourcePath},
		{Name: "golang.org/x/sys", Version: "0.36.0", Role: deps.RoleDev, Source: deps.SourceRegistry},
		{Name: "github.com/google/uuid", Version: "1.6.0", Role: deps.RoleProd, Source: deps.SourceRegistry},
	}
	if len(m.Dependencies) != len(want) {
		t.Fatalf("got %d dependencies, want %d: %+v", len(m.Dependencies), len(want), m.Dependencies)
	}
	for i, w := range want {
		if m.Dependencies[i] != w {
			t.Errorf("dep[%d] = %+v, want %+v", i, m.Dependencies[i], w)
		}
	}
}

func TestGoModParser_ParseInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	if err := os.WriteFile(path, []byte("module\nrequire (\n\tbroken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := (&GoModParser{}).Parse(path)
	if !errors.Is(err, errors.ErrCodeManifestParse) {
		t.Errorf("Parse() error = %v, want MANIFEST_PARSE", err)
	}
}

func TestGoModParser_Supports(t *testing.T) {
	p := &GoModParser{}
	if !p.Supports("go.mod") {
		t.Error("Supports(go.mod) = false")
	}
	if p.Supports("go.sum") {
		t.Error("Supports(go.sum) = true")
	}
}
