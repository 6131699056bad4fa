package python

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackprint/pkg/deps"
	"github.com/matzehuels/stackprint/pkg/errors"
)

func writePyProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPyProject_ParsePEP621(t *testing.T) {
	path := writePyProject(t, `
[build-system]
requires = ["hatchling"]

[project]
name = "my-service"
version = "0.3.1"
requires-python = ">=3.10"
dependencies = [
    "fastapi>=0.100.0",
    "uvicorn[standard]>=0.23.0; python_version >= '3.8'",
    "Pydantic_Settings",
    "sqlalchemy>=2.0,<3.0",
    "mylib @ git+https://github.com/acme/mylib.git",
]

[project.optional-dependencies]
test = ["pytest>=7.4", "fastapi"]
docs = [
    "mkdocs~=1.5",
]
`)

	m, err := (&PyProject{}).Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.ProjectName != "my-service" || m.ProjectVersion != "0.3.1" {
		t.Errorf("project = %q@%q", m.ProjectName, m.ProjectVersion)
	}
	if m.Engines["python"] != ">=3.10" {
		t.Errorf("Engines[python] = %q", m.Engines["python"])
	}

	want := []deps.Dependency{
		{Name: "fastapi", Version: "0.100.0", RawVersion: ">=0.100.0", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "uvicorn", Version: "0.23.0", RawVersion: ">=0.23.0", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "pydantic-settings", Version: "latest", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "sqlalchemy", Version: "2.0", RawVersion: ">=2.0,<3.0", Role: deps.RoleProd, Source: deps.SourceRegistry},
		{Name: "mylib", Version: "git+https://github.com/acme/mylib.git", Role: deps.RoleProd, Source: deps.SourceGit},
		{Name: "mkdocs", Version: "1.5", RawVersion: "~=1.5", Role: deps.RoleDev, Source: deps.SourceRegistry},
		{Name: "pytest", Version: "7.4", RawVersion: ">=7.4", Role: deps.RoleDev, Source: deps.SourceRegistry},
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

func TestPyProject_ParsePoetry(t *testing.T) {
	path := writePyProject(t, `
[tool.poetry]
name = "legacy-app"
version = "1.2.0"

[tool.poetry.dependencies]
python = "^3.11"
django = "^4.2"
celery = { version = "~5.3", extras = ["redis"] }
internal-lib = { path = "../internal-lib", develop = true }
forked = { git = "https://github.com/acme/forked.git", branch = "main" }

[tool.poetry.group.dev.dependencies]
black = "^23.0"
django = "^4.2"
`)

	m, err := (&PyProject{}).Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.ProjectName != "legacy-app" || m.ProjectVersion != "1.2.0" {
		t.Errorf("project = %q@%q", m.ProjectName, m.ProjectVersion)
	}
	if m.Engines["python"] != "^3.11" {
		t.Errorf("Engines[python] = %q", m.Engines["python"])
	}

	byName := make(map[string]deps.Dependency)
	for _, d := range m.Dependencies {
		byName[d.Name] = d
	}
	if _, ok := byName["python"]; ok {
		t.Error("python interpreter constraint should not be a dependency")
	}

	tests := []struct {
		name    string
		version string
		role    deps.Role
		source  deps.Source
	}{
		{"django", "4.2", deps.RoleProd, deps.SourceRegistry},
		{"celery", "5.3", deps.RoleProd, deps.SourceRegistry},
		{"internal-lib", "../internal-lib", deps.RoleProd, deps.SourcePath},
		{"forked", "https://github.com/acme/forked.git", deps.RoleProd, deps.SourceGit},
		{"black", "23.0", deps.RoleDev, deps.SourceRegistry},
	}
	if len(m.Dependencies) != len(tests) {
		t.Errorf("got %d dependencies, want %d", len(m.Dependencies), len(tests))
	}
	for _, tt := range tests {
		d, ok := byName[tt.name]
		if !ok {
			t.Errorf("dependency %q not found", tt.name)
			continue
		}
		if d.Version != tt.version || d.Role != tt.role || d.Source != tt.source {
			t.Errorf("%s = %+v, want %s/%s/%s", tt.name, d, tt.version, tt.role, tt.source)
		}
	}
}

func TestPyProject_ParseInvalid(t *testing.T) {
	path := writePyProject(t, "[project\nname = ")
	_, err := (&PyProject{}).Parse(path)
	if !errors.Is(err, errors.ErrCodeManifestParse) {
		t.Errorf("Parse() error = %v, want MANIFEST_PARSE", err)
	}
}

func TestParsePEP508(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version string
		ok      bool
	}{
		{"requests", "requests", "latest", true},
		{"Flask_Login>=0.6", "flask-login", "0.6", true},
		{"numpy (>=1.24)", "numpy", "1.24", true},
		{"black[jupyter]==23.7.0 ; sys_platform != 'win32'", "black", "23.7.0", true},
		{"", "", "", false},
		{"; python_version < '3'", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := parsePEP508(tt.in, deps.RoleProd)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if d.Name != tt.name || d.Version != tt.version {
				t.Errorf("got %s@%s, want %s@%s", d.Name, d.Version, tt.name, tt.version)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	for _, name := range []string{"pyproject.toml", "requirements.txt"} {
		p, ok := Language.Manifest(name)
		if !ok {
			t.Fatalf("Manifest(%q) not found", name)
		}
		if p.Type() != name {
			t.Errorf("Manifest(%q).Type() = %q", name, p.Type())
		}
	}
	if _, err := deps.DetectManifest("/x/requirements-dev.txt", Language.Parsers()...); err != nil {
		t.Errorf("DetectManifest(requirements-dev.txt) error: %v", err)
	}
}
