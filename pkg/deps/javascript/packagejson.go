package javascript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// PackageJSON parses package.json files. It extracts dependencies,
// devDependencies, peerDependencies and optionalDependencies together with
// project metadata and workspace members.
type PackageJSON struct{}

func (p *PackageJSON) Type() string              { return "package.json" }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(path string) (*deps.Manifest, error) {
	data, err := deps.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, deps.ParseError(path, err)
	}

	c := deps.NewCollector()
	for _, section := range []struct {
		entries map[string]string
		role    deps.Role
	}{
		{pkg.Dependencies, deps.RoleProd},
		{pkg.DevDependencies, deps.RoleDev},
		{pkg.PeerDependencies, deps.RolePeer},
		{pkg.OptionalDependencies, deps.RoleOptional},
	} {
		for _, name := range sortedKeys(section.entries) {
			c.Add(deps.NewDependency(name, section.entries[name], section.role))
		}
	}

	return &deps.Manifest{
		ManifestPath:     path,
		Dependencies:     c.Dependencies(),
		ProjectName:      pkg.Name,
		ProjectVersion:   pkg.Version,
		WorkspaceMembers: resolveWorkspaces(filepath.Dir(path), pkg.workspaceGlobs()),
		Engines:          pkg.Engines,
	}, nil
}

type packageFile struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Engines              map[string]string `json:"engines"`
	Workspaces           json.RawMessage   `json:"workspaces"`
}

// workspaceGlobs accepts both the array form and the {"packages": [...]}
// form of the workspaces field.
func (p packageFile) workspaceGlobs() []string {
	if len(p.Workspaces) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Workspaces, &list); err == nil {
		return list
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(p.Workspaces, &obj); err == nil {
		return obj.Packages
	}
	return nil
}

func resolveWorkspaces(dir string, globs []string) []string {
	if len(globs) == 0 {
		globs = readPnpmWorkspace(filepath.Join(dir, "pnpm-workspace.yaml"))
	}

	var names []string
	for _, glob := range globs {
		if strings.HasPrefix(glob, "!") {
			continue
		}
		base, wildcard := strings.CutSuffix(glob, "*")
		base = strings.TrimSuffix(base, "/")
		if strings.Contains(base, "*") {
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(base))

		if !wildcard {
			if name := packageName(filepath.Join(full, "package.json")); name != "" {
				names = append(names, name)
			}
			continue
		}

		entries, err := os.ReadDir(full)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if name := packageName(filepath.Join(full, e.Name(), "package.json")); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func packageName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return ""
	}
	return pkg.Name
}

// readPnpmWorkspace returns the "packages" globs of a pnpm-workspace.yaml.
// A missing or malformed file yields no globs.
func readPnpmWorkspace(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var ws struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil
	}
	globs := ws.Packages[:0]
	for _, g := range ws.Packages {
		if g = strings.TrimSpace(g); g != "" {
			globs = append(globs, g)
		}
	}
	return globs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
