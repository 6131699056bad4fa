package rust

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// CargoToml parses Cargo.toml. Regular and target-specific dependencies
// are prod; dev- and build-dependencies are dev.
type CargoToml struct{}

func (c *CargoToml) Type() string              { return "Cargo.toml" }
func (c *CargoToml) Supports(name string) bool { return strings.EqualFold(name, "cargo.toml") }

func (c *CargoToml) Parse(path string) (*deps.Manifest, error) {
	data, err := deps.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, deps.ParseError(path, err)
	}

	col := deps.NewCollector()
	addTable(col, cargo.Dependencies, deps.RoleProd)
	for _, target := range sortedKeys(cargo.Target) {
		addTable(col, cargo.Target[target].Dependencies, deps.RoleProd)
	}
	addTable(col, cargo.DevDependencies, deps.RoleDev)
	addTable(col, cargo.BuildDependencies, deps.RoleDev)
	for _, target := range sortedKeys(cargo.Target) {
		addTable(col, cargo.Target[target].DevDependencies, deps.RoleDev)
	}

	m := &deps.Manifest{
		ManifestPath:     path,
		Dependencies:     col.Dependencies(),
		ProjectName:      cargo.Package.Name,
		ProjectVersion:   stringValue(cargo.Package.Version),
		WorkspaceMembers: resolveMembers(filepath.Dir(path), cargo.Workspace.Members),
	}
	if m.ProjectVersion == "" {
		m.ProjectVersion = cargo.Workspace.Package.Version
	}
	if rv := stringValue(cargo.Package.RustVersion); rv != "" {
		m.Engines = map[string]string{"rust": rv}
	}
	return m, nil
}

type cargoFile struct {
	Package struct {
		Name        string `toml:"name"`
		Version     any    `toml:"version"`
		RustVersion any    `toml:"rust-version"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	} `toml:"workspace"`
	Dependencies      map[string]any         `toml:"dependencies"`
	DevDependencies   map[string]any         `toml:"dev-dependencies"`
	BuildDependencies map[string]any         `toml:"build-dependencies"`
	Target            map[string]targetTable `toml:"target"`
}

type targetTable struct {
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func addTable(col *deps.Collector, table map[string]any, role deps.Role) {
	for _, name := range sortedKeys(table) {
		if d, ok := parseCargoDep(name, table[name], role); ok {
			col.Add(d)
		}
	}
}

// parseCargoDep classifies one dependency entry. A table is checked for
// workspace inheritance, then version, path and git keys, in that order.
func parseCargoDep(name string, value any, role deps.Role) (deps.Dependency, bool) {
	switch v := value.(type) {
	case string:
		d := deps.NewDependency(name, v, role)
		d.Source = deps.SourceRegistry
		return d, true
	case map[string]any:
		if pkg, ok := v["package"].(string); ok && pkg != "" {
			name = pkg
		}
		if ws, _ := v["workspace"].(bool); ws {
			if _, hasVersion := v["version"]; !hasVersion {
				return deps.Dependency{Name: name, Version: "workspace", Role: role, Source: deps.SourceWorkspace}, true
			}
		}
		if s, ok := v["version"].(string); ok {
			d := deps.NewDependency(name, s, role)
			d.Source = deps.SourceRegistry
			return d, true
		}
		if s, ok := v["path"].(string); ok {
			return deps.Dependency{Name: name, Version: s, Role: role, Source: deps.SourcePath}, true
		}
		if s, ok := v["git"].(string); ok {
			return deps.Dependency{Name: name, Version: s, Role: role, Source: deps.SourceGit}, true
		}
	}
	return deps.Dependency{}, false
}

// resolveMembers expands workspace member globs of the form "dir/*" or a
// literal directory into the crate names found there.
func resolveMembers(root string, members []string) []string {
	var names []string
	for _, member := range members {
		base, wildcard := strings.CutSuffix(member, "*")
		base = strings.TrimSuffix(base, "/")
		if strings.Contains(base, "*") {
			continue
		}
		dir := filepath.Join(root, filepath.FromSlash(base))
		if !wildcard {
			if n := crateName(filepath.Join(dir, "Cargo.toml")); n != "" {
				names = append(names, n)
			}
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if n := crateName(filepath.Join(dir, e.Name(), "Cargo.toml")); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

func crateName(path string) string {
	var f struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return ""
	}
	return f.Package.Name
}

// stringValue returns v if it is a string. Inherited fields such as
// version.workspace = true decode as tables and yield "".
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
