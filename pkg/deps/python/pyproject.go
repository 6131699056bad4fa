package python

import (
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// PyProject parses pyproject.toml. PEP 621 [project] tables are preferred;
// Poetry's [tool.poetry] tables are used when [project] declares no
// dependencies.
type PyProject struct{}

func (p *PyProject) Type() string              { return "pyproject.toml" }
func (p *PyProject) Supports(name string) bool { return strings.EqualFold(name, "pyproject.toml") }

func (p *PyProject) Parse(path string) (*deps.Manifest, error) {
	data, err := deps.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	var f pyprojectFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, deps.ParseError(path, err)
	}

	m := &deps.Manifest{
		ManifestPath:   path,
		ProjectName:    f.Project.Name,
		ProjectVersion: f.Project.Version,
	}
	if f.Project.RequiresPython != "" {
		m.Engines = map[string]string{"python": f.Project.RequiresPython}
	}

	c := deps.NewCollector()
	for _, req := range f.Project.Dependencies {
		if d, ok := parsePEP508(req, deps.RoleProd); ok {
			c.Add(d)
		}
	}
	for _, group := range sortedGroups(f.Project.OptionalDependencies) {
		for _, req := range f.Project.OptionalDependencies[group] {
			if d, ok := parsePEP508(req, deps.RoleDev); ok {
				c.Add(d)
			}
		}
	}

	if len(f.Project.Dependencies) == 0 {
		poetry := f.Tool.Poetry
		addPoetry(c, poetry.Dependencies, deps.RoleProd)
		addPoetry(c, poetry.DevDependencies, deps.RoleDev)
		for _, group := range sortedGroups(poetry.Group) {
			addPoetry(c, poetry.Group[group].Dependencies, deps.RoleDev)
		}
		if m.ProjectName == "" {
			m.ProjectName = poetry.Name
		}
		if m.ProjectVersion == "" {
			m.ProjectVersion = poetry.Version
		}
		if py, ok := poetry.Dependencies["python"].(string); ok && m.Engines == nil {
			m.Engines = map[string]string{"python": py}
		}
	}

	m.Dependencies = c.Dependencies()
	return m, nil
}

type pyprojectFile struct {
	Project struct {
		Name                 string              `toml:"name"`
		Version              string              `toml:"version"`
		RequiresPython       string              `toml:"requires-python"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry poetryTable `toml:"poetry"`
	} `toml:"tool"`
}

type poetryTable struct {
	Name            string         `toml:"name"`
	Version         string         `toml:"version"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
	Group           map[string]struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"group"`
}

func addPoetry(c *deps.Collector, table map[string]any, role deps.Role) {
	for _, name := range sortedGroups(table) {
		if strings.EqualFold(name, "python") {
			continue
		}
		if d, ok := poetryDep(normalize(name), table[name], role); ok {
			c.Add(d)
		}
	}
}

// poetryDep classifies a Poetry entry, which is either a constraint string
// or a table with version, path or git keys.
func poetryDep(name string, value any, role deps.Role) (deps.Dependency, bool) {
	switch v := value.(type) {
	case string:
		return deps.NewDependency(name, v, role), true
	case map[string]any:
		if s, ok := v["version"].(string); ok {
			return deps.NewDependency(name, s, role), true
		}
		if s, ok := v["path"].(string); ok {
			return deps.Dependency{Name: name, Version: s, Role: role, Source: deps.SourcePath}, true
		}
		if s, ok := v["git"].(string); ok {
			return deps.Dependency{Name: name, Version: s, Role: role, Source: deps.SourceGit}, true
		}
		return deps.Dependency{Name: name, Version: deps.LatestVersion, Role: role, Source: deps.SourceRegistry}, true
	case []map[string]any:
		// multiple-constraint form: use the first alternative
		if len(v) > 0 {
			return poetryDep(name, v[0], role)
		}
	case []any:
		if len(v) > 0 {
			return poetryDep(name, v[0], role)
		}
	}
	return deps.Dependency{}, false
}

func sortedGroups[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
