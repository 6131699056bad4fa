package deps

import (
	"strings"

	"github.com/matzehuels/stackprint/pkg/errors"
)

// Ecosystem identifies the package manager a manifest belongs to.
type Ecosystem string

const (
	EcosystemNpm   Ecosystem = "npm"
	EcosystemYarn  Ecosystem = "yarn"
	EcosystemPnpm  Ecosystem = "pnpm"
	EcosystemPip   Ecosystem = "pip"
	EcosystemCargo Ecosystem = "cargo"
	EcosystemGo    Ecosystem = "go"
)

// Role is the declared purpose of a dependency.
type Role string

const (
	RoleProd     Role = "prod"
	RoleDev      Role = "dev"
	RolePeer     Role = "peer"
	RoleOptional Role = "optional"
)

// Source is where a dependency is obtained from.
type Source string

const (
	SourceRegistry  Source = "registry"
	SourceGit       Source = "git"
	SourcePath      Source = "path"
	SourceWorkspace Source = "workspace"
)

// LatestVersion is recorded when a manifest declares no usable constraint.
const LatestVersion = "latest"

// Dependency is one declared third-party requirement.
type Dependency struct {
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version" yaml:"version"`
	RawVersion string `json:"rawVersion,omitempty" yaml:"rawVersion,omitempty"`
	Role       Role   `json:"role" yaml:"role"`
	Source     Source `json:"source" yaml:"source"`
}

// Manifest is the normalized result of parsing a single manifest file.
// It is built once and not modified afterwards.
type Manifest struct {
	Ecosystem        Ecosystem         `json:"ecosystem" yaml:"ecosystem"`
	ManifestPath     string            `json:"manifestPath" yaml:"manifestPath"`
	LockPath         string            `json:"lockPath,omitempty" yaml:"lockPath,omitempty"`
	Dependencies     []Dependency      `json:"dependencies" yaml:"dependencies"`
	ProjectName      string            `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	ProjectVersion   string            `json:"projectVersion,omitempty" yaml:"projectVersion,omitempty"`
	WorkspaceMembers []string          `json:"workspaceMembers,omitempty" yaml:"workspaceMembers,omitempty"`
	Engines          map[string]string `json:"engines,omitempty" yaml:"engines,omitempty"`
}

// Count returns the number of dependencies with the given role.
func (m *Manifest) Count(role Role) int {
	n := 0
	for _, d := range m.Dependencies {
		if d.Role == role {
			n++
		}
	}
	return n
}

// CleanVersion reduces a version specifier to a single comparable version.
// It keeps the first alternative of "a || b", drops comparison operators,
// and keeps the first bound of a space separated range. The result of
// CleanVersion is a fixed point: CleanVersion(CleanVersion(v)) == CleanVersion(v).
func CleanVersion(spec string) string {
	v := strings.TrimSpace(spec)
	if i := strings.Index(v, "||"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	v = strings.TrimLeft(v, "^~<>=! \t")
	if i := strings.IndexAny(v, " \t,"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return LatestVersion
	}
	return v
}

var gitHostPrefixes = []string{"git+", "git://", "github:", "gitlab:", "bitbucket:", "http://", "https://"}

// ClassifySource derives a dependency's source from its version specifier.
// The decision depends only on the specifier's prefix.
func ClassifySource(spec string) Source {
	v := strings.TrimSpace(spec)
	switch {
	case strings.HasPrefix(v, "file:"), strings.HasPrefix(v, "link:"):
		return SourcePath
	case strings.HasPrefix(v, "workspace:"):
		return SourceWorkspace
	}
	for _, p := range gitHostPrefixes {
		if strings.HasPrefix(v, p) {
			return SourceGit
		}
	}
	return SourceRegistry
}

// NewDependency builds a dependency from a raw specifier. RawVersion is
// kept only when cleaning changed the specifier.
func NewDependency(name, spec string, role Role) Dependency {
	spec = strings.TrimSpace(spec)
	d := Dependency{
		Name:    name,
		Version: CleanVersion(spec),
		Role:    role,
		Source:  ClassifySource(spec),
	}
	if spec != "" && spec != d.Version {
		d.RawVersion = spec
	}
	return d
}

// Collector accumulates dependencies while enforcing name uniqueness and
// role precedence: the first declaration of a name wins, except that a
// later prod declaration replaces an earlier peer, optional or dev entry.
type Collector struct {
	deps  []Dependency
	index map[string]int
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{index: make(map[string]int)}
}

// Add records d. Entries with unusable names are ignored.
func (c *Collector) Add(d Dependency) {
	if errors.ValidateDependencyName(d.Name) != nil {
		return
	}
	i, ok := c.index[d.Name]
	if !ok {
		c.index[d.Name] = len(c.deps)
		c.deps = append(c.deps, d)
		return
	}
	if d.Role == RoleProd && c.deps[i].Role != RoleProd {
		c.deps[i] = d
	}
}

// Len returns the number of unique dependencies collected.
func (c *Collector) Len() int { return len(c.deps) }

// Dependencies returns the collected dependencies in first-seen order.
func (c *Collector) Dependencies() []Dependency {
	out := make([]Dependency, len(c.deps))
	copy(out, c.deps)
	return out
}
