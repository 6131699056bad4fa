package golang

import (
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// GoModParser parses go.mod files. Direct requirements are prod, those
// marked "// indirect" are dev, and requirements replaced by a local
// directory are path dependencies.
type GoModParser struct{}

func (p *GoModParser) Type() string              { return "go.mod" }
func (p *GoModParser) Supports(name string) bool { return name == "go.mod" }

func (p *GoModParser) Parse(path string) (*deps.Manifest, error) {
	data, err := deps.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, deps.ParseError(path, err)
	}

	local := make(map[string]string)
	for _, r := range f.Replace {
		if r.New.Version == "" && modfile.IsDirectoryPath(r.New.Path) {
			local[r.Old.Path] = r.New.Path
		}
	}

	c := deps.NewCollector()
	for _, req := range f.Require {
		role := deps.RoleProd
		if req.Indirect {
			role = deps.RoleDev
		}
		name := req.Mod.Path
		if dir, ok := local[name]; ok {
			c.Add(deps.Dependency{Name: name, Version: dir, Role: role, Source: deps.SourcePath})
			continue
		}
		c.Add(deps.Dependency{
			Name:    name,
			Version: strings.TrimPrefix(req.Mod.Version, "v"),
			Role:    role,
			Source:  deps.SourceRegistry,
		})
	}

	m := &deps.Manifest{
		ManifestPath: path,
		Dependencies: c.Dependencies(),
	}
	if f.Module != nil {
		m.ProjectName = f.Module.Mod.Path
	}
	if f.Go != nil {
		m.Engines = map[string]string{"go": f.Go.Version}
	}
	return m, nil
}
