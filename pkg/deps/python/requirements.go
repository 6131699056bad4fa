package python

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// Requirements parses pip requirement files. Included files (-r) and
// constraint files (-c) are not followed.
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements.txt" }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(path string) (*deps.Manifest, error) {
	data, err := deps.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	c := deps.NewCollector()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var pending strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		// a trailing backslash continues the requirement on the next line
		if cont, ok := strings.CutSuffix(strings.TrimRight(line, " \t"), "\\"); ok && !isComment(line) {
			pending.WriteString(cont)
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		if d, ok := parseLine(pending.String(), dir); ok {
			c.Add(d)
		}
		pending.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, deps.ParseError(path, err)
	}
	if pending.Len() > 0 {
		if d, ok := parseLine(pending.String(), dir); ok {
			c.Add(d)
		}
	}

	return &deps.Manifest{
		ManifestPath: path,
		Dependencies: c.Dependencies(),
	}, nil
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// parseLine parses one logical requirement line. dir resolves local
// editable targets.
func parseLine(raw, dir string) (deps.Dependency, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || line[0] == '#' {
		return deps.Dependency{}, false
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	if target, ok := editableTarget(line); ok {
		return editable(target, dir)
	}
	if line[0] == '-' {
		// -r, -c, --index-url and friends
		return deps.Dependency{}, false
	}
	if i := strings.Index(line, " --"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	if isURL(line) {
		name := gitName(line)
		if name == "" {
			return deps.Dependency{}, false
		}
		return deps.Dependency{Name: name, Version: line, Role: deps.RoleProd, Source: deps.SourceGit}, true
	}

	return parsePEP508(line, deps.RoleProd)
}

func editableTarget(line string) (string, bool) {
	for _, flag := range []string{"-e", "--editable"} {
		rest, ok := strings.CutPrefix(line, flag)
		if !ok {
			continue
		}
		rest = strings.TrimPrefix(rest, "=")
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t' && !strings.HasPrefix(line, "--editable=")) {
			continue
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func editable(target, dir string) (deps.Dependency, bool) {
	if target == "" {
		return deps.Dependency{}, false
	}
	if isURL(target) {
		name := gitName(target)
		if name == "" {
			return deps.Dependency{}, false
		}
		return deps.Dependency{Name: name, Version: target, Role: deps.RoleProd, Source: deps.SourceGit}, true
	}

	local := target
	if i := strings.IndexByte(local, '['); i >= 0 {
		local = local[:i]
	}
	local = strings.TrimRight(local, "/")
	if local == "" {
		return deps.Dependency{}, false
	}
	if !filepath.IsAbs(local) {
		local = filepath.Join(dir, filepath.FromSlash(local))
	}
	if abs, err := filepath.Abs(local); err == nil {
		local = abs
	}
	// "-e ." names the package after the directory it points at
	name := filepath.Base(filepath.Clean(local))
	if name == "." || name == string(filepath.Separator) {
		return deps.Dependency{}, false
	}
	return deps.Dependency{Name: normalize(name), Version: target, Role: deps.RoleProd, Source: deps.SourcePath}, true
}

// isURL reports whether s starts with a URL scheme. "name @ url" direct
// references are left to the PEP 508 parser.
func isURL(s string) bool {
	if strings.HasPrefix(s, "git+") {
		return true
	}
	i := strings.Index(s, "://")
	return i > 0 && !strings.ContainsAny(s[:i], " @")
}
