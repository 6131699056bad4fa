package python

import (
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/stackprint/pkg/deps"
)

// Language describes the Python manifest family: flat requirement lists and
// pyproject.toml (PEP 621 with a Poetry fallback).
var Language = &deps.Language{
	Name:          "python",
	ManifestTypes: []string{"pyproject", "requirements"},
	ManifestAliases: map[string]string{
		"pyproject.toml":   "pyproject",
		"requirements.txt": "requirements",
	},
	NewManifest:     newManifest,
	ManifestParsers: manifestParsers,
}

func newManifest(name string) deps.ManifestParser {
	switch name {
	case "pyproject":
		return &PyProject{}
	case "requirements":
		return &Requirements{}
	default:
		return nil
	}
}

func manifestParsers() []deps.ManifestParser {
	return []deps.ManifestParser{
		&PyProject{},
		&Requirements{},
	}
}

// normalize applies PEP 503 style normalization: lowercase, "_" becomes "-".
func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

var (
	pepNameRE    = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)
	pepVersionRE = regexp.MustCompile(`[<>=~!]*\s*([0-9][0-9A-Za-z.*+!-]*)`)
)

// parsePEP508 reduces a PEP 508 requirement such as
// "uvicorn[standard]>=0.23,<1; python_version >= '3.8'" to a dependency.
// Markers and extras are dropped; the version is the first version number
// following an operator, or "latest". Direct references ("name @ url")
// keep the URL as their version.
func parsePEP508(req string, role deps.Role) (deps.Dependency, bool) {
	s := strings.TrimSpace(req)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	m := pepNameRE.FindStringSubmatch(s)
	if m == nil {
		return deps.Dependency{}, false
	}

	d := deps.Dependency{
		Name:    normalize(m[1]),
		Version: deps.LatestVersion,
		Role:    role,
		Source:  deps.SourceRegistry,
	}

	spec := strings.TrimSpace(m[3])
	if ref, ok := strings.CutPrefix(spec, "@"); ok {
		ref = strings.TrimSpace(ref)
		d.Version = ref
		d.Source = urlSource(ref)
		return d, true
	}
	if spec == "" {
		return d, true
	}
	if v := pepVersionRE.FindStringSubmatch(spec); v != nil {
		d.Version = v[1]
	}
	if d.Version != spec {
		d.RawVersion = spec
	}
	return d, true
}

func urlSource(ref string) deps.Source {
	if strings.HasPrefix(ref, "file:") {
		return deps.SourcePath
	}
	return deps.SourceGit
}

var archiveSuffixes = []string{".tar.gz", ".tar.bz2", ".tgz", ".zip", ".whl", ".git"}

// gitName derives a package name from a VCS or archive URL: the #egg=
// fragment when present, else the last path segment without its @ref and
// archive suffix.
func gitName(url string) string {
	if i := strings.Index(url, "#egg="); i >= 0 {
		egg := url[i+len("#egg="):]
		if j := strings.IndexAny(egg, "&#"); j >= 0 {
			egg = egg[:j]
		}
		return normalize(egg)
	}
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	seg := path.Base(strings.TrimRight(url, "/"))
	if i := strings.IndexByte(seg, '@'); i >= 0 {
		seg = seg[:i]
	}
	for _, suf := range archiveSuffixes {
		seg = strings.TrimSuffix(seg, suf)
	}
	if seg == "" || seg == "." || seg == "/" {
		return ""
	}
	return normalize(seg)
}
