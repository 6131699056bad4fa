package analyzer

import (
	"runtime"
	"slices"
	"strconv"
	"strings"
)

// DefaultMaxFiles bounds the number of files collected per project.
const DefaultMaxFiles = 200

// DefaultExtensions are the source extensions analyzed by default.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py"}

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{
	"node_modules", "dist", "build", ".git", "coverage",
	"__pycache__", ".venv", "venv", "target", ".next",
}

// Config controls which files are analyzed and how.
type Config struct {
	// Extensions selects files by extension. Case-insensitive, with or
	// without the leading dot.
	Extensions []string `json:"extensions" yaml:"extensions"`

	// ExcludeDirs lists directory names skipped by exact match.
	ExcludeDirs []string `json:"excludeDirs" yaml:"excludeDirs"`

	// MaxFiles caps the number of collected files. Zero or negative means
	// no limit.
	MaxFiles int `json:"maxFiles" yaml:"maxFiles"`

	// Workers is the number of files parsed concurrently.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		Extensions:  slices.Clone(DefaultExtensions),
		ExcludeDirs: slices.Clone(DefaultExcludeDirs),
		MaxFiles:    DefaultMaxFiles,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// withDefaults fills zero-valued fields. MaxFiles is left as given.
func (c Config) withDefaults() Config {
	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(DefaultExtensions)
	}
	if c.ExcludeDirs == nil {
		c.ExcludeDirs = slices.Clone(DefaultExcludeDirs)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Key is a stable textual form of the settings that affect results,
// suitable as part of a cache key. Workers is excluded.
func (c Config) Key() string {
	c = c.withDefaults()
	exts := normalizeExtensions(c.Extensions)
	extList := make([]string, 0, len(exts))
	for ext := range exts {
		extList = append(extList, ext)
	}
	slices.Sort(extList)
	dirs := slices.Clone(c.ExcludeDirs)
	slices.Sort(dirs)

	var b strings.Builder
	b.WriteString("ext=")
	b.WriteString(strings.Join(extList, ","))
	b.WriteString(";exclude=")
	b.WriteString(strings.Join(dirs, ","))
	b.WriteString(";max=")
	b.WriteString(strconv.Itoa(c.MaxFiles))
	return b.String()
}

func normalizeExtensions(exts []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return allowed
}
