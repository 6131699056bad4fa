// Package patterns folds per-file structural facts into project-level
// coding patterns: frameworks, state management, component style and the
// most used imports.
//
// Every detector is a pure function over a slice of [syntax.FileAnalysis]
// records. Results depend only on the order of that slice, never on map
// iteration, so the same input always produces the same output.
package patterns

import (
	"strings"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

// ComponentStyle is the predominant way UI components are written.
type ComponentStyle string

const (
	StyleFunctional ComponentStyle = "functional"
	StyleClass      ComponentStyle = "class"
	StyleMixed      ComponentStyle = "mixed"
	StyleUnknown    ComponentStyle = "unknown"
)

// DefaultTopImports is the number of entries kept in ProjectPatterns.TopImports.
const DefaultTopImports = 20

// ProjectPatterns summarizes the coding patterns of a project.
type ProjectPatterns struct {
	StateManagement   string         `json:"stateManagement,omitempty" yaml:"stateManagement,omitempty"`
	ComponentStyle    ComponentStyle `json:"componentStyle" yaml:"componentStyle"`
	Frameworks        []string       `json:"frameworks" yaml:"frameworks"`
	TopImports        []ImportCount  `json:"topImports" yaml:"topImports"`
	UsesHooks         bool           `json:"usesHooks" yaml:"usesHooks"`
	UsesAsync         bool           `json:"usesAsync" yaml:"usesAsync"`
	UsesTypedLanguage bool           `json:"usesTypedLanguage" yaml:"usesTypedLanguage"`
	UsesMarkupSyntax  bool           `json:"usesMarkupSyntax" yaml:"usesMarkupSyntax"`
	FilesAnalyzed     int            `json:"filesAnalyzed" yaml:"filesAnalyzed"`
}

// Empty returns the patterns of a project with no analyzable files.
func Empty() ProjectPatterns {
	return ProjectPatterns{
		ComponentStyle: StyleUnknown,
		Frameworks:     []string{},
		TopImports:     []ImportCount{},
	}
}

// Detect runs every detector over analyses.
func Detect(analyses []*syntax.FileAnalysis) ProjectPatterns {
	p := Empty()
	p.FilesAnalyzed = len(analyses)
	p.Frameworks = DetectFrameworks(analyses)
	p.StateManagement = DetectStateManagement(analyses)
	p.ComponentStyle = DetectComponentStyle(analyses)
	p.TopImports = TopImports(analyses, DefaultTopImports)

	for _, fa := range analyses {
		if len(fa.Hooks) > 0 {
			p.UsesHooks = true
		}
		for _, f := range fa.Functions {
			if f.IsAsync {
				p.UsesAsync = true
				break
			}
		}
		if fa.Language == syntax.LanguageTypeScript {
			p.UsesTypedLanguage = true
		}
		if fa.UsesMarkup || strings.HasSuffix(fa.FilePath, ".jsx") || strings.HasSuffix(fa.FilePath, ".tsx") {
			p.UsesMarkupSyntax = true
		}
	}
	return p
}

// BasePackage reduces an import specifier to the package that provides it:
// "@scope/pkg/sub" becomes "@scope/pkg", "lodash/fp" becomes "lodash" and
// the Python module "django.db.models" becomes "django". Relative imports
// are returned unchanged with ok set to false.
func BasePackage(imp string, lang syntax.Language) (base string, ok bool) {
	if imp == "" || strings.HasPrefix(imp, ".") || strings.HasPrefix(imp, "/") {
		return imp, false
	}
	if lang == syntax.LanguagePython {
		name, _, _ := strings.Cut(imp, ".")
		return name, true
	}
	parts := strings.SplitN(imp, "/", 3)
	if strings.HasPrefix(imp, "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}
