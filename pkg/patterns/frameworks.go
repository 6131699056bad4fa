package patterns

import (
	"slices"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

// frameworks maps a base package to the framework it identifies.
var frameworks = map[string]string{
	"react":         "react",
	"vue":           "vue",
	"svelte":        "svelte",
	"next":          "next",
	"nuxt":          "nuxt",
	"express":       "express",
	"fastify":       "fastify",
	"koa":           "koa",
	"@angular/core": "angular",
	"@nestjs/core":  "nest",
	"django":        "django",
	"flask":         "flask",
	"fastapi":       "fastapi",
}

// DetectFrameworks returns the sorted set of known frameworks imported
// anywhere in analyses. Matching is exact on the base package, so
// "react-native" does not count as react while "next/router" counts as next.
func DetectFrameworks(analyses []*syntax.FileAnalysis) []string {
	seen := make(map[string]bool)
	for _, fa := range analyses {
		for _, imp := range fa.Imports {
			base, ok := BasePackage(imp, fa.Language)
			if !ok {
				continue
			}
			if fw, known := frameworks[base]; known {
				seen[fw] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for fw := range seen {
		out = append(out, fw)
	}
	slices.Sort(out)
	return out
}
