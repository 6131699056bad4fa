package patterns

import (
	"slices"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

// ImportCount is an import and the number of times it appears.
type ImportCount struct {
	Module string `json:"module" yaml:"module"`
	Count  int    `json:"count" yaml:"count"`
}

// TopImports returns the limit most frequent imports. External imports are
// normalized to their base package; relative imports are kept verbatim.
// Equal counts keep first-seen order. A limit <= 0 returns every import.
func TopImports(analyses []*syntax.FileAnalysis, limit int) []ImportCount {
	t := newTally()
	for _, fa := range analyses {
		for _, imp := range fa.Imports {
			base, _ := BasePackage(imp, fa.Language)
			if base != "" {
				t.add(base)
			}
		}
	}

	out := make([]ImportCount, len(t.order))
	for i, name := range t.order {
		out[i] = ImportCount{Module: name, Count: t.counts[name]}
	}
	slices.SortStableFunc(out, func(a, b ImportCount) int {
		return b.Count - a.Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
