package patterns

import (
	"strings"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

// stateLibraries are matched as substrings of each import, first match wins.
var stateLibraries = []string{"redux", "zustand", "mobx", "recoil", "jotai"}

// StateContext is reported when React context is the dominant state mechanism.
const StateContext = "context"

// DetectStateManagement returns the most used state management approach,
// or "" when none is observed. Ties go to the candidate seen first.
func DetectStateManagement(analyses []*syntax.FileAnalysis) string {
	t := newTally()
	for _, fa := range analyses {
		for _, imp := range fa.Imports {
			for _, lib := range stateLibraries {
				if strings.Contains(imp, lib) {
					t.add(lib)
					break
				}
			}
		}
		if fa.UsesHook(syntax.HookContext) {
			t.add(StateContext)
		}
	}

	best, top := "", 0
	for _, name := range t.order {
		if n := t.counts[name]; n > top {
			best, top = name, n
		}
	}
	return best
}

// tally counts occurrences while remembering first-insertion order.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}
