package patterns

import (
	"strings"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

// DetectComponentStyle classifies the project as functional, class based
// or mixed. Class components are classes extending a *Component base.
// Every file that calls hooks contributes its exported functions, and at
// least one, as functional components. One style must outnumber the other
// more than twice to win.
func DetectComponentStyle(analyses []*syntax.FileAnalysis) ComponentStyle {
	var functional, class int
	for _, fa := range analyses {
		for _, c := range fa.Classes {
			if strings.Contains(c.BaseClass, "Component") {
				class++
			}
		}
		if len(fa.Hooks) > 0 {
			functional += max(fa.ExportedFunctions(), 1)
		}
	}

	switch {
	case functional > 2*class:
		return StyleFunctional
	case class > 2*functional:
		return StyleClass
	case functional > 0 && class > 0:
		return StyleMixed
	default:
		return StyleUnknown
	}
}
