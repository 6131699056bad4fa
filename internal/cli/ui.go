package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackprint/pkg/deps"
	"github.com/matzehuels/stackprint/pkg/patterns"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints file and dependency counts on a single line.
func printStats(files, dependencies int, cached bool) {
	var parts []string
	if files > 0 {
		parts = append(parts, fmt.Sprintf("%d files", files))
	}
	if dependencies > 0 {
		parts = append(parts, fmt.Sprintf("%d dependencies", dependencies))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for _, part := range parts {
		line += StyleDim.Render(part) + StyleDim.Render(" · ")
	}
	fmt.Println(line + statusStyle.Render(status))
}

// =============================================================================
// Domain Output
// =============================================================================

// writeManifest renders the manifest header and its dependency table.
func writeManifest(w io.Writer, m *deps.Manifest) {
	fmt.Fprintln(w, StyleTitle.Render(string(m.Ecosystem)))
	fmt.Fprintln(w, styleKey.Render("manifest")+" "+StyleValue.Render(m.ManifestPath))
	if m.LockPath != "" {
		fmt.Fprintln(w, styleKey.Render("lockfile")+" "+StyleValue.Render(m.LockPath))
	}
	if m.ProjectName != "" {
		name := m.ProjectName
		if m.ProjectVersion != "" {
			name += "@" + m.ProjectVersion
		}
		fmt.Fprintln(w, styleKey.Render("project")+" "+StyleValue.Render(name))
	}
	if len(m.WorkspaceMembers) > 0 {
		fmt.Fprintln(w, styleKey.Render("workspace")+" "+StyleValue.Render(strings.Join(m.WorkspaceMembers, ", ")))
	}
	if len(m.Dependencies) == 0 {
		fmt.Fprintln(w, StyleDim.Render("no dependencies declared"))
		return
	}
	fmt.Fprintln(w, dependencyTable(m.Dependencies))
}

func dependencyTable(ds []deps.Dependency) string {
	rows := make([][]string, len(ds))
	for i, d := range ds {
		rows[i] = []string{d.Name, d.Version, string(d.Role), string(d.Source)}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers("NAME", "VERSION", "ROLE", "SOURCE").
		Rows(rows...).
		String()
}

// writePatterns renders the pattern summary as aligned key/value lines.
func writePatterns(w io.Writer, p patterns.ProjectPatterns) {
	line := func(key, value string) {
		fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
	}

	frameworks := "none"
	if len(p.Frameworks) > 0 {
		frameworks = strings.Join(p.Frameworks, ", ")
	}
	state := p.StateManagement
	if state == "" {
		state = "none"
	}

	line("files", strconv.Itoa(p.FilesAnalyzed))
	line("frameworks", frameworks)
	line("state", state)
	line("components", string(p.ComponentStyle))
	line("hooks", yesNo(p.UsesHooks))
	line("async", yesNo(p.UsesAsync))
	line("typed", yesNo(p.UsesTypedLanguage))
	line("markup", yesNo(p.UsesMarkupSyntax))

	if len(p.TopImports) > 0 {
		imports := make([]string, 0, len(p.TopImports))
		for i, ic := range p.TopImports {
			if i == 5 {
				break
			}
			imports = append(imports, fmt.Sprintf("%s (%d)", ic.Module, ic.Count))
		}
		line("top imports", strings.Join(imports, ", "))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
