package syntax

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
)

var hookNameRE = regexp.MustCompile(`^use[A-Z]`)

// jsExtractor accumulates facts during a single pre-order walk.
type jsExtractor struct {
	src []byte
	fa  *FileAnalysis
}

func extractJavaScript(root *sitter.Node, src []byte, path string, lang Language) *FileAnalysis {
	x := &jsExtractor{src: src, fa: newFileAnalysis(path, lang)}
	x.walk(root, false)
	return x.fa
}

// walk visits n. exported is true while n is the declaration directly
// wrapped by an export statement; it is reset inside function and class
// bodies.
func (x *jsExtractor) walk(n *sitter.Node, exported bool) {
	if !n.IsNamed() {
		// keyword tokens share type names with nodes ("function", "class")
		return
	}
	switch n.Type() {
	case "import_statement":
		x.addImport(n.ChildByFieldName("source"))

	case "export_statement":
		x.addImport(n.ChildByFieldName("source"))
		x.collectExports(n)
		for _, c := range children(n) {
			x.walk(c, true)
		}
		return

	case "call_expression":
		x.callExpression(n)

	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "generator_function", "arrow_function":
		x.function(n, exported)
		for _, c := range children(n) {
			x.walk(c, false)
		}
		return

	case "class_declaration", "abstract_class_declaration", "class":
		x.class(n, exported)
		for _, c := range children(n) {
			x.walk(c, false)
		}
		return

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		x.fa.UsesMarkup = true

	case "lexical_declaration", "variable_declaration", "variable_declarator":
		for _, c := range children(n) {
			x.walk(c, exported)
		}
		return
	}

	for _, c := range children(n) {
		x.walk(c, false)
	}
}

func (x *jsExtractor) addImport(source *sitter.Node) {
	if s, ok := stringValue(source, x.src); ok && s != "" {
		x.fa.Imports = append(x.fa.Imports, s)
	}
}

func (x *jsExtractor) callExpression(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	switch fn.Type() {
	case "import":
		x.addImport(firstArgument(n))
		return
	case "identifier":
		name := text(fn, x.src)
		if name == "require" {
			x.addImport(firstArgument(n))
			return
		}
		x.hook(name)
	case "member_expression":
		x.hook(text(fn.ChildByFieldName("property"), x.src))
	}
}

func (x *jsExtractor) hook(name string) {
	if hookNameRE.MatchString(name) {
		x.fa.Hooks = append(x.fa.Hooks, HookInfo{Name: name, Category: hookCategory(name)})
	}
}

func firstArgument(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return args.NamedChild(0)
}

func (x *jsExtractor) collectExports(n *sitter.Node) {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for _, d := range namedChildren(decl) {
				if d.Type() != "variable_declarator" {
					continue
				}
				if name := d.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
					x.fa.Exports = append(x.fa.Exports, text(name, x.src))
				}
			}
		default:
			if name := decl.ChildByFieldName("name"); name != nil {
				x.fa.Exports = append(x.fa.Exports, text(name, x.src))
			}
		}
		return
	}

	if clause := childOfType(n, "export_clause"); clause != nil {
		for _, spec := range namedChildren(clause) {
			if spec.Type() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("alias")
			if name == nil {
				name = spec.ChildByFieldName("name")
			}
			if s := text(name, x.src); s != "" {
				x.fa.Exports = append(x.fa.Exports, s)
			}
		}
		return
	}

	if hasToken(n, "default") {
		if v := n.ChildByFieldName("value"); v != nil && v.Type() == "identifier" {
			x.fa.Exports = append(x.fa.Exports, text(v, x.src))
			return
		}
		x.fa.Exports = append(x.fa.Exports, "default")
	}
}

func (x *jsExtractor) function(n *sitter.Node, exported bool) {
	name := text(n.ChildByFieldName("name"), x.src)
	if name == "" {
		name = bindingName(n, x.src)
	}
	if name == "" {
		name = "anonymous"
	}

	x.fa.Functions = append(x.fa.Functions, FunctionInfo{
		Name:       name,
		IsAsync:    hasToken(n, "async"),
		IsExported: exported,
		Parameters: x.parameters(n),
	})
}

// bindingName returns the variable an anonymous function or class is
// assigned to, if any.
func bindingName(n *sitter.Node, src []byte) string {
	p := n.Parent()
	if p == nil || p.Type() != "variable_declarator" {
		return ""
	}
	name := p.ChildByFieldName("name")
	if name == nil || name.Type() != "identifier" {
		return ""
	}
	return text(name, src)
}

func (x *jsExtractor) parameters(fn *sitter.Node) []string {
	params := []string{}
	if single := fn.ChildByFieldName("parameter"); single != nil {
		return append(params, text(single, x.src))
	}
	list := fn.ChildByFieldName("parameters")
	if list == nil {
		return params
	}
	for _, p := range namedChildren(list) {
		if name := x.parameterName(p); name != "" {
			params = append(params, name)
		}
	}
	return params
}

func (x *jsExtractor) parameterName(p *sitter.Node) string {
	if p == nil {
		return ""
	}
	switch p.Type() {
	case "comment", "this":
		return ""
	case "identifier":
		return text(p, x.src)
	case "assignment_pattern":
		return x.parameterName(p.ChildByFieldName("left"))
	case "rest_pattern":
		if p.NamedChildCount() > 0 {
			return x.parameterName(p.NamedChild(0))
		}
		return ""
	case "required_parameter", "optional_parameter":
		return x.parameterName(p.ChildByFieldName("pattern"))
	default:
		// destructuring patterns are kept verbatim
		return text(p, x.src)
	}
}

func (x *jsExtractor) class(n *sitter.Node, exported bool) {
	name := text(n.ChildByFieldName("name"), x.src)
	if name == "" {
		name = bindingName(n, x.src)
	}
	if name == "" {
		name = "Anonymous"
	}

	info := ClassInfo{
		Name:       name,
		IsExported: exported,
		Methods:    []string{},
		BaseClass:  x.baseClass(n),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for _, m := range namedChildren(body) {
			if m.Type() != "method_definition" {
				continue
			}
			if s := text(m.ChildByFieldName("name"), x.src); s != "" {
				info.Methods = append(info.Methods, s)
			}
		}
	}
	x.fa.Classes = append(x.fa.Classes, info)
}

// baseClass returns the extends expression, e.g. "React.Component".
func (x *jsExtractor) baseClass(n *sitter.Node) string {
	heritage := childOfType(n, "class_heritage")
	if heritage == nil {
		return ""
	}
	for _, c := range namedChildren(heritage) {
		switch c.Type() {
		case "extends_clause":
			if v := c.ChildByFieldName("value"); v != nil {
				return text(v, x.src)
			}
			if c.NamedChildCount() > 0 {
				return text(c.NamedChild(0), x.src)
			}
		case "implements_clause", "comment":
		default:
			return text(c, x.src)
		}
	}
	return ""
}
