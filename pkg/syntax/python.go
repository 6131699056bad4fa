package syntax

import (
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

type pyExtractor struct {
	src []byte
	fa  *FileAnalysis
	all []string // contents of __all__, nil when absent
}

func extractPython(root *sitter.Node, src []byte, path string) *FileAnalysis {
	x := &pyExtractor{src: src, fa: newFileAnalysis(path, LanguagePython)}
	x.all = x.publicNames(root)

	x.walkImports(root)

	for _, c := range namedChildren(root) {
		def := c
		if c.Type() == "decorated_definition" {
			def = c.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}
		var name string
		switch def.Type() {
		case "function_definition":
			name = x.function(def)
		case "class_definition":
			name = x.class(def)
		default:
			continue
		}
		if x.all == nil && x.isExported(name) {
			x.fa.Exports = append(x.fa.Exports, name)
		}
	}

	if x.all != nil {
		x.fa.Exports = append(x.fa.Exports, x.all...)
	}
	return x.fa
}

// publicNames returns the string entries of a top-level __all__ list or
// tuple, or nil if the module does not declare one.
func (x *pyExtractor) publicNames(root *sitter.Node) []string {
	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "expression_statement" {
			continue
		}
		assign := childOfType(stmt, "assignment")
		if assign == nil || text(assign.ChildByFieldName("left"), x.src) != "__all__" {
			continue
		}
		right := assign.ChildByFieldName("right")
		if right == nil || (right.Type() != "list" && right.Type() != "tuple") {
			continue
		}
		names := []string{}
		for _, item := range namedChildren(right) {
			if s, ok := stringValue(item, x.src); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func (x *pyExtractor) isExported(name string) bool {
	if x.all != nil {
		return slices.Contains(x.all, name)
	}
	return !strings.HasPrefix(name, "_")
}

func (x *pyExtractor) walkImports(n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "dotted_name":
				x.fa.Imports = append(x.fa.Imports, text(c, x.src))
			case "aliased_import":
				x.fa.Imports = append(x.fa.Imports, text(c.ChildByFieldName("name"), x.src))
			}
		}
		return
	case "import_from_statement":
		if m := n.ChildByFieldName("module_name"); m != nil {
			x.fa.Imports = append(x.fa.Imports, text(m, x.src))
		}
		return
	case "call":
		x.dynamicImport(n)
	}
	for _, c := range namedChildren(n) {
		x.walkImports(c)
	}
}

// dynamicImport records importlib.import_module("x") and __import__("x").
func (x *pyExtractor) dynamicImport(call *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return
	}
	var name string
	switch fn.Type() {
	case "identifier":
		name = text(fn, x.src)
	case "attribute":
		name = text(fn.ChildByFieldName("attribute"), x.src)
	}
	if name != "import_module" && name != "__import__" {
		return
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	if s, ok := stringValue(args.NamedChild(0), x.src); ok && s != "" {
		x.fa.Imports = append(x.fa.Imports, s)
	}
}

func (x *pyExtractor) function(def *sitter.Node) string {
	name := text(def.ChildByFieldName("name"), x.src)
	if name == "" {
		name = "anonymous"
	}
	x.fa.Functions = append(x.fa.Functions, FunctionInfo{
		Name:       name,
		IsAsync:    hasToken(def, "async"),
		IsExported: x.isExported(name),
		Parameters: x.parameters(def.ChildByFieldName("parameters")),
	})
	return name
}

func (x *pyExtractor) parameters(list *sitter.Node) []string {
	params := []string{}
	if list == nil {
		return params
	}
	for _, p := range namedChildren(list) {
		name := x.parameterName(p)
		if name == "" || name == "self" || name == "cls" {
			continue
		}
		params = append(params, name)
	}
	return params
}

func (x *pyExtractor) parameterName(p *sitter.Node) string {
	switch p.Type() {
	case "identifier":
		return text(p, x.src)
	case "default_parameter", "typed_default_parameter":
		return x.parameterName(p.ChildByFieldName("name"))
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		if id := childOfType(p, "identifier", "list_splat_pattern", "dictionary_splat_pattern"); id != nil {
			return x.parameterName(id)
		}
	}
	return ""
}

func (x *pyExtractor) class(def *sitter.Node) string {
	name := text(def.ChildByFieldName("name"), x.src)
	if name == "" {
		name = "Anonymous"
	}
	info := ClassInfo{
		Name:       name,
		IsExported: x.isExported(name),
		Methods:    []string{},
	}
	if supers := def.ChildByFieldName("superclasses"); supers != nil {
		for _, arg := range namedChildren(supers) {
			if arg.Type() == "keyword_argument" || arg.Type() == "comment" {
				continue
			}
			info.BaseClass = text(arg, x.src)
			break
		}
	}
	if body := def.ChildByFieldName("body"); body != nil {
		for _, stmt := range namedChildren(body) {
			m := stmt
			if stmt.Type() == "decorated_definition" {
				m = stmt.ChildByFieldName("definition")
			}
			if m != nil && m.Type() == "function_definition" {
				if s := text(m.ChildByFieldName("name"), x.src); s != "" {
					info.Methods = append(info.Methods, s)
				}
			}
		}
	}
	x.fa.Classes = append(x.fa.Classes, info)
	return name
}
