package syntax

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/matzehuels/stackprint/pkg/errors"
)

// DefaultMaxFileSize bounds the size of a single analyzed source file.
const DefaultMaxFileSize = 2 << 20

// Tree is a parsed syntax tree together with its source text.
// Close must be called to release the underlying tree-sitter memory.
type Tree struct {
	tree *sitter.Tree
	src  []byte
	lang Language
}

// Language returns the language the tree was parsed as.
func (t *Tree) Language() Language { return t.lang }

// HasError reports whether tree-sitter had to recover from syntax errors.
func (t *Tree) HasError() bool { return t.tree.RootNode().HasError() }

// Close releases the tree.
func (t *Tree) Close() { t.tree.Close() }

type grammar struct {
	lang   Language
	parser sync.Pool
}

func newGrammar(lang Language, sl *sitter.Language) *grammar {
	g := &grammar{lang: lang}
	g.parser.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(sl)
		return p
	}
	return g
}

// Registry maps file extensions to tree-sitter grammars. It is safe for
// concurrent use: every parse borrows a parser from the grammar's pool.
type Registry struct {
	grammars    map[string]*grammar
	MaxFileSize int64
}

// NewRegistry returns a registry with the JavaScript, TypeScript, TSX and
// Python grammars registered.
func NewRegistry() *Registry {
	js := newGrammar(LanguageJavaScript, javascript.GetLanguage())
	ts := newGrammar(LanguageTypeScript, typescript.GetLanguage())
	py := newGrammar(LanguagePython, python.GetLanguage())
	return &Registry{
		grammars: map[string]*grammar{
			".js":  js,
			".jsx": js,
			".mjs": js,
			".cjs": js,
			".ts":  ts,
			".mts": ts,
			".cts": ts,
			".tsx": newGrammar(LanguageTypeScript, tsx.GetLanguage()),
			".py":  py,
		},
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Supports reports whether a grammar is registered for ext.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.grammars[strings.ToLower(ext)]
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.grammars))
	for ext := range r.grammars {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Parse parses src with the grammar registered for ext.
func (r *Registry) Parse(ctx context.Context, src []byte, ext string) (*Tree, error) {
	g, ok := r.grammars[strings.ToLower(ext)]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedLanguage, "no grammar for extension %q", ext)
	}

	p := g.parser.Get().(*sitter.Parser)
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		p.Reset()
		g.parser.Put(p)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "parse interrupted")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "tree-sitter parse failed")
	}
	g.parser.Put(p)

	return &Tree{tree: tree, src: src, lang: g.lang}, nil
}

// Extract walks tree once and returns the structural facts of the file.
// A panic during extraction is converted to an error so that no partial
// record escapes.
func (r *Registry) Extract(tree *Tree, path string) (fa *FileAnalysis, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fa = nil
			err = errors.New(errors.ErrCodeInternal, "extract %s: %v", filepath.Base(path), rec)
		}
	}()

	root := tree.tree.RootNode()
	switch tree.lang {
	case LanguagePython:
		return extractPython(root, tree.src, path), nil
	case LanguageJavaScript, LanguageTypeScript:
		return extractJavaScript(root, tree.src, path, tree.lang), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedLanguage, "no extractor for %s", tree.lang)
	}
}

// AnalyzeFile reads, parses and extracts a single file.
func (r *Registry) AnalyzeFile(ctx context.Context, path string) (*FileAnalysis, error) {
	ext := filepath.Ext(path)
	if !r.Supports(ext) {
		return nil, errors.New(errors.ErrCodeUnsupportedLanguage, "unsupported file %s", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if r.MaxFileSize > 0 && info.Size() > r.MaxFileSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", filepath.Base(path), r.MaxFileSize)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	if !utf8.Valid(src) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not valid UTF-8", filepath.Base(path))
	}

	tree, err := r.Parse(ctx, src, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	defer tree.Close()

	return r.Extract(tree, path)
}
