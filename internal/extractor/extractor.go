package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

// Extractor turns source files of one language into normalized
// structures for comparison.
type Extractor interface {
	// Language returns the extractor's language name
	Language() string

	// Extensions returns the file extensions the extractor handles
	Extensions() []string

	// Extract parses source and returns all structure definitions in it
	Extract(ctx context.Context, filePath string, source []byte) ([]*analyzer.Structure, error)
}

// Registry maps languages and file extensions to extractors
type Registry struct {
	byLanguage  map[string]Extractor
	byExtension map[string]Extractor
}

// NewRegistry creates a registry with the given extractors
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{
		byLanguage:  make(map[string]Extractor),
		byExtension: make(map[string]Extractor),
	}
	for _, e := range extractors {
		r.byLanguage[e.Language()] = e
		for _, ext := range e.Extensions() {
			r.byExtension[ext] = e
		}
	}
	return r
}

// DefaultRegistry creates a registry with all built-in extractors
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewTypeScriptExtractor(),
		NewRustExtractor(),
		NewCSSExtractor(),
	)
}

// ForLanguage returns the extractor registered for a language name
func (r *Registry) ForLanguage(language string) (Extractor, error) {
	e, ok := r.byLanguage[language]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for language %q", language)
	}
	return e, nil
}

// ForFile returns the extractor for a file path based on its extension
func (r *Registry) ForFile(path string) (Extractor, bool) {
	e, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Languages returns the registered language names
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	return langs
}

// parse runs a tree-sitter parse with a fresh parser. Parsers carry
// internal state, so sharing one across goroutines is not safe.
func parse(ctx context.Context, language *sitter.Language, source []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree.RootNode(), nil
}

// location builds a 1-based source location for a node
func location(filePath string, node *sitter.Node) *analyzer.SourceLocation {
	return &analyzer.SourceLocation{
		FilePath:  filePath,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}
}

// namedChildren returns all named children of a node
func namedChildren(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// hasChildOfType reports whether any direct child has the given type
func hasChildOfType(node *sitter.Node, nodeType string) bool {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if node.Child(i).Type() == nodeType {
			return true
		}
	}
	return false
}

// typeAnnotationText returns the type inside a type_annotation node,
// without the leading colon.
func typeAnnotationText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if inner := node.NamedChild(0); inner != nil {
		return inner.Content(source)
	}
	return strings.TrimSpace(strings.TrimPrefix(node.Content(source), ":"))
}

// genericNames returns the contents of a type_parameters node's
// named children.
func genericNames(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	var generics []string
	for _, child := range namedChildren(node) {
		generics = append(generics, child.Content(source))
	}
	return generics
}
