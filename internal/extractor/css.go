package extractor

import (
	"context"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

// CSSExtractor extracts rule sets from CSS source. Declarations become
// members whose value types are coarse value categories, so rules with
// the same shape compare well even when concrete values differ.
type CSSExtractor struct{}

// NewCSSExtractor creates a new CSS extractor
func NewCSSExtractor() *CSSExtractor {
	return &CSSExtractor{}
}

// Language returns the extractor's language name
func (e *CSSExtractor) Language() string {
	return "css"
}

// Extensions returns the file extensions the extractor handles
func (e *CSSExtractor) Extensions() []string {
	return []string{".css"}
}

// Extract parses source and returns all structure definitions in it
func (e *CSSExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]*analyzer.Structure, error) {
	root, err := parse(ctx, css.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	var structures []*analyzer.Structure
	var walk func(node *sitter.Node, mediaQuery string)
	walk = func(node *sitter.Node, mediaQuery string) {
		for _, child := range namedChildren(node) {
			switch child.Type() {
			case "rule_set":
				if s := e.extractRuleSet(child, mediaQuery, filePath, source); s != nil {
					structures = append(structures, s)
				}
			case "media_statement":
				if block := lastChildOfType(child, "block"); block != nil {
					walk(block, mediaQueryText(child, source))
				}
			default:
				walk(child, mediaQuery)
			}
		}
	}
	walk(root, "")
	return structures, nil
}

func (e *CSSExtractor) extractRuleSet(node *sitter.Node, mediaQuery, filePath string, source []byte) *analyzer.Structure {
	var selector string
	var block *sitter.Node
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "selectors":
			selector = strings.TrimSpace(child.Content(source))
		case "block":
			block = child
		}
	}
	if selector == "" || block == nil {
		return nil
	}

	kind := analyzer.KindStyleRule
	if strings.HasPrefix(selector, ".") {
		kind = analyzer.KindStyleClass
	}

	var members []analyzer.Member
	for _, child := range namedChildren(block) {
		if child.Type() != "declaration" {
			continue
		}
		if m, ok := e.declarationMember(child, source); ok {
			members = append(members, m)
		}
	}
	if mediaQuery != "" {
		members = append(members, analyzer.Member{
			Name:      "@media",
			ValueType: mediaQuery,
			Modifiers: []string{"media-query"},
		})
	}

	return &analyzer.Structure{
		Name:      selector,
		Kind:      kind,
		Namespace: filePath,
		Members:   members,
		Location:  location(filePath, node),
	}
}

func (e *CSSExtractor) declarationMember(node *sitter.Node, source []byte) (analyzer.Member, bool) {
	children := namedChildren(node)
	if len(children) == 0 || children[0].Type() != "property_name" {
		return analyzer.Member{}, false
	}

	values := make([]string, 0, len(children)-1)
	for _, value := range children[1:] {
		if value.Type() == "important" {
			continue
		}
		values = append(values, value.Content(source))
	}

	return analyzer.Member{
		Name:      children[0].Content(source),
		ValueType: categorizeValue(strings.Join(values, " ")),
	}, true
}

// mediaQueryText joins the query clauses of a media statement
func mediaQueryText(node *sitter.Node, source []byte) string {
	var clauses []string
	for _, child := range namedChildren(node) {
		if child.Type() == "block" {
			break
		}
		clauses = append(clauses, child.Content(source))
	}
	return strings.Join(clauses, " ")
}

// lastChildOfType returns the last named child with the given type
func lastChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	for _, child := range namedChildren(node) {
		if child.Type() == nodeType {
			found = child
		}
	}
	return found
}

// categorizeValue buckets a CSS value into a coarse category. Checks
// are ordered so that more specific shapes win: "10s" is a time, but
// "10px" is a length even though it also ends in a letter run.
func categorizeValue(value string) string {
	value = strings.TrimSpace(value)

	switch {
	case strings.HasPrefix(value, "#"),
		strings.HasPrefix(value, "rgb"),
		strings.HasPrefix(value, "hsl"),
		isNamedColor(value):
		return "color"
	case hasLengthUnit(value):
		return "length"
	case strings.HasSuffix(value, "ms"), strings.HasSuffix(value, "s"):
		return "time"
	case isFontFamily(value):
		return "font-family"
	case isNumber(value):
		return "number"
	case strings.HasPrefix(value, "url("):
		return "url"
	case isKeyword(value):
		return "keyword"
	default:
		return "value"
	}
}

func hasLengthUnit(value string) bool {
	for _, unit := range []string{"px", "em", "rem", "%", "vh", "vw", "pt", "cm", "mm"} {
		if strings.HasSuffix(value, unit) {
			return true
		}
	}
	return false
}

func isNumber(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

var namedColors = map[string]struct{}{
	"red": {}, "green": {}, "blue": {}, "black": {}, "white": {},
	"gray": {}, "grey": {}, "yellow": {}, "orange": {}, "purple": {},
	"pink": {}, "brown": {}, "cyan": {}, "magenta": {}, "lime": {},
	"indigo": {}, "violet": {}, "transparent": {}, "currentColor": {},
}

func isNamedColor(value string) bool {
	_, ok := namedColors[value]
	return ok
}

func isFontFamily(value string) bool {
	for _, marker := range []string{
		"serif", "sans-serif", "monospace", "cursive", "fantasy",
		"Arial", "Helvetica", "Times", "Courier", "Georgia", "Verdana",
		`"`, "'",
	} {
		if strings.Contains(value, marker) {
			return true
		}
	}
	return false
}

var cssKeywords = map[string]struct{}{
	"none": {}, "auto": {}, "inherit": {}, "initial": {}, "unset": {},
	"normal": {}, "bold": {}, "italic": {}, "underline": {}, "center": {},
	"left": {}, "right": {}, "top": {}, "bottom": {}, "middle": {},
	"baseline": {}, "flex": {}, "grid": {}, "block": {}, "inline": {},
	"inline-block": {}, "table": {}, "relative": {}, "absolute": {},
	"fixed": {}, "sticky": {}, "static": {}, "hidden": {}, "visible": {},
	"scroll": {}, "pointer": {}, "default": {}, "solid": {}, "dashed": {},
	"dotted": {},
}

func isKeyword(value string) bool {
	_, ok := cssKeywords[value]
	return ok
}
