package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

// TypeScriptExtractor extracts interfaces, object type aliases and
// classes from TypeScript source.
type TypeScriptExtractor struct{}

// NewTypeScriptExtractor creates a new TypeScript extractor
func NewTypeScriptExtractor() *TypeScriptExtractor {
	return &TypeScriptExtractor{}
}

// Language returns the extractor's language name
func (e *TypeScriptExtractor) Language() string {
	return "typescript"
}

// Extensions returns the file extensions the extractor handles
func (e *TypeScriptExtractor) Extensions() []string {
	return []string{".ts", ".tsx", ".mts", ".cts"}
}

// Extract parses source and returns all structure definitions in it
func (e *TypeScriptExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]*analyzer.Structure, error) {
	root, err := parse(ctx, typescript.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	var structures []*analyzer.Structure
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Type() {
		case "interface_declaration":
			if s := e.extractInterface(node, filePath, source); s != nil {
				structures = append(structures, s)
			}
		case "type_alias_declaration":
			if s := e.extractTypeAlias(node, filePath, source); s != nil {
				structures = append(structures, s)
			}
		case "class_declaration", "abstract_class_declaration":
			if s := e.extractClass(node, filePath, source); s != nil {
				structures = append(structures, s)
			}
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(root)
	return structures, nil
}

func (e *TypeScriptExtractor) extractInterface(node *sitter.Node, filePath string, source []byte) *analyzer.Structure {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}
	return &analyzer.Structure{
		Name:      name.Content(source),
		Kind:      analyzer.KindInterface,
		Namespace: filePath,
		Members:   e.objectTypeMembers(body, source),
		Generics:  genericNames(node.ChildByFieldName("type_parameters"), source),
		Extends:   heritageTypes(node, source),
		Location:  location(filePath, node),
	}
}

func (e *TypeScriptExtractor) extractTypeAlias(node *sitter.Node, filePath string, source []byte) *analyzer.Structure {
	name := node.ChildByFieldName("name")
	value := node.ChildByFieldName("value")
	if name == nil || value == nil || value.Type() != "object_type" {
		// Aliases over unions, primitives and mapped types have no
		// member list to compare.
		return nil
	}
	return &analyzer.Structure{
		Name:      name.Content(source),
		Kind:      analyzer.KindTypeAlias,
		Namespace: filePath,
		Members:   e.objectTypeMembers(value, source),
		Generics:  genericNames(node.ChildByFieldName("type_parameters"), source),
		Location:  location(filePath, node),
	}
}

// objectTypeMembers collects members from an interface or object-type
// body node.
func (e *TypeScriptExtractor) objectTypeMembers(body *sitter.Node, source []byte) []analyzer.Member {
	var members []analyzer.Member
	for _, child := range namedChildren(body) {
		switch child.Type() {
		case "property_signature":
			if m, ok := e.propertyMember(child, source); ok {
				members = append(members, m)
			}
		case "method_signature":
			if m, ok := e.methodMember(child, source, false); ok {
				members = append(members, m)
			}
		}
	}
	return members
}

func (e *TypeScriptExtractor) propertyMember(node *sitter.Node, source []byte) (analyzer.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return analyzer.Member{}, false
	}

	var modifiers []string
	if hasChildOfType(node, "?") {
		modifiers = append(modifiers, "optional")
	}
	if hasChildOfType(node, "readonly") {
		modifiers = append(modifiers, "readonly")
	}

	return analyzer.Member{
		Name:      name.Content(source),
		ValueType: typeAnnotationText(node.ChildByFieldName("type"), source),
		Modifiers: modifiers,
	}, true
}

// methodMember builds a member whose value type is the method
// signature, so renamed methods with identical shapes still match.
func (e *TypeScriptExtractor) methodMember(node *sitter.Node, source []byte, classMember bool) (analyzer.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return analyzer.Member{}, false
	}

	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		paramTexts := make([]string, 0, p.NamedChildCount())
		for _, param := range namedChildren(p) {
			paramTexts = append(paramTexts, param.Content(source))
		}
		params = strings.Join(paramTexts, ", ")
	}
	returnType := typeAnnotationText(node.ChildByFieldName("return_type"), source)
	if returnType == "" {
		returnType = "void"
	}

	var modifiers []string
	if classMember {
		if acc := accessibilityModifier(node, source); acc == "private" {
			modifiers = append(modifiers, "private")
		}
		if hasChildOfType(node, "static") {
			modifiers = append(modifiers, "static")
		}
		if hasChildOfType(node, "async") {
			modifiers = append(modifiers, "async")
		}
	}
	modifiers = append(modifiers, "method")

	return analyzer.Member{
		Name:      name.Content(source),
		ValueType: fmt.Sprintf("(%s) => %s", params, returnType),
		Modifiers: modifiers,
	}, true
}

func (e *TypeScriptExtractor) extractClass(node *sitter.Node, filePath string, source []byte) *analyzer.Structure {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}

	var members []analyzer.Member
	for _, child := range namedChildren(body) {
		switch child.Type() {
		case "public_field_definition", "field_definition":
			if m, ok := e.fieldMember(child, source); ok {
				members = append(members, m)
			}
		case "method_definition":
			if methodName := child.ChildByFieldName("name"); methodName != nil && methodName.Content(source) == "constructor" {
				members = append(members, e.constructorParamMembers(child, source)...)
				continue
			}
			if m, ok := e.methodMember(child, source, true); ok {
				members = append(members, m)
			}
		}
	}

	visibility := ""
	if node.Type() == "abstract_class_declaration" {
		visibility = "abstract"
	}

	return &analyzer.Structure{
		Name:       name.Content(source),
		Kind:       analyzer.KindClass,
		Namespace:  filePath,
		Members:    members,
		Generics:   genericNames(node.ChildByFieldName("type_parameters"), source),
		Extends:    heritageTypes(node, source),
		Visibility: visibility,
		Location:   location(filePath, node),
	}
}

func (e *TypeScriptExtractor) fieldMember(node *sitter.Node, source []byte) (analyzer.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return analyzer.Member{}, false
	}

	var modifiers []string
	if accessibilityModifier(node, source) == "private" {
		modifiers = append(modifiers, "private")
	}
	if hasChildOfType(node, "static") {
		modifiers = append(modifiers, "static")
	}
	if hasChildOfType(node, "readonly") {
		modifiers = append(modifiers, "readonly")
	}
	if hasChildOfType(node, "?") {
		modifiers = append(modifiers, "optional")
	}

	return analyzer.Member{
		Name:      name.Content(source),
		ValueType: typeAnnotationText(node.ChildByFieldName("type"), source),
		Modifiers: modifiers,
	}, true
}

// constructorParamMembers turns constructor parameter properties into
// positional members, so classes declaring state through the
// constructor still compare against classes with explicit fields.
func (e *TypeScriptExtractor) constructorParamMembers(node *sitter.Node, source []byte) []analyzer.Member {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var members []analyzer.Member
	i := 0
	for _, param := range namedChildren(params) {
		if param.Type() != "required_parameter" && param.Type() != "optional_parameter" {
			continue
		}
		if !hasNamedChildOfType(param, "accessibility_modifier") {
			continue
		}
		members = append(members, analyzer.Member{
			Name:      fmt.Sprintf("constructor_param_%d", i),
			ValueType: typeAnnotationText(param.ChildByFieldName("type"), source),
			Modifiers: []string{"constructor"},
		})
		i++
	}
	return members
}

// heritageTypes collects the types named in a declaration's extends
// clause. Interfaces carry the clause directly; classes wrap it in a
// class_heritage node. Implements clauses are not collected.
func heritageTypes(node *sitter.Node, source []byte) []string {
	var extends []string
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "extends_clause", "extends_type_clause":
			for _, heritage := range namedChildren(child) {
				if heritage.Type() == "type_arguments" {
					continue
				}
				extends = append(extends, heritage.Content(source))
			}
		case "class_heritage":
			extends = append(extends, heritageTypes(child, source)...)
		}
	}
	return extends
}

// accessibilityModifier returns the text of a node's accessibility
// modifier child, if any.
func accessibilityModifier(node *sitter.Node, source []byte) string {
	for _, child := range namedChildren(node) {
		if child.Type() == "accessibility_modifier" {
			return child.Content(source)
		}
	}
	return ""
}

func hasNamedChildOfType(node *sitter.Node, nodeType string) bool {
	for _, child := range namedChildren(node) {
		if child.Type() == nodeType {
			return true
		}
	}
	return false
}
