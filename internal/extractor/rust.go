package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

// RustExtractor extracts struct and enum definitions from Rust source
type RustExtractor struct{}

// NewRustExtractor creates a new Rust extractor
func NewRustExtractor() *RustExtractor {
	return &RustExtractor{}
}

// Language returns the extractor's language name
func (e *RustExtractor) Language() string {
	return "rust"
}

// Extensions returns the file extensions the extractor handles
func (e *RustExtractor) Extensions() []string {
	return []string{".rs"}
}

// Extract parses source and returns all structure definitions in it
func (e *RustExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]*analyzer.Structure, error) {
	root, err := parse(ctx, rust.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	var structures []*analyzer.Structure
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		// Attribute items precede the item they annotate as siblings,
		// so items and their attributes are collected in one pass over
		// each block of children.
		var pending []*sitter.Node
		for _, child := range namedChildren(node) {
			switch child.Type() {
			case "attribute_item":
				pending = append(pending, child)
				continue
			case "struct_item":
				if s := e.extractStruct(child, pending, filePath, source); s != nil {
					structures = append(structures, s)
				}
			case "enum_item":
				if s := e.extractEnum(child, pending, filePath, source); s != nil {
					structures = append(structures, s)
				}
			default:
				walk(child)
			}
			pending = nil
		}
	}
	walk(root)
	return structures, nil
}

func (e *RustExtractor) extractStruct(node *sitter.Node, attrs []*sitter.Node, filePath string, source []byte) *analyzer.Structure {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	var members []analyzer.Member
	if body := node.ChildByFieldName("body"); body != nil {
		switch body.Type() {
		case "field_declaration_list":
			for _, field := range namedChildren(body) {
				if field.Type() != "field_declaration" {
					continue
				}
				if m, ok := e.fieldMember(field, source); ok {
					members = append(members, m)
				}
			}
		case "ordered_field_declaration_list":
			// Tuple struct fields are positional.
			i := 0
			for _, field := range namedChildren(body) {
				if field.Type() == "visibility_modifier" {
					continue
				}
				members = append(members, analyzer.Member{
					Name:      fmt.Sprintf("%d", i),
					ValueType: field.Content(source),
				})
				i++
			}
		}
	}
	members = append(members, attributeMembers(attrs, source)...)

	return &analyzer.Structure{
		Name:       name.Content(source),
		Kind:       analyzer.KindStruct,
		Namespace:  filePath,
		Members:    members,
		Generics:   genericNames(node.ChildByFieldName("type_parameters"), source),
		Visibility: visibilityText(node, source),
		Location:   location(filePath, node),
	}
}

func (e *RustExtractor) fieldMember(node *sitter.Node, source []byte) (analyzer.Member, bool) {
	name := node.ChildByFieldName("name")
	fieldType := node.ChildByFieldName("type")
	if name == nil || fieldType == nil {
		return analyzer.Member{}, false
	}

	var modifiers []string
	if vis := visibilityText(node, source); vis != "" {
		modifiers = append(modifiers, vis)
	}

	return analyzer.Member{
		Name:      name.Content(source),
		ValueType: fieldType.Content(source),
		Modifiers: modifiers,
	}, true
}

func (e *RustExtractor) extractEnum(node *sitter.Node, attrs []*sitter.Node, filePath string, source []byte) *analyzer.Structure {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	var members []analyzer.Member
	if body := node.ChildByFieldName("body"); body != nil {
		for _, variant := range namedChildren(body) {
			if variant.Type() != "enum_variant" {
				continue
			}
			if m, ok := e.variantMember(variant, source); ok {
				members = append(members, m)
			}
		}
	}
	members = append(members, attributeMembers(attrs, source)...)

	return &analyzer.Structure{
		Name:       name.Content(source),
		Kind:       analyzer.KindEnum,
		Namespace:  filePath,
		Members:    members,
		Generics:   genericNames(node.ChildByFieldName("type_parameters"), source),
		Visibility: visibilityText(node, source),
		Location:   location(filePath, node),
	}
}

// variantMember encodes a variant's payload shape as its value type:
// "unit" for bare variants, "(T, U)" for tuple variants and
// "{ a: T }" for struct variants.
func (e *RustExtractor) variantMember(node *sitter.Node, source []byte) (analyzer.Member, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return analyzer.Member{}, false
	}

	valueType := "unit"
	if body := node.ChildByFieldName("body"); body != nil {
		switch body.Type() {
		case "ordered_field_declaration_list":
			var types []string
			for _, field := range namedChildren(body) {
				if field.Type() == "visibility_modifier" {
					continue
				}
				types = append(types, field.Content(source))
			}
			valueType = "(" + strings.Join(types, ", ") + ")"
		case "field_declaration_list":
			var fields []string
			for _, field := range namedChildren(body) {
				if field.Type() != "field_declaration" {
					continue
				}
				fieldName := field.ChildByFieldName("name")
				fieldType := field.ChildByFieldName("type")
				if fieldName == nil || fieldType == nil {
					continue
				}
				fields = append(fields, fieldName.Content(source)+": "+fieldType.Content(source))
			}
			valueType = "{ " + strings.Join(fields, ", ") + " }"
		}
	}

	return analyzer.Member{
		Name:      name.Content(source),
		ValueType: valueType,
		Modifiers: []string{"variant"},
	}, true
}

// attributeMembers folds the derive list and any remaining attributes
// into special members, so two structs with matching derives score
// higher than structs with different ones.
func attributeMembers(attrs []*sitter.Node, source []byte) []analyzer.Member {
	var derives []string
	var others []string
	for _, attr := range attrs {
		text := strings.TrimSpace(attr.Content(source))
		inner := strings.TrimSuffix(strings.TrimPrefix(text, "#["), "]")
		if rest, ok := strings.CutPrefix(inner, "derive("); ok {
			rest = strings.TrimSuffix(rest, ")")
			for _, d := range strings.Split(rest, ",") {
				if d = strings.TrimSpace(d); d != "" {
					derives = append(derives, d)
				}
			}
			continue
		}
		others = append(others, inner)
	}

	var members []analyzer.Member
	if len(derives) > 0 {
		members = append(members, analyzer.Member{
			Name:      "@derives",
			ValueType: strings.Join(derives, ", "),
			Modifiers: []string{"attribute"},
		})
	}
	if len(others) > 0 {
		members = append(members, analyzer.Member{
			Name:      "@attributes",
			ValueType: strings.Join(others, ", "),
			Modifiers: []string{"attribute"},
		})
	}
	return members
}

// visibilityText returns the text of a node's visibility modifier
func visibilityText(node *sitter.Node, source []byte) string {
	for _, child := range namedChildren(node) {
		if child.Type() == "visibility_modifier" {
			return child.Content(source)
		}
	}
	return ""
}
