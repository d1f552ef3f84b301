package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

func TestRustExtractStruct(t *testing.T) {
	source := []byte(`
#[derive(Debug, Clone)]
#[serde(rename_all = "camelCase")]
pub struct User {
    pub id: u64,
    name: String,
    tags: Vec<String>,
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "user.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)

	user := structures[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, analyzer.KindStruct, user.Kind)

	id := findMember(t, user, "id")
	assert.Equal(t, "u64", id.ValueType)
	assert.Contains(t, id.Modifiers, "pub")

	assert.Equal(t, "String", findMember(t, user, "name").ValueType)
	assert.Equal(t, "Vec<String>", findMember(t, user, "tags").ValueType)

	derives := findMember(t, user, "@derives")
	assert.Equal(t, "Debug, Clone", derives.ValueType)
	assert.Contains(t, derives.Modifiers, "attribute")

	attrs := findMember(t, user, "@attributes")
	assert.Equal(t, `serde(rename_all = "camelCase")`, attrs.ValueType)
}

func TestRustExtractTupleStruct(t *testing.T) {
	source := []byte("struct Point(f64, f64);\n")
	structures, err := NewRustExtractor().Extract(context.Background(), "point.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)

	point := structures[0]
	require.Len(t, point.Members, 2)
	assert.Equal(t, "0", point.Members[0].Name)
	assert.Equal(t, "f64", point.Members[0].ValueType)
}

func TestRustExtractEnum(t *testing.T) {
	source := []byte(`
enum Shape {
    Empty,
    Circle(f64),
    Rect { width: f64, height: f64 },
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "shape.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)

	shape := structures[0]
	assert.Equal(t, analyzer.KindEnum, shape.Kind)
	require.Len(t, shape.Members, 3)

	assert.Equal(t, "unit", findMember(t, shape, "Empty").ValueType)
	assert.Equal(t, "(f64)", findMember(t, shape, "Circle").ValueType)
	assert.Equal(t, "{ width: f64, height: f64 }", findMember(t, shape, "Rect").ValueType)
	assert.Contains(t, findMember(t, shape, "Empty").Modifiers, "variant")
}

func TestRustExtractVisibility(t *testing.T) {
	source := []byte(`
pub struct Config {
    pub debug: bool,
}

pub(crate) enum Mode {
    Fast,
}

struct Internal {
    x: u32,
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "vis.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 3)

	assert.Equal(t, "pub", findStructure(t, structures, "Config").Visibility)
	assert.Equal(t, "pub(crate)", findStructure(t, structures, "Mode").Visibility)
	assert.Empty(t, findStructure(t, structures, "Internal").Visibility)
}

func TestRustExtractGenerics(t *testing.T) {
	source := []byte(`
struct Wrapper<T> {
    inner: T,
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "wrapper.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)
	assert.Len(t, structures[0].Generics, 1)
}

func TestRustExtractNestedModule(t *testing.T) {
	source := []byte(`
mod models {
    pub struct Config {
        pub debug: bool,
    }
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "lib.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)
	assert.Equal(t, "Config", structures[0].Name)
}

func TestRustAttributesOnlyBindToNextItem(t *testing.T) {
	source := []byte(`
#[derive(Debug)]
struct First {
    a: u32,
}

struct Second {
    b: u32,
}
`)
	structures, err := NewRustExtractor().Extract(context.Background(), "two.rs", source)
	require.NoError(t, err)
	require.Len(t, structures, 2)

	first := findStructure(t, structures, "First")
	second := findStructure(t, structures, "Second")
	assert.Len(t, first.Members, 2)
	assert.Len(t, second.Members, 1)
}
