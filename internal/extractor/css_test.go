package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/structsim/internal/analyzer"
)

func TestCSSExtractRuleSets(t *testing.T) {
	source := []byte(`
.button {
	color: #ffffff;
	padding: 10px;
	display: flex;
}

h1 {
	font-size: 16px;
}
`)
	structures, err := NewCSSExtractor().Extract(context.Background(), "styles.css", source)
	require.NoError(t, err)
	require.Len(t, structures, 2)

	button := findStructure(t, structures, ".button")
	assert.Equal(t, analyzer.KindStyleClass, button.Kind)
	assert.Equal(t, "color", findMember(t, button, "color").Name)
	assert.Equal(t, "color", findMember(t, button, "color").ValueType)
	assert.Equal(t, "length", findMember(t, button, "padding").ValueType)
	assert.Equal(t, "keyword", findMember(t, button, "display").ValueType)

	heading := findStructure(t, structures, "h1")
	assert.Equal(t, analyzer.KindStyleRule, heading.Kind)
	assert.Equal(t, "length", findMember(t, heading, "font-size").ValueType)
}

func TestCSSExtractMediaQuery(t *testing.T) {
	source := []byte(`
@media (max-width: 600px) {
	.nav {
		display: none;
	}
}
`)
	structures, err := NewCSSExtractor().Extract(context.Background(), "responsive.css", source)
	require.NoError(t, err)
	require.Len(t, structures, 1)

	nav := structures[0]
	assert.Equal(t, ".nav", nav.Name)

	media := findMember(t, nav, "@media")
	assert.NotEmpty(t, media.ValueType)
	assert.Contains(t, media.Modifiers, "media-query")
}

func TestCategorizeValue(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"#fff", "color"},
		{"rgb(0, 0, 0)", "color"},
		{"red", "color"},
		{"10px", "length"},
		{"2rem", "length"},
		{"100%", "length"},
		{"300ms", "time"},
		{"2s", "time"},
		{"1.5", "number"},
		{"url(bg.png)", "url"},
		{"none", "keyword"},
		{"sans-serif", "font-family"},
		{"translate(10deg)", "value"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, categorizeValue(tt.value), "value=%q", tt.value)
	}
}
