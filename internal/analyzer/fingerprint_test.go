package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeCategory(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "empty"},
		{1, "single"},
		{2, "small"},
		{3, "small"},
		{4, "medium"},
		{6, "medium"},
		{7, "large"},
		{10, "large"},
		{11, "huge"},
		{100, "huge"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sizeCategory(tt.count), "count=%d", tt.count)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"string", "string"},
		{"String", "string"},
		{"string[]", "array"},
		{"Array<string>", "array"},
		{"number", "number"},
		{"boolean", "boolean"},
		{"{ a: string }", "object"},
		{"Widget", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeType(tt.input), "input=%q", tt.input)
	}
}

func TestFingerprintTokens(t *testing.T) {
	s := makeStructure("Product", KindInterface,
		Member{Name: "name", ValueType: "string"},
		Member{Name: "count", ValueType: "number"},
		Member{Name: "tags", ValueType: "string[]"},
	)
	fp := NewFingerprintGenerator().Fingerprint(s)

	assert.Contains(t, fp, "kind:interface")
	assert.Contains(t, fp, "size:small")
	assert.Contains(t, fp, "members:3")
	assert.Contains(t, fp, "string:1")
	assert.Contains(t, fp, "number:1")
	assert.Contains(t, fp, "array:1")
	assert.NotContains(t, fp, "generics")
}

func TestFingerprintGenericsToken(t *testing.T) {
	s := makeStructure("Box", KindInterface, Member{Name: "value", ValueType: "T"})
	s.Generics = []string{"T", "U"}
	fp := NewFingerprintGenerator().Fingerprint(s)
	assert.Contains(t, fp, "generics:2")
}

func TestFingerprintTypeCountsAreSorted(t *testing.T) {
	s := makeStructure("A", KindInterface,
		Member{Name: "x", ValueType: "string"},
		Member{Name: "y", ValueType: "number"},
	)
	fp := NewFingerprintGenerator().Fingerprint(s)
	assert.Less(t, strings.Index(fp, "number:1"), strings.Index(fp, "string:1"))
}

func TestFingerprintMemoization(t *testing.T) {
	g := NewFingerprintGenerator()
	s := makeStructure("User", KindInterface, Member{Name: "id", ValueType: "number"})
	first := g.Fingerprint(s)

	// Same key hits the cache even if the structure changed.
	s.Members = append(s.Members, Member{Name: "name", ValueType: "string"})
	assert.Equal(t, first, g.Fingerprint(s))
}

func TestFingerprintGenericKind(t *testing.T) {
	s := makeStructure("Thing", GenericKind("protobuf:message"))
	fp := NewFingerprintGenerator().Fingerprint(s)

	kind, size, members, ok := parseFingerprint(fp)
	assert.True(t, ok)
	assert.Equal(t, "generic:protobuf:message", kind)
	assert.Equal(t, "empty", size)
	assert.Equal(t, 0, members)
}

func TestComparable(t *testing.T) {
	g := NewFingerprintGenerator()
	fpFor := func(kind StructureKind, memberCount int) string {
		members := make([]Member, memberCount)
		for i := range members {
			members[i] = Member{Name: "m" + string(rune('a'+i)), ValueType: "string"}
		}
		s := makeStructure(string(kind)+string(rune('a'+memberCount)), kind, members...)
		return g.Fingerprint(s)
	}

	t.Run("identical fingerprints", func(t *testing.T) {
		assert.True(t, Comparable(fpFor(KindInterface, 3), fpFor(KindInterface, 3)))
	})

	t.Run("kind mismatch rejected", func(t *testing.T) {
		assert.False(t, Comparable(fpFor(KindInterface, 3), fpFor(KindClass, 3)))
	})

	t.Run("distant size categories rejected", func(t *testing.T) {
		// single (1) vs large (4) is three buckets apart.
		assert.False(t, Comparable(fpFor(KindInterface, 1), fpFor(KindInterface, 8)))
	})

	t.Run("member ratio below threshold rejected", func(t *testing.T) {
		// 2 vs 7 members stays within two size buckets but 2/7 < 0.3.
		assert.False(t, Comparable(fpFor(KindInterface, 2), fpFor(KindInterface, 7)))
	})

	t.Run("nearby sizes accepted", func(t *testing.T) {
		assert.True(t, Comparable(fpFor(KindInterface, 3), fpFor(KindInterface, 5)))
	})

	t.Run("malformed fingerprint fails open", func(t *testing.T) {
		assert.True(t, Comparable("garbage", fpFor(KindInterface, 3)))
		assert.True(t, Comparable("garbage", "more garbage"))
	})
}
