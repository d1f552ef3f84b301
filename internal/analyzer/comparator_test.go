package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStructure(name string, kind StructureKind, members ...Member) *Structure {
	return &Structure{
		Name:    name,
		Kind:    kind,
		Members: members,
		Location: &SourceLocation{
			FilePath:  "test.ts",
			StartLine: 1,
			EndLine:   10,
		},
	}
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "User", "User", 1.0},
		{"empty both", "", "", 1.0},
		{"one empty", "User", "", 0.0},
		{"no overlap", "abc", "xyz", 0.0},
		{"common prefix", "UserData", "UserInfo", 0.5},
		{"common suffix", "AdminUser", "GuestUser", 4.0 / 9.0},
		{"prefix and suffix", "getValue", "getName and Value", 8.0 / 17.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, stringSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestStringSimilarityCapsAtShorterLength(t *testing.T) {
	// Prefix and suffix overlap inside the shorter string must not
	// push the common count past its length.
	sim := stringSimilarity("aaa", "aaaaa")
	assert.InDelta(t, 3.0/5.0, sim, 1e-9)
}

func TestIdentifierSimilarityKindDamping(t *testing.T) {
	c := NewDefaultStructureComparator()

	same := c.identifierSimilarity(
		makeStructure("User", KindInterface),
		makeStructure("User", KindInterface),
	)
	different := c.identifierSimilarity(
		makeStructure("User", KindInterface),
		makeStructure("User", KindClass),
	)

	assert.InDelta(t, 1.0, same, 1e-9)
	assert.InDelta(t, 0.8, different, 1e-9)
}

func TestMemberScoreWeights(t *testing.T) {
	c := NewDefaultStructureComparator()

	m1 := Member{Name: "id", ValueType: "number"}
	m2 := Member{Name: "id", ValueType: "number"}
	assert.InDelta(t, 1.0, c.memberScore(&m1, &m2), 1e-9)

	// Same name and modifiers, unrelated types.
	m3 := Member{Name: "id", ValueType: "Widget"}
	assert.InDelta(t, 0.5, c.memberScore(&m1, &m3), 1e-9)
}

func TestTypeScoreStrategies(t *testing.T) {
	exact := NewStructureComparator(ComparisonOptions{MemberComparison: MemberComparisonExact})
	normalized := NewDefaultStructureComparator()

	tests := []struct {
		name             string
		t1, t2           string
		exactScore       float64
		normalizedScore  float64
	}{
		{"identical", "string", "string", 1.0, 1.0},
		{"same bucket", "string", "String", 0.0, 0.8},
		{"array bucket", "string[]", "number[]", 0.0, 0.8},
		{"different buckets", "string", "number", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.exactScore, exact.typeScore(tt.t1, tt.t2), 1e-9)
			assert.InDelta(t, tt.normalizedScore, normalized.typeScore(tt.t1, tt.t2), 1e-9)
		})
	}
}

func TestModifierSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"both empty", nil, nil, 1.0},
		{"identical", []string{"readonly"}, []string{"readonly"}, 1.0},
		{"disjoint", []string{"readonly"}, []string{"static"}, 0.0},
		{"partial", []string{"readonly", "optional"}, []string{"readonly"}, 0.5},
		{"one empty", []string{"readonly"}, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, modifierSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCompareIdenticalStructures(t *testing.T) {
	s := makeStructure("User", KindInterface,
		Member{Name: "id", ValueType: "number"},
		Member{Name: "name", ValueType: "string"},
	)
	result := NewDefaultStructureComparator().Compare(s, s)

	assert.InDelta(t, 1.0, result.Similarity, 1e-9)
	assert.InDelta(t, 1.0, result.IdentifierSimilarity, 1e-9)
	assert.InDelta(t, 1.0, result.MemberSimilarity, 1e-9)
	assert.Len(t, result.Matches, 2)
	assert.Empty(t, result.Differences.MissingMembers)
	assert.Empty(t, result.Differences.ExtraMembers)
	assert.Empty(t, result.Differences.TypeMismatches)
}

func TestCompareEmptyStructures(t *testing.T) {
	s1 := makeStructure("A", KindInterface)
	s2 := makeStructure("B", KindInterface)
	result := NewDefaultStructureComparator().Compare(s1, s2)

	assert.InDelta(t, 1.0, result.MemberSimilarity, 1e-9)
	// Empty structures take no size penalty either.
	assert.InDelta(t, 0.7, result.Similarity, 1e-9)
}

func TestCompareRenamedStructure(t *testing.T) {
	user := makeStructure("User", KindInterface,
		Member{Name: "id", ValueType: "number"},
		Member{Name: "name", ValueType: "string"},
	)
	person := makeStructure("Person", KindInterface,
		Member{Name: "id", ValueType: "number"},
		Member{Name: "name", ValueType: "string"},
	)
	result := NewDefaultStructureComparator().Compare(user, person)

	assert.Greater(t, result.MemberSimilarity, 0.9)
	assert.Less(t, result.IdentifierSimilarity, 0.5)
	assert.Greater(t, result.Similarity, 0.6)
	assert.Less(t, result.Similarity, 0.75)
}

func TestCompareSizeMismatch(t *testing.T) {
	small := makeStructure("Config", KindInterface,
		Member{Name: "debug", ValueType: "boolean"},
	)
	members := make([]Member, 10)
	for i := range members {
		members[i] = Member{Name: "field" + string(rune('a'+i)), ValueType: "string"}
	}
	large := makeStructure("Settings", KindInterface, members...)

	result := NewDefaultStructureComparator().Compare(small, large)
	assert.Less(t, result.Similarity, 0.05)
}

func TestCompareCollectsDifferences(t *testing.T) {
	s1 := makeStructure("Request", KindInterface,
		Member{Name: "url", ValueType: "string"},
		Member{Name: "method", ValueType: "string"},
		Member{Name: "timeout", ValueType: "number"},
	)
	s2 := makeStructure("Request", KindInterface,
		Member{Name: "url", ValueType: "String"},
		Member{Name: "method", ValueType: "string"},
		Member{Name: "retries", ValueType: "number"},
	)
	result := NewDefaultStructureComparator().Compare(s1, s2)

	assert.Contains(t, result.Differences.MissingMembers, "timeout")
	assert.Contains(t, result.Differences.ExtraMembers, "retries")
	require.Len(t, result.Differences.TypeMismatches, 1)
	assert.Equal(t, "url", result.Differences.TypeMismatches[0].MemberName)
	assert.Equal(t, "string", result.Differences.TypeMismatches[0].Type1)
	assert.Equal(t, "String", result.Differences.TypeMismatches[0].Type2)
}

func TestMatchMembersIsOrderDependent(t *testing.T) {
	// Greedy matching assigns members of the first structure in
	// order, so "a" can claim "ab" before "ab" gets a chance.
	s1 := makeStructure("A", KindInterface,
		Member{Name: "a", ValueType: "string"},
		Member{Name: "ab", ValueType: "string"},
	)
	s2 := makeStructure("B", KindInterface,
		Member{Name: "ab", ValueType: "string"},
	)
	c := NewDefaultStructureComparator()

	forward := c.matchMembers(s1, s2)
	reverse := c.matchMembers(s2, s1)

	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)
	assert.Equal(t, "a", forward[0].Name1)
	assert.Equal(t, "ab", reverse[0].Name2)
	assert.InDelta(t, 0.8, forward[0].Similarity, 1e-9)
	assert.InDelta(t, 1.0, reverse[0].Similarity, 1e-9)
}

func TestAttributeMembersScoreExactly(t *testing.T) {
	derives := Member{Name: "@derives", ValueType: "Debug, Clone", Modifiers: []string{"attribute"}}
	other := Member{Name: "@derives", ValueType: "Debug, Clone", Modifiers: []string{"attribute"}}
	c := NewDefaultStructureComparator()
	assert.Equal(t, 1.0, c.memberScore(&derives, &other))
}

func TestAggregateMemberScore(t *testing.T) {
	c := NewDefaultStructureComparator()

	tests := []struct {
		name               string
		len1, len2, matched int
		expected           float64
	}{
		{"both empty", 0, 0, 0, 1.0},
		{"full match", 3, 3, 3, 1.0},
		{"smaller covered", 2, 4, 2, 0.5 * 0.9},
		{"partial", 4, 4, 2, 0.5 * 0.7},
		{"nothing matched", 3, 3, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, c.aggregateMemberScore(tt.len1, tt.len2, tt.matched), 1e-9)
		})
	}
}

func TestSizePenaltyCurves(t *testing.T) {
	tests := []struct {
		name       string
		len1, len2 int
		strict     bool
		expected   float64
	}{
		{"both empty", 0, 0, true, 1.0},
		{"strict severe", 1, 10, true, 0.1 * 0.1 * 0.5},
		{"strict low", 2, 5, true, 0.4 * 0.4},
		{"strict mid", 3, 5, true, 0.4 + 0.6*0.6},
		{"strict high", 4, 5, true, 0.7 + 0.3*0.8},
		{"strict equal", 5, 5, true, 1.0},
		{"lenient low", 2, 5, false, 0.4 * 0.4},
		{"lenient high", 3, 5, false, 0.25 + 0.75*0.6},
		{"lenient equal", 5, 5, false, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sizePenalty(tt.len1, tt.len2, tt.strict), 1e-9)
		})
	}
}

func TestSizePenaltyMonotonicity(t *testing.T) {
	for _, strict := range []bool{true, false} {
		prev := -1.0
		for n := 0; n <= 20; n++ {
			p := sizePenalty(n, 20, strict)
			assert.GreaterOrEqual(t, p, prev, "penalty must not decrease as sizes converge (n=%d strict=%v)", n, strict)
			prev = p
		}
		assert.InDelta(t, 1.0, sizePenalty(20, 20, strict), 1e-9)
	}
}
