package analyzer

import (
	"fmt"
	"strings"
)

// StructureKind classifies a named member container
type StructureKind string

const (
	// KindInterface - TypeScript interface declarations
	KindInterface StructureKind = "interface"
	// KindTypeAlias - TypeScript type aliases over object literals
	KindTypeAlias StructureKind = "type-alias"
	// KindTypeLiteral - anonymous object type literals
	KindTypeLiteral StructureKind = "type-literal"
	// KindClass - class declarations
	KindClass StructureKind = "class"
	// KindStruct - Rust struct definitions
	KindStruct StructureKind = "struct"
	// KindEnum - Rust enum definitions
	KindEnum StructureKind = "enum"
	// KindStyleRule - CSS rule sets
	KindStyleRule StructureKind = "style-rule"
	// KindStyleClass - CSS rule sets with a class selector
	KindStyleClass StructureKind = "style-class"
)

// GenericKind builds an open-ended kind for containers outside the
// built-in set. The label survives round trips through fingerprints.
func GenericKind(label string) StructureKind {
	return StructureKind("generic:" + label)
}

// String returns string representation of StructureKind
func (k StructureKind) String() string {
	return string(k)
}

// SourceLocation points at a structure definition in a source file
type SourceLocation struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// String returns string representation of SourceLocation
func (sl *SourceLocation) String() string {
	return fmt.Sprintf("%s:%d-%d", sl.FilePath, sl.StartLine, sl.EndLine)
}

// Member is a named slot inside a structure: a field, property,
// method signature, enum variant or style declaration.
type Member struct {
	Name      string
	ValueType string
	Modifiers []string
}

// HasModifier reports whether the member carries the given modifier
func (m *Member) HasModifier(mod string) bool {
	for _, existing := range m.Modifiers {
		if existing == mod {
			return true
		}
	}
	return false
}

// Structure is the normalized, language-agnostic view of a member
// container that the comparator and finder operate on.
type Structure struct {
	Name      string
	Kind      StructureKind
	Namespace string
	Members   []Member
	Generics  []string
	// Extends lists declared heritage types in source order
	Extends []string
	// Visibility carries a declaration-level modifier such as "pub" or
	// "abstract", empty when the language has none.
	Visibility string
	Location   *SourceLocation
}

// Key returns the memoization key for fingerprint caching. Namespaces
// keep same-named structures from different scopes distinct.
func (s *Structure) Key() string {
	return s.Namespace + "::" + s.Name
}

// MemberNames returns the names of all members in order
func (s *Structure) MemberNames() []string {
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name
	}
	return names
}

// String returns string representation of Structure
func (s *Structure) String() string {
	loc := "<unknown>"
	if s.Location != nil {
		loc = s.Location.String()
	}
	return fmt.Sprintf("%s %s (%d members, %s)", s.Kind, s.Name, len(s.Members), loc)
}

// MemberComparisonStrategy selects how member value types are scored
type MemberComparisonStrategy int

const (
	// MemberComparisonExact scores identical type strings only
	MemberComparisonExact MemberComparisonStrategy = iota
	// MemberComparisonNormalized also scores same-bucket types at 0.8
	MemberComparisonNormalized
	// MemberComparisonSemantic is reserved and currently matches normalized
	MemberComparisonSemantic
)

// String returns string representation of MemberComparisonStrategy
func (s MemberComparisonStrategy) String() string {
	switch s {
	case MemberComparisonExact:
		return "exact"
	case MemberComparisonNormalized:
		return "normalized"
	case MemberComparisonSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// ParseMemberComparisonStrategy parses a strategy name
func ParseMemberComparisonStrategy(name string) (MemberComparisonStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exact":
		return MemberComparisonExact, nil
	case "normalized", "":
		return MemberComparisonNormalized, nil
	case "semantic":
		return MemberComparisonSemantic, nil
	default:
		return MemberComparisonNormalized, fmt.Errorf("unknown member comparison strategy: %s", name)
	}
}

// ComparisonOptions configures pairwise structure comparison
type ComparisonOptions struct {
	// NameWeight is the weight of identifier similarity in the overall score
	NameWeight float64
	// StructureWeight is the weight of member similarity in the overall score
	StructureWeight float64
	// Threshold is the minimum score for a member pair to count as matched
	Threshold float64
	// MemberComparison selects the value-type scoring strategy
	MemberComparison MemberComparisonStrategy
	// StrictSizePenalty applies the steeper size-ratio damping curve
	StrictSizePenalty bool
	// IgnoreOrder is accepted for configuration compatibility. Member
	// order never affects scores, only which greedy match wins a tie.
	IgnoreOrder bool
	// FuzzyMatching is reserved and currently ignored
	FuzzyMatching bool
	// RequireTypeMatch is reserved and currently ignored
	RequireTypeMatch bool
}

// DefaultComparisonOptions returns the default comparison configuration
func DefaultComparisonOptions() ComparisonOptions {
	return ComparisonOptions{
		NameWeight:        0.3,
		StructureWeight:   0.7,
		Threshold:         0.7,
		MemberComparison:  MemberComparisonNormalized,
		StrictSizePenalty: true,
		IgnoreOrder:       true,
	}
}

// MemberMatch records a matched member pair from greedy matching
type MemberMatch struct {
	Index1     int
	Index2     int
	Name1      string
	Name2      string
	Similarity float64
}

// TypeMismatch records a matched member pair with differing type text
type TypeMismatch struct {
	MemberName string
	Type1      string
	Type2      string
}

// Differences collects the unmatched remainder of a comparison
type Differences struct {
	// MissingMembers are members of the first structure with no match
	MissingMembers []string
	// ExtraMembers are members of the second structure with no match
	ExtraMembers []string
	// TypeMismatches are matched members whose value types differ
	TypeMismatches []TypeMismatch
}

// ComparisonResult is the full outcome of one pairwise comparison
type ComparisonResult struct {
	Structure1           *Structure
	Structure2           *Structure
	Similarity           float64
	IdentifierSimilarity float64
	MemberSimilarity     float64
	Matches              []MemberMatch
	Differences          Differences
}

// String returns string representation of ComparisonResult
func (r *ComparisonResult) String() string {
	return fmt.Sprintf("%s <-> %s: %.3f (id=%.3f members=%.3f)",
		r.Structure1.Name, r.Structure2.Name,
		r.Similarity, r.IdentifierSimilarity, r.MemberSimilarity)
}
