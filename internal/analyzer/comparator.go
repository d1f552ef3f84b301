package analyzer

// StructureComparator scores pairs of normalized structures
type StructureComparator struct {
	options ComparisonOptions
}

// NewStructureComparator creates a comparator with the given options
func NewStructureComparator(options ComparisonOptions) *StructureComparator {
	return &StructureComparator{options: options}
}

// NewDefaultStructureComparator creates a comparator with default options
func NewDefaultStructureComparator() *StructureComparator {
	return NewStructureComparator(DefaultComparisonOptions())
}

// Options returns the comparator configuration
func (c *StructureComparator) Options() ComparisonOptions {
	return c.options
}

// Compare performs a full pairwise comparison of two structures
func (c *StructureComparator) Compare(s1, s2 *Structure) *ComparisonResult {
	idSim := c.identifierSimilarity(s1, s2)
	matches := c.matchMembers(s1, s2)
	memberSim := c.aggregateMemberScore(len(s1.Members), len(s2.Members), len(matches))
	penalty := sizePenalty(len(s1.Members), len(s2.Members), c.options.StrictSizePenalty)

	overall := (c.options.NameWeight*idSim + c.options.StructureWeight*memberSim) * penalty

	return &ComparisonResult{
		Structure1:           s1,
		Structure2:           s2,
		Similarity:           overall,
		IdentifierSimilarity: idSim,
		MemberSimilarity:     memberSim,
		Matches:              matches,
		Differences:          c.collectDifferences(s1, s2, matches),
	}
}

// identifierSimilarity compares structure names, damped when kinds differ
func (c *StructureComparator) identifierSimilarity(s1, s2 *Structure) float64 {
	sim := stringSimilarity(s1.Name, s2.Name)
	if s1.Kind != s2.Kind {
		sim *= 0.8
	}
	return sim
}

// matchMembers greedily pairs members of s1 with members of s2. Each
// member of s1 takes the first highest-scoring unused member of s2 at
// or above the threshold. The result depends on argument order.
func (c *StructureComparator) matchMembers(s1, s2 *Structure) []MemberMatch {
	matches := make([]MemberMatch, 0, min(len(s1.Members), len(s2.Members)))
	used := make([]bool, len(s2.Members))

	for i := range s1.Members {
		best := -1
		bestScore := 0.0
		for j := range s2.Members {
			if used[j] {
				continue
			}
			score := c.memberScore(&s1.Members[i], &s2.Members[j])
			if score > bestScore && score >= c.options.Threshold {
				best = j
				bestScore = score
			}
		}
		if best >= 0 {
			used[best] = true
			matches = append(matches, MemberMatch{
				Index1:     i,
				Index2:     best,
				Name1:      s1.Members[i].Name,
				Name2:      s2.Members[best].Name,
				Similarity: bestScore,
			})
		}
	}
	return matches
}

// memberScore combines name, value-type and modifier similarity
func (c *StructureComparator) memberScore(m1, m2 *Member) float64 {
	nameSim := stringSimilarity(m1.Name, m2.Name)
	typeSim := c.typeScore(m1.ValueType, m2.ValueType)
	modSim := modifierSimilarity(m1.Modifiers, m2.Modifiers)
	return 0.4*nameSim + 0.5*typeSim + 0.1*modSim
}

// typeScore compares value types under the configured strategy
func (c *StructureComparator) typeScore(t1, t2 string) float64 {
	if t1 == t2 {
		return 1.0
	}
	switch c.options.MemberComparison {
	case MemberComparisonExact:
		return 0.0
	default:
		if normalizeType(t1) == normalizeType(t2) {
			return 0.8
		}
		return 0.0
	}
}

// aggregateMemberScore turns a match count into a member similarity.
// Full coverage on both sides scores the raw ratio; covering only the
// smaller structure keeps 90% of it, partial coverage 70%.
func (c *StructureComparator) aggregateMemberScore(len1, len2, matched int) float64 {
	maxLen := max(len1, len2)
	if maxLen == 0 {
		return 1.0
	}
	ratio := float64(matched) / float64(maxLen)
	switch {
	case matched == len1 && matched == len2:
		return ratio
	case matched == min(len1, len2):
		return ratio * 0.9
	default:
		return ratio * 0.7
	}
}

// collectDifferences lists the unmatched members of each side and the
// matched pairs whose value types still differ textually.
func (c *StructureComparator) collectDifferences(s1, s2 *Structure, matches []MemberMatch) Differences {
	matched1 := make([]bool, len(s1.Members))
	matched2 := make([]bool, len(s2.Members))
	var mismatches []TypeMismatch

	for _, m := range matches {
		matched1[m.Index1] = true
		matched2[m.Index2] = true
		t1 := s1.Members[m.Index1].ValueType
		t2 := s2.Members[m.Index2].ValueType
		if t1 != t2 {
			mismatches = append(mismatches, TypeMismatch{
				MemberName: m.Name1,
				Type1:      t1,
				Type2:      t2,
			})
		}
	}

	diffs := Differences{TypeMismatches: mismatches}
	for i, m := range s1.Members {
		if !matched1[i] {
			diffs.MissingMembers = append(diffs.MissingMembers, m.Name)
		}
	}
	for j, m := range s2.Members {
		if !matched2[j] {
			diffs.ExtraMembers = append(diffs.ExtraMembers, m.Name)
		}
	}
	return diffs
}

// stringSimilarity scores two strings by the share of their longer
// length covered by a common prefix plus common suffix, over runes.
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	shorter := min(len(ra), len(rb))
	longer := max(len(ra), len(rb))
	if longer == 0 {
		return 1.0
	}

	prefix := 0
	for prefix < shorter && ra[prefix] == rb[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < shorter-prefix && ra[len(ra)-1-suffix] == rb[len(rb)-1-suffix] {
		suffix++
	}

	common := prefix + suffix
	if common > shorter {
		common = shorter
	}
	return float64(common) / float64(longer)
}

// modifierSimilarity is the Jaccard index over modifier sets. Two
// members with no modifiers at all count as fully similar.
func modifierSimilarity(mods1, mods2 []string) float64 {
	if len(mods1) == 0 && len(mods2) == 0 {
		return 1.0
	}
	set1 := make(map[string]struct{}, len(mods1))
	for _, m := range mods1 {
		set1[m] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(mods2))
	for _, m := range mods2 {
		set2[m] = struct{}{}
	}

	intersection := 0
	for m := range set1 {
		if _, ok := set2[m]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// sizePenalty damps scores for structures of very different sizes.
// The strict curve punishes small ratios harder than the lenient one.
func sizePenalty(len1, len2 int, strict bool) float64 {
	maxLen := max(len1, len2)
	if maxLen == 0 {
		return 1.0
	}
	r := float64(min(len1, len2)) / float64(maxLen)

	if strict {
		switch {
		case r < 0.3:
			return r * r * 0.5
		case r < 0.5:
			return r * r
		case r < 0.7:
			return 0.4 + 0.6*r
		default:
			return 0.7 + 0.3*r
		}
	}
	if r < 0.5 {
		return r * r
	}
	return 0.25 + 0.75*r
}
