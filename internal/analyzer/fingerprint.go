package analyzer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Size categories order structures into coarse member-count buckets
const (
	sizeEmpty  = "empty"
	sizeSingle = "single"
	sizeSmall  = "small"
	sizeMedium = "medium"
	sizeLarge  = "large"
	sizeHuge   = "huge"
)

// sizeCategory buckets a member count
func sizeCategory(memberCount int) string {
	switch {
	case memberCount == 0:
		return sizeEmpty
	case memberCount == 1:
		return sizeSingle
	case memberCount <= 3:
		return sizeSmall
	case memberCount <= 6:
		return sizeMedium
	case memberCount <= 10:
		return sizeLarge
	default:
		return sizeHuge
	}
}

// sizeOrdinal maps a size category to its position on the size scale.
// Unknown categories return -1.
func sizeOrdinal(category string) int {
	switch category {
	case sizeEmpty:
		return 0
	case sizeSingle:
		return 1
	case sizeSmall:
		return 2
	case sizeMedium:
		return 3
	case sizeLarge:
		return 4
	case sizeHuge:
		return 5
	default:
		return -1
	}
}

// normalizeType collapses a value type string into a coarse bucket.
// Array notation wins over element types, so "string[]" is an array.
func normalizeType(t string) string {
	if strings.Contains(t, "[]") || strings.Contains(t, "Array") {
		return "array"
	}
	lower := strings.ToLower(t)
	switch {
	case strings.Contains(lower, "string"):
		return "string"
	case strings.Contains(lower, "number"):
		return "number"
	case strings.Contains(lower, "boolean"):
		return "boolean"
	case strings.Contains(lower, "{") && strings.Contains(lower, "}"):
		return "object"
	default:
		return "other"
	}
}

// FingerprintGenerator produces cheap comparability keys for
// structures. Fingerprints are memoized by namespace-qualified name.
// Not safe for concurrent use.
type FingerprintGenerator struct {
	cache map[string]string
}

// NewFingerprintGenerator creates a new fingerprint generator
func NewFingerprintGenerator() *FingerprintGenerator {
	return &FingerprintGenerator{
		cache: make(map[string]string),
	}
}

// Fingerprint returns the comma-joined token key for a structure
func (g *FingerprintGenerator) Fingerprint(s *Structure) string {
	key := s.Key()
	if fp, ok := g.cache[key]; ok {
		return fp
	}
	fp := buildFingerprint(s)
	g.cache[key] = fp
	return fp
}

// buildFingerprint assembles the token string for a structure
func buildFingerprint(s *Structure) string {
	tokens := []string{
		"kind:" + s.Kind.String(),
		"size:" + sizeCategory(len(s.Members)),
		fmt.Sprintf("members:%d", len(s.Members)),
	}

	typeCounts := make(map[string]int)
	for i := range s.Members {
		typeCounts[normalizeType(s.Members[i].ValueType)]++
	}
	typeNames := make([]string, 0, len(typeCounts))
	for name := range typeCounts {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		tokens = append(tokens, fmt.Sprintf("%s:%d", name, typeCounts[name]))
	}

	if len(s.Generics) > 0 {
		tokens = append(tokens, fmt.Sprintf("generics:%d", len(s.Generics)))
	}
	return strings.Join(tokens, ",")
}

// parseFingerprint extracts the kind, size and member-count tokens.
// Generic kind labels may themselves contain colons, so each token is
// split on the first colon only.
func parseFingerprint(fp string) (kind, size string, members int, ok bool) {
	members = -1
	for _, token := range strings.Split(fp, ",") {
		parts := strings.SplitN(token, ":", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "kind":
			kind = parts[1]
		case "size":
			size = parts[1]
		case "members":
			if n, err := strconv.Atoi(parts[1]); err == nil {
				members = n
			}
		}
	}
	ok = kind != "" && size != "" && members >= 0
	return kind, size, members, ok
}

// Comparable decides whether two fingerprints are close enough for a
// full comparison to be worth running. Malformed fingerprints fail
// open so that unusual structures are never silently dropped.
func Comparable(fp1, fp2 string) bool {
	if fp1 == fp2 {
		return true
	}

	kind1, size1, members1, ok1 := parseFingerprint(fp1)
	kind2, size2, members2, ok2 := parseFingerprint(fp2)
	if !ok1 || !ok2 {
		return true
	}

	if kind1 != kind2 {
		return false
	}

	ord1 := sizeOrdinal(size1)
	ord2 := sizeOrdinal(size2)
	if ord1 >= 0 && ord2 >= 0 {
		dist := ord1 - ord2
		if dist < 0 {
			dist = -dist
		}
		if dist > 2 {
			return false
		}
	}

	maxMembers := max(members1, members2)
	if maxMembers > 0 {
		ratio := float64(min(members1, members2)) / float64(maxMembers)
		if ratio < 0.3 {
			return false
		}
	}

	return true
}
