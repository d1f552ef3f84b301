package analyzer

import (
	"sort"
)

// DuplicatePair is one retained near-duplicate with its comparison
type DuplicatePair struct {
	Result *ComparisonResult
}

// FinderStats reports the work a duplicate search performed
type FinderStats struct {
	// Structures is the number of structures searched
	Structures int
	// Buckets is the number of distinct fingerprint buckets
	Buckets int
	// Comparisons is the number of full pairwise comparisons run
	Comparisons int
}

// DuplicateFinder searches a corpus of structures for near-duplicate
// pairs. Fingerprint bucketing prunes the quadratic pair space before
// any full comparison runs.
type DuplicateFinder struct {
	comparator   *StructureComparator
	fingerprints *FingerprintGenerator
	threshold    float64
}

// NewDuplicateFinder creates a finder around the given comparator.
// Pairs scoring below threshold are discarded.
func NewDuplicateFinder(comparator *StructureComparator, threshold float64) *DuplicateFinder {
	return &DuplicateFinder{
		comparator:   comparator,
		fingerprints: NewFingerprintGenerator(),
		threshold:    threshold,
	}
}

// FindDuplicates returns all structure pairs at or above the
// threshold, sorted by descending similarity. Output is deterministic
// for a given input order.
func (f *DuplicateFinder) FindDuplicates(structures []*Structure) ([]DuplicatePair, FinderStats) {
	stats := FinderStats{Structures: len(structures)}

	buckets := make(map[string][]*Structure)
	for _, s := range structures {
		fp := f.fingerprints.Fingerprint(s)
		buckets[fp] = append(buckets[fp], s)
	}
	stats.Buckets = len(buckets)

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []DuplicatePair
	for i, key1 := range keys {
		for j := i; j < len(keys); j++ {
			key2 := keys[j]
			if !Comparable(key1, key2) {
				continue
			}
			if i == j {
				pairs = f.compareWithinBucket(buckets[key1], pairs, &stats)
			} else {
				pairs = f.compareAcrossBuckets(buckets[key1], buckets[key2], pairs, &stats)
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Result.Similarity > pairs[b].Result.Similarity
	})
	return pairs, stats
}

// compareWithinBucket compares every unordered pair inside one bucket
func (f *DuplicateFinder) compareWithinBucket(bucket []*Structure, pairs []DuplicatePair, stats *FinderStats) []DuplicatePair {
	for i := 0; i < len(bucket); i++ {
		for j := i + 1; j < len(bucket); j++ {
			pairs = f.comparePair(bucket[i], bucket[j], pairs, stats)
		}
	}
	return pairs
}

// compareAcrossBuckets compares every structure of one bucket against
// every structure of another
func (f *DuplicateFinder) compareAcrossBuckets(bucket1, bucket2 []*Structure, pairs []DuplicatePair, stats *FinderStats) []DuplicatePair {
	for _, s1 := range bucket1 {
		for _, s2 := range bucket2 {
			pairs = f.comparePair(s1, s2, pairs, stats)
		}
	}
	return pairs
}

// comparePair runs one full comparison, retaining results at or above
// the threshold
func (f *DuplicateFinder) comparePair(s1, s2 *Structure, pairs []DuplicatePair, stats *FinderStats) []DuplicatePair {
	stats.Comparisons++
	result := f.comparator.Compare(s1, s2)
	if result.Similarity >= f.threshold {
		pairs = append(pairs, DuplicatePair{Result: result})
	}
	return pairs
}
