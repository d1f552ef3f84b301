package domain

// Default comparison parameters
const (
	// DefaultSimilarityThreshold is the minimum score for a pair to be reported
	DefaultSimilarityThreshold = 0.7

	// DefaultNameWeight is the weight of identifier similarity in the overall score
	DefaultNameWeight = 0.3

	// DefaultStructureWeight is the weight of member similarity in the overall score
	DefaultStructureWeight = 0.7
)
