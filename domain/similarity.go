package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Language identifies a source domain whose definitions can be scanned
type Language string

const (
	LangTypeScript Language = "typescript"
	LangRust       Language = "rust"
	LangCSS        Language = "css"
)

// String returns the string representation of the language
func (l Language) String() string {
	return string(l)
}

// MemberComparisonStrategy selects how member value types are compared
type MemberComparisonStrategy string

const (
	// MemberComparisonExact requires byte-identical value types
	MemberComparisonExact MemberComparisonStrategy = "exact"
	// MemberComparisonNormalized scores normalized type-bucket matches at 0.8
	MemberComparisonNormalized MemberComparisonStrategy = "normalized"
	// MemberComparisonSemantic is reserved; currently behaves like normalized
	MemberComparisonSemantic MemberComparisonStrategy = "semantic"
)

// StructureLocation points at a structure definition in source code
type StructureLocation struct {
	FilePath  string `json:"file_path" yaml:"file_path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// String returns string representation of StructureLocation
func (sl *StructureLocation) String() string {
	return fmt.Sprintf("%s:%d-%d", sl.FilePath, sl.StartLine, sl.EndLine)
}

// LineCount returns the number of lines the definition spans
func (sl *StructureLocation) LineCount() int {
	return sl.EndLine - sl.StartLine + 1
}

// StructureSummary describes one side of a reported duplicate pair
type StructureSummary struct {
	Name        string             `json:"name" yaml:"name"`
	Kind        string             `json:"kind" yaml:"kind"`
	Location    *StructureLocation `json:"location" yaml:"location"`
	MemberCount int                `json:"member_count" yaml:"member_count"`
}

// String returns string representation of StructureSummary
func (ss *StructureSummary) String() string {
	return fmt.Sprintf("%s %s (%s, %d members)", ss.Kind, ss.Name, ss.Location.String(), ss.MemberCount)
}

// MemberMatch records one matched member pair and its score
type MemberMatch struct {
	Member1    string  `json:"member1" yaml:"member1"`
	Member2    string  `json:"member2" yaml:"member2"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// TypeMismatch records a matched member pair whose value types differ textually
type TypeMismatch struct {
	Member string `json:"member" yaml:"member"`
	Type1  string `json:"type1" yaml:"type1"`
	Type2  string `json:"type2" yaml:"type2"`
}

// Differences collects the unmatched remainder of a comparison
type Differences struct {
	MissingMembers []string       `json:"missing_members" yaml:"missing_members"`
	ExtraMembers   []string       `json:"extra_members" yaml:"extra_members"`
	TypeMismatches []TypeMismatch `json:"type_mismatches" yaml:"type_mismatches"`
}

// SimilarPair represents a reported near-duplicate structure pair
type SimilarPair struct {
	ID                   int               `json:"id" yaml:"id"`
	Structure1           *StructureSummary `json:"structure1" yaml:"structure1"`
	Structure2           *StructureSummary `json:"structure2" yaml:"structure2"`
	Similarity           float64           `json:"similarity" yaml:"similarity"`
	IdentifierSimilarity float64           `json:"identifier_similarity" yaml:"identifier_similarity"`
	MemberSimilarity     float64           `json:"member_similarity" yaml:"member_similarity"`
	MemberMatches        []MemberMatch     `json:"member_matches,omitempty" yaml:"member_matches,omitempty"`
	Differences          *Differences      `json:"differences,omitempty" yaml:"differences,omitempty"`
}

// String returns string representation of SimilarPair
func (sp *SimilarPair) String() string {
	return fmt.Sprintf("%s <-> %s (similarity: %.3f)",
		sp.Structure1.Location.String(),
		sp.Structure2.Location.String(),
		sp.Similarity)
}

// ScanStatistics provides statistics about a duplicate scan
type ScanStatistics struct {
	TotalStructures    int            `json:"total_structures" yaml:"total_structures"`
	TotalPairs         int            `json:"total_pairs" yaml:"total_pairs"`
	PairsByKind        map[string]int `json:"pairs_by_kind" yaml:"pairs_by_kind"`
	AverageSimilarity  float64        `json:"average_similarity" yaml:"average_similarity"`
	FingerprintBuckets int            `json:"fingerprint_buckets" yaml:"fingerprint_buckets"`
	ComparisonsRun     int            `json:"comparisons_run" yaml:"comparisons_run"`
	FilesAnalyzed      int            `json:"files_analyzed" yaml:"files_analyzed"`
}

// NewScanStatistics creates a new scan statistics instance
func NewScanStatistics() *ScanStatistics {
	return &ScanStatistics{
		PairsByKind: make(map[string]int),
	}
}

// ScanRequest represents a request for a duplicate structure scan
type ScanRequest struct {
	// Input parameters
	Paths           []string   `json:"paths"`
	Recursive       bool       `json:"recursive"`
	IncludePatterns []string   `json:"include_patterns"`
	ExcludePatterns []string   `json:"exclude_patterns"`
	Languages       []Language `json:"languages"`

	// Comparison configuration
	Threshold        float64                  `json:"threshold"`
	NameWeight       float64                  `json:"name_weight"`
	StructureWeight  float64                  `json:"structure_weight"`
	MemberComparison MemberComparisonStrategy `json:"member_comparison"`
	StrictSizeCheck  bool                     `json:"strict_size_check"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowDetails  bool         `json:"show_details"`
	SortBy       SortCriteria `json:"sort_by"`

	// Filtering
	MinSimilarity float64 `json:"min_similarity"`
	MaxSimilarity float64 `json:"max_similarity"`
	MaxResults    int     `json:"max_results"`

	// Configuration file
	ConfigPath string `json:"config_path"`

	// Performance
	Timeout time.Duration `json:"-"`
}

// ScanResponse represents the response from a duplicate structure scan
type ScanResponse struct {
	// Results
	Pairs      []*SimilarPair  `json:"pairs" yaml:"pairs"`
	Statistics *ScanStatistics `json:"statistics" yaml:"statistics"`

	// Metadata
	Request  *ScanRequest `json:"request,omitempty" yaml:"request,omitempty"`
	Duration int64        `json:"duration_ms" yaml:"duration_ms"`
	Success  bool         `json:"success" yaml:"success"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// SimilarityService defines the interface for duplicate structure scanning
type SimilarityService interface {
	// Scan performs a duplicate scan on the given request
	Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error)

	// ScanFiles performs a duplicate scan on specific files
	ScanFiles(ctx context.Context, filePaths []string, req *ScanRequest) (*ScanResponse, error)
}

// FileReader defines the interface for collecting source files
type FileReader interface {
	// CollectFiles recursively finds source files for the given languages
	CollectFiles(paths []string, languages []Language, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// DetectLanguage resolves the language of a file from its extension
	DetectLanguage(path string) (Language, bool)
}

// OutputFormatter defines the interface for formatting scan results
type OutputFormatter interface {
	// FormatScanResponse formats a scan response according to the specified format
	FormatScanResponse(response *ScanResponse, format OutputFormat, writer io.Writer) error

	// FormatStatistics formats scan statistics
	FormatStatistics(stats *ScanStatistics, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading scan configuration
type ConfigurationLoader interface {
	// LoadConfig loads scan configuration from file
	LoadConfig(configPath string) (*ScanRequest, error)

	// GetDefaultConfig returns default scan configuration
	GetDefaultConfig() *ScanRequest
}

// Validate validates a scan request
func (req *ScanRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if req.Threshold < 0.0 || req.Threshold > 1.0 {
		return NewValidationError("threshold must be between 0.0 and 1.0")
	}

	if req.NameWeight < 0.0 || req.StructureWeight < 0.0 {
		return NewValidationError("weights must be non-negative")
	}

	if req.MinSimilarity < 0.0 || req.MinSimilarity > 1.0 {
		return NewValidationError("min_similarity must be between 0.0 and 1.0")
	}

	if req.MaxSimilarity < req.MinSimilarity {
		return NewValidationError("max_similarity must be >= min_similarity")
	}

	switch req.MemberComparison {
	case MemberComparisonExact, MemberComparisonNormalized, MemberComparisonSemantic:
	default:
		return NewValidationError(fmt.Sprintf("invalid member comparison strategy: %s", req.MemberComparison))
	}

	for _, lang := range req.Languages {
		switch lang {
		case LangTypeScript, LangRust, LangCSS:
		default:
			return NewValidationError(fmt.Sprintf("unsupported language: %s", lang))
		}
	}

	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *ScanRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DefaultScanRequest returns a default scan request
func DefaultScanRequest() *ScanRequest {
	return &ScanRequest{
		Paths:           []string{"."},
		Recursive:       true,
		IncludePatterns: []string{},
		ExcludePatterns: []string{"node_modules/**", "target/**", "dist/**"},
		Languages:       []Language{LangTypeScript, LangRust, LangCSS},

		Threshold:        DefaultSimilarityThreshold,
		NameWeight:       DefaultNameWeight,
		StructureWeight:  DefaultStructureWeight,
		MemberComparison: MemberComparisonNormalized,
		StrictSizeCheck:  true,

		OutputFormat: OutputFormatText,
		ShowDetails:  false,
		SortBy:       SortBySimilarity,

		MinSimilarity: 0.0,
		MaxSimilarity: 1.0,
		MaxResults:    10000,
	}
}
