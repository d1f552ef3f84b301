package config

import (
	"time"
)

// Default comparison settings
const (
	// DefaultThreshold is the minimum similarity for a pair to be reported
	DefaultThreshold = 0.7

	// DefaultNameWeight is the identifier weight in the overall score
	DefaultNameWeight = 0.3

	// DefaultStructureWeight is the member weight in the overall score
	DefaultStructureWeight = 0.7

	// DefaultMemberComparison is the value-type scoring strategy
	DefaultMemberComparison = "normalized"

	// DefaultMaxResults caps the number of reported pairs
	DefaultMaxResults = 10000

	// DefaultTimeout bounds a whole scan
	DefaultTimeout = 5 * time.Minute
)

// Config represents the main configuration structure
type Config struct {
	// Comparison holds similarity scoring configuration
	Comparison ComparisonConfig `toml:"comparison" mapstructure:"comparison" yaml:"comparison"`

	// Input holds file collection configuration
	Input InputConfig `toml:"input" mapstructure:"input" yaml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `toml:"output" mapstructure:"output" yaml:"output"`

	// Filtering holds result filtering configuration
	Filtering FilteringConfig `toml:"filtering" mapstructure:"filtering" yaml:"filtering"`

	// Performance holds execution configuration
	Performance PerformanceConfig `toml:"performance" mapstructure:"performance" yaml:"performance"`
}

// ComparisonConfig holds similarity scoring configuration
type ComparisonConfig struct {
	// Threshold is the minimum overall similarity to report
	Threshold float64 `toml:"threshold" mapstructure:"threshold" yaml:"threshold"`

	// NameWeight is the weight of identifier similarity
	NameWeight float64 `toml:"name_weight" mapstructure:"name_weight" yaml:"name_weight"`

	// StructureWeight is the weight of member similarity
	StructureWeight float64 `toml:"structure_weight" mapstructure:"structure_weight" yaml:"structure_weight"`

	// MemberComparison selects the type scoring strategy: exact, normalized, semantic
	MemberComparison string `toml:"member_comparison" mapstructure:"member_comparison" yaml:"member_comparison"`

	// StrictSizeCheck applies the steeper size-ratio damping curve
	StrictSizeCheck *bool `toml:"strict_size_check" mapstructure:"strict_size_check" yaml:"strict_size_check"` // pointer to detect unset
}

// InputConfig holds file collection configuration
type InputConfig struct {
	Paths           []string `toml:"paths" mapstructure:"paths" yaml:"paths"`
	Recursive       *bool    `toml:"recursive" mapstructure:"recursive" yaml:"recursive"` // pointer to detect unset
	IncludePatterns []string `toml:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	Languages       []string `toml:"languages" mapstructure:"languages" yaml:"languages"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `toml:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether member matches and differences are shown
	ShowDetails *bool `toml:"show_details" mapstructure:"show_details" yaml:"show_details"` // pointer to detect unset

	// SortBy specifies how to sort results: similarity, location, name, size
	SortBy string `toml:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`
}

// FilteringConfig holds result filtering configuration
type FilteringConfig struct {
	MinSimilarity float64 `toml:"min_similarity" mapstructure:"min_similarity" yaml:"min_similarity"`
	MaxSimilarity float64 `toml:"max_similarity" mapstructure:"max_similarity" yaml:"max_similarity"`
	MaxResults    int     `toml:"max_results" mapstructure:"max_results" yaml:"max_results"`
}

// PerformanceConfig holds execution configuration
type PerformanceConfig struct {
	// MaxGoroutines bounds the extraction worker pool, 0 means NumCPU
	MaxGoroutines int `toml:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole scan
	TimeoutSeconds int `toml:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	strictSize := true
	recursive := true
	showDetails := false
	return &Config{
		Comparison: ComparisonConfig{
			Threshold:        DefaultThreshold,
			NameWeight:       DefaultNameWeight,
			StructureWeight:  DefaultStructureWeight,
			MemberComparison: DefaultMemberComparison,
			StrictSizeCheck:  &strictSize,
		},
		Input: InputConfig{
			Paths:           []string{"."},
			Recursive:       &recursive,
			ExcludePatterns: []string{"node_modules/**", "target/**", "dist/**"},
			Languages:       []string{"typescript", "rust", "css"},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: &showDetails,
			SortBy:      "similarity",
		},
		Filtering: FilteringConfig{
			MinSimilarity: 0.0,
			MaxSimilarity: 1.0,
			MaxResults:    DefaultMaxResults,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: int(DefaultTimeout / time.Second),
		},
	}
}

// Timeout returns the configured scan timeout as a duration
func (c *Config) Timeout() time.Duration {
	if c.Performance.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Performance.TimeoutSeconds) * time.Second
}
