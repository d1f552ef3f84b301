package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated project configuration file
const ConfigFileName = ".structsim.toml"

// TomlConfigLoader handles TOML configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration by walking up from startDir until a
// .structsim.toml is found, falling back to defaults.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file, merged over
// the defaults.
func (l *TomlConfigLoader) LoadConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var fileConfig Config
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	mergeConfig(defaults, &fileConfig)
	return defaults, nil
}

// FindConfigFile walks up the directory tree to find .structsim.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// mergeConfig overlays file values onto defaults. Zero values stay at
// their defaults, pointer booleans distinguish unset from false.
func mergeConfig(defaults, file *Config) {
	if file.Comparison.Threshold > 0 {
		defaults.Comparison.Threshold = file.Comparison.Threshold
	}
	if file.Comparison.NameWeight > 0 {
		defaults.Comparison.NameWeight = file.Comparison.NameWeight
	}
	if file.Comparison.StructureWeight > 0 {
		defaults.Comparison.StructureWeight = file.Comparison.StructureWeight
	}
	if file.Comparison.MemberComparison != "" {
		defaults.Comparison.MemberComparison = file.Comparison.MemberComparison
	}
	if file.Comparison.StrictSizeCheck != nil {
		defaults.Comparison.StrictSizeCheck = file.Comparison.StrictSizeCheck
	}

	if len(file.Input.Paths) > 0 {
		defaults.Input.Paths = file.Input.Paths
	}
	if file.Input.Recursive != nil {
		defaults.Input.Recursive = file.Input.Recursive
	}
	if len(file.Input.IncludePatterns) > 0 {
		defaults.Input.IncludePatterns = file.Input.IncludePatterns
	}
	if len(file.Input.ExcludePatterns) > 0 {
		defaults.Input.ExcludePatterns = file.Input.ExcludePatterns
	}
	if len(file.Input.Languages) > 0 {
		defaults.Input.Languages = file.Input.Languages
	}

	if file.Output.Format != "" {
		defaults.Output.Format = file.Output.Format
	}
	if file.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = file.Output.ShowDetails
	}
	if file.Output.SortBy != "" {
		defaults.Output.SortBy = file.Output.SortBy
	}

	if file.Filtering.MinSimilarity > 0 {
		defaults.Filtering.MinSimilarity = file.Filtering.MinSimilarity
	}
	if file.Filtering.MaxSimilarity > 0 {
		defaults.Filtering.MaxSimilarity = file.Filtering.MaxSimilarity
	}
	if file.Filtering.MaxResults > 0 {
		defaults.Filtering.MaxResults = file.Filtering.MaxResults
	}

	if file.Performance.MaxGoroutines > 0 {
		defaults.Performance.MaxGoroutines = file.Performance.MaxGoroutines
	}
	if file.Performance.TimeoutSeconds > 0 {
		defaults.Performance.TimeoutSeconds = file.Performance.TimeoutSeconds
	}
}
