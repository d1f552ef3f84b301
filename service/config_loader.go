package service

import (
	"os"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/structsim/domain"
	"github.com/ludo-technologies/structsim/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface.
// Explicit config files go through viper, so TOML, YAML and JSON all
// work. Without an explicit path, .structsim.toml is discovered by
// walking up from the working directory.
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads scan configuration from file
func (c *ConfigurationLoaderImpl) LoadConfig(configPath string) (*domain.ScanRequest, error) {
	if configPath == "" {
		return c.GetDefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError("failed to read configuration file", err)
	}

	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigError("failed to parse configuration file", err)
	}

	return toScanRequest(cfg), nil
}

// GetDefaultConfig returns default scan configuration, honoring a
// discovered .structsim.toml when present.
func (c *ConfigurationLoaderImpl) GetDefaultConfig() *domain.ScanRequest {
	cwd, err := os.Getwd()
	if err != nil {
		return domain.DefaultScanRequest()
	}

	cfg, err := config.NewTomlConfigLoader().LoadConfig(cwd)
	if err != nil {
		return domain.DefaultScanRequest()
	}
	return toScanRequest(cfg)
}

// ScanRequestFromConfig converts a file configuration into a scan request
func ScanRequestFromConfig(cfg *config.Config) *domain.ScanRequest {
	return toScanRequest(cfg)
}

// toScanRequest converts a file configuration into a scan request
func toScanRequest(cfg *config.Config) *domain.ScanRequest {
	req := domain.DefaultScanRequest()

	req.Threshold = cfg.Comparison.Threshold
	req.NameWeight = cfg.Comparison.NameWeight
	req.StructureWeight = cfg.Comparison.StructureWeight
	req.MemberComparison = domain.MemberComparisonStrategy(cfg.Comparison.MemberComparison)
	if cfg.Comparison.StrictSizeCheck != nil {
		req.StrictSizeCheck = *cfg.Comparison.StrictSizeCheck
	}

	if len(cfg.Input.Paths) > 0 {
		req.Paths = cfg.Input.Paths
	}
	if cfg.Input.Recursive != nil {
		req.Recursive = *cfg.Input.Recursive
	}
	req.IncludePatterns = cfg.Input.IncludePatterns
	req.ExcludePatterns = cfg.Input.ExcludePatterns
	if len(cfg.Input.Languages) > 0 {
		languages := make([]domain.Language, 0, len(cfg.Input.Languages))
		for _, lang := range cfg.Input.Languages {
			languages = append(languages, domain.Language(lang))
		}
		req.Languages = languages
	}

	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	if cfg.Output.ShowDetails != nil {
		req.ShowDetails = *cfg.Output.ShowDetails
	}
	req.SortBy = domain.SortCriteria(cfg.Output.SortBy)

	req.MinSimilarity = cfg.Filtering.MinSimilarity
	req.MaxSimilarity = cfg.Filtering.MaxSimilarity
	req.MaxResults = cfg.Filtering.MaxResults

	req.Timeout = cfg.Timeout()

	return req
}
