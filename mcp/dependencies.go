package mcp

import (
	"github.com/ludo-technologies/structsim/domain"
	"github.com/ludo-technologies/structsim/internal/config"
	"github.com/ludo-technologies/structsim/internal/extractor"
	"github.com/ludo-technologies/structsim/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	similarityService domain.SimilarityService
	registry          *extractor.Registry
	config            *config.Config
	configPath        string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		similarityService: service.NewSimilarityService(),
		registry:          extractor.DefaultRegistry(),
		config:            cfg,
		configPath:        configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}
