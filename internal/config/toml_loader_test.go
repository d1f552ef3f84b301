package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	loader := NewTomlConfigLoader()
	cfg, err := loader.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultThreshold, cfg.Comparison.Threshold)
	assert.Equal(t, "normalized", cfg.Comparison.MemberComparison)
	assert.True(t, *cfg.Comparison.StrictSizeCheck)
	assert.Equal(t, []string{"typescript", "rust", "css"}, cfg.Input.Languages)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
[comparison]
threshold = 0.85
strict_size_check = false

[output]
format = "json"

[filtering]
max_results = 50
`)

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.Comparison.Threshold)
	assert.False(t, *cfg.Comparison.StrictSizeCheck)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 50, cfg.Filtering.MaxResults)

	// Unset values keep their defaults.
	assert.Equal(t, DefaultNameWeight, cfg.Comparison.NameWeight)
	assert.Equal(t, "similarity", cfg.Output.SortBy)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "[comparison]\nthreshold = 0.9\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	loader := NewTomlConfigLoader()
	path, err := loader.FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), path)

	cfg, err := loader.LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Comparison.Threshold)
}

func TestLoadConfigFileInvalidToml(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "not [valid toml")

	_, err := NewTomlConfigLoader().LoadConfigFile(path)
	assert.Error(t, err)
}
