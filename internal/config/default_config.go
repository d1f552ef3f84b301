package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// defaultConfigValues holds the values used to render the default config
// template. All values come from the package constants to keep a single
// source of truth.
type defaultConfigValues struct {
	Threshold        float64
	NameWeight       float64
	StructureWeight  float64
	MemberComparison string
	MaxResults       int
	TimeoutSeconds   int
}

func newDefaultConfigValues() defaultConfigValues {
	return defaultConfigValues{
		Threshold:        DefaultThreshold,
		NameWeight:       DefaultNameWeight,
		StructureWeight:  DefaultStructureWeight,
		MemberComparison: DefaultMemberComparison,
		MaxResults:       DefaultMaxResults,
		TimeoutSeconds:   int(DefaultTimeout.Seconds()),
	}
}

// GenerateDefaultConfigTOML renders the default config template and
// returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}
