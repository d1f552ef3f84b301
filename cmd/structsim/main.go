package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/structsim/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "structsim",
	Short: "A structural similarity scanner for type definitions",
	Long: `structsim finds structurally similar type definitions across a codebase.

It extracts named structures from TypeScript (interfaces, type aliases,
classes), Rust (structs, enums), and CSS (style rules), fingerprints them
for fast bucketing, and reports pairs whose member layout and naming are
similar enough to be duplicate candidates.

Features:
  • Cross-file duplicate detection for TypeScript, Rust, and CSS
  • Weighted name and member similarity with configurable thresholds
  • Fingerprint bucketing to keep large scans fast
  • Text, JSON, YAML, and CSV output`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
