package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/structsim/app"
	"github.com/ludo-technologies/structsim/domain"
	"github.com/ludo-technologies/structsim/internal/config"
	"github.com/ludo-technologies/structsim/service"
)

// ScanCommand handles the duplicate structure scan CLI command
type ScanCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string
	languages       []string

	// Comparison configuration
	threshold        float64
	nameWeight       float64
	structureWeight  float64
	memberComparison string
	strictSizeCheck  bool

	// Output format flags (only one should be true)
	json bool
	yaml bool
	csv  bool

	// Output options
	showDetails bool
	sortBy      string

	// Filtering
	minSimilarity float64
	maxSimilarity float64
	maxResults    int

	// Performance options
	timeout    time.Duration
	noProgress bool

	verbose bool
}

// NewScanCommand creates a new scan command
func NewScanCommand() *ScanCommand {
	return &ScanCommand{
		recursive:        true,
		threshold:        config.DefaultThreshold,
		nameWeight:       config.DefaultNameWeight,
		structureWeight:  config.DefaultStructureWeight,
		memberComparison: config.DefaultMemberComparison,
		strictSizeCheck:  true,
		showDetails:      false,
		sortBy:           "similarity",
		minSimilarity:    0.0,
		maxSimilarity:    1.0,
		maxResults:       config.DefaultMaxResults,
		timeout:          config.DefaultTimeout,
	}
}

// CreateCobraCommand creates the Cobra command for duplicate scanning
func (s *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Find structurally similar type definitions",
		Long: `Scan source files for structurally similar type definitions.

Structures are extracted per language, bucketed by a structural
fingerprint, and compared pairwise within compatible buckets. Pairs
whose weighted name and member similarity clears the threshold are
reported as duplicate candidates.

Examples:
  # Scan the current directory
  structsim scan .

  # Raise the reporting threshold
  structsim scan --threshold 0.85 src/

  # Only scan Rust sources, with per-member details
  structsim scan --languages rust --details src/

  # Output results as JSON
  structsim scan --json src/ > duplicates.json`,
		RunE: s.runScan,
	}

	// Input flags
	cmd.Flags().BoolVarP(&s.recursive, "recursive", "r", s.recursive,
		"Recursively scan directories")
	cmd.Flags().StringVarP(&s.configFile, "config", "c", s.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&s.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&s.excludePatterns, "exclude", nil,
		"File patterns to exclude")
	cmd.Flags().StringSliceVar(&s.languages, "languages", nil,
		"Languages to scan: typescript, rust, css")

	// Comparison flags
	cmd.Flags().Float64VarP(&s.threshold, "threshold", "t", s.threshold,
		"Minimum similarity threshold for reporting (0.0-1.0)")
	cmd.Flags().Float64Var(&s.nameWeight, "name-weight", s.nameWeight,
		"Weight of identifier similarity in the overall score")
	cmd.Flags().Float64Var(&s.structureWeight, "structure-weight", s.structureWeight,
		"Weight of member similarity in the overall score")
	cmd.Flags().StringVar(&s.memberComparison, "member-comparison", s.memberComparison,
		"Member type comparison strategy: exact, normalized, semantic")
	cmd.Flags().BoolVar(&s.strictSizeCheck, "strict-size-check", s.strictSizeCheck,
		"Apply the steeper penalty for structures of very different sizes")

	// Output format flags
	cmd.Flags().BoolVar(&s.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&s.yaml, "yaml", false, "Output results as YAML")
	cmd.Flags().BoolVar(&s.csv, "csv", false, "Output results as CSV")

	// Output options
	cmd.Flags().BoolVarP(&s.showDetails, "details", "d", s.showDetails,
		"Show per-member matches and differences")
	cmd.Flags().StringVar(&s.sortBy, "sort", s.sortBy,
		"Sort results by: similarity, location, name, size")

	// Filtering flags
	cmd.Flags().Float64Var(&s.minSimilarity, "min-similarity", s.minSimilarity,
		"Minimum similarity to report (0.0-1.0)")
	cmd.Flags().Float64Var(&s.maxSimilarity, "max-similarity", s.maxSimilarity,
		"Maximum similarity to report (0.0-1.0)")
	cmd.Flags().IntVar(&s.maxResults, "max-results", s.maxResults,
		"Maximum number of pairs to report")

	// Performance flags
	cmd.Flags().DurationVar(&s.timeout, "timeout", s.timeout,
		"Maximum time for a scan (e.g. 5m, 30s)")
	cmd.Flags().BoolVar(&s.noProgress, "no-progress", false,
		"Disable the progress bar")

	cmd.Flags().BoolVarP(&s.verbose, "verbose", "v", s.verbose,
		"Enable verbose output")

	// Weight tuning belongs in .structsim.toml
	_ = cmd.Flags().MarkHidden("name-weight")
	_ = cmd.Flags().MarkHidden("structure-weight")
	_ = cmd.Flags().MarkHidden("min-similarity")
	_ = cmd.Flags().MarkHidden("max-similarity")

	return cmd
}

// runScan executes the scan command
func (s *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, err := s.createScanRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create scan request: %w", err)
	}

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := s.createScanUseCase()
	if err != nil {
		return fmt.Errorf("failed to create scan use case: %w", err)
	}

	if err := useCase.Execute(context.Background(), *request); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return nil
}

// createScanRequest builds a scan request from the configuration file
// and the command line flags. Flags the user set explicitly win over
// file settings.
func (s *ScanCommand) createScanRequest(cmd *cobra.Command, paths []string) (*domain.ScanRequest, error) {
	cfg, err := s.loadConfigWithFallback(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	s.applyCliOverrides(cfg, cmd.Flags())

	outputFormat, err := s.determineOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	sortBy, err := parseSortCriteria(cfg.Output.SortBy)
	if err != nil {
		return nil, err
	}

	languages, err := parseLanguages(cfg.Input.Languages)
	if err != nil {
		return nil, err
	}

	request := &domain.ScanRequest{
		Paths:            paths,
		Recursive:        boolOrDefault(cfg.Input.Recursive, true),
		IncludePatterns:  cfg.Input.IncludePatterns,
		ExcludePatterns:  cfg.Input.ExcludePatterns,
		Languages:        languages,
		Threshold:        cfg.Comparison.Threshold,
		NameWeight:       cfg.Comparison.NameWeight,
		StructureWeight:  cfg.Comparison.StructureWeight,
		MemberComparison: domain.MemberComparisonStrategy(cfg.Comparison.MemberComparison),
		StrictSizeCheck:  boolOrDefault(cfg.Comparison.StrictSizeCheck, true),
		OutputFormat:     outputFormat,
		OutputWriter:     os.Stdout,
		ShowDetails:      boolOrDefault(cfg.Output.ShowDetails, false),
		SortBy:           sortBy,
		MinSimilarity:    cfg.Filtering.MinSimilarity,
		MaxSimilarity:    cfg.Filtering.MaxSimilarity,
		MaxResults:       cfg.Filtering.MaxResults,
		Timeout:          cfg.Timeout(),
	}

	return request, nil
}

// loadConfigWithFallback loads configuration from the explicit --config
// file when given, otherwise discovers .structsim.toml starting from
// the first scanned path.
func (s *ScanCommand) loadConfigWithFallback(paths []string) (*config.Config, error) {
	loader := config.NewTomlConfigLoader()
	if s.configFile != "" {
		return loader.LoadConfigFile(s.configFile)
	}

	workDir := "."
	if len(paths) > 0 {
		workDir = paths[0]
	}
	if info, err := os.Stat(workDir); err != nil || !info.IsDir() {
		workDir = "."
	}
	return loader.LoadConfig(workDir)
}

// applyCliOverrides copies explicitly set flags onto the configuration
func (s *ScanCommand) applyCliOverrides(cfg *config.Config, flags *pflag.FlagSet) {
	set := explicitFlags(flags)

	if set["recursive"] {
		cfg.Input.Recursive = &s.recursive
	}
	if set["include"] {
		cfg.Input.IncludePatterns = s.includePatterns
	}
	if set["exclude"] {
		cfg.Input.ExcludePatterns = s.excludePatterns
	}
	if set["languages"] {
		cfg.Input.Languages = s.languages
	}
	if set["threshold"] {
		cfg.Comparison.Threshold = s.threshold
	}
	if set["name-weight"] {
		cfg.Comparison.NameWeight = s.nameWeight
	}
	if set["structure-weight"] {
		cfg.Comparison.StructureWeight = s.structureWeight
	}
	if set["member-comparison"] {
		cfg.Comparison.MemberComparison = s.memberComparison
	}
	if set["strict-size-check"] {
		cfg.Comparison.StrictSizeCheck = &s.strictSizeCheck
	}
	if set["details"] {
		cfg.Output.ShowDetails = &s.showDetails
	}
	if set["sort"] {
		cfg.Output.SortBy = s.sortBy
	}
	if set["min-similarity"] {
		cfg.Filtering.MinSimilarity = s.minSimilarity
	}
	if set["max-similarity"] {
		cfg.Filtering.MaxSimilarity = s.maxSimilarity
	}
	if set["max-results"] {
		cfg.Filtering.MaxResults = s.maxResults
	}
	if set["timeout"] {
		cfg.Performance.TimeoutSeconds = int(s.timeout.Seconds())
	}
}

// determineOutputFormat resolves the output format from the mutually
// exclusive format flags, falling back to the configured format.
func (s *ScanCommand) determineOutputFormat(configured string) (domain.OutputFormat, error) {
	count := 0
	format := domain.OutputFormat(configured)
	if s.json {
		format = domain.OutputFormatJSON
		count++
	}
	if s.yaml {
		format = domain.OutputFormatYAML
		count++
	}
	if s.csv {
		format = domain.OutputFormatCSV
		count++
	}
	if count > 1 {
		return "", fmt.Errorf("only one of --json, --yaml, --csv may be specified")
	}
	if format == "" {
		format = domain.OutputFormatText
	}
	return format, nil
}

// createScanUseCase wires the scan use case with its dependencies
func (s *ScanCommand) createScanUseCase() (*app.ScanUseCase, error) {
	similarityService := service.NewSimilarityService()
	if !s.noProgress && service.IsInteractiveEnvironment() {
		similarityService.SetProgressManager(service.NewProgressManager())
	}

	return app.NewScanUseCaseBuilder().
		WithService(similarityService).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewScanOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoader()).
		Build()
}

// explicitFlags returns the set of flags the user set on the command line
func explicitFlags(flags *pflag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flags.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	return set
}

// parseSortCriteria parses and validates the sort criteria
func parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch strings.ToLower(sort) {
	case "", "similarity":
		return domain.SortBySimilarity, nil
	case "location":
		return domain.SortByLocation, nil
	case "name":
		return domain.SortByName, nil
	case "size":
		return domain.SortBySize, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: similarity, location, name, size)", sort)
	}
}

// parseLanguages parses and validates the language list
func parseLanguages(languages []string) ([]domain.Language, error) {
	if len(languages) == 0 {
		return []domain.Language{domain.LangTypeScript, domain.LangRust, domain.LangCSS}, nil
	}

	parsed := make([]domain.Language, 0, len(languages))
	for _, lang := range languages {
		switch strings.ToLower(lang) {
		case "typescript", "ts":
			parsed = append(parsed, domain.LangTypeScript)
		case "rust", "rs":
			parsed = append(parsed, domain.LangRust)
		case "css":
			parsed = append(parsed, domain.LangCSS)
		default:
			return nil, fmt.Errorf("unsupported language '%s', must be one of: typescript, rust, css", lang)
		}
	}
	return parsed, nil
}

// NewScanCmd creates and returns the scan cobra command
func NewScanCmd() *cobra.Command {
	scanCommand := NewScanCommand()
	return scanCommand.CreateCobraCommand()
}
