package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/structsim/domain"
)

// ScanUseCase orchestrates duplicate structure scans
type ScanUseCase struct {
	service      domain.SimilarityService
	fileReader   domain.FileReader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
}

// NewScanUseCase creates a new scan use case with the given dependencies
func NewScanUseCase(
	service domain.SimilarityService,
	fileReader domain.FileReader,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
) *ScanUseCase {
	return &ScanUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
	}
}

// Execute runs a duplicate scan for the given request
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) error {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if req.ConfigPath != "" {
		configReq, err := uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		req = uc.mergeConfiguration(*configReq, req)
	}

	files, err := uc.fileReader.CollectFiles(req.Paths, req.Languages, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		return uc.outputEmptyResults(req)
	}

	response, err := uc.service.ScanFiles(ctx, files, &req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	response.Duration = time.Since(startTime).Milliseconds()

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}
	if err := uc.formatter.FormatScanResponse(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// ExecuteWithFiles runs a duplicate scan on specific files
func (uc *ScanUseCase) ExecuteWithFiles(ctx context.Context, filePaths []string, req domain.ScanRequest) error {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	validFiles := make([]string, 0, len(filePaths))
	for _, filePath := range filePaths {
		if _, ok := uc.fileReader.DetectLanguage(filePath); ok {
			validFiles = append(validFiles, filePath)
		}
	}
	if len(validFiles) == 0 {
		return uc.outputEmptyResults(req)
	}

	response, err := uc.service.ScanFiles(ctx, validFiles, &req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	response.Duration = time.Since(startTime).Milliseconds()

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}
	if err := uc.formatter.FormatScanResponse(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// mergeConfiguration merges a config-file request with the CLI
// request. The CLI request wins wherever it differs from defaults.
func (uc *ScanUseCase) mergeConfiguration(configReq, cliReq domain.ScanRequest) domain.ScanRequest {
	merged := configReq
	defaults := domain.DefaultScanRequest()

	if len(cliReq.Paths) > 0 {
		merged.Paths = cliReq.Paths
	}
	merged.OutputWriter = cliReq.OutputWriter
	merged.ConfigPath = cliReq.ConfigPath

	if cliReq.Threshold != defaults.Threshold {
		merged.Threshold = cliReq.Threshold
	}
	if cliReq.NameWeight != defaults.NameWeight {
		merged.NameWeight = cliReq.NameWeight
	}
	if cliReq.StructureWeight != defaults.StructureWeight {
		merged.StructureWeight = cliReq.StructureWeight
	}
	if cliReq.MemberComparison != defaults.MemberComparison {
		merged.MemberComparison = cliReq.MemberComparison
	}
	if cliReq.StrictSizeCheck != defaults.StrictSizeCheck {
		merged.StrictSizeCheck = cliReq.StrictSizeCheck
	}
	if cliReq.Recursive != defaults.Recursive {
		merged.Recursive = cliReq.Recursive
	}
	if len(cliReq.IncludePatterns) > 0 {
		merged.IncludePatterns = cliReq.IncludePatterns
	}
	if len(cliReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = cliReq.ExcludePatterns
	}
	if len(cliReq.Languages) > 0 {
		merged.Languages = cliReq.Languages
	}
	if cliReq.OutputFormat != defaults.OutputFormat {
		merged.OutputFormat = cliReq.OutputFormat
	}
	if cliReq.ShowDetails != defaults.ShowDetails {
		merged.ShowDetails = cliReq.ShowDetails
	}
	if cliReq.SortBy != defaults.SortBy {
		merged.SortBy = cliReq.SortBy
	}
	if cliReq.MinSimilarity != defaults.MinSimilarity {
		merged.MinSimilarity = cliReq.MinSimilarity
	}
	if cliReq.MaxSimilarity != defaults.MaxSimilarity {
		merged.MaxSimilarity = cliReq.MaxSimilarity
	}
	if cliReq.MaxResults != defaults.MaxResults {
		merged.MaxResults = cliReq.MaxResults
	}
	if cliReq.Timeout != 0 {
		merged.Timeout = cliReq.Timeout
	}

	return merged
}

// outputEmptyResults writes a successful response with no pairs
func (uc *ScanUseCase) outputEmptyResults(req domain.ScanRequest) error {
	emptyResponse := &domain.ScanResponse{
		Pairs:      []*domain.SimilarPair{},
		Statistics: domain.NewScanStatistics(),
		Request:    &req,
		Duration:   0,
		Success:    true,
	}

	if req.HasValidOutputWriter() {
		return uc.formatter.FormatScanResponse(emptyResponse, req.OutputFormat, req.OutputWriter)
	}
	return nil
}

// ScanUseCaseBuilder helps build ScanUseCase with dependencies
type ScanUseCaseBuilder struct {
	service      domain.SimilarityService
	fileReader   domain.FileReader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
}

// NewScanUseCaseBuilder creates a new builder for ScanUseCase
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithService sets the similarity service
func (b *ScanUseCaseBuilder) WithService(service domain.SimilarityService) *ScanUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *ScanUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *ScanUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *ScanUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ScanUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ScanUseCaseBuilder) WithConfigLoader(configLoader domain.ConfigurationLoader) *ScanUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// Build creates the ScanUseCase with the configured dependencies
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("similarity service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.configLoader == nil {
		return nil, fmt.Errorf("configuration loader is required")
	}
	return NewScanUseCase(b.service, b.fileReader, b.formatter, b.configLoader), nil
}
