package service

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ludo-technologies/structsim/domain"
	"github.com/ludo-technologies/structsim/internal/analyzer"
	"github.com/ludo-technologies/structsim/internal/extractor"
)

// SimilarityServiceImpl implements the SimilarityService interface
type SimilarityServiceImpl struct {
	fileReader domain.FileReader
	registry   *extractor.Registry
	progress   domain.ProgressManager
}

// NewSimilarityService creates a new similarity service
func NewSimilarityService() *SimilarityServiceImpl {
	return &SimilarityServiceImpl{
		fileReader: NewFileReader(),
		registry:   extractor.DefaultRegistry(),
	}
}

// SetProgressManager attaches a progress manager for scan feedback
func (s *SimilarityServiceImpl) SetProgressManager(progress domain.ProgressManager) {
	s.progress = progress
}

// Scan performs a duplicate scan on the given request
func (s *SimilarityServiceImpl) Scan(ctx context.Context, req *domain.ScanRequest) (*domain.ScanResponse, error) {
	files, err := s.fileReader.CollectFiles(req.Paths, req.Languages, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no source files found in the specified paths", nil)
	}
	return s.ScanFiles(ctx, files, req)
}

// ScanFiles performs a duplicate scan on specific files
func (s *SimilarityServiceImpl) ScanFiles(ctx context.Context, filePaths []string, req *domain.ScanRequest) (*domain.ScanResponse, error) {
	start := time.Now()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	structures, filesAnalyzed, err := s.extractAll(ctx, filePaths, req)
	if err != nil {
		return nil, err
	}

	finder := analyzer.NewDuplicateFinder(s.buildComparator(req), req.Threshold)
	duplicates, finderStats := finder.FindDuplicates(structures)

	pairs := s.convertPairs(duplicates, req)
	s.sortPairs(pairs, req.SortBy)
	if req.MaxResults > 0 && len(pairs) > req.MaxResults {
		pairs = pairs[:req.MaxResults]
	}
	for i, pair := range pairs {
		pair.ID = i + 1
	}

	stats := buildStatistics(pairs, finderStats, filesAnalyzed)

	return &domain.ScanResponse{
		Pairs:      pairs,
		Statistics: stats,
		Request:    req,
		Duration:   time.Since(start).Milliseconds(),
		Success:    true,
	}, nil
}

// extractAll parses all files concurrently and collects their
// structures. Files that fail to parse are skipped so one broken file
// does not sink a whole scan.
func (s *SimilarityServiceImpl) extractAll(ctx context.Context, filePaths []string, req *domain.ScanRequest) ([]*analyzer.Structure, int, error) {
	if s.progress != nil {
		s.progress.Initialize(len(filePaths))
		s.progress.Start()
		defer s.progress.Complete(true)
	}

	var mu sync.Mutex
	resultsByFile := make(map[string][]*analyzer.Structure)
	processed := 0
	filesAnalyzed := 0

	tasks := make([]domain.ExecutableTask, 0, len(filePaths))
	for _, filePath := range filePaths {
		tasks = append(tasks, NewExtractionTask(filePath, func(taskCtx context.Context) (interface{}, error) {
			defer func() {
				mu.Lock()
				processed++
				if s.progress != nil {
					s.progress.Update(processed, len(filePaths))
				}
				mu.Unlock()
			}()

			ext, ok := s.registry.ForFile(filePath)
			if !ok {
				return nil, nil
			}
			source, err := s.fileReader.ReadFile(filePath)
			if err != nil {
				return nil, nil
			}
			structures, err := ext.Extract(taskCtx, filePath, source)
			if err != nil {
				return nil, nil
			}

			mu.Lock()
			resultsByFile[filePath] = structures
			filesAnalyzed++
			mu.Unlock()
			return nil, nil
		}))
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(runtime.NumCPU())
	if req.Timeout > 0 {
		executor.SetTimeout(req.Timeout)
	}
	if err := executor.Execute(ctx, tasks); err != nil {
		return nil, 0, domain.NewAnalysisError("structure extraction failed", err)
	}

	// Flatten in input order so downstream results are deterministic.
	var structures []*analyzer.Structure
	for _, filePath := range filePaths {
		structures = append(structures, resultsByFile[filePath]...)
	}
	return structures, filesAnalyzed, nil
}

// buildComparator translates request settings into comparison options
func (s *SimilarityServiceImpl) buildComparator(req *domain.ScanRequest) *analyzer.StructureComparator {
	strategy, err := analyzer.ParseMemberComparisonStrategy(string(req.MemberComparison))
	if err != nil {
		strategy = analyzer.MemberComparisonNormalized
	}

	return analyzer.NewStructureComparator(analyzer.ComparisonOptions{
		NameWeight:        req.NameWeight,
		StructureWeight:   req.StructureWeight,
		Threshold:         req.Threshold,
		MemberComparison:  strategy,
		StrictSizePenalty: req.StrictSizeCheck,
	})
}

// convertPairs maps finder output into the response model, applying
// the similarity range filter.
func (s *SimilarityServiceImpl) convertPairs(duplicates []analyzer.DuplicatePair, req *domain.ScanRequest) []*domain.SimilarPair {
	pairs := make([]*domain.SimilarPair, 0, len(duplicates))
	for _, dup := range duplicates {
		result := dup.Result
		if result.Similarity < req.MinSimilarity || result.Similarity > req.MaxSimilarity {
			continue
		}

		pair := &domain.SimilarPair{
			Structure1:           summarize(result.Structure1),
			Structure2:           summarize(result.Structure2),
			Similarity:           result.Similarity,
			IdentifierSimilarity: result.IdentifierSimilarity,
			MemberSimilarity:     result.MemberSimilarity,
		}
		if req.ShowDetails {
			pair.MemberMatches = convertMatches(result.Matches)
			pair.Differences = convertDifferences(result.Differences)
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

func summarize(s *analyzer.Structure) *domain.StructureSummary {
	summary := &domain.StructureSummary{
		Name:        s.Name,
		Kind:        s.Kind.String(),
		MemberCount: len(s.Members),
	}
	if s.Location != nil {
		summary.Location = &domain.StructureLocation{
			FilePath:  s.Location.FilePath,
			StartLine: s.Location.StartLine,
			EndLine:   s.Location.EndLine,
		}
	}
	return summary
}

func convertMatches(matches []analyzer.MemberMatch) []domain.MemberMatch {
	converted := make([]domain.MemberMatch, len(matches))
	for i, m := range matches {
		converted[i] = domain.MemberMatch{
			Member1:    m.Name1,
			Member2:    m.Name2,
			Similarity: m.Similarity,
		}
	}
	return converted
}

func convertDifferences(diffs analyzer.Differences) *domain.Differences {
	converted := &domain.Differences{
		MissingMembers: diffs.MissingMembers,
		ExtraMembers:   diffs.ExtraMembers,
	}
	for _, mismatch := range diffs.TypeMismatches {
		converted.TypeMismatches = append(converted.TypeMismatches, domain.TypeMismatch{
			Member: mismatch.MemberName,
			Type1:  mismatch.Type1,
			Type2:  mismatch.Type2,
		})
	}
	return converted
}

// sortPairs orders pairs by the requested criteria. Similarity is the
// default and ties keep the finder's deterministic order.
func (s *SimilarityServiceImpl) sortPairs(pairs []*domain.SimilarPair, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByLocation:
		sort.SliceStable(pairs, func(i, j int) bool {
			li, lj := pairs[i].Structure1.Location, pairs[j].Structure1.Location
			if li.FilePath != lj.FilePath {
				return li.FilePath < lj.FilePath
			}
			return li.StartLine < lj.StartLine
		})
	case domain.SortByName:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Structure1.Name < pairs[j].Structure1.Name
		})
	case domain.SortBySize:
		sort.SliceStable(pairs, func(i, j int) bool {
			return maxMembers(pairs[i]) > maxMembers(pairs[j])
		})
	default:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Similarity > pairs[j].Similarity
		})
	}
}

func maxMembers(pair *domain.SimilarPair) int {
	return max(pair.Structure1.MemberCount, pair.Structure2.MemberCount)
}

// buildStatistics aggregates the scan statistics
func buildStatistics(pairs []*domain.SimilarPair, finderStats analyzer.FinderStats, filesAnalyzed int) *domain.ScanStatistics {
	stats := domain.NewScanStatistics()
	stats.TotalStructures = finderStats.Structures
	stats.TotalPairs = len(pairs)
	stats.FingerprintBuckets = finderStats.Buckets
	stats.ComparisonsRun = finderStats.Comparisons
	stats.FilesAnalyzed = filesAnalyzed

	totalSimilarity := 0.0
	for _, pair := range pairs {
		stats.PairsByKind[pair.Structure1.Kind]++
		totalSimilarity += pair.Similarity
	}
	if len(pairs) > 0 {
		stats.AverageSimilarity = totalSimilarity / float64(len(pairs))
	}
	return stats
}
