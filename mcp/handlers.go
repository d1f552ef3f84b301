package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/structsim/domain"
	"github.com/ludo-technologies/structsim/internal/analyzer"
	"github.com/ludo-technologies/structsim/service"
)

const defaultScanMaxResults = 100

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleScanDuplicates handles the scan_duplicates tool
func (h *HandlerSet) HandleScanDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := service.ScanRequestFromConfig(h.deps.Config())
	req.Paths = []string{path}
	req.ConfigPath = h.deps.ConfigPath()
	req.MaxResults = defaultScanMaxResults

	if threshold, ok := args["threshold"].(float64); ok {
		req.Threshold = threshold
	}
	if recursive, ok := args["recursive"].(bool); ok {
		req.Recursive = recursive
	}
	if showDetails, ok := args["show_details"].(bool); ok {
		req.ShowDetails = showDetails
	}
	if maxResults, ok := args["max_results"].(float64); ok && maxResults > 0 {
		req.MaxResults = int(maxResults)
	}
	if rawLanguages, ok := args["languages"].([]interface{}); ok {
		languages := []domain.Language{}
		for _, l := range rawLanguages {
			if str, ok := l.(string); ok {
				languages = append(languages, domain.Language(str))
			}
		}
		if len(languages) > 0 {
			req.Languages = languages
		}
	}

	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	response, err := h.deps.similarityService.Scan(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = response
	default:
		responseData = formatScanSummary(response)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleCompareStructures handles the compare_structures tool
func (h *HandlerSet) HandleCompareStructures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	source1, ok := args["source1"].(string)
	if !ok {
		return mcp.NewToolResultError("source1 parameter is required and must be a string"), nil
	}
	source2, ok := args["source2"].(string)
	if !ok {
		return mcp.NewToolResultError("source2 parameter is required and must be a string"), nil
	}
	language, ok := args["language"].(string)
	if !ok {
		return mcp.NewToolResultError("language parameter is required and must be a string"), nil
	}

	ext, err := h.deps.registry.ForLanguage(language)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported language: %s", language)), nil
	}

	structures1, err := ext.Extract(ctx, "source1", []byte(source1))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse source1: %v", err)), nil
	}
	structures2, err := ext.Extract(ctx, "source2", []byte(source2))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse source2: %v", err)), nil
	}
	if len(structures1) == 0 {
		return mcp.NewToolResultError("no structure definitions found in source1"), nil
	}
	if len(structures2) == 0 {
		return mcp.NewToolResultError("no structure definitions found in source2"), nil
	}

	options := analyzer.DefaultComparisonOptions()
	if cfg := h.deps.Config(); cfg != nil {
		options.NameWeight = cfg.Comparison.NameWeight
		options.StructureWeight = cfg.Comparison.StructureWeight
		strategy, err := analyzer.ParseMemberComparisonStrategy(cfg.Comparison.MemberComparison)
		if err != nil {
			strategy = analyzer.MemberComparisonNormalized
		}
		options.MemberComparison = strategy
		if cfg.Comparison.StrictSizeCheck != nil {
			options.StrictSizePenalty = *cfg.Comparison.StrictSizeCheck
		}
	}
	if threshold, ok := args["threshold"].(float64); ok {
		options.Threshold = threshold
	}

	comparator := analyzer.NewStructureComparator(options)

	type comparison struct {
		Structure1 string  `json:"structure1"`
		Structure2 string  `json:"structure2"`
		Kind1      string  `json:"kind1"`
		Kind2      string  `json:"kind2"`
		Similarity float64 `json:"similarity"`
		NameScore  float64 `json:"name_score"`
		MemberScore float64 `json:"member_score"`
	}

	comparisons := []comparison{}
	for _, s1 := range structures1 {
		for _, s2 := range structures2 {
			result := comparator.Compare(s1, s2)
			comparisons = append(comparisons, comparison{
				Structure1:  s1.Name,
				Structure2:  s2.Name,
				Kind1:       string(s1.Kind),
				Kind2:       string(s2.Kind),
				Similarity:  result.Similarity,
				NameScore:   result.IdentifierSimilarity,
				MemberScore: result.MemberSimilarity,
			})
		}
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"language":    language,
		"comparisons": comparisons,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// formatScanSummary formats a scan response in compact summary mode
func formatScanSummary(response *domain.ScanResponse) map[string]interface{} {
	pairs := []string{}
	for _, pair := range response.Pairs {
		pairs = append(pairs, fmt.Sprintf("%s %s (%s) <-> %s %s (%s): %.3f",
			pair.Structure1.Kind, pair.Structure1.Name, pair.Structure1.Location.String(),
			pair.Structure2.Kind, pair.Structure2.Name, pair.Structure2.Location.String(),
			pair.Similarity))
	}

	summary := map[string]interface{}{
		"similar_pairs": len(response.Pairs),
	}
	if response.Statistics != nil {
		summary["files_analyzed"] = response.Statistics.FilesAnalyzed
		summary["total_structures"] = response.Statistics.TotalStructures
		summary["comparisons_run"] = response.Statistics.ComparisonsRun
		summary["average_similarity"] = response.Statistics.AverageSimilarity
	}

	return map[string]interface{}{
		"pairs":   pairs,
		"summary": summary,
	}
}
