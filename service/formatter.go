package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ludo-technologies/structsim/domain"
)

// ScanOutputFormatter implements the OutputFormatter interface
type ScanOutputFormatter struct{}

// NewScanOutputFormatter creates a new output formatter
func NewScanOutputFormatter() *ScanOutputFormatter {
	return &ScanOutputFormatter{}
}

// FormatScanResponse formats a scan response according to the specified format
func (f *ScanOutputFormatter) FormatScanResponse(response *domain.ScanResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatStatistics formats scan statistics
func (f *ScanOutputFormatter) FormatStatistics(stats *domain.ScanStatistics, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatStatsAsText(stats, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, stats)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, stats)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *ScanOutputFormatter) formatAsText(response *domain.ScanResponse, writer io.Writer) error {
	if !response.Success {
		fmt.Fprintf(writer, "Duplicate scan failed: %s\n", response.Error)
		return nil
	}

	fmt.Fprintf(writer, "Duplicate Structure Scan\n")
	fmt.Fprintf(writer, "========================\n\n")

	if response.Statistics != nil {
		if err := f.formatStatsAsText(response.Statistics, writer); err != nil {
			return err
		}
		fmt.Fprintf(writer, "  Scan duration: %dms\n\n", response.Duration)
	}

	if len(response.Pairs) == 0 {
		fmt.Fprintf(writer, "No similar structures found.\n")
		return nil
	}

	fmt.Fprintf(writer, "Similar Pairs:\n")
	fmt.Fprintf(writer, "==============\n\n")

	showDetails := response.Request != nil && response.Request.ShowDetails
	for _, pair := range response.Pairs {
		if pair == nil {
			continue
		}
		fmt.Fprintf(writer, "%d. %s %s <-> %s %s (similarity: %.3f)\n",
			pair.ID,
			pair.Structure1.Kind, pair.Structure1.Name,
			pair.Structure2.Kind, pair.Structure2.Name,
			pair.Similarity)
		fmt.Fprintf(writer, "   Left:  %s (%d members)\n", pair.Structure1.Location.String(), pair.Structure1.MemberCount)
		fmt.Fprintf(writer, "   Right: %s (%d members)\n", pair.Structure2.Location.String(), pair.Structure2.MemberCount)
		fmt.Fprintf(writer, "   Identifier similarity: %.3f, member similarity: %.3f\n",
			pair.IdentifierSimilarity, pair.MemberSimilarity)

		if showDetails {
			f.formatDetails(pair, writer)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func (f *ScanOutputFormatter) formatDetails(pair *domain.SimilarPair, writer io.Writer) {
	for _, match := range pair.MemberMatches {
		fmt.Fprintf(writer, "   Match: %s <-> %s (%.3f)\n", match.Member1, match.Member2, match.Similarity)
	}
	if pair.Differences == nil {
		return
	}
	for _, name := range pair.Differences.MissingMembers {
		fmt.Fprintf(writer, "   Only left:  %s\n", name)
	}
	for _, name := range pair.Differences.ExtraMembers {
		fmt.Fprintf(writer, "   Only right: %s\n", name)
	}
	for _, mismatch := range pair.Differences.TypeMismatches {
		fmt.Fprintf(writer, "   Type differs: %s (%s vs %s)\n", mismatch.Member, mismatch.Type1, mismatch.Type2)
	}
}

func (f *ScanOutputFormatter) formatStatsAsText(stats *domain.ScanStatistics, writer io.Writer) error {
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", stats.FilesAnalyzed)
	fmt.Fprintf(writer, "  Structures found: %d\n", stats.TotalStructures)
	fmt.Fprintf(writer, "  Fingerprint buckets: %d\n", stats.FingerprintBuckets)
	fmt.Fprintf(writer, "  Comparisons run: %d\n", stats.ComparisonsRun)
	fmt.Fprintf(writer, "  Similar pairs: %d\n", stats.TotalPairs)
	if stats.AverageSimilarity > 0 {
		fmt.Fprintf(writer, "  Average similarity: %.3f\n", stats.AverageSimilarity)
	}

	if len(stats.PairsByKind) > 0 {
		kinds := make([]string, 0, len(stats.PairsByKind))
		for kind := range stats.PairsByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		fmt.Fprintf(writer, "  Pairs by kind:\n")
		for _, kind := range kinds {
			fmt.Fprintf(writer, "    %s: %d\n", kind, stats.PairsByKind[kind])
		}
	}
	return nil
}

func (f *ScanOutputFormatter) formatAsCSV(response *domain.ScanResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{
		"id", "similarity", "identifier_similarity", "member_similarity",
		"name1", "kind1", "location1", "members1",
		"name2", "kind2", "location2", "members2",
	}
	if err := csvWriter.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, pair := range response.Pairs {
		if pair == nil {
			continue
		}
		record := []string{
			strconv.Itoa(pair.ID),
			strconv.FormatFloat(pair.Similarity, 'f', 3, 64),
			strconv.FormatFloat(pair.IdentifierSimilarity, 'f', 3, 64),
			strconv.FormatFloat(pair.MemberSimilarity, 'f', 3, 64),
			pair.Structure1.Name,
			pair.Structure1.Kind,
			pair.Structure1.Location.String(),
			strconv.Itoa(pair.Structure1.MemberCount),
			pair.Structure2.Name,
			pair.Structure2.Kind,
			pair.Structure2.Location.String(),
			strconv.Itoa(pair.Structure2.MemberCount),
		}
		if err := csvWriter.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	return nil
}
