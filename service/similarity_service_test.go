package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/structsim/domain"
)

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func duplicateInterfaces(t *testing.T) string {
	dir := t.TempDir()
	writeSourceFile(t, dir, "user.ts", `
interface User {
	id: number;
	name: string;
	email: string;
}
`)
	writeSourceFile(t, dir, "person.ts", `
interface Person {
	id: number;
	name: string;
	email: string;
}
`)
	return dir
}

func TestScanFindsDuplicatePair(t *testing.T) {
	dir := duplicateInterfaces(t)

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Pairs, 1)

	pair := resp.Pairs[0]
	assert.Equal(t, 1, pair.ID)
	names := []string{pair.Structure1.Name, pair.Structure2.Name}
	assert.ElementsMatch(t, []string{"User", "Person"}, names)
	assert.Greater(t, pair.Similarity, 0.6)
	assert.Greater(t, pair.MemberSimilarity, 0.9)

	// Details are omitted unless requested.
	assert.Empty(t, pair.MemberMatches)
	assert.Nil(t, pair.Differences)

	stats := resp.Statistics
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.FilesAnalyzed)
	assert.Equal(t, 2, stats.TotalStructures)
	assert.Equal(t, 1, stats.TotalPairs)
	assert.Equal(t, 1, stats.PairsByKind["interface"])
}

func TestScanShowDetails(t *testing.T) {
	dir := duplicateInterfaces(t)

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6
	req.ShowDetails = true

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Pairs, 1)

	pair := resp.Pairs[0]
	assert.Len(t, pair.MemberMatches, 3)
	require.NotNil(t, pair.Differences)
	assert.Empty(t, pair.Differences.MissingMembers)
	assert.Empty(t, pair.Differences.ExtraMembers)
}

func TestScanMixedLanguages(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "config.rs", `
pub struct Config {
    pub host: String,
    pub port: u16,
}
`)
	writeSourceFile(t, dir, "settings.rs", `
pub struct Settings {
    pub host: String,
    pub port: u16,
}
`)
	writeSourceFile(t, dir, "styles.css", `
.button { color: red; }
`)

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Statistics.FilesAnalyzed)
	assert.Equal(t, 3, resp.Statistics.TotalStructures)
	require.Len(t, resp.Pairs, 1)
	assert.Equal(t, "struct", resp.Pairs[0].Structure1.Kind)
}

func TestScanSimilarityRangeFilter(t *testing.T) {
	dir := duplicateInterfaces(t)

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6
	req.MinSimilarity = 0.95

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Pairs)
}

func TestScanMaxResults(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "models.ts", `
interface A { id: number; name: string; }
interface B { id: number; name: string; }
interface C { id: number; name: string; }
`)

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6
	req.MaxResults = 1

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Pairs, 1)
	assert.Equal(t, 3, resp.Statistics.TotalStructures)
}

func TestScanNoFilesFound(t *testing.T) {
	req := domain.DefaultScanRequest()
	req.Paths = []string{t.TempDir()}

	_, err := NewSimilarityService().Scan(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err))
}

func TestScanSkipsUnparsableFiles(t *testing.T) {
	dir := duplicateInterfaces(t)
	writeSourceFile(t, dir, "broken.rs", "struct {{{{\x00")

	req := domain.DefaultScanRequest()
	req.Paths = []string{dir}
	req.Threshold = 0.6

	resp, err := NewSimilarityService().Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Pairs, 1)
}
