package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/structsim/internal/config"
	"github.com/ludo-technologies/structsim/mcp"
)

func callTool(
	t *testing.T,
	handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error),
	arguments interface{},
) *mcplib.CallToolResult {
	t.Helper()

	h := mcp.NewHandlerSet(mcp.NewDependencies(nil, ""))
	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}

	res, err := handlerFunc(h, context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcplib.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func writeScanFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	source := `
interface User {
  id: number;
  name: string;
  email: string;
}

interface Person {
  id: number;
  name: string;
  email: string;
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.ts"), []byte(source), 0o644))
	return dir
}

func TestHandleScanDuplicates(t *testing.T) {
	t.Run("invalid arguments format", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleScanDuplicates, "not-a-map")
		assert.True(t, res.IsError)
	})

	t.Run("missing path", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleScanDuplicates, map[string]interface{}{})
		assert.True(t, res.IsError)
	})

	t.Run("nonexistent path", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleScanDuplicates, map[string]interface{}{
			"path": "/no/such/path",
		})
		assert.True(t, res.IsError)
	})

	t.Run("summary output", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleScanDuplicates, map[string]interface{}{
			"path":      writeScanFixture(t),
			"threshold": 0.6,
		})
		require.False(t, res.IsError)

		var payload struct {
			Pairs   []string               `json:"pairs"`
			Summary map[string]interface{} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		assert.Len(t, payload.Pairs, 1)
		assert.Contains(t, payload.Pairs[0], "interface User")
		assert.EqualValues(t, 1, payload.Summary["similar_pairs"])
	})

	t.Run("full output", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleScanDuplicates, map[string]interface{}{
			"path":        writeScanFixture(t),
			"threshold":   0.6,
			"output_mode": "full",
		})
		require.False(t, res.IsError)

		text := resultText(t, res)
		assert.Contains(t, text, "\"pairs\"")
		assert.Contains(t, text, "\"statistics\"")
	})
}

func TestHandleCompareStructures(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleCompareStructures, map[string]interface{}{
			"source1":  "interface A { x: number }",
			"language": "typescript",
		})
		assert.True(t, res.IsError)
	})

	t.Run("unsupported language", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleCompareStructures, map[string]interface{}{
			"source1":  "interface A { x: number }",
			"source2":  "interface B { x: number }",
			"language": "python",
		})
		assert.True(t, res.IsError)
	})

	t.Run("no structures in source", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleCompareStructures, map[string]interface{}{
			"source1":  "const x = 1;",
			"source2":  "interface B { x: number }",
			"language": "typescript",
		})
		assert.True(t, res.IsError)
	})

	t.Run("identical interfaces score 1.0", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleCompareStructures, map[string]interface{}{
			"source1":  "interface Config { host: string; port: number; }",
			"source2":  "interface Config { host: string; port: number; }",
			"language": "typescript",
		})
		require.False(t, res.IsError)

		var payload struct {
			Language    string `json:"language"`
			Comparisons []struct {
				Structure1  string  `json:"structure1"`
				Structure2  string  `json:"structure2"`
				Similarity  float64 `json:"similarity"`
				MemberScore float64 `json:"member_score"`
			} `json:"comparisons"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		assert.Equal(t, "typescript", payload.Language)
		require.Len(t, payload.Comparisons, 1)
		assert.Equal(t, "Config", payload.Comparisons[0].Structure1)
		assert.InDelta(t, 1.0, payload.Comparisons[0].Similarity, 1e-9)
		assert.InDelta(t, 1.0, payload.Comparisons[0].MemberScore, 1e-9)
	})

	t.Run("unknown member comparison falls back to normalized", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Comparison.MemberComparison = "bogus"
		h := mcp.NewHandlerSet(mcp.NewDependencies(cfg, ""))

		req := mcplib.CallToolRequest{
			Params: mcplib.CallToolParams{
				Arguments: map[string]interface{}{
					"source1":  "interface Config { host: string; port: number; }",
					"source2":  "interface Config { host: string; port: number; }",
					"language": "typescript",
				},
			},
		}
		res, err := h.HandleCompareStructures(context.Background(), req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		var payload struct {
			Comparisons []struct {
				Similarity float64 `json:"similarity"`
			} `json:"comparisons"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		require.Len(t, payload.Comparisons, 1)
		assert.InDelta(t, 1.0, payload.Comparisons[0].Similarity, 1e-9)
	})

	t.Run("rust structs compare cross product", func(t *testing.T) {
		res := callTool(t, (*mcp.HandlerSet).HandleCompareStructures, map[string]interface{}{
			"source1":  "struct A { x: i32 }\nstruct B { y: i64 }",
			"source2":  "struct C { x: i32 }",
			"language": "rust",
		})
		require.False(t, res.IsError)

		var payload struct {
			Comparisons []json.RawMessage `json:"comparisons"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		assert.Len(t, payload.Comparisons, 2)
	})
}
