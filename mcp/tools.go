package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all structsim MCP tools with the server
func RegisterTools(s *server.MCPServer, handlers *HandlerSet) {
	// Tool 1: scan_duplicates - Duplicate structure scan over a path
	s.AddTool(mcp.NewTool("scan_duplicates",
		mcp.WithDescription("Find structurally similar type definitions (TypeScript interfaces/classes, Rust structs/enums, CSS rules) in a file or directory"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code (file or directory) to scan")),
		mcp.WithArray("languages",
			mcp.WithStringEnumItems([]string{"typescript", "rust", "css"}),
			mcp.Description("Languages to scan. Default: all languages")),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum similarity threshold 0.0-1.0 (default: 0.7)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithBoolean("show_details",
			mcp.Description("Include per-member matches and differences (default: false)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of pairs to return (default: 100)")),
		mcp.WithString("output_mode",
			mcp.Description("Output mode: summary (default) or full")),
	), handlers.HandleScanDuplicates)

	// Tool 2: compare_structures - Pairwise comparison of two snippets
	s.AddTool(mcp.NewTool("compare_structures",
		mcp.WithDescription("Compare the structure definitions found in two source snippets and report similarity scores"),
		mcp.WithString("source1",
			mcp.Required(),
			mcp.Description("First source snippet containing one or more structure definitions")),
		mcp.WithString("source2",
			mcp.Required(),
			mcp.Description("Second source snippet to compare against")),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Language of both snippets: typescript, rust, css")),
		mcp.WithNumber("threshold",
			mcp.Description("Greedy member matching threshold 0.0-1.0 (default: 0.7)")),
	), handlers.HandleCompareStructures)
}
