package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/structsim/internal/config"
	"github.com/ludo-technologies/structsim/internal/version"
	"github.com/ludo-technologies/structsim/mcp"
)

const serverName = "structsim"

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Honor a discovered .structsim.toml for default scan settings
	var cfg *config.Config
	if cwd, err := os.Getwd(); err == nil {
		if loaded, err := config.NewTomlConfigLoader().LoadConfig(cwd); err == nil {
			cfg = loaded
		}
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies(cfg, ""))
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - scan_duplicates: Duplicate structure scan")
	log.Println("  - compare_structures: Pairwise snippet comparison")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Start server with stdio transport
	// This blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
