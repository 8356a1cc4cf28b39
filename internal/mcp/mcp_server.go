// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the statdeck MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Statdeck Profile Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: build_radar_profiles ---
	s.AddTool(mcp.NewTool("build_radar_profiles",
		mcp.WithDescription("Build closed radar polygons from the climate table, one per selected month, with each metric min-max scaled over the selection."),
		mcp.WithString("entities", mcp.Description("Comma-separated entity labels (defaults to 3月,6月,9月,12月).")),
		mcp.WithString("metrics", mcp.Description("Comma-separated metric names (defaults to high_temp,low_temp,precipitation).")),
		mcp.WithString("policy", mcp.Description("Handling of zero-range metrics. Defaults to 'flag'."), mcp.Enum("flag", "error", "zero")),
	), h.handleBuildRadarProfiles)

	// --- 2. Tool: describe_climate ---
	s.AddTool(mcp.NewTool("describe_climate",
		mcp.WithDescription("Describe every climate metric with count, mean, standard deviation and quartiles."),
	), h.handleDescribeClimate)

	// --- 3. Tool: climate_correlation ---
	s.AddTool(mcp.NewTool("climate_correlation",
		mcp.WithDescription("Compute the Pearson correlation matrix of the climate metrics."),
	), h.handleClimateCorrelation)

	return s
}

// StartMCPServer starts the statdeck MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
