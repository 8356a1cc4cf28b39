package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/statdeck/core"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/outwriter"
	"github.com/huangsam/statdeck/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// climateConfig clones the base config and points it at the embedded climate table.
func (h *toolHandler) climateConfig() *contract.Config {
	var cfg *contract.Config
	if h.baseCfg != nil {
		cfg = h.baseCfg.Clone()
	} else {
		cfg = &contract.Config{Theme: contract.DefaultTheme()}
	}
	cfg.InputFile = ""
	return cfg
}

func (h *toolHandler) handleBuildRadarProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.climateConfig()
	cfg.Entities = contract.SplitList(request.GetString("entities", ""))
	cfg.Metrics = contract.SplitList(request.GetString("metrics", ""))
	cfg.Degenerate = schema.DegenerateFlag
	if p := request.GetString("policy", ""); p != "" {
		policy := schema.DegeneratePolicy(strings.ToLower(p))
		if _, ok := schema.ValidDegeneratePolicies[policy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid policy '%s'. must be flag, error, zero", p)), nil
		}
		cfg.Degenerate = policy
	}

	result, _, err := core.GetRadarResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("radar build failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.EncodeProfiles(&buf, result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleDescribeClimate(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, corr, _, err := core.GetStatsResults(ctx, h.climateConfig(), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.EncodeSummaries(&buf, summaries, corr); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleClimateCorrelation(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	corr, err := core.CorrelationMatrix(core.ClimateTable())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("correlation failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.EncodeSummaries(&buf, nil, corr); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
