package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/huangsam/repoviz/core"
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/internal/outwriter"
	"github.com/huangsam/repoviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.AccessProvider
	mgr      contract.HistoryManager
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Locator = request.GetString("url", "")
	if cfg.Locator == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	if ext := request.GetString("extension", ""); ext != "" {
		cfg.Extension = contract.NormalizeExtension(ext)
		if cfg.Extension == "." {
			return mcp.NewToolResultError("invalid extension: extension cannot be empty"), nil
		}
	}
	if err := h.applyThresholds(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid thresholds: %v", err)), nil
	}

	batch, err := core.GetAnalysisResults(ctx, cfg, h.provider, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.WriteBatchJSON(&buf, batch); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render results: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleGetLegend(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := h.applyThresholds(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid thresholds: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.WriteLegendText(&buf, outwriter.BuildLegend(cfg.Thresholds)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render legend: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// applyThresholds overrides the configured thresholds with request arguments.
func (h *toolHandler) applyThresholds(cfg *contract.Config, request mcp.CallToolRequest) error {
	if cfg.Thresholds == (schema.Thresholds{}) {
		cfg.Thresholds = schema.DefaultThresholds()
	}
	cfg.Thresholds.Yellow = request.GetInt("yellow", cfg.Thresholds.Yellow)
	cfg.Thresholds.Red = request.GetInt("red", cfg.Thresholds.Red)
	return cfg.Thresholds.Validate()
}
