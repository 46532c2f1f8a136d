// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the repoviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.AccessProvider, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"repoviz Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
		mgr:      mgr,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Analyze the files of one directory in a hosted repository. Returns line counts, complexity scores and the color encoding of every matching file."),
		mcp.WithString("url", mcp.Description("Repository URL, e.g. https://github.com/owner/repo or https://github.com/owner/repo/tree/branch/path."), mcp.Required()),
		mcp.WithString("extension", mcp.Description("Target file extension (defaults to the configured one, usually .java).")),
		mcp.WithNumber("yellow", mcp.Description("Complexity above which a file is medium.")),
		mcp.WithNumber("red", mcp.Description("Complexity above which a file is high.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: get_legend ---
	s.AddTool(mcp.NewTool("get_legend",
		mcp.WithDescription("Explain the color and transparency encoding used by analyze_repository."),
		mcp.WithNumber("yellow", mcp.Description("Complexity above which a file is medium.")),
		mcp.WithNumber("red", mcp.Description("Complexity above which a file is high.")),
	), h.handleGetLegend)

	return s
}

// StartMCPServer starts the repoviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.AccessProvider, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, provider, mgr)
	return server.ServeStdio(s)
}
