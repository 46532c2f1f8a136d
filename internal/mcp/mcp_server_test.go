package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/repoviz/internal/contract"
	mcp_internal "github.com/huangsam/repoviz/internal/mcp"
	"github.com/huangsam/repoviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Host:       schema.DefaultHost,
		Provider:   schema.GitHubProvider,
		Extension:  schema.DefaultExtension,
		Thresholds: schema.DefaultThresholds(),
		Precision:  2,
	}
}

func callTool(t *testing.T, provider contract.AccessProvider, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), provider, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAnalyzeRepository(t *testing.T) {
	provider := new(contract.MockAccessProvider)
	loc := schema.RepositoryLocator{Owner: "acme", Repo: "widgets", Branch: "main", Path: "src"}
	provider.On("ListEntries", mock.Anything, loc).Return([]string{"src/A.kt", "src/B.kt", "src/C.java"}, nil)
	provider.On("FetchContent", mock.Anything, loc, "src/A.kt").Return("if (a) {}\nif (b) {}\n", nil)
	provider.On("FetchContent", mock.Anything, loc, "src/B.kt").Return("val x = 1\n", nil)

	res := callTool(t, provider, "analyze_repository", map[string]any{
		"url":       "https://github.com/acme/widgets/tree/main/src",
		"extension": "KT",
		"yellow":    0.0,
		"red":       1.0,
	})
	require.False(t, res.IsError, resultText(t, res))

	var doc struct {
		Status  string `json:"status"`
		Records []struct {
			Path     string `json:"path"`
			Category string `json:"color_category"`
			Color    string `json:"color"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &doc))
	assert.Equal(t, "2 files analyzed", doc.Status)
	require.Len(t, doc.Records, 2)
	assert.Equal(t, "src/A.kt", doc.Records[0].Path)
	assert.Equal(t, "high", doc.Records[0].Category)
	assert.Equal(t, "#ff0000ff", doc.Records[0].Color)
	assert.Equal(t, "low", doc.Records[1].Category)
	provider.AssertExpectations(t)
}

func TestAnalyzeRepository_Errors(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		res := callTool(t, new(contract.MockAccessProvider), "analyze_repository", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "url is required")
	})

	t.Run("invalid thresholds", func(t *testing.T) {
		res := callTool(t, new(contract.MockAccessProvider), "analyze_repository", map[string]any{
			"url":    "https://github.com/acme/widgets",
			"yellow": 10.0,
			"red":    3.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid thresholds")
	})

	t.Run("invalid locator", func(t *testing.T) {
		res := callTool(t, new(contract.MockAccessProvider), "analyze_repository", map[string]any{
			"url": "https://gitlab.com/acme/widgets",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "analysis failed: invalid locator")
	})

	t.Run("listing failure", func(t *testing.T) {
		provider := new(contract.MockAccessProvider)
		provider.On("ListEntries", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		res := callTool(t, provider, "analyze_repository", map[string]any{
			"url": "https://github.com/acme/widgets",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "list /: boom")
	})
}

func TestGetLegend(t *testing.T) {
	res := callTool(t, nil, "get_legend", map[string]any{"yellow": 3.0, "red": 8.0})
	require.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Color = complexity, Transparency = size")
	assert.Contains(t, text, "3 < score <= 8")

	res = callTool(t, nil, "get_legend", map[string]any{"yellow": 8.0, "red": 8.0})
	assert.True(t, res.IsError)
}
