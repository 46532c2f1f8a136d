//go:build integration

// Package integration contains integration tests for repoviz.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrorFiles is the content of the src directory of the test mirror.
var mirrorFiles = map[string]string{
	"src/Small.java":       "class Small {\n\n  int x;\n}\n",
	"src/Branch.java":      "class Branch {\n  void f() {\n    if (a) {}\n    for (;;) {}\n    while (b) {}\n    // if in a comment\n    String s = \"if\";\n  }\n}\n",
	"src/notes.md":         "# not analyzed\n",
	"src/nested/Deep.java": "class Deep {}\n",
}

// makeMirror creates <root>/acme/widgets as a git repository with mirrorFiles committed.
func makeMirror(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	repo := filepath.Join(root, "acme", "widgets")
	for name, content := range mirrorFiles {
		full := filepath.Join(repo, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	for _, args := range [][]string{
		{"init", "-q", "-b", "main"},
		{"add", "."},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "-m", "init"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return root
}

// nonBlankLines counts lines that are not whitespace-only.
func nonBlankLines(content string) int {
	n := 0
	for line := range strings.SplitSeq(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// TestAnalyzeMirrorVerification runs repoviz analyze against a local mirror and
// verifies line counts against the committed files.
func TestAnalyzeMirrorVerification(t *testing.T) {
	root := makeMirror(t)
	outFile := filepath.Join(t.TempDir(), "batch.json")

	_, err := runRepoviz(t, "..", nil,
		"analyze", "https://github.com/acme/widgets/tree/main/src",
		"--provider", "git", "--mirror-root", root,
		"--output", "json", "--output-file", outFile, "--emoji", "no",
	)
	require.NoError(t, err)

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var batch struct {
		MaxLineCount int `json:"max_line_count"`
		Records      []struct {
			Path            string  `json:"path"`
			LineCount       int     `json:"line_count"`
			ComplexityScore int     `json:"complexity_score"`
			NormalizedSize  float64 `json:"normalized_size"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(content, &batch))

	// Only direct .java children are analyzed
	require.Len(t, batch.Records, 2)
	maxLines := 0
	for _, r := range batch.Records {
		expected := nonBlankLines(mirrorFiles[r.Path])
		assert.Equal(t, expected, r.LineCount, "line count mismatch for %s", r.Path)
		maxLines = max(maxLines, expected)
	}
	assert.Equal(t, maxLines, batch.MaxLineCount)

	for _, r := range batch.Records {
		if r.Path == "src/Branch.java" {
			// Comments and string literals do not count
			assert.Equal(t, 3, r.ComplexityScore)
			assert.Equal(t, 1.0, r.NormalizedSize)
		}
	}
}

// TestAnalyzeInvalidLocator checks the CLI exit status for unsupported URLs.
func TestAnalyzeInvalidLocator(t *testing.T) {
	out, err := runRepoviz(t, "..", nil, "analyze", "https://gitlab.com/acme/widgets", "--emoji", "no")
	require.Error(t, err)
	assert.Contains(t, out, "invalid locator")
}
