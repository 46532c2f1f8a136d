package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{2, 0.4, "0.40"},
		{1, 0.25, "0.2"},
		{4, 1.0 / 3.0, "0.3333"},
		{2, 1, "1.00"},
	}
	for _, tt := range tests {
		fmtFloat, intFmt := createFormatters(tt.precision)
		assert.Equal(t, tt.expected, fmtFloat(tt.value))
		assert.Equal(t, "%d", intFmt)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"lines": 3}))
	assert.Equal(t, "{\n  \"lines\": 3\n}\n", buf.String())

	// Comparison operators stay readable
	buf.Reset()
	require.NoError(t, writeJSON(&buf, map[string]string{"range": "5 < score <= 10"}))
	assert.Equal(t, "{\n  \"range\": \"5 < score <= 10\"\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"path", "note"}, func(w *csv.Writer) error {
		return w.Write([]string{"src/A.java", "has, comma"})
	})
	require.NoError(t, err)
	assert.Equal(t, "path,note\nsrc/A.java,\"has, comma\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, writeWithFile(target, func(w io.Writer) error {
		_, err := w.Write([]byte("content"))
		return err
	}, "Wrote text"))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	err = writeWithFile(target, func(io.Writer) error { return assert.AnError }, "Wrote text")
	assert.Equal(t, assert.AnError, err)

	err = writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}

func TestHeaderLineAndLabels(t *testing.T) {
	assert.Equal(t, "🎨 Legend", headerLine(&contract.Config{UseEmojis: true}, "🎨", "Legend"))
	assert.Equal(t, "Legend", headerLine(&contract.Config{}, "🎨", "Legend"))
	assert.Equal(t, "Medium", categoryLabel(&contract.Config{}, schema.MediumCategory))
	assert.Contains(t, categoryLabel(&contract.Config{UseColors: true}, schema.HighCategory), "High")
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      contract.Config
		expected int
	}{
		{"narrow clamps to minimum", contract.Config{Width: 40}, 15},
		{"wide clamps to maximum", contract.Config{Width: 300}, 70},
		{"regular", contract.Config{Width: 100}, 45},
		{"detail takes space", contract.Config{Width: 100, Detail: true}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(&tt.cfg))
		})
	}
}
