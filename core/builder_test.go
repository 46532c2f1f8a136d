package core

import (
	"testing"

	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/assert"
)

const sampleJava = `package demo;

/**
 * Handles widgets. if while for switch
 */
public class Widget {
    // if this were real
    private String label = "for each widget";

    public int size(int n) {
        if (n > 0) {
            for (int i = 0; i < n; i++) {
                while (busy()) { }
            }
        }
        return n;
    }
}
`

func TestFileRecordBuilder(t *testing.T) {
	rec := analyzeContent("src/demo/Widget.java", sampleJava, schema.DefaultThresholds())

	assert.Equal(t, "Widget.java", rec.Name)
	assert.Equal(t, "src/demo/Widget.java", rec.Path)
	assert.Equal(t, 16, rec.LineCount)
	assert.Equal(t, 3, rec.ComplexityScore)
	assert.Equal(t, schema.LowCategory, rec.ColorCategory)
	assert.Equal(t, 0.0, rec.NormalizedSize)
	assert.Equal(t, len(sampleJava), rec.SizeBytes)
}

func TestFileRecordBuilderSteps(t *testing.T) {
	th := schema.Thresholds{Yellow: 0, Red: 1}

	// Complexity without an explicit strip step still strips first
	rec := NewFileRecordBuilder("A.java", `"if" if if`, th).CalculateComplexity().Classify().Build()
	assert.Equal(t, 2, rec.ComplexityScore)
	assert.Equal(t, schema.HighCategory, rec.ColorCategory)
	assert.Equal(t, 0, rec.LineCount)

	rec = NewFileRecordBuilder("B.java", "", th).CountLines().CalculateComplexity().Classify().Build()
	assert.Equal(t, 0, rec.ComplexityScore)
	assert.Equal(t, schema.LowCategory, rec.ColorCategory)
	assert.Equal(t, "B.java", rec.Name)
}

func TestFinalizeRecords(t *testing.T) {
	records := []schema.FileRecord{
		{Name: "A.java", LineCount: 40},
		{Name: "B.java", LineCount: 100},
		{Name: "C.java", LineCount: 0},
	}
	out := finalizeRecords(records)

	assert.Equal(t, 0.4, out[0].NormalizedSize)
	assert.Equal(t, 1.0, out[1].NormalizedSize)
	assert.Equal(t, 0.0, out[2].NormalizedSize)
	// Input is left provisional
	assert.Equal(t, 0.0, records[0].NormalizedSize)

	allEmpty := finalizeRecords([]schema.FileRecord{{LineCount: 0}, {LineCount: 0}})
	for _, r := range allEmpty {
		assert.Equal(t, 0.0, r.NormalizedSize)
	}
	assert.Empty(t, finalizeRecords(nil))
}
