package algo

import (
	"image/color"
	"testing"

	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	th := schema.DefaultThresholds()
	tests := []struct {
		score    int
		expected schema.ColorCategory
	}{
		{0, schema.LowCategory},
		{5, schema.LowCategory},
		{6, schema.MediumCategory},
		{10, schema.MediumCategory},
		{11, schema.HighCategory},
		{500, schema.HighCategory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.score, th), "score %d", tt.score)
	}
}

func TestClassifyAllThresholds(t *testing.T) {
	for yellow := 0; yellow < 8; yellow++ {
		for red := yellow + 1; red < 12; red++ {
			th := schema.Thresholds{Yellow: yellow, Red: red}
			for s := 0; s < 15; s++ {
				got := Classify(s, th)
				switch {
				case s > red:
					assert.Equal(t, schema.HighCategory, got)
				case s > yellow:
					assert.Equal(t, schema.MediumCategory, got)
				default:
					assert.Equal(t, schema.LowCategory, got)
				}
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(10, 0))
	assert.Equal(t, 0.0, Normalize(10, -3))
	assert.Equal(t, 0.4, Normalize(40, 100))
	assert.Equal(t, 1.0, Normalize(100, 100))
	assert.Equal(t, 1.0, Normalize(150, 100))
	assert.Equal(t, 0.0, Normalize(-5, 100))
}

func TestNormalizeMonotonic(t *testing.T) {
	for _, maxLines := range []int{1, 7, 100} {
		prev := -1.0
		for lines := 0; lines <= maxLines*2; lines++ {
			v := Normalize(lines, maxLines)
			assert.GreaterOrEqual(t, v, prev)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			prev = v
		}
	}
}

func TestAlphaByte(t *testing.T) {
	assert.Equal(t, uint8(0), AlphaByte(0))
	assert.Equal(t, uint8(102), AlphaByte(0.4))
	assert.Equal(t, uint8(255), AlphaByte(1))
	assert.Equal(t, uint8(255), AlphaByte(3))
	assert.Equal(t, uint8(0), AlphaByte(-1))
}

func TestRGBAndSwatch(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, RGB(schema.LowCategory))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, RGB(schema.MediumCategory))
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, RGB(schema.HighCategory))

	rec := schema.FileRecord{ColorCategory: schema.HighCategory, NormalizedSize: 1}
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 0, A: 255}, Swatch(rec))
	assert.Equal(t, "#ff0000ff", HexColor(rec))

	rec = schema.FileRecord{ColorCategory: schema.LowCategory, NormalizedSize: 0.4}
	assert.Equal(t, "#00ff0066", HexColor(rec))
}
