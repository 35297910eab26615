package monitor

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	temperature := [4]float64{4, 18, 28, 35}
	light := [4]float64{-1, -1, 30000, 100000}

	tests := []struct {
		name   string
		value  float64
		limits [4]float64
		want   Severity
	}{
		{"cold", 2, temperature, DangerouslyLow},
		{"on a limit does not exceed it", 18, temperature, Low},
		{"comfortable", 20, temperature, Normal},
		{"warm", 30, temperature, High},
		{"hot", 40, temperature, DangerouslyHigh},
		{"dark room folds low bands", 0, light, Normal},
		{"bright", 50000, light, High},
		{"negative reading under sentinel", -5, light, DangerouslyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.limits))
		})
	}
}

func TestClassifyCountsExceededLimits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var limits [4]float64
		prev := rng.Float64()*100 - 50
		for j := range limits {
			prev += rng.Float64() * 20
			limits[j] = prev
		}
		v := rng.Float64()*200 - 100

		count := 0
		for _, l := range limits {
			if v > l {
				count++
			}
		}
		assert.Equal(t, Severity(count), Classify(v, limits))
	}
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 255, A: 255}, DangerouslyLow.Color())
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, Normal.Color())
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, DangerouslyHigh.Color())
	assert.Equal(t, "dangerously high", DangerouslyHigh.String())
}
