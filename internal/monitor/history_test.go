package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordDropsOldest(t *testing.T) {
	h := NewHistory(2, 3, 0)

	for _, v := range []float64{1, 2, 3, 4} {
		h.Record(1, v)
	}

	assert.Equal(t, []float64{2, 3, 4}, h.Values(1))
	assert.Equal(t, 4.0, h.Latest(1))
	assert.Equal(t, []float64{0, 0, 0}, h.Values(0), "other variables are untouched")
	assert.Equal(t, 3, h.Len())
}

func TestHistoryValuesIsACopy(t *testing.T) {
	h := NewHistory(1, 2, 5)
	v := h.Values(0)
	v[0] = 99

	assert.Equal(t, []float64{5, 5}, h.Values(0))
}

// Slots not yet written hold the fill value and are scaled together with
// real readings. Early graphs are skewed towards the placeholder; this is
// kept on purpose rather than seeding the buffer with the first reading.
func TestHistoryPlaceholderSlotsTakePartInScaling(t *testing.T) {
	h := NewHistory(1, 5, DefaultHistoryFill)
	h.Record(0, 10)

	require.Equal(t, []float64{1, 1, 1, 1, 10}, h.Values(0))
	got := h.Normalized(0)
	for _, v := range got[:4] {
		assert.InDelta(t, 0.1, v, 1e-9)
	}
	assert.InDelta(t, 1.0, got[4], 1e-9)
}

func TestNormalizeFlatSeries(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, Normalize([]float64{10, 10, 10, 10, 10}))
}

func TestNormalizeShiftInvariant(t *testing.T) {
	base := []float64{3, 7, 5, 11, 4}
	shifted := make([]float64, len(base))
	for i, v := range base {
		shifted[i] = v + 1000
	}

	a, b := Normalize(base), Normalize(shifted)
	for i := range a {
		assert.InDelta(t, a[i], b[i], 1e-9)
	}
}

func TestNormalizeRange(t *testing.T) {
	got := Normalize([]float64{0, 9, 4})

	assert.InDelta(t, 0.1, got[0], 1e-9)
	assert.InDelta(t, 1.0, got[1], 1e-9)
	assert.InDelta(t, 0.5, got[2], 1e-9)
	for _, v := range got {
		assert.Greater(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}
