package monitor

// DefaultHistoryFill is the placeholder value history slots start with.
const DefaultHistoryFill = 1.0

// History keeps the last N recorded values of every variable in ring buffers.
// Slots start at a fill value and take part in scaling like real samples until
// they are overwritten.
type History struct {
	length int
	series [][]float64
	heads  []int
}

// NewHistory creates a history of length slots for each of n variables.
func NewHistory(n, length int, fill float64) *History {
	if length <= 0 {
		length = 1
	}
	h := &History{
		length: length,
		series: make([][]float64, n),
		heads:  make([]int, n),
	}
	for i := range h.series {
		s := make([]float64, length)
		for j := range s {
			s[j] = fill
		}
		h.series[i] = s
	}
	return h
}

// Len returns the number of slots per variable.
func (h *History) Len() int {
	return h.length
}

// Record appends value to variable v, dropping its oldest value.
func (h *History) Record(v int, value float64) {
	h.series[v][h.heads[v]] = value
	h.heads[v] = (h.heads[v] + 1) % h.length
}

// Latest returns the most recently recorded value of v.
func (h *History) Latest(v int) float64 {
	return h.series[v][(h.heads[v]-1+h.length)%h.length]
}

// Values returns the values of v from oldest to newest.
func (h *History) Values(v int) []float64 {
	out := make([]float64, h.length)
	for i := range out {
		out[i] = h.series[v][(h.heads[v]+i)%h.length]
	}
	return out
}

// Normalized returns the values of v scaled by Normalize.
func (h *History) Normalized(v int) []float64 {
	return Normalize(h.Values(v))
}

// Normalize maps each value to (v-min+1)/(max-min+1). The +1 keeps the
// denominator positive, so a flat series maps to all ones.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - lo + 1) / (hi - lo + 1)
	}
	return out
}
