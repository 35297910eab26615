package monitor

import "image/color"

// Severity grades a reading against its variable's limits.
type Severity int

const (
	DangerouslyLow Severity = iota
	Low
	Normal
	High
	DangerouslyHigh
)

var severityNames = [...]string{"dangerously low", "low", "normal", "high", "dangerously high"}

var palette = [...]color.RGBA{
	{R: 0, G: 0, B: 255, A: 255},
	{R: 0, G: 255, B: 255, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
}

func (s Severity) String() string {
	return severityNames[s]
}

// Color returns the text color used for s on the all-variables page.
func (s Severity) Color() color.RGBA {
	return palette[s]
}

// Classify counts how many limits value strictly exceeds. The scan is
// monotonic, not a band lookup: with limits [-1, -1, 50, 100] any
// non-negative value is already Normal.
func Classify(value float64, limits [4]float64) Severity {
	s := DangerouslyLow
	for _, limit := range limits {
		if value > limit {
			s++
		}
	}
	return s
}
