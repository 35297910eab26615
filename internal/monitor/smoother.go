package monitor

// DefaultSmoothingWindow is the number of CPU temperature samples averaged.
const DefaultSmoothingWindow = 5

// DefaultCompensationFactor models how strongly CPU heat leaks into the
// temperature sensor.
const DefaultCompensationFactor = 2.25

// Smoother keeps a rolling window of raw CPU temperatures and returns their
// mean. The window starts full of zeros, so the mean only reaches a constant
// input after the window has been filled once.
type Smoother struct {
	window []float64
	next   int
}

// NewSmoother creates a smoother over size samples.
func NewSmoother(size int) *Smoother {
	if size <= 0 {
		size = DefaultSmoothingWindow
	}
	return &Smoother{window: make([]float64, size)}
}

// Observe replaces the oldest sample with raw and returns the window mean.
func (s *Smoother) Observe(raw float64) float64 {
	s.window[s.next] = raw
	s.next = (s.next + 1) % len(s.window)

	sum := 0.0
	for _, v := range s.window {
		sum += v
	}
	return sum / float64(len(s.window))
}

// Compensate corrects a raw sensor temperature for heat from the CPU.
func Compensate(raw, avgCPU, factor float64) float64 {
	return raw - (avgCPU-raw)/factor
}
