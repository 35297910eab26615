package enviro

import (
	"math"
	"time"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
)

// Simulated produces slowly varying readings for running the monitor
// without an Enviro+ board. Readings are a pure function of the clock.
type Simulated struct {
	start     time.Time
	now       func() time.Time
	proximity float64
}

var _ monitor.SensorGateway = (*Simulated)(nil)

func NewSimulated(now func() time.Time) *Simulated {
	if now == nil {
		now = time.Now
	}
	return &Simulated{start: now(), now: now}
}

// wave returns mid + amp*sin over a period.
func (s *Simulated) wave(mid, amp float64, period time.Duration) float64 {
	t := s.now().Sub(s.start).Seconds()
	return mid + amp*math.Sin(2*math.Pi*t/period.Seconds())
}

func (s *Simulated) Temperature() (float64, error) {
	return s.wave(24, 4, 10*time.Minute), nil
}

func (s *Simulated) Pressure() (float64, error) {
	return s.wave(1013, 8, 30*time.Minute), nil
}

func (s *Simulated) Humidity() (float64, error) {
	return s.wave(45, 15, 20*time.Minute), nil
}

func (s *Simulated) Lux() (float64, error) {
	return max(s.wave(300, 320, 5*time.Minute), 0), nil
}

func (s *Simulated) Proximity() (float64, error) {
	return s.proximity, nil
}

// SetProximity fixes the proximity reading. A value above the page
// threshold steps through the pages.
func (s *Simulated) SetProximity(v float64) {
	s.proximity = v
}

func (s *Simulated) Gas() (monitor.Gas, error) {
	return monitor.Gas{
		Oxidising: s.wave(20000, 8000, 7*time.Minute),
		Reducing:  s.wave(400000, 150000, 11*time.Minute),
		NH3:       s.wave(80000, 30000, 13*time.Minute),
	}, nil
}

func (s *Simulated) Particulates() (monitor.Particulates, error) {
	pm1 := math.Round(s.wave(8, 6, 3*time.Minute))
	return monitor.Particulates{
		PM1:  pm1,
		PM25: math.Round(pm1 * 1.5),
		PM10: math.Round(pm1 * 2),
	}, nil
}

func (s *Simulated) CPUTemperature() (float64, error) {
	return s.wave(50, 5, 2*time.Minute), nil
}
