package monitor

import "time"

const (
	// DefaultProximityThreshold is the proximity count that counts as a tap.
	DefaultProximityThreshold = 1500
	// DefaultPageDelay is the minimum time between two page changes.
	DefaultPageDelay = 500 * time.Millisecond
)

// Pager advances the active page when something comes close to the proximity
// sensor, at most once per delay while the hand stays there.
type Pager struct {
	page      Page
	last      time.Time
	threshold float64
	delay     time.Duration
}

// NewPager starts on the temperature page. The debounce window counts from
// start.
func NewPager(threshold float64, delay time.Duration, start time.Time) *Pager {
	return &Pager{
		page:      PageTemperature,
		last:      start,
		threshold: threshold,
		delay:     delay,
	}
}

// Page returns the active page.
func (p *Pager) Page() Page {
	return p.page
}

// Update feeds one proximity reading taken at now and reports whether the
// page changed.
func (p *Pager) Update(proximity float64, now time.Time) bool {
	if proximity > p.threshold && now.Sub(p.last) > p.delay {
		p.page = p.page.Next()
		p.last = now
		return true
	}
	return false
}
