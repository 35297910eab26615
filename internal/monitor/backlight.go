package monitor

import (
	"fmt"
	"time"
)

// BacklightState is the display power state.
type BacklightState int

const (
	BacklightOn BacklightState = iota
	BacklightDimmed
	BacklightOff
)

func (s BacklightState) String() string {
	switch s {
	case BacklightOn:
		return "on"
	case BacklightDimmed:
		return "dimmed"
	case BacklightOff:
		return "off"
	}
	return fmt.Sprintf("BacklightState(%d)", int(s))
}

// BacklightConfig holds the debounce delays of the backlight controller.
// OffDelay counts from the same dark onset as DimDelay, so the display goes
// off after DimDelay+OffDelay of darkness.
type BacklightConfig struct {
	DimDelay time.Duration
	OffDelay time.Duration
	OnDelay  time.Duration
	DimLevel float64
}

// DefaultBacklightConfig returns the stock delays: dim after 2s of darkness,
// off 4s later, back on after 3s of light.
func DefaultBacklightConfig() BacklightConfig {
	return BacklightConfig{
		DimDelay: 2 * time.Second,
		OffDelay: 4 * time.Second,
		OnDelay:  3 * time.Second,
		DimLevel: 0.2,
	}
}

// BacklightSetter receives backlight level commands in [0, 1].
type BacklightSetter interface {
	SetBacklight(level float64) error
}

// Backlight dims and powers off the display while the room is dark and turns
// it back on once light returns. It issues exactly one command per transition.
type Backlight struct {
	cfg        BacklightConfig
	sink       BacklightSetter
	state      BacklightState
	darkSince  time.Time
	lightSince time.Time
}

// NewBacklight creates a controller in the On state. No command is sent.
func NewBacklight(sink BacklightSetter, cfg BacklightConfig) *Backlight {
	return &Backlight{cfg: cfg, sink: sink, state: BacklightOn}
}

// State returns the current state.
func (b *Backlight) State() BacklightState {
	return b.state
}

// Update feeds one ambient light reading taken at now.
func (b *Backlight) Update(lux float64, now time.Time) error {
	if lux <= 0 {
		b.lightSince = time.Time{}
		switch b.state {
		case BacklightOn:
			if b.darkSince.IsZero() {
				b.darkSince = now
			} else if now.Sub(b.darkSince) > b.cfg.DimDelay {
				return b.transition(BacklightDimmed, b.cfg.DimLevel)
			}
		case BacklightDimmed:
			if now.Sub(b.darkSince) > b.cfg.DimDelay+b.cfg.OffDelay {
				b.darkSince = time.Time{}
				return b.transition(BacklightOff, 0)
			}
		}
		return nil
	}

	switch b.state {
	case BacklightOff:
		if b.lightSince.IsZero() {
			b.lightSince = now
		} else if now.Sub(b.lightSince) > b.cfg.OnDelay {
			b.lightSince = time.Time{}
			return b.transition(BacklightOn, 1)
		}
	case BacklightDimmed:
		b.darkSince = time.Time{}
		return b.transition(BacklightOn, 1)
	default:
		b.darkSince = time.Time{}
	}
	return nil
}

func (b *Backlight) transition(to BacklightState, level float64) error {
	b.state = to
	if err := b.sink.SetBacklight(level); err != nil {
		return fmt.Errorf("set backlight %s: %w", to, err)
	}
	return nil
}
