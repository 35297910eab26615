package enviro

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

const (
	ltr559Addr = 0x23

	// Registers
	ltrALSControl  = 0x80
	ltrPSControl   = 0x81
	ltrPSLED       = 0x82
	ltrPSNPulses   = 0x83
	ltrPSMeasRate  = 0x84
	ltrALSMeasRate = 0x85
	ltrPartID      = 0x86
	ltrALSData     = 0x88
	ltrPSData      = 0x8D

	ltrPartNumber = 0x09

	// ALS gain 4x, 50ms integration
	ltrALSGain        = 4.0
	ltrIntegrationMs  = 50.0
	ltrALSControlInit = 0x02<<2 | 0x01
	ltrALSMeasInit    = 0x01 << 3
)

// ltr559Setup is written in order after the part id check.
var ltr559Setup = [][2]byte{
	{ltrALSControl, ltrALSControlInit},
	{ltrPSControl, 0x03},       // active, saturation indicator off
	{ltrPSLED, 0x03<<3 | 0x03}, // 30kHz, 100% duty, 50mA
	{ltrPSNPulses, 0x01},
	{ltrPSMeasRate, 0x00},
	{ltrALSMeasRate, ltrALSMeasInit},
}

// LTR559 is the Enviro+ ambient light and proximity sensor.
type LTR559 struct {
	dev i2c.Dev
}

// NewLTR559 checks the part id on bus and starts continuous light and
// proximity measurement.
func NewLTR559(bus i2c.Bus) (*LTR559, error) {
	l := &LTR559{dev: i2c.Dev{Bus: bus, Addr: ltr559Addr}}

	id, err := l.readByte(ltrPartID)
	if err != nil {
		return nil, fmt.Errorf("ltr559: read part id: %w", err)
	}
	if id>>4 != ltrPartNumber {
		return nil, fmt.Errorf("ltr559: unexpected part id: %#x", id)
	}

	for _, w := range ltr559Setup {
		if err := l.dev.Tx(w[:], nil); err != nil {
			return nil, fmt.Errorf("ltr559: write register %#x: %w", w[0], err)
		}
	}
	return l, nil
}

// Lux returns the ambient light level.
func (l *LTR559) Lux() (float64, error) {
	buf := make([]byte, 4)
	if err := l.dev.Tx([]byte{ltrALSData}, buf); err != nil {
		return 0, fmt.Errorf("ltr559: read light: %w", err)
	}
	ch1 := binary.LittleEndian.Uint16(buf[0:2])
	ch0 := binary.LittleEndian.Uint16(buf[2:4])
	return ltr559Lux(ch0, ch1, ltrALSGain, ltrIntegrationMs), nil
}

// Proximity returns the raw 11-bit proximity count; larger is closer.
func (l *LTR559) Proximity() (float64, error) {
	buf := make([]byte, 2)
	if err := l.dev.Tx([]byte{ltrPSData}, buf); err != nil {
		return 0, fmt.Errorf("ltr559: read proximity: %w", err)
	}
	return float64(uint16(buf[0]) | uint16(buf[1]&0x07)<<8), nil
}

func (l *LTR559) readByte(reg byte) (byte, error) {
	buf := make([]byte, 1)
	if err := l.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

var (
	ltrCh0Coeff = [4]float64{17743, 42785, 5926, 0}
	ltrCh1Coeff = [4]float64{-11059, 19548, -1185, 0}
)

// ltr559Lux converts the two ALS channel counts to lux. The ratio of the
// infrared channel picks the coefficient pair; a ratio of 85% or more reads
// as dark.
func ltr559Lux(ch0, ch1 uint16, gain, integrationMs float64) float64 {
	ratio := 101.0
	if total := float64(ch0) + float64(ch1); total > 0 {
		ratio = float64(ch1) * 100 / total
	}

	idx := 3
	switch {
	case ratio < 45:
		idx = 0
	case ratio < 64:
		idx = 1
	case ratio < 85:
		idx = 2
	}

	lux := float64(ch0)*ltrCh0Coeff[idx] - float64(ch1)*ltrCh1Coeff[idx]
	lux /= integrationMs / 100
	lux /= gain
	return lux / 10000
}
