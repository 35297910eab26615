package enviro

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

const (
	ads1015Addr = 0x49

	// ADS1015 registers
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsConfigOS      uint16 = 0x8000
	adsMuxAIN0       uint16 = 0x4000 // AIN0 against GND
	adsMuxInc        uint16 = 0x1000 // next channel
	adsPGA4096       uint16 = 0x0200
	adsModeSingle    uint16 = 0x0100
	adsRate1600      uint16 = 0x0080
	adsCompDisable   uint16 = 0x0003
	adsFullScaleVolt        = 4.096

	// MICS6814 load resistor and supply
	micsLoadOhms    = 56000.0
	micsSupplyVolts = 3.3

	adsConversionTimeout = 10 * time.Millisecond
)

// GasSensor reads the three MICS6814 channels through the ADS1015 ADC.
type GasSensor struct {
	dev    i2c.Dev
	heater gpio.PinOut
}

// NewGasSensor switches the heater on (heater may be nil when it is wired
// permanently) and returns a sensor reading the ADC on bus.
func NewGasSensor(bus i2c.Bus, heater gpio.PinOut) (*GasSensor, error) {
	g := &GasSensor{dev: i2c.Dev{Bus: bus, Addr: ads1015Addr}, heater: heater}
	if heater != nil {
		if err := heater.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("mics6814: heater on: %w", err)
		}
	}
	if _, err := g.readRegister(adsRegConfig); err != nil {
		return nil, fmt.Errorf("ads1015: not responding: %w", err)
	}
	return g, nil
}

// Read returns the resistance of each channel in ohms.
func (g *GasSensor) Read() (monitor.Gas, error) {
	var r [3]float64
	for ch := range r {
		v, err := g.voltage(uint8(ch))
		if err != nil {
			return monitor.Gas{}, err
		}
		r[ch] = micsResistance(v)
	}
	return monitor.Gas{Oxidising: r[0], Reducing: r[1], NH3: r[2]}, nil
}

// Halt switches the heater off.
func (g *GasSensor) Halt() error {
	if g.heater == nil {
		return nil
	}
	return g.heater.Out(gpio.Low)
}

// voltage runs a single-shot conversion on channel.
func (g *GasSensor) voltage(channel uint8) (float64, error) {
	config := adsConfigOS | (adsMuxAIN0 + adsMuxInc*uint16(channel)) |
		adsPGA4096 | adsModeSingle | adsRate1600 | adsCompDisable
	if err := g.writeRegister(adsRegConfig, config); err != nil {
		return 0, fmt.Errorf("ads1015: start conversion: %w", err)
	}

	for start := time.Now(); ; {
		status, err := g.readRegister(adsRegConfig)
		if err != nil {
			return 0, fmt.Errorf("ads1015: read status: %w", err)
		}
		if status&adsConfigOS != 0 {
			break
		}
		if time.Since(start) > adsConversionTimeout {
			return 0, fmt.Errorf("ads1015: channel %d: %w", channel, monitor.ErrSensorTimeout)
		}
		time.Sleep(time.Millisecond)
	}

	raw, err := g.readRegister(adsRegConversion)
	if err != nil {
		return 0, fmt.Errorf("ads1015: read conversion: %w", err)
	}
	// 12-bit result, left aligned
	counts := int16(raw) >> 4
	return float64(counts) * adsFullScaleVolt / 2048, nil
}

func (g *GasSensor) readRegister(reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := g.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (g *GasSensor) writeRegister(reg byte, value uint16) error {
	w := []byte{reg, 0, 0}
	binary.BigEndian.PutUint16(w[1:], value)
	return g.dev.Tx(w, nil)
}

// micsResistance converts a divider voltage to sensor resistance. A reading
// at or above the supply has no finite resistance and reads as 0.
func micsResistance(volts float64) float64 {
	if volts >= micsSupplyVolts {
		return 0
	}
	return volts * micsLoadOhms / (micsSupplyVolts - volts)
}
