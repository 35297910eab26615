package enviro

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

const bme280Addr = 0x76

// BME280 reads temperature, pressure and humidity.
type BME280 struct {
	dev *bmxx80.Dev
}

func NewBME280(bus i2c.Bus) (*BME280, error) {
	dev, err := bmxx80.NewI2C(bus, bme280Addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("bme280: %w", err)
	}
	return &BME280{dev: dev}, nil
}

// Reading is a single BME280 measurement.
type Reading struct {
	Temperature float64 // C
	Pressure    float64 // hPa
	Humidity    float64 // %RH
}

func (b *BME280) Read() (Reading, error) {
	var env physic.Env
	if err := b.dev.Sense(&env); err != nil {
		return Reading{}, fmt.Errorf("bme280: sense: %w", err)
	}
	return envReading(env), nil
}

func envReading(env physic.Env) Reading {
	return Reading{
		Temperature: float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius),
		Pressure:    float64(env.Pressure) / float64(100*physic.Pascal),
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
	}
}

func (b *BME280) Halt() error {
	return b.dev.Halt()
}
