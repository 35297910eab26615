package monitor

import (
	"image"

	apperrors "github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
)

// ErrSensorTimeout reports a read that did not complete in time. The tick's
// update for that sensor is skipped.
var ErrSensorTimeout = apperrors.New(apperrors.ErrSensor, "Sensor read timed out", "")

// Gas holds the MICS6814 channel resistances in ohms.
type Gas struct {
	Oxidising float64
	Reducing  float64
	NH3       float64
}

// Particulates holds PMS5003 mass concentrations in ug/m3.
type Particulates struct {
	PM1  float64
	PM25 float64
	PM10 float64
}

// SensorGateway reads the physical sensors. Every call blocks until the
// hardware answers.
type SensorGateway interface {
	Temperature() (float64, error)
	Pressure() (float64, error)
	Humidity() (float64, error)
	Lux() (float64, error)
	Proximity() (float64, error)
	Gas() (Gas, error)
	// Particulates may fail with an error wrapping ErrSensorTimeout.
	Particulates() (Particulates, error)
	CPUTemperature() (float64, error)
}

// DisplaySink is the physical display.
type DisplaySink interface {
	BacklightSetter
	// PushFrame replaces the whole screen with img.
	PushFrame(img image.Image) error
}
