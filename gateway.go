package enviro

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// HardwareOpts wires the Enviro+ sensors.
type HardwareOpts struct {
	I2CBus         string
	SerialPort     string
	SerialBaud     int
	SerialTimeout  time.Duration
	CPUTempCommand string
	GasHeaterPin   string
	PMSResetPin    string
}

// Hardware reads the sensors on an Enviro+ board.
type Hardware struct {
	bus   i2c.BusCloser
	env   *BME280
	light *LTR559
	gas   *GasSensor
	pms   *PMS5003
	cpu   *CPUThermometer
}

var _ monitor.SensorGateway = (*Hardware)(nil)

const hardwareSuggestion = "Check the Enviro+ is seated and I2C and the serial port are enabled in raspi-config"

// OpenHardware initialises every sensor. All devices opened so far are
// released on failure.
func OpenHardware(opts HardwareOpts) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, apperrors.Wrap(err, "Failed to initialise host drivers", hardwareSuggestion)
	}

	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to open I2C bus", hardwareSuggestion)
	}
	h := &Hardware{bus: bus, cpu: NewCPUThermometer(opts.CPUTempCommand)}

	fail := func(err error, msg string) (*Hardware, error) {
		h.Close()
		return nil, apperrors.Wrap(err, msg, hardwareSuggestion)
	}

	if h.env, err = NewBME280(bus); err != nil {
		return fail(err, "Failed to initialise BME280")
	}
	if h.light, err = NewLTR559(bus); err != nil {
		return fail(err, "Failed to initialise LTR559")
	}
	heater, err := outputPin(opts.GasHeaterPin)
	if err != nil {
		return fail(err, "Failed to find gas heater pin")
	}
	if h.gas, err = NewGasSensor(bus, heater); err != nil {
		return fail(err, "Failed to initialise gas sensor")
	}
	if h.pms, err = OpenPMS5003(opts.SerialPort, opts.SerialBaud, opts.SerialTimeout); err != nil {
		return fail(err, "Failed to open PMS5003")
	}
	reset, err := outputPin(opts.PMSResetPin)
	if err != nil {
		return fail(err, "Failed to find PMS5003 reset pin")
	}
	if reset != nil {
		h.pms.SetResetPin(reset)
		if err := h.pms.Reset(); err != nil {
			return fail(err, "Failed to reset PMS5003")
		}
	}
	return h, nil
}

// outputPin looks up a pin by name. An empty name is no pin.
func outputPin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func (h *Hardware) Temperature() (float64, error) {
	r, err := h.env.Read()
	return r.Temperature, err
}

func (h *Hardware) Pressure() (float64, error) {
	r, err := h.env.Read()
	return r.Pressure, err
}

func (h *Hardware) Humidity() (float64, error) {
	r, err := h.env.Read()
	return r.Humidity, err
}

func (h *Hardware) Lux() (float64, error) {
	return h.light.Lux()
}

func (h *Hardware) Proximity() (float64, error) {
	return h.light.Proximity()
}

func (h *Hardware) Gas() (monitor.Gas, error) {
	return h.gas.Read()
}

func (h *Hardware) Particulates() (monitor.Particulates, error) {
	return h.pms.Read()
}

func (h *Hardware) CPUTemperature() (float64, error) {
	return h.cpu.Read()
}

// Close stops the sensors and releases the bus and serial port.
func (h *Hardware) Close() error {
	var errs []error
	if h.env != nil {
		errs = append(errs, h.env.Halt())
	}
	if h.gas != nil {
		errs = append(errs, h.gas.Halt())
	}
	if h.pms != nil {
		errs = append(errs, h.pms.Close())
	}
	if h.bus != nil {
		errs = append(errs, h.bus.Close())
	}
	return errors.Join(errs...)
}
