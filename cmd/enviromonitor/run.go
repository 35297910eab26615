package main

import (
	"context"
	"io"

	enviro "github.com/And-Hobbes/EnviroHardwareCode"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/config"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/logger"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
)

type sensors interface {
	monitor.SensorGateway
	Close() error
}

type display interface {
	monitor.DisplaySink
	Close() error
}

// run wires the configured sensors and display into the monitor and runs it
// until ctx is cancelled.
func run(ctx context.Context, stdout, stderr io.Writer) error {
	log := logger.New(stderr)
	logger.SetDefault(log)

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	gw, err := openSensors(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Warn("Failed to close sensors: %v", err)
		}
	}()

	sink, err := openDisplay(cfg, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn("Failed to close display: %v", err)
		}
	}()

	opts := cfg.MonitorOptions()
	opts.Logger = log
	app, err := monitor.New(gw, sink, opts)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func openSensors(cfg *config.Config) (sensors, error) {
	if cfg.Sensors.Driver == config.SensorsSimulated {
		return simulated{enviro.NewSimulated(nil)}, nil
	}
	return enviro.OpenHardware(enviro.HardwareOpts{
		I2CBus:         cfg.Sensors.I2CBus,
		SerialPort:     cfg.Sensors.SerialPort,
		SerialBaud:     cfg.Sensors.SerialBaud,
		SerialTimeout:  cfg.Sensors.SerialTimeout,
		CPUTempCommand: cfg.Sensors.CPUTempCommand,
		GasHeaterPin:   cfg.Sensors.GasHeaterPin,
		PMSResetPin:    cfg.Sensors.PMSResetPin,
	})
}

func openDisplay(cfg *config.Config, stdout io.Writer) (display, error) {
	if cfg.Display.Driver == config.DisplayTerminal {
		return enviro.NewTerminal(stdout), nil
	}
	opts := enviro.DefaultST7735Opts
	opts.Width, opts.Height = cfg.Display.Width, cfg.Display.Height
	d, err := enviro.OpenST7735(cfg.Display.SPIPort, cfg.Display.DCPin, cfg.Display.BacklightPin, cfg.Display.SPISpeedHz, &opts)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDisplay,
			"Failed to open the LCD",
			"Check SPI is enabled in raspi-config, or set display.driver to terminal")
	}
	return d, nil
}

// simulated adds a no-op Close to the simulated sensors.
type simulated struct {
	*enviro.Simulated
}

func (simulated) Close() error { return nil }
