package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	switch cfg.Sensors.Driver {
	case SensorsHardware, SensorsSimulated:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown sensors.driver %q", cfg.Sensors.Driver),
			"Use 'hardware' or 'simulated'")
	}

	switch cfg.Display.Driver {
	case DisplayST7735, DisplayTerminal:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown display.driver %q", cfg.Display.Driver),
			"Use 'st7735' or 'terminal'")
	}

	positive := []struct {
		key string
		ok  bool
	}{
		{"display.width", cfg.Display.Width > 0},
		{"display.height", cfg.Display.Height > 0},
		{"history.length", cfg.History.Length > 0},
		{"smoothing.window", cfg.Smoothing.Window > 0},
		{"smoothing.factor", cfg.Smoothing.Factor > 0},
		{"pages.delay", cfg.Pages.Delay > 0},
		{"pages.proximity_threshold", cfg.Pages.ProximityThreshold > 0},
		{"backlight.dim_delay", cfg.Backlight.DimDelay > 0},
		{"backlight.off_delay", cfg.Backlight.OffDelay > 0},
		{"backlight.on_delay", cfg.Backlight.OnDelay > 0},
		{"sensors.serial_timeout", cfg.Sensors.SerialTimeout > 0},
		{"sensors.serial_baud", cfg.Sensors.SerialBaud > 0},
	}
	for _, p := range positive {
		if !p.ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be greater than zero", p.key),
				"Remove the setting to use the default")
		}
	}

	if cfg.Backlight.DimLevel < 0 || cfg.Backlight.DimLevel > 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("backlight.dim_level %.2f is outside 0..1", cfg.Backlight.DimLevel),
			"0 is off, 1 is full brightness")
	}

	names := make([]string, 0, len(cfg.Thresholds))
	for name := range cfg.Thresholds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validateThresholds(name, cfg.Thresholds[name]); err != nil {
			return err
		}
	}

	return nil
}

func validateThresholds(name string, limits []float64) error {
	if _, ok := monitor.VariableIndex(name); !ok {
		known := make([]string, len(monitor.Variables))
		for i, v := range monitor.Variables {
			known[i] = v.Name
		}
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("thresholds.%s: unknown variable", name),
			"Use one of: "+strings.Join(known, ", "))
	}
	if len(limits) != 4 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("thresholds.%s needs 4 values, got %d", name, len(limits)),
			"List dangerously low, low, high and dangerously high limits, e.g. [4, 18, 28, 35]")
	}
	for i := 1; i < len(limits); i++ {
		if limits[i] < limits[i-1] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("thresholds.%s must not decrease: %v", name, limits),
				"Order the limits from lowest to highest")
		}
	}
	return nil
}
