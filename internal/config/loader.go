package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file name looked up in the working directory.
	ConfigFileName = "enviromonitor.yaml"
	// UserConfigDir is the per-user config directory below $HOME.
	UserConfigDir = ".config/enviromonitor"
	// SystemConfigFile is the system-wide config file.
	SystemConfigFile = "/etc/enviromonitor/config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. ENVIRO_DISPLAY_DRIVER.
	EnvPrefix = "ENVIRO"
)

// searchPaths lists candidate config files in priority order.
var searchPaths = func() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserConfigDir, "config.yaml"))
	}
	return append(paths, SystemConfigFile)
}

// Find returns the first config file that exists, or "" when there is none.
func Find() string {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found: "+path,
					"Check the path is correct")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the first config file found by Find, or defaults plus
// environment when there is none.
func LoadOrDefault() (*Config, error) {
	return Load(Find())
}

// DefaultConfig returns the stock Enviro+ settings.
func DefaultConfig() *Config {
	opts := monitor.DefaultOptions()
	return &Config{
		Sensors: SensorsConfig{
			Driver:         SensorsHardware,
			SerialPort:     "/dev/ttyAMA0",
			SerialBaud:     9600,
			SerialTimeout:  4 * time.Second,
			CPUTempCommand: "vcgencmd",
			GasHeaterPin:   "GPIO24",
			PMSResetPin:    "GPIO27",
		},
		Display: DisplayConfig{
			Driver:       DisplayST7735,
			Width:        opts.Width,
			Height:       opts.Height,
			SPIPort:      "SPI0.1",
			SPISpeedHz:   10000000,
			DCPin:        "GPIO9",
			BacklightPin: "GPIO12",
		},
		Backlight: BacklightConfig{
			DimDelay: opts.Backlight.DimDelay,
			OffDelay: opts.Backlight.OffDelay,
			OnDelay:  opts.Backlight.OnDelay,
			DimLevel: opts.Backlight.DimLevel,
		},
		Pages: PagesConfig{
			ProximityThreshold: opts.ProximityThreshold,
			Delay:              opts.PageDelay,
			LightProximityGate: opts.LightProximityGate,
		},
		History: HistoryConfig{
			Length: opts.HistoryLength,
			Fill:   opts.HistoryFill,
		},
		Smoothing: SmoothingConfig{
			Window: opts.SmoothingWindow,
			Factor: opts.SmoothingFactor,
		},
		Thresholds: map[string][]float64{},
	}
}

// setDefaults registers every key with viper so environment overrides are
// picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("sensors.driver", d.Sensors.Driver)
	v.SetDefault("sensors.i2c_bus", d.Sensors.I2CBus)
	v.SetDefault("sensors.serial_port", d.Sensors.SerialPort)
	v.SetDefault("sensors.serial_baud", d.Sensors.SerialBaud)
	v.SetDefault("sensors.serial_timeout", d.Sensors.SerialTimeout)
	v.SetDefault("sensors.cpu_temp_command", d.Sensors.CPUTempCommand)
	v.SetDefault("sensors.gas_heater_pin", d.Sensors.GasHeaterPin)
	v.SetDefault("sensors.pms_reset_pin", d.Sensors.PMSResetPin)
	v.SetDefault("display.driver", d.Display.Driver)
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.spi_port", d.Display.SPIPort)
	v.SetDefault("display.spi_speed_hz", d.Display.SPISpeedHz)
	v.SetDefault("display.dc_pin", d.Display.DCPin)
	v.SetDefault("display.backlight_pin", d.Display.BacklightPin)
	v.SetDefault("backlight.dim_delay", d.Backlight.DimDelay)
	v.SetDefault("backlight.off_delay", d.Backlight.OffDelay)
	v.SetDefault("backlight.on_delay", d.Backlight.OnDelay)
	v.SetDefault("backlight.dim_level", d.Backlight.DimLevel)
	v.SetDefault("pages.proximity_threshold", d.Pages.ProximityThreshold)
	v.SetDefault("pages.delay", d.Pages.Delay)
	v.SetDefault("pages.light_proximity_gate", d.Pages.LightProximityGate)
	v.SetDefault("history.length", d.History.Length)
	v.SetDefault("history.fill", d.History.Fill)
	v.SetDefault("smoothing.window", d.Smoothing.Window)
	v.SetDefault("smoothing.factor", d.Smoothing.Factor)
	v.SetDefault("loop.interval", d.Loop.Interval)
}

// MonitorOptions converts the config into monitor options. Logger and clock
// are left for the caller.
func (c *Config) MonitorOptions() monitor.Options {
	limits := make(map[string][4]float64, len(c.Thresholds))
	for name, values := range c.Thresholds {
		var l [4]float64
		copy(l[:], values)
		limits[name] = l
	}
	return monitor.Options{
		Width:              c.Display.Width,
		Height:             c.Display.Height,
		HistoryLength:      c.History.Length,
		HistoryFill:        c.History.Fill,
		SmoothingWindow:    c.Smoothing.Window,
		SmoothingFactor:    c.Smoothing.Factor,
		ProximityThreshold: c.Pages.ProximityThreshold,
		PageDelay:          c.Pages.Delay,
		LightProximityGate: c.Pages.LightProximityGate,
		Backlight: monitor.BacklightConfig{
			DimDelay: c.Backlight.DimDelay,
			OffDelay: c.Backlight.OffDelay,
			OnDelay:  c.Backlight.OnDelay,
			DimLevel: c.Backlight.DimLevel,
		},
		Limits:   limits,
		Interval: c.Loop.Interval,
	}
}
