package config

import "time"

// Config is the monitor configuration. Every field has a default; a config
// file and ENVIRO_* environment variables only override what they set.
type Config struct {
	Sensors   SensorsConfig   `mapstructure:"sensors"`
	Display   DisplayConfig   `mapstructure:"display"`
	Backlight BacklightConfig `mapstructure:"backlight"`
	Pages     PagesConfig     `mapstructure:"pages"`
	History   HistoryConfig   `mapstructure:"history"`
	Smoothing SmoothingConfig `mapstructure:"smoothing"`
	Loop      LoopConfig      `mapstructure:"loop"`

	// Thresholds overrides the four warning limits of a variable by name.
	Thresholds map[string][]float64 `mapstructure:"thresholds"`
}

// Sensor drivers.
const (
	SensorsHardware  = "hardware"
	SensorsSimulated = "simulated"
)

// Display drivers.
const (
	DisplayST7735   = "st7735"
	DisplayTerminal = "terminal"
)

// SensorsConfig selects and wires the sensor hardware.
type SensorsConfig struct {
	Driver         string        `mapstructure:"driver"`
	I2CBus         string        `mapstructure:"i2c_bus"`
	SerialPort     string        `mapstructure:"serial_port"`
	SerialBaud     int           `mapstructure:"serial_baud"`
	SerialTimeout  time.Duration `mapstructure:"serial_timeout"`
	CPUTempCommand string        `mapstructure:"cpu_temp_command"`
	GasHeaterPin   string        `mapstructure:"gas_heater_pin"`
	PMSResetPin    string        `mapstructure:"pms_reset_pin"`
}

// DisplayConfig selects and wires the display.
type DisplayConfig struct {
	Driver       string `mapstructure:"driver"`
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	SPIPort      string `mapstructure:"spi_port"`
	SPISpeedHz   int64  `mapstructure:"spi_speed_hz"`
	DCPin        string `mapstructure:"dc_pin"`
	BacklightPin string `mapstructure:"backlight_pin"`
}

// BacklightConfig holds the backlight debounce delays.
type BacklightConfig struct {
	DimDelay time.Duration `mapstructure:"dim_delay"`
	OffDelay time.Duration `mapstructure:"off_delay"`
	OnDelay  time.Duration `mapstructure:"on_delay"`
	DimLevel float64       `mapstructure:"dim_level"`
}

// PagesConfig controls the proximity page switch.
type PagesConfig struct {
	ProximityThreshold float64       `mapstructure:"proximity_threshold"`
	Delay              time.Duration `mapstructure:"delay"`
	LightProximityGate float64       `mapstructure:"light_proximity_gate"`
}

// HistoryConfig sizes the per-variable graph history.
type HistoryConfig struct {
	Length int     `mapstructure:"length"`
	Fill   float64 `mapstructure:"fill"`
}

// SmoothingConfig controls CPU heat compensation.
type SmoothingConfig struct {
	Window int     `mapstructure:"window"`
	Factor float64 `mapstructure:"factor"`
}

// LoopConfig controls main loop pacing.
type LoopConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}
