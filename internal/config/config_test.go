package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, SensorsHardware, cfg.Sensors.Driver)
	assert.Equal(t, "/dev/ttyAMA0", cfg.Sensors.SerialPort)
	assert.Equal(t, 9600, cfg.Sensors.SerialBaud)
	assert.Equal(t, DisplayST7735, cfg.Display.Driver)
	assert.Equal(t, 160, cfg.Display.Width)
	assert.Equal(t, 80, cfg.Display.Height)
	assert.Equal(t, 2*time.Second, cfg.Backlight.DimDelay)
	assert.Equal(t, 4*time.Second, cfg.Backlight.OffDelay)
	assert.Equal(t, 3*time.Second, cfg.Backlight.OnDelay)
	assert.Equal(t, 0.2, cfg.Backlight.DimLevel)
	assert.Equal(t, 1500.0, cfg.Pages.ProximityThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Pages.Delay)
	assert.Equal(t, 160, cfg.History.Length)
	assert.Equal(t, 5, cfg.Smoothing.Window)
	assert.Equal(t, 2.25, cfg.Smoothing.Factor)
	assert.Zero(t, cfg.Loop.Interval)

	require.NoError(t, Validate(cfg))
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
sensors:
  driver: simulated
display:
  driver: terminal
backlight:
  dim_delay: 5s
  dim_level: 0.5
pages:
  delay: 750ms
history:
  length: 40
thresholds:
  pm25: [-1, -1, 12, 35]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SensorsSimulated, cfg.Sensors.Driver)
	assert.Equal(t, DisplayTerminal, cfg.Display.Driver)
	assert.Equal(t, 5*time.Second, cfg.Backlight.DimDelay)
	assert.Equal(t, 4*time.Second, cfg.Backlight.OffDelay, "unset keys keep defaults")
	assert.Equal(t, 0.5, cfg.Backlight.DimLevel)
	assert.Equal(t, 750*time.Millisecond, cfg.Pages.Delay)
	assert.Equal(t, 40, cfg.History.Length)
	assert.Equal(t, []float64{-1, -1, 12, 35}, cfg.Thresholds["pm25"])

	opts := cfg.MonitorOptions()
	assert.Equal(t, [4]float64{-1, -1, 12, 35}, opts.Limits["pm25"])
	assert.Equal(t, 5*time.Second, opts.Backlight.DimDelay)
	assert.Equal(t, 40, opts.HistoryLength)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ENVIRO_DISPLAY_DRIVER", "terminal")
	t.Setenv("ENVIRO_LOOP_INTERVAL", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DisplayTerminal, cfg.Display.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Loop.Interval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("display:\n  driver: hdmi\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.driver")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.yaml")

	original := searchPaths
	defer func() { searchPaths = original }()
	searchPaths = func() []string { return []string{first, second} }

	assert.Empty(t, Find())

	require.NoError(t, os.WriteFile(second, []byte("{}"), 0o644))
	assert.Equal(t, second, Find())

	require.NoError(t, os.WriteFile(first, []byte("{}"), 0o644))
	assert.Equal(t, first, Find())
}
