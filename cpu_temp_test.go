package enviro

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVcgencmdTemp(t *testing.T) {
	tests := []struct {
		out     string
		want    float64
		wantErr bool
	}{
		{"temp=48.3'C\n", 48.3, false},
		{"temp=61.0'C", 61, false},
		{"temp=?'C", 0, true},
		{"VCHI initialization failed", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			got, err := parseVcgencmdTemp(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCPUThermometerFallsBackToThermalZone(t *testing.T) {
	c := NewCPUThermometer("")
	assert.Equal(t, DefaultCPUTempCommand, c.Command)

	c.run = func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}
	c.readFile = func(name string) ([]byte, error) {
		assert.Equal(t, DefaultThermalZone, name)
		return []byte("52312\n"), nil
	}

	got, err := c.Read()
	require.NoError(t, err)
	assert.InDelta(t, 52.312, got, 1e-9)
}

func TestCPUThermometerPrefersCommand(t *testing.T) {
	c := NewCPUThermometer("vcgencmd")
	c.run = func(name string, args ...string) ([]byte, error) {
		assert.Equal(t, "vcgencmd", name)
		assert.Equal(t, []string{"measure_temp"}, args)
		return []byte("temp=47.2'C\n"), nil
	}
	c.readFile = func(name string) ([]byte, error) {
		t.Fatal("thermal zone read with a working command")
		return nil, nil
	}

	got, err := c.Read()
	require.NoError(t, err)
	assert.InDelta(t, 47.2, got, 1e-9)
}

func TestCPUThermometerBothSourcesFail(t *testing.T) {
	c := NewCPUThermometer("vcgencmd")
	c.run = func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("no vcgencmd")
	}
	c.readFile = func(name string) ([]byte, error) {
		return nil, errors.New("no thermal zone")
	}

	_, err := c.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vcgencmd")
	assert.Contains(t, err.Error(), "no thermal zone")
}
