package enviro

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const (
	DefaultCPUTempCommand = "vcgencmd"
	DefaultThermalZone    = "/sys/class/thermal/thermal_zone0/temp"
)

// CPUThermometer reads the SoC temperature with vcgencmd, falling back to the
// kernel thermal zone when the command is unavailable.
type CPUThermometer struct {
	Command   string
	SysfsPath string

	run      func(name string, args ...string) ([]byte, error)
	readFile func(name string) ([]byte, error)
}

func NewCPUThermometer(command string) *CPUThermometer {
	if command == "" {
		command = DefaultCPUTempCommand
	}
	return &CPUThermometer{
		Command:   command,
		SysfsPath: DefaultThermalZone,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
		readFile: os.ReadFile,
	}
}

// Read returns the CPU temperature in degrees C.
func (c *CPUThermometer) Read() (float64, error) {
	out, cmdErr := c.run(c.Command, "measure_temp")
	if cmdErr == nil {
		return parseVcgencmdTemp(string(out))
	}

	raw, err := c.readFile(c.SysfsPath)
	if err != nil {
		return 0, fmt.Errorf("cpu temperature: %v; %w", cmdErr, err)
	}
	return parseThermalZone(string(raw))
}

// parseVcgencmdTemp parses output of the form "temp=48.3'C".
func parseVcgencmdTemp(out string) (float64, error) {
	s := strings.TrimSpace(out)
	eq := strings.IndexByte(s, '=')
	q := strings.IndexByte(s, '\'')
	if eq < 0 || q < eq {
		return 0, fmt.Errorf("cpu temperature: unexpected output %q", s)
	}
	v, err := strconv.ParseFloat(s[eq+1:q], 64)
	if err != nil {
		return 0, fmt.Errorf("cpu temperature: %w", err)
	}
	return v, nil
}

// parseThermalZone parses millidegrees.
func parseThermalZone(raw string) (float64, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("cpu temperature: %w", err)
	}
	return float64(v) / 1000, nil
}
