package enviro

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/And-Hobbes/EnviroHardwareCode/internal/monitor"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
)

const (
	pmsStart1      = 0x42
	pmsStart2      = 0x4D
	pmsFrameLength = 28
	pmsResetPulse  = 100 * time.Millisecond
)

// PMSFrame holds every data word of a PMS5003 frame. Concentrations are in
// ug/m3; counts are particles per 0.1L of air.
type PMSFrame struct {
	PM1CF, PM25CF, PM10CF      uint16
	PM1Atm, PM25Atm, PM10Atm   uint16
	Count03, Count05, Count10  uint16
	Count25, Count50, Count100 uint16
}

// Particulates returns the standard-particle concentrations.
func (f PMSFrame) Particulates() monitor.Particulates {
	return monitor.Particulates{
		PM1:  float64(f.PM1CF),
		PM25: float64(f.PM25CF),
		PM10: float64(f.PM10CF),
	}
}

type pmsPort interface {
	Read(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// PMS5003 reads frames from the particulate sensor's serial port.
type PMS5003 struct {
	port    pmsPort
	timeout time.Duration
	reset   gpio.PinOut
	buffer  []byte
}

// OpenPMS5003 opens the serial device at 8N1 and returns a reader that gives
// up on a frame after timeout.
func OpenPMS5003(name string, baud int, timeout time.Duration) (*PMS5003, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("pms5003: open %s: %w", name, err)
	}
	p, err := NewPMS5003(port, timeout)
	if err != nil {
		port.Close()
		return nil, err
	}
	return p, nil
}

func NewPMS5003(port pmsPort, timeout time.Duration) (*PMS5003, error) {
	// Reads return early so the frame deadline is honoured.
	readTimeout := timeout / 4
	if readTimeout <= 0 {
		readTimeout = timeout
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		return nil, fmt.Errorf("pms5003: set read timeout: %w", err)
	}
	return &PMS5003{
		port:    port,
		timeout: timeout,
		buffer:  make([]byte, pmsFrameLength),
	}, nil
}

// SetResetPin registers the sensor's reset line; Reset pulses it low.
func (p *PMS5003) SetResetPin(pin gpio.PinOut) {
	p.reset = pin
}

func (p *PMS5003) Reset() error {
	if p.reset == nil {
		return nil
	}
	if err := p.reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("pms5003: reset: %w", err)
	}
	time.Sleep(pmsResetPulse)
	return p.reset.Out(gpio.High)
}

// Read returns the concentrations from the next valid frame.
func (p *PMS5003) Read() (monitor.Particulates, error) {
	f, err := p.ReadFrame()
	if err != nil {
		return monitor.Particulates{}, err
	}
	return f.Particulates(), nil
}

// ReadFrame waits for the next start of frame and decodes it. Failing to see
// a start of frame before the timeout gives an error wrapping
// monitor.ErrSensorTimeout.
func (p *PMS5003) ReadFrame() (PMSFrame, error) {
	deadline := time.Now().Add(p.timeout)

	var prev byte
	for {
		if time.Now().After(deadline) {
			return PMSFrame{}, fmt.Errorf("pms5003: no start of frame: %w", monitor.ErrSensorTimeout)
		}
		b, err := p.readByte()
		if err != nil {
			return PMSFrame{}, err
		}
		if prev == pmsStart1 && b == pmsStart2 {
			break
		}
		prev = b
	}

	header := make([]byte, 2)
	if err := p.readFull(header); err != nil {
		return PMSFrame{}, err
	}
	length := binary.BigEndian.Uint16(header)
	if length != pmsFrameLength {
		return PMSFrame{}, fmt.Errorf("pms5003: invalid frame length %d", length)
	}

	if err := p.readFull(p.buffer); err != nil {
		return PMSFrame{}, err
	}
	return decodePMSFrame(header, p.buffer)
}

func (p *PMS5003) Close() error {
	return p.port.Close()
}

func (p *PMS5003) readByte() (byte, error) {
	b := make([]byte, 1)
	if err := p.readFull(b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// readFull fills buf. A read returning no data means the port timed out.
func (p *PMS5003) readFull(buf []byte) error {
	for n := 0; n < len(buf); {
		k, err := p.port.Read(buf[n:])
		if err != nil {
			return fmt.Errorf("pms5003: read: %w", err)
		}
		if k == 0 {
			return fmt.Errorf("pms5003: read: %w", monitor.ErrSensorTimeout)
		}
		n += k
	}
	return nil
}

// decodePMSFrame checks the trailing checksum, the sum of every byte before
// it including the start bytes, and unpacks the data words.
func decodePMSFrame(header, data []byte) (PMSFrame, error) {
	sum := uint16(pmsStart1) + uint16(pmsStart2) + uint16(header[0]) + uint16(header[1])
	for _, b := range data[:pmsFrameLength-2] {
		sum += uint16(b)
	}
	if want := binary.BigEndian.Uint16(data[pmsFrameLength-2:]); sum != want {
		return PMSFrame{}, fmt.Errorf("pms5003: checksum mismatch: got %#04x, frame says %#04x", sum, want)
	}

	var words [12]uint16
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return PMSFrame{
		PM1CF: words[0], PM25CF: words[1], PM10CF: words[2],
		PM1Atm: words[3], PM25Atm: words[4], PM10Atm: words[5],
		Count03: words[6], Count05: words[7], Count10: words[8],
		Count25: words[9], Count50: words[10], Count100: words[11],
	}, nil
}
