package enviro

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// Commands
	st7735SWReset = 0x01
	st7735SlpOut  = 0x11
	st7735NorOn   = 0x13
	st7735InvOff  = 0x20
	st7735InvOn   = 0x21
	st7735DispOff = 0x28
	st7735DispOn  = 0x29
	st7735CASet   = 0x2A
	st7735RASet   = 0x2B
	st7735RAMWr   = 0x2C
	st7735MADCtl  = 0x36
	st7735ColMod  = 0x3A
	st7735FrmCtr1 = 0xB1
	st7735FrmCtr2 = 0xB2
	st7735FrmCtr3 = 0xB3
	st7735InvCtr  = 0xB4
	st7735PwCtr1  = 0xC0
	st7735PwCtr2  = 0xC1
	st7735PwCtr4  = 0xC3
	st7735PwCtr5  = 0xC4
	st7735VmCtr1  = 0xC5
	st7735GmCtrP1 = 0xE0
	st7735GmCtrN1 = 0xE1

	// MX | MV | BGR: landscape with the long side as columns
	st7735Landscape = 0x40 | 0x20 | 0x08
	st7735RGB565    = 0x05

	st7735MaxTx      = 4096
	backlightPWMFreq = 1 * physic.KiloHertz
)

var sleep = time.Sleep

type st7735Step struct {
	cmd   byte
	args  []byte
	delay time.Duration
}

var st7735Init = []st7735Step{
	{cmd: st7735SWReset, delay: 150 * time.Millisecond},
	{cmd: st7735SlpOut, delay: 500 * time.Millisecond},
	{cmd: st7735FrmCtr1, args: []byte{0x01, 0x2C, 0x2D}},
	{cmd: st7735FrmCtr2, args: []byte{0x01, 0x2C, 0x2D}},
	{cmd: st7735FrmCtr3, args: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
	{cmd: st7735InvCtr, args: []byte{0x07}},
	{cmd: st7735PwCtr1, args: []byte{0xA2, 0x02, 0x84}},
	{cmd: st7735PwCtr2, args: []byte{0xC5}},
	{cmd: st7735PwCtr4, args: []byte{0x8A, 0x2A}},
	{cmd: st7735PwCtr5, args: []byte{0x8A, 0xEE}},
	{cmd: st7735VmCtr1, args: []byte{0x0E}},
	{cmd: st7735MADCtl, args: []byte{st7735Landscape}},
	{cmd: st7735ColMod, args: []byte{st7735RGB565}},
	{cmd: st7735GmCtrP1, args: []byte{0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10}},
	{cmd: st7735GmCtrN1, args: []byte{0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10}},
	{cmd: st7735NorOn, delay: 10 * time.Millisecond},
	{cmd: st7735DispOn, delay: 100 * time.Millisecond},
}

// ST7735Opts describes the panel geometry. Offsets place the visible area
// inside the controller's 132x162 frame memory.
type ST7735Opts struct {
	Width, Height int
	ColumnOffset  int
	RowOffset     int
	Invert        bool
}

// DefaultST7735Opts matches the Enviro+ 0.96" 160x80 panel.
var DefaultST7735Opts = ST7735Opts{
	Width:        160,
	Height:       80,
	ColumnOffset: 1,
	RowOffset:    26,
	Invert:       true,
}

// ST7735 drives the Enviro+ LCD over SPI.
type ST7735 struct {
	port      spi.PortCloser
	conn      spi.Conn
	dc        gpio.PinOut
	backlight gpio.PinOut
	opts      ST7735Opts
	pixels    []byte
}

// OpenST7735 opens the SPI port and pins by name and initialises the panel.
func OpenST7735(port, dcPin, backlightPin string, speedHz int64, opts *ST7735Opts) (*ST7735, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	dc := gpioreg.ByName(dcPin)
	if dc == nil {
		return nil, fmt.Errorf("st7735: unknown data/command pin %q", dcPin)
	}
	var bl gpio.PinOut
	if backlightPin != "" {
		p := gpioreg.ByName(backlightPin)
		if p == nil {
			return nil, fmt.Errorf("st7735: unknown backlight pin %q", backlightPin)
		}
		bl = p
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("st7735: open %s: %w", port, err)
	}
	c, err := p.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("st7735: connect: %w", err)
	}

	d, err := NewST7735(c, dc, bl, opts)
	if err != nil {
		p.Close()
		return nil, err
	}
	d.port = p
	return d, nil
}

// NewST7735 runs the panel init sequence on an open connection.
func NewST7735(c spi.Conn, dc, backlight gpio.PinOut, opts *ST7735Opts) (*ST7735, error) {
	if opts == nil {
		opts = &DefaultST7735Opts
	}
	d := &ST7735{
		conn:      c,
		dc:        dc,
		backlight: backlight,
		opts:      *opts,
		pixels:    make([]byte, opts.Width*opts.Height*2),
	}

	for _, step := range st7735Init {
		if err := d.command(step.cmd, step.args...); err != nil {
			return nil, fmt.Errorf("st7735: init: %w", err)
		}
		if step.delay > 0 {
			sleep(step.delay)
		}
	}
	inv := byte(st7735InvOff)
	if d.opts.Invert {
		inv = st7735InvOn
	}
	if err := d.command(inv); err != nil {
		return nil, fmt.Errorf("st7735: init: %w", err)
	}
	return d, nil
}

func (d *ST7735) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// PushFrame writes img to the panel. Pixels outside the panel are ignored
// and missing pixels are black.
func (d *ST7735) PushFrame(img image.Image) error {
	b := img.Bounds()
	i := 0
	for y := 0; y < d.opts.Height; y++ {
		for x := 0; x < d.opts.Width; x++ {
			var c color.Color = color.Black
			if p := image.Pt(b.Min.X+x, b.Min.Y+y); p.In(b) {
				c = img.At(p.X, p.Y)
			}
			v := rgb565(c)
			d.pixels[i] = byte(v >> 8)
			d.pixels[i+1] = byte(v)
			i += 2
		}
	}

	x0, x1 := d.opts.ColumnOffset, d.opts.ColumnOffset+d.opts.Width-1
	y0, y1 := d.opts.RowOffset, d.opts.RowOffset+d.opts.Height-1
	if err := d.command(st7735CASet, 0, byte(x0), 0, byte(x1)); err != nil {
		return fmt.Errorf("st7735: set window: %w", err)
	}
	if err := d.command(st7735RASet, 0, byte(y0), 0, byte(y1)); err != nil {
		return fmt.Errorf("st7735: set window: %w", err)
	}
	if err := d.command(st7735RAMWr); err != nil {
		return fmt.Errorf("st7735: write ram: %w", err)
	}
	if err := d.data(d.pixels); err != nil {
		return fmt.Errorf("st7735: write ram: %w", err)
	}
	return nil
}

// SetBacklight drives the backlight pin. Intermediate levels use PWM; a pin
// without PWM shows them fully on.
func (d *ST7735) SetBacklight(level float64) error {
	if d.backlight == nil {
		return nil
	}
	switch {
	case level <= 0:
		return d.backlight.Out(gpio.Low)
	case level >= 1:
		return d.backlight.Out(gpio.High)
	}
	duty := gpio.Duty(level * float64(gpio.DutyMax))
	if err := d.backlight.PWM(duty, backlightPWMFreq); err != nil {
		return d.backlight.Out(gpio.High)
	}
	return nil
}

// Close blanks the panel and releases the SPI port.
func (d *ST7735) Close() error {
	err := d.SetBacklight(0)
	if cerr := d.command(st7735DispOff); err == nil {
		err = cerr
	}
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (d *ST7735) command(cmd byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return d.data(args)
}

func (d *ST7735) data(b []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	max := st7735MaxTx
	if l, ok := d.conn.(conn.Limits); ok && l.MaxTxSize() > 0 && l.MaxTxSize() < max {
		max = l.MaxTxSize()
	}
	for len(b) > 0 {
		n := min(len(b), max)
		if err := d.conn.Tx(b[:n], nil); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func rgb565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16((r>>11)<<11 | (g>>10)<<5 | b>>11)
}
