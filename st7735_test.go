package enviro

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
)

type spiOp struct {
	command bool
	b       []byte
}

// recordConn records each transfer along with the data/command line level.
type recordConn struct {
	dc  *gpiotest.Pin
	ops []spiOp
}

func (c *recordConn) String() string               { return "record" }
func (c *recordConn) Duplex() conn.Duplex          { return conn.Half }
func (c *recordConn) TxPackets([]spi.Packet) error { return nil }

func (c *recordConn) Tx(w, r []byte) error {
	c.ops = append(c.ops, spiOp{command: c.dc.L == gpio.Low, b: append([]byte(nil), w...)})
	return nil
}

func (c *recordConn) commands() []byte {
	var out []byte
	for _, op := range c.ops {
		if op.command {
			out = append(out, op.b[0])
		}
	}
	return out
}

func newTestST7735(t *testing.T) (*ST7735, *recordConn, *gpiotest.Pin) {
	t.Helper()
	orig := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = orig })

	dc := &gpiotest.Pin{N: "GPIO9"}
	bl := &gpiotest.Pin{N: "GPIO12"}
	c := &recordConn{dc: dc}
	d, err := NewST7735(c, dc, bl, nil)
	require.NoError(t, err)
	return d, c, bl
}

func TestST7735Init(t *testing.T) {
	_, c, _ := newTestST7735(t)

	cmds := c.commands()
	require.Len(t, cmds, len(st7735Init)+1)
	assert.Equal(t, byte(st7735SWReset), cmds[0])
	assert.Equal(t, byte(st7735DispOn), cmds[len(cmds)-2])
	assert.Equal(t, byte(st7735InvOn), cmds[len(cmds)-1])
}

func TestST7735PushFrame(t *testing.T) {
	d, c, _ := newTestST7735(t)
	c.ops = nil

	img := image.NewRGBA(d.Bounds())
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 255, A: 255}}, image.Point{}, draw.Src)
	img.Set(159, 79, color.RGBA{B: 255, A: 255})
	require.NoError(t, d.PushFrame(img))

	require.GreaterOrEqual(t, len(c.ops), 6)
	assert.Equal(t, spiOp{command: true, b: []byte{st7735CASet}}, c.ops[0])
	assert.Equal(t, spiOp{b: []byte{0, 1, 0, 160}}, c.ops[1])
	assert.Equal(t, spiOp{command: true, b: []byte{st7735RASet}}, c.ops[2])
	assert.Equal(t, spiOp{b: []byte{0, 26, 0, 105}}, c.ops[3])
	assert.Equal(t, spiOp{command: true, b: []byte{st7735RAMWr}}, c.ops[4])

	var pixels []byte
	for _, op := range c.ops[5:] {
		assert.False(t, op.command)
		assert.LessOrEqual(t, len(op.b), st7735MaxTx)
		pixels = append(pixels, op.b...)
	}
	require.Len(t, pixels, 160*80*2)
	assert.Equal(t, []byte{0xF8, 0x00}, pixels[:2])
	assert.Equal(t, []byte{0x00, 0x1F}, pixels[len(pixels)-2:])
}

func TestST7735PushFrameSmallImage(t *testing.T) {
	d, c, _ := newTestST7735(t)
	c.ops = nil

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	require.NoError(t, d.PushFrame(img))

	var pixels []byte
	for _, op := range c.ops[5:] {
		pixels = append(pixels, op.b...)
	}
	assert.Equal(t, []byte{0xFF, 0xFF}, pixels[:2])
	assert.Equal(t, []byte{0x00, 0x00}, pixels[4:6])
}

func TestST7735Backlight(t *testing.T) {
	d, _, bl := newTestST7735(t)

	require.NoError(t, d.SetBacklight(0))
	assert.Equal(t, gpio.Low, bl.L)
	require.NoError(t, d.SetBacklight(1))
	assert.Equal(t, gpio.High, bl.L)
	assert.NoError(t, d.SetBacklight(0.2))
}

func TestST7735Close(t *testing.T) {
	d, c, bl := newTestST7735(t)
	require.NoError(t, d.SetBacklight(1))

	require.NoError(t, d.Close())
	assert.Equal(t, gpio.Low, bl.L)
	cmds := c.commands()
	assert.Equal(t, byte(st7735DispOff), cmds[len(cmds)-1])
}

func TestRGB565(t *testing.T) {
	assert.Equal(t, uint16(0xF800), rgb565(color.RGBA{R: 255, A: 255}))
	assert.Equal(t, uint16(0x07E0), rgb565(color.RGBA{G: 255, A: 255}))
	assert.Equal(t, uint16(0x001F), rgb565(color.RGBA{B: 255, A: 255}))
	assert.Equal(t, uint16(0xFFFF), rgb565(color.White))
	assert.Equal(t, uint16(0x0000), rgb565(color.Black))
}
