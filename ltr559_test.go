package enviro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func ltr559InitOps() []i2ctest.IO {
	ops := []i2ctest.IO{{Addr: ltr559Addr, W: []byte{ltrPartID}, R: []byte{0x92}}}
	for _, w := range ltr559Setup {
		ops = append(ops, i2ctest.IO{Addr: ltr559Addr, W: []byte{w[0], w[1]}})
	}
	return ops
}

func TestLTR559ReadsLuxAndProximity(t *testing.T) {
	ops := append(ltr559InitOps(),
		// ch1 = 200, ch0 = 1000
		i2ctest.IO{Addr: ltr559Addr, W: []byte{ltrALSData}, R: []byte{0xC8, 0x00, 0xE8, 0x03}},
		// upper bits above 11 are ignored
		i2ctest.IO{Addr: ltr559Addr, W: []byte{ltrPSData}, R: []byte{0x34, 0xF2}},
	)
	bus := &i2ctest.Playback{Ops: ops}

	l, err := NewLTR559(bus)
	require.NoError(t, err)

	lux, err := l.Lux()
	require.NoError(t, err)
	assert.InDelta(t, 997.74, lux, 0.01)

	prox, err := l.Proximity()
	require.NoError(t, err)
	assert.Equal(t, float64(0x234), prox)

	assert.NoError(t, bus.Close())
}

func TestLTR559RejectsUnknownPart(t *testing.T) {
	bus := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: ltr559Addr, W: []byte{ltrPartID}, R: []byte{0x12}},
	}}

	_, err := NewLTR559(bus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected part id")
}

func TestLTR559Lux(t *testing.T) {
	tests := []struct {
		name     string
		ch0, ch1 uint16
		want     float64
	}{
		{"dark", 0, 0, 0},
		{"mostly visible", 1000, 200, 997.74},
		{"mixed", 1000, 1000, (1000*42785 - 1000*19548) / 0.5 / 4 / 10000},
		{"infrared heavy", 300, 700, (300*5926 - 700*-1185) / 0.5 / 4 / 10000},
		{"all infrared", 0, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ltr559Lux(tt.ch0, tt.ch1, ltrALSGain, ltrIntegrationMs), 0.01)
		})
	}
}
