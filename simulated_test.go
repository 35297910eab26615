package enviro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedIsAFunctionOfTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	a := NewSimulated(clock)
	b := NewSimulated(clock)

	now = now.Add(90 * time.Second)

	ta, err := a.Temperature()
	require.NoError(t, err)
	tb, err := b.Temperature()
	require.NoError(t, err)
	assert.Equal(t, ta, tb)

	ga, _ := a.Gas()
	gb, _ := b.Gas()
	assert.Equal(t, ga, gb)
}

func TestSimulatedRanges(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSimulated(func() time.Time { return now })

	for i := 0; i < 120; i++ {
		now = now.Add(17 * time.Second)

		temp, _ := s.Temperature()
		assert.InDelta(t, 24, temp, 4.001)
		pressure, _ := s.Pressure()
		assert.InDelta(t, 1013, pressure, 8.001)
		humidity, _ := s.Humidity()
		assert.InDelta(t, 45, humidity, 15.001)
		lux, _ := s.Lux()
		assert.GreaterOrEqual(t, lux, 0.0)

		gas, _ := s.Gas()
		assert.Greater(t, gas.Oxidising, 0.0)
		assert.Greater(t, gas.Reducing, 0.0)
		assert.Greater(t, gas.NH3, 0.0)

		pm, err := s.Particulates()
		require.NoError(t, err)
		assert.LessOrEqual(t, pm.PM1, pm.PM25)
		assert.LessOrEqual(t, pm.PM25, pm.PM10)
	}
}

func TestSimulatedProximity(t *testing.T) {
	s := NewSimulated(nil)

	p, err := s.Proximity()
	require.NoError(t, err)
	assert.Zero(t, p)

	s.SetProximity(2000)
	p, _ = s.Proximity()
	assert.Equal(t, 2000.0, p)
}
