package wind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKzClampedBelowMinimumHeight(t *testing.T) {
	low, err := Kz(ExposureC, 1.0)
	require.NoError(t, err)
	floor, err := Kz(ExposureC, 4.6)
	require.NoError(t, err)
	assert.InDelta(t, floor, low, 1e-12)
}

func TestKzGrowsWithHeightAndExposure(t *testing.T) {
	k10, err := Kz(ExposureC, 10)
	require.NoError(t, err)
	k30, err := Kz(ExposureC, 30)
	require.NoError(t, err)
	assert.Greater(t, k30, k10)

	// Open water exposure sees higher pressure than suburban at the same
	// height.
	kb, err := Kz(ExposureB, 10)
	require.NoError(t, err)
	kd, err := Kz(ExposureD, 10)
	require.NoError(t, err)
	assert.Greater(t, kd, kb)
}

func TestVelocityPressure(t *testing.T) {
	res, err := Calculate(Input{SpeedMS: 40, Exposure: ExposureC, HeightM: 10})
	require.NoError(t, err)

	kz, err := Kz(ExposureC, 10)
	require.NoError(t, err)
	want := 0.613 * kz * 1.0 * 0.85 * 40 * 40 / 1000
	assert.InDelta(t, want, res.QzKPa, 1e-9)

	// MWFRS pressures carry the gust factor and cp signs.
	assert.InDelta(t, res.QzKPa*0.85*0.8, res.WindwardKPa, 1e-12)
	assert.Negative(t, res.LeewardKPa)
	assert.Negative(t, res.SideKPa)
	assert.InDelta(t, -1.4*res.QzKPa, res.CladdingKPa, 1e-12)
}

func TestZoneLookup(t *testing.T) {
	res, err := Calculate(Input{Zone: "3", HeightM: 10})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, res.SpeedMS, 1e-12)

	_, err = Calculate(Input{Zone: "8", HeightM: 10})
	require.Error(t, err)
}
