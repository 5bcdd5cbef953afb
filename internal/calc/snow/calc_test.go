package snow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRoofLoad(t *testing.T) {
	res, err := Calculate(Input{GroundKPa: 2.0})
	require.NoError(t, err)
	// pf = 0.7 * 1.0 * 1.0 * 1.0 * 2.0.
	assert.InDelta(t, 1.4, res.FlatRoofKPa, 1e-12)
	assert.InDelta(t, res.FlatRoofKPa, res.RoofKPa, 1e-12)
}

func TestAltitudeAndLatitudeBands(t *testing.T) {
	lowland, err := Calculate(Input{AltitudeM: 100, LatitudeDeg: 30})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, lowland.GroundKPa, 1e-12)

	mountain, err := Calculate(Input{AltitudeM: 1600, LatitudeDeg: 30})
	require.NoError(t, err)
	assert.InDelta(t, 3.2, mountain.GroundKPa, 1e-12)

	north, err := Calculate(Input{AltitudeM: 100, LatitudeDeg: 55})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, north.GroundKPa, 1e-12)
}

func TestSlopeReduction(t *testing.T) {
	flat, err := Calculate(Input{GroundKPa: 2.0, SlopeDeg: 20})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, flat.Cs, 1e-12)

	mid, err := Calculate(Input{GroundKPa: 2.0, SlopeDeg: 50})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mid.Cs, 1e-12)
	assert.InDelta(t, 0.5*mid.FlatRoofKPa, mid.RoofKPa, 1e-12)

	steep, err := Calculate(Input{GroundKPa: 2.0, SlopeDeg: 80})
	require.NoError(t, err)
	assert.Zero(t, steep.RoofKPa)
}

func TestFactorTables(t *testing.T) {
	res, err := Calculate(Input{
		GroundKPa:  1.0,
		Exposure:   "sheltered",
		Thermal:    "unheated",
		Importance: "essential",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.7*1.2*1.2*1.2, res.FlatRoofKPa, 1e-9)

	_, err = Calculate(Input{GroundKPa: 1.0, Exposure: "underground"})
	require.Error(t, err)
	_, err = Calculate(Input{GroundKPa: 1.0, SlopeDeg: 95})
	require.Error(t, err)
}
