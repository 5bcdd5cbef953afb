package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallAreaNoReduction(t *testing.T) {
	res, err := Calculate(Input{Occupancy: "office", TributaryAreaM2: 5})
	require.NoError(t, err)
	assert.False(t, res.Reduced)
	assert.InDelta(t, 2.4, res.DesignKPa, 1e-12)
}

func TestReductionApplied(t *testing.T) {
	res, err := Calculate(Input{Occupancy: "office", TributaryAreaM2: 30, Stories: 1})
	require.NoError(t, err)
	// KLL*AT = 120 > 37.2: factor = 0.25 + 4.57/sqrt(120) = 0.667.
	assert.True(t, res.Reduced)
	assert.InDelta(t, 0.667, res.Reduction, 0.001)
	assert.InDelta(t, 2.4*res.Reduction, res.DesignKPa, 1e-12)
}

func TestReductionFloors(t *testing.T) {
	// Huge area: the raw factor drops below both floors.
	one, err := Calculate(Input{Occupancy: "office", TributaryAreaM2: 1000, Stories: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, one.Reduction, 1e-12)

	multi, err := Calculate(Input{Occupancy: "office", TributaryAreaM2: 1000, Stories: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, multi.Reduction, 1e-12)
}

func TestNonReducibleOccupancy(t *testing.T) {
	res, err := Calculate(Input{Occupancy: "storage", TributaryAreaM2: 1000})
	require.NoError(t, err)
	assert.False(t, res.Reduced)
	assert.InDelta(t, 6.0, res.DesignKPa, 1e-12)
}

func TestRoofLoads(t *testing.T) {
	plain, err := Calculate(Input{Roof: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, plain.DesignKPa, 1e-12)

	terrace, err := Calculate(Input{Roof: true, RoofAccessible: true})
	require.NoError(t, err)
	assert.InDelta(t, 1.9, terrace.DesignKPa, 1e-12)
}

func TestUnknownOccupancy(t *testing.T) {
	_, err := Calculate(Input{Occupancy: "launchpad"})
	require.Error(t, err)
}
