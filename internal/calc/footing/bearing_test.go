package footing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearingFactorsAtPhiZero(t *testing.T) {
	f, err := BearingFactors(MethodTerzaghi, 0)
	require.NoError(t, err)
	assert.InDelta(t, 5.7, f.Nc, 1e-9)
	assert.InDelta(t, 1.0, f.Nq, 1e-9)
	assert.Zero(t, f.Ngamma)

	f, err = BearingFactors(MethodMeyerhof, 0)
	require.NoError(t, err)
	assert.InDelta(t, 5.14, f.Nc, 1e-9)
	assert.InDelta(t, 1.0, f.Nq, 1e-9)
}

func TestMeyerhofFactorsAt30Deg(t *testing.T) {
	f, err := BearingFactors(MethodMeyerhof, 30)
	require.NoError(t, err)
	// Classical tabulated values.
	assert.InDelta(t, 18.4, f.Nq, 0.1)
	assert.InDelta(t, 30.1, f.Nc, 0.1)
	assert.InDelta(t, 15.7, f.Ngamma, 0.1)
}

func TestBearingIncreasesWithDepth(t *testing.T) {
	base := BearingInput{
		Method:         MethodTerzaghi,
		WidthM:         2,
		LengthM:        2,
		CohesionKPa:    10,
		FrictionDeg:    25,
		UnitWeightKNM3: 18,
	}

	qult := func(d float64) float64 {
		in := base
		in.DepthM = d
		res, err := Bearing(in)
		require.NoError(t, err)
		return res.UltimateKPa
	}

	assert.Greater(t, qult(2.0), qult(0.5))
}

func TestBearingWaterTableReduces(t *testing.T) {
	in := BearingInput{
		Method:            MethodMeyerhof,
		WidthM:            2,
		LengthM:           3,
		DepthM:            1.5,
		FrictionDeg:       32,
		UnitWeightKNM3:    19,
		SatUnitWeightKNM3: 20,
	}
	dry, err := Bearing(in)
	require.NoError(t, err)

	in.WaterPresent = true
	in.WaterDepthM = 0
	wet, err := Bearing(in)
	require.NoError(t, err)

	assert.Less(t, wet.UltimateKPa, dry.UltimateKPa)
	assert.Less(t, wet.SurchargeKPa, dry.SurchargeKPa)
}

func TestBearingUnknownMethod(t *testing.T) {
	_, err := BearingFactors(Method("vesic"), 20)
	require.Error(t, err)
}
