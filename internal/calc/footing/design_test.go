package footing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexureMinimumGoverns(t *testing.T) {
	res, err := Flexure(FlexureInput{
		MomentKNmPerM:    10,
		EffectiveDepthMM: 400,
		TotalDepthMM:     475,
		FcMPa:            25,
		FyMPa:            420,
	})
	require.NoError(t, err)

	// As,min = 0.0018 * 1000 * 475 = 855 mm2/m.
	assert.InDelta(t, 855.0, res.AsMinimumMM2PerM, 1e-9)
	assert.Greater(t, res.AsMinimumMM2PerM, res.AsRequiredMM2PerM)
	assert.GreaterOrEqual(t, res.AsProvidedMM2PerM, res.AsMinimumMM2PerM)
	assert.LessOrEqual(t, res.SpacingMM, 300.0)

	var codes []string
	for _, m := range res.Messages {
		codes = append(codes, m.Code)
	}
	assert.Contains(t, codes, "ACI-7.6.1")
}

func TestFlexureStrengthGoverns(t *testing.T) {
	res, err := Flexure(FlexureInput{
		MomentKNmPerM:    250,
		EffectiveDepthMM: 400,
		TotalDepthMM:     475,
		FcMPa:            25,
		FyMPa:            420,
	})
	require.NoError(t, err)
	assert.Greater(t, res.AsRequiredMM2PerM, res.AsMinimumMM2PerM)
	assert.GreaterOrEqual(t, res.AsProvidedMM2PerM, res.AsRequiredMM2PerM)
}

func TestFlexureSectionTooShallow(t *testing.T) {
	_, err := Flexure(FlexureInput{
		MomentKNmPerM:    2000,
		EffectiveDepthMM: 150,
		FcMPa:            20,
		FyMPa:            420,
	})
	require.Error(t, err)
}

func TestShearChecks(t *testing.T) {
	res, err := Shear(ShearInput{
		PressureKPa:      150,
		WidthM:           2.4,
		LengthM:          2.4,
		ColumnXM:         0.4,
		ColumnYM:         0.4,
		EffectiveDepthMM: 400,
		FcMPa:            25,
	})
	require.NoError(t, err)

	// bo = 2*(0.4+0.4) + 2*(0.4+0.4) = 3.2 m.
	assert.InDelta(t, 3.2, res.PunchingPerimeterM, 1e-9)
	// Demand = 150 * (2.4^2 - 0.8^2) = 768 kN.
	assert.InDelta(t, 768.0, res.PunchingDemandKN, 1e-6)
	// One-way span = (2.4-0.4)/2 - 0.4 = 0.6 m, demand = 150*0.6*2.4 = 216 kN.
	assert.InDelta(t, 216.0, res.OneWayDemandKN, 1e-6)
	assert.Greater(t, res.PunchingCapacityKN, 0.0)
	assert.Greater(t, res.OneWayCapacityKN, 0.0)
}

func TestShearCornerColumnLowerCapacity(t *testing.T) {
	// Wide column and shallow depth push d/bo low enough that the
	// perimeter-dependent expression controls.
	in := ShearInput{
		PressureKPa:      100,
		WidthM:           3,
		LengthM:          3,
		ColumnXM:         1.0,
		ColumnYM:         1.0,
		EffectiveDepthMM: 200,
		FcMPa:            25,
	}
	interior, err := Shear(in)
	require.NoError(t, err)

	in.ColumnPosition = "corner"
	corner, err := Shear(in)
	require.NoError(t, err)

	assert.Less(t, corner.PunchingCapacityKN, interior.PunchingCapacityKN)
}
