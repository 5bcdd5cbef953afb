package footing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressureConcentric(t *testing.T) {
	res, err := Pressure(PressureInput{WidthM: 2, LengthM: 3, VerticalKN: 600})
	require.NoError(t, err)
	assert.True(t, res.FullContact)
	assert.InDelta(t, 100.0, res.QmaxKPa, 1e-9)
	assert.InDelta(t, 100.0, res.QminKPa, 1e-9)
}

func TestPressureKernBoundary(t *testing.T) {
	// e = B/6 exactly: still full contact, qmin = 0.
	res, err := Pressure(PressureInput{WidthM: 3, LengthM: 3, VerticalKN: 900, MomentBKNm: 450})
	require.NoError(t, err)
	assert.True(t, res.FullContact)
	assert.InDelta(t, 0.0, res.QminKPa, 1e-9)
	assert.InDelta(t, 200.0, res.QmaxKPa, 1e-9)
}

func TestPressureOutsideKern(t *testing.T) {
	// e = 0.75 m > B/6 = 0.5 m: triangular distribution, no tension.
	res, err := Pressure(PressureInput{WidthM: 3, LengthM: 3, VerticalKN: 900, MomentBKNm: 675})
	require.NoError(t, err)
	assert.False(t, res.FullContact)
	assert.Zero(t, res.QminKPa)
	// qmax = 2P / (3 L (B/2 - e)) = 1800 / (3*3*0.75) = 266.67 kPa.
	assert.InDelta(t, 266.67, res.QmaxKPa, 0.01)

	var codes []string
	for _, m := range res.Messages {
		codes = append(codes, m.Code)
	}
	assert.Contains(t, codes, "FOUND-ECCENTRIC")
}

func TestPressureNeverTension(t *testing.T) {
	// Moments up to e = 1.125 m, just inside the B/2 = 1.25 m limit.
	for _, m := range []float64{0, 100, 300, 600, 900} {
		res, err := Pressure(PressureInput{WidthM: 2.5, LengthM: 2.5, VerticalKN: 800, MomentBKNm: m})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.QminKPa, 0.0, "moment %v", m)
	}
}

func TestPressureResultantOffFooting(t *testing.T) {
	_, err := Pressure(PressureInput{WidthM: 2, LengthM: 2, VerticalKN: 100, MomentBKNm: 150})
	require.Error(t, err)

	// e = B/2 exactly: the contact length collapses to zero.
	_, err = Pressure(PressureInput{WidthM: 2.5, LengthM: 2.5, VerticalKN: 800, MomentBKNm: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resultant outside footing")
}

func TestStabilityRatios(t *testing.T) {
	res, err := Stability(StabilityInput{
		WidthM:          2,
		LengthM:         3,
		VerticalKN:      500,
		HorizontalKN:    100,
		OverturnKNm:     200,
		BaseFrictionDeg: 30,
		AdhesionKPa:     5,
	})
	require.NoError(t, err)

	// tan(30)*500 + 5*6 = 318.7 kN resisting.
	assert.InDelta(t, 318.7, res.SlidingResistanceKN, 0.1)
	assert.InDelta(t, 100.0/318.7, res.SlidingRatio, 1e-3)
	// Mr = 500 * 2/2 = 500 kNm.
	assert.InDelta(t, 500.0, res.ResistingMomentKNm, 1e-9)
	assert.InDelta(t, 0.4, res.OverturnRatio, 1e-9)
}

func TestFootingCalcGoverning(t *testing.T) {
	res, err := Calculate(Input{
		FootingID: "F-1",
		Bearing: BearingInput{
			Method:         MethodMeyerhof,
			WidthM:         2,
			LengthM:        2,
			DepthM:         1,
			CohesionKPa:    20,
			FrictionDeg:    20,
			UnitWeightKNM3: 18,
		},
		Pressure: &PressureInput{WidthM: 2, LengthM: 2, VerticalKN: 400},
		Stability: &StabilityInput{
			WidthM:          2,
			LengthM:         2,
			VerticalKN:      400,
			HorizontalKN:    50,
			OverturnKNm:     100,
			BaseFrictionDeg: 25,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Governing)
	assert.Equal(t, "F-1", res.FootingID)

	// The overall ratio is the worst sub-ratio.
	worst := res.Stability.SlidingRatio
	if res.Stability.OverturnRatio > worst {
		worst = res.Stability.OverturnRatio
	}
	if br := res.Pressure.QmaxKPa / res.Bearing.AllowableKPa; br > worst {
		worst = br
	}
	assert.InDelta(t, worst, res.Ratio, 1e-12)

	dr := res.DesignResult()
	assert.Equal(t, "F-1", dr.FootingID)
	assert.Equal(t, res.Status, dr.Status)
}
