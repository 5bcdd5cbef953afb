package piles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clayProfile() []Layer {
	return []Layer{
		{FromDepthM: 0, ToDepthM: 5, GammaKNM3: 17, CohesionKPa: 20},
		{FromDepthM: 5, ToDepthM: 15, GammaKNM3: 18, CohesionKPa: 50},
	}
}

func TestAlphaMethodRoundPile(t *testing.T) {
	res, err := Calculate(Input{
		Method:       MethodAlpha,
		Installation: InstallDriven,
		PileType:     "round",
		DiameterM:    0.5,
		LengthM:      10,
		Layers:       clayProfile(),
	})
	require.NoError(t, err)

	perim := math.Pi * 0.5
	area := math.Pi * 0.25 * 0.25
	// Layer 1: alpha=1.0 at cu=20; layer 2: alpha=0.75 at cu=50, 5 m in.
	wantShaft := 1.0*20*perim*5 + 0.75*50*perim*5
	assert.InDelta(t, wantShaft, res.ShaftResistanceKN, 1e-6)
	// End bearing: 9 * cu * Ap at the toe layer.
	assert.InDelta(t, 9*50*area, res.BaseResistanceKN, 1e-6)
	// Driven default FS = 2.0.
	assert.InDelta(t, 2.0, res.FactorOfSafety, 1e-12)
	assert.InDelta(t, res.UltimateKN/2, res.AllowableKN, 1e-9)
}

func TestBoredDefaultFactor(t *testing.T) {
	res, err := Calculate(Input{
		Method:       MethodAlpha,
		Installation: InstallBored,
		PileType:     "square",
		SideM:        0.4,
		LengthM:      8,
		Layers:       clayProfile(),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, res.FactorOfSafety, 1e-12)
}

func TestBetaMethodUsesOverburden(t *testing.T) {
	sand := []Layer{{FromDepthM: 0, ToDepthM: 20, GammaKNM3: 10, FrictionDeg: 30}}
	res, err := Calculate(Input{
		Method:       MethodBeta,
		Installation: InstallDriven,
		PileType:     "round",
		DiameterM:    0.4,
		LengthM:      10,
		Layers:       sand,
	})
	require.NoError(t, err)

	beta := (1 - math.Sin(math.Pi/6)) * math.Tan(math.Pi/6)
	// Mid-depth stress 50 kPa over a 10 m shaft.
	wantShaft := beta * 50 * math.Pi * 0.4 * 10
	assert.InDelta(t, wantShaft, res.ShaftResistanceKN, 1e-6)
	assert.Greater(t, res.BaseResistanceKN, 0.0)
}

func TestGroupEfficiencyBounds(t *testing.T) {
	assert.InDelta(t, 1.0, GroupEfficiency(1, 1, 0.4, 1.2), 1e-12)

	prev := 0.0
	for _, s := range []float64{0.5, 0.8, 1.2, 2.0, 4.0, 10.0} {
		eta := GroupEfficiency(3, 3, 0.4, s)
		assert.Greater(t, eta, 0.0, "spacing %v", s)
		assert.LessOrEqual(t, eta, 1.0, "spacing %v", s)
		assert.GreaterOrEqual(t, eta, prev, "spacing %v", s)
		prev = eta
	}
	// Wide spacing approaches full efficiency.
	assert.InDelta(t, 1.0, GroupEfficiency(3, 3, 0.4, 100), 0.01)
}

func TestToeBelowProfile(t *testing.T) {
	_, err := Calculate(Input{
		Method:    MethodAlpha,
		PileType:  "round",
		DiameterM: 0.5,
		LengthM:   30,
		Layers:    clayProfile(),
	})
	require.Error(t, err)
}

func TestGroupDemandRatio(t *testing.T) {
	res, err := Calculate(Input{
		Method:       MethodAlpha,
		Installation: InstallDriven,
		PileType:     "round",
		DiameterM:    0.5,
		LengthM:      10,
		Layers:       clayProfile(),
		Rows:         2,
		Cols:         2,
		SpacingM:     1.5,
		DemandKN:     500,
	})
	require.NoError(t, err)
	require.Greater(t, res.GroupAllowableKN, 0.0)
	assert.InDelta(t, 500/res.GroupAllowableKN, res.Ratio, 1e-12)
	assert.Less(t, res.GroupEfficiency, 1.0)
	assert.NotEmpty(t, res.Messages)
}
