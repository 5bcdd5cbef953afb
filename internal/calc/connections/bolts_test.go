package connections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCheck(t *testing.T, checks []CheckResult, name string) CheckResult {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return CheckResult{}
}

func TestBoltShearM20A325N(t *testing.T) {
	res, err := CheckBolts(BoltInput{
		Spec:    "A325-N",
		Size:    "M20",
		NBolts:  1,
		NPlanes: 1,
		ShearKN: 50,
	})
	require.NoError(t, err)

	// Ab = 314.16 mm2, Fnv = 372 MPa: Rn = 116.87 kN, phi Rn = 87.65 kN.
	shear := findCheck(t, res.Checks, "bolt_shear")
	assert.InDelta(t, 87.65, shear.CapacityKN, 0.1)
	assert.InDelta(t, 116.87, shear.CapacityKN/0.75, 0.1)
	assert.Equal(t, "bolt_shear", res.Governing)
}

func TestBoltUnknownSpec(t *testing.T) {
	_, err := CheckBolts(BoltInput{Spec: "A999", Size: "M20", NBolts: 1})
	var specErr *UnknownSpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "bolt spec", specErr.Kind)
}

func TestSlipHoleFactors(t *testing.T) {
	base := BoltInput{
		Spec:         "A325-N",
		Size:         "M20",
		NBolts:       2,
		NPlanes:      1,
		ShearKN:      30,
		SlipCritical: true,
		Surface:      "A",
	}

	slipCap := func(hole HoleType) float64 {
		in := base
		in.HoleType = hole
		res, err := CheckBolts(in)
		require.NoError(t, err)
		return findCheck(t, res.Checks, "slip").CapacityKN
	}

	std := slipCap(HoleStandard)
	require.Greater(t, std, 0.0)
	assert.InDelta(t, 0.85*std, slipCap(HoleOversized), 1e-9)
	assert.InDelta(t, 0.60*std, slipCap(HoleLongSlot), 1e-9)
}

func TestBlockShearGoverningPath(t *testing.T) {
	in := BoltInput{
		Spec:    "A325-N",
		Size:    "M20",
		NBolts:  2,
		ShearKN: 100,

		PlateThickMM: 10,
		FyMPa:        250,
		FuMPa:        400,

		GrossShearAreaMM2: 1000,
		NetShearAreaMM2:   500,
		NetTensionAreaMM2: 300,
	}
	res, err := CheckBolts(in)
	require.NoError(t, err)
	// Rupture path: 0.6*400*500 + 400*300 = 240 kN < yield 270 kN.
	assert.Equal(t, "shear_rupture", res.BlockShearPath)
	bs := findCheck(t, res.Checks, "block_shear")
	assert.InDelta(t, 0.75*240.0, bs.CapacityKN, 1e-6)

	in.GrossShearAreaMM2 = 500
	in.NetShearAreaMM2 = 1000
	res, err = CheckBolts(in)
	require.NoError(t, err)
	// Yield path: 0.6*250*500 + 120000 = 195 kN < rupture 360 kN.
	assert.Equal(t, "shear_yield", res.BlockShearPath)
}

func TestDetailingMessages(t *testing.T) {
	res, err := CheckBolts(BoltInput{
		Spec:           "A325-N",
		Size:           "M20",
		NBolts:         1,
		ShearKN:        10,
		PlateThickMM:   10,
		FuMPa:          400,
		EdgeDistanceMM: 20, // below the 26 mm minimum for M20
		SpacingMM:      40, // below 2-2/3 d = 53 mm
	})
	require.NoError(t, err)

	codes := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		codes = append(codes, m.Code)
	}
	assert.Contains(t, codes, "AISC-J3.4")
	assert.Contains(t, codes, "AISC-J3.3")
}

func TestStatusBands(t *testing.T) {
	run := func(demand float64) BoltResult {
		res, err := CheckBolts(BoltInput{Spec: "A325-N", Size: "M20", NBolts: 1, NPlanes: 1, ShearKN: demand})
		require.NoError(t, err)
		return res
	}
	assert.Equal(t, "pass", string(run(50).Status))
	assert.Equal(t, "warning", string(run(85).Status))
	assert.Equal(t, "fail", string(run(100).Status))
}
