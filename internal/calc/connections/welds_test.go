package connections

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCJPDevelopsBaseMetal(t *testing.T) {
	res, err := CheckWeld(WeldInput{
		Type:         WeldCJP,
		PlateThickMM: 16,
		LengthMM:     200,
		FuMPa:        450,
		DemandKN:     500,
	})
	require.NoError(t, err)
	// Rn = 450*16*200 = 1440 kN, phi Rn = 1296 kN.
	cjp := findCheck(t, res.Checks, "cjp_base_metal")
	assert.InDelta(t, 1296.0, cjp.CapacityKN, 1e-6)
	assert.Equal(t, "cjp_base_metal", res.Governing)
}

func TestFilletDirectionalIncrease(t *testing.T) {
	base := WeldInput{
		Type:         WeldFillet,
		Electrode:    "E70",
		SizeMM:       8,
		LengthMM:     150,
		PlateThickMM: 12,
		DemandKN:     50,
	}

	weldCap := func(angle float64) float64 {
		in := base
		in.LoadAngleDeg = angle
		res, err := CheckWeld(in)
		require.NoError(t, err)
		return findCheck(t, res.Checks, "weld").CapacityKN
	}

	longitudinal := weldCap(0)
	transverse := weldCap(90)
	assert.InDelta(t, 1.5*longitudinal, transverse, 1e-9)

	// Longitudinal capacity: 0.75*0.6*483*(8/sqrt2)*150/1000.
	want := 0.75 * 0.6 * 483 * (8 / math.Sqrt2) * 150 / 1000
	assert.InDelta(t, want, longitudinal, 1e-9)
}

func TestFilletBaseMetalGoverns(t *testing.T) {
	// Thin weak plate with a large weld: base metal limits the joint.
	res, err := CheckWeld(WeldInput{
		Type:         WeldFillet,
		Electrode:    "E80",
		SizeMM:       10,
		LengthMM:     200,
		LoadAngleDeg: 90,
		PlateThickMM: 4,
		FyMPa:        235,
		FuMPa:        360,
		DemandKN:     80,
	})
	require.NoError(t, err)
	assert.Contains(t, []string{"base_metal", "base_metal_rupture"}, res.Governing)
}

func TestFilletDetailingMessages(t *testing.T) {
	res, err := CheckWeld(WeldInput{
		Type:         WeldFillet,
		Electrode:    "E70",
		SizeMM:       3,
		LengthMM:     10, // below 4x size
		PlateThickMM: 20, // minimum fillet 8 mm
		DemandKN:     5,
	})
	require.NoError(t, err)

	codes := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		codes = append(codes, m.Code)
	}
	assert.Contains(t, codes, "AISC-J2.4")
	assert.Contains(t, codes, "AISC-J2.2b-L")
}

func TestUnknownElectrode(t *testing.T) {
	_, err := CheckWeld(WeldInput{Type: WeldFillet, Electrode: "E99", SizeMM: 6, LengthMM: 100, PlateThickMM: 10})
	var specErr *UnknownSpecError
	require.ErrorAs(t, err, &specErr)
}
