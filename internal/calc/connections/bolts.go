// Package connections checks bolted and welded steel connections against
// AISC 360 chapter J provisions. Inputs are in mm and MPa, capacities in kN.
package connections

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

// UnknownSpecError is raised immediately for an unrecognized bolt spec,
// bolt size or electrode, rather than deferred into a garbage capacity.
type UnknownSpecError struct {
	Kind  string
	Value string
}

func (e *UnknownSpecError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

const (
	phiBolt = 0.75
	duFactor = 1.13
)

type boltSpec struct {
	FntMPa float64
	FnvMPa float64
}

// AISC Table J3.2 nominal stresses. The -N grades include threads in the
// shear plane, the -X grades exclude them.
var boltSpecs = map[string]boltSpec{
	"A325-N": {620, 372},
	"A325-X": {620, 457},
	"A490-N": {780, 457},
	"A490-X": {780, 579},
}

type boltSize struct {
	DiameterMM float64
	// Minimum pretension (kN) for slip-critical connections, group A/B.
	TbA325KN float64
	TbA490KN float64
	// Minimum edge distance to a sheared edge, Table J3.4 (mm).
	MinEdgeMM float64
}

var boltSizes = map[string]boltSize{
	"M16": {16, 91, 114, 22},
	"M20": {20, 142, 179, 26},
	"M22": {22, 176, 221, 28},
	"M24": {24, 205, 257, 30},
	"M27": {27, 267, 334, 34},
	"M30": {30, 326, 408, 38},
	"M36": {36, 475, 595, 46},
}

type HoleType string

const (
	HoleStandard   HoleType = "STD"
	HoleOversized  HoleType = "OVS"
	HoleShortSlot  HoleType = "SSL"
	HoleLongSlot   HoleType = "LSL"
)

// Slip-critical hole factors hsc.
var holeFactors = map[HoleType]float64{
	HoleStandard:  1.00,
	HoleOversized: 0.85,
	HoleShortSlot: 0.85,
	HoleLongSlot:  0.60,
}

type SurfaceClass string

var slipCoefficients = map[SurfaceClass]float64{
	"A": 0.30,
	"B": 0.50,
}

type BoltInput struct {
	Spec   string `json:"spec"`
	Size   string `json:"size"`
	NBolts int    `json:"n_bolts"`
	// NPlanes is the number of shear planes per bolt.
	NPlanes int `json:"n_planes"`

	ShearKN   float64 `json:"shear_kn"`
	TensionKN float64 `json:"tension_kn"`

	// Connected-material properties for bearing and block shear.
	PlateThickMM float64 `json:"plate_thick_mm"`
	FuMPa        float64 `json:"fu_mpa"`
	FyMPa        float64 `json:"fy_mpa"`

	EdgeDistanceMM float64 `json:"edge_distance_mm"`
	SpacingMM      float64 `json:"spacing_mm"`
	// DeformationConsidered selects the 1.2/2.4 bearing pair; false
	// selects 1.5/3.0.
	DeformationConsidered bool `json:"deformation_considered"`

	SlipCritical bool         `json:"slip_critical"`
	HoleType     HoleType     `json:"hole_type"`
	Surface      SurfaceClass `json:"surface"`
	// FillerFactor hf, 1.0 when no fillers.
	FillerFactor float64 `json:"filler_factor"`

	// Block shear geometry (optional; checked when areas are nonzero).
	GrossShearAreaMM2   float64 `json:"gross_shear_area_mm2"`
	NetShearAreaMM2     float64 `json:"net_shear_area_mm2"`
	NetTensionAreaMM2   float64 `json:"net_tension_area_mm2"`
	UbsFactor           float64 `json:"ubs_factor"`
}

// CheckResult is one sub-check: capacity, demand and their ratio.
type CheckResult struct {
	Name       string  `json:"name"`
	CapacityKN float64 `json:"capacity_kn"`
	DemandKN   float64 `json:"demand_kn"`
	Ratio      float64 `json:"ratio"`
}

type BoltResult struct {
	Checks    []CheckResult        `json:"checks"`
	Governing string               `json:"governing_check"`
	Ratio     float64              `json:"ratio"`
	Status    model.CheckStatus    `json:"status"`
	Messages  []model.CodedMessage `json:"messages,omitempty"`
	// Governing block shear path when block shear was checked.
	BlockShearPath string `json:"block_shear_path,omitempty"`
}

func CheckBolts(in BoltInput) (BoltResult, error) {
	spec, ok := boltSpecs[in.Spec]
	if !ok {
		return BoltResult{}, &UnknownSpecError{Kind: "bolt spec", Value: in.Spec}
	}
	size, ok := boltSizes[in.Size]
	if !ok {
		return BoltResult{}, &UnknownSpecError{Kind: "bolt size", Value: in.Size}
	}
	if in.NBolts <= 0 {
		return BoltResult{}, fmt.Errorf("invalid bolt count")
	}
	if in.NPlanes <= 0 {
		in.NPlanes = 1
	}
	if in.FillerFactor <= 0 {
		in.FillerFactor = 1.0
	}
	if in.HoleType == "" {
		in.HoleType = HoleStandard
	}
	if in.UbsFactor <= 0 {
		in.UbsFactor = 1.0
	}

	d := size.DiameterMM
	ab := math.Pi * d * d / 4 // mm2
	var res BoltResult

	// Bolt shear: Rn = Fnv Ab per shear plane.
	shearCap := phiBolt * spec.FnvMPa * ab * float64(in.NPlanes) * float64(in.NBolts) / 1000
	res.addCheck("bolt_shear", shearCap, in.ShearKN)

	// Bearing and tearout on the connected material.
	if in.PlateThickMM > 0 && in.FuMPa > 0 {
		c1, c2 := 1.5, 3.0
		if in.DeformationConsidered {
			c1, c2 = 1.2, 2.4
		}
		// Clear distance from the hole edge; standard hole 2 mm over.
		lc := in.EdgeDistanceMM - (d+2)/2
		if lc < 0 {
			lc = 0
		}
		tearout := c1 * lc * in.PlateThickMM * in.FuMPa
		bearing := c2 * d * in.PlateThickMM * in.FuMPa
		rn := math.Min(tearout, bearing)
		cap := phiBolt * rn * float64(in.NBolts) / 1000
		res.addCheck("bearing_tearout", cap, in.ShearKN)
	}

	// Slip resistance.
	if in.SlipCritical {
		mu, ok := slipCoefficients[in.Surface]
		if !ok {
			return BoltResult{}, &UnknownSpecError{Kind: "surface class", Value: string(in.Surface)}
		}
		hsc, ok := holeFactors[in.HoleType]
		if !ok {
			return BoltResult{}, &UnknownSpecError{Kind: "hole type", Value: string(in.HoleType)}
		}
		tb := size.TbA325KN
		if in.Spec == "A490-N" || in.Spec == "A490-X" {
			tb = size.TbA490KN
		}
		// phi = 1.0 for standard holes at the serviceability limit; the
		// hole factor carries the slot penalties.
		cap := mu * duFactor * in.FillerFactor * tb * float64(in.NPlanes) * hsc * float64(in.NBolts)
		res.addCheck("slip", cap, in.ShearKN)
	}

	// Combined tension and shear.
	if in.TensionKN > 0 {
		frv := in.ShearKN * 1000 / (ab * float64(in.NPlanes) * float64(in.NBolts)) // MPa
		fntPrime := 1.3*spec.FntMPa - spec.FntMPa/(phiBolt*spec.FnvMPa)*frv
		if fntPrime > spec.FntMPa {
			fntPrime = spec.FntMPa
		}
		if fntPrime < 0 {
			fntPrime = 0
		}
		cap := phiBolt * fntPrime * ab * float64(in.NBolts) / 1000
		res.addCheck("tension_shear", cap, in.TensionKN)
	}

	// Block shear, lesser of the shear-yield and shear-rupture paths.
	if in.NetTensionAreaMM2 > 0 && in.FyMPa > 0 && in.FuMPa > 0 {
		tension := in.UbsFactor * in.FuMPa * in.NetTensionAreaMM2
		yieldPath := 0.6*in.FyMPa*in.GrossShearAreaMM2 + tension
		rupturePath := 0.6*in.FuMPa*in.NetShearAreaMM2 + tension
		rn := math.Min(yieldPath, rupturePath)
		res.BlockShearPath = "shear_yield"
		if rupturePath < yieldPath {
			res.BlockShearPath = "shear_rupture"
		}
		res.addCheck("block_shear", phiBolt*rn/1000, in.ShearKN)
	}

	// Detailing checks attach messages only; they never move the ratio.
	if in.EdgeDistanceMM > 0 && in.EdgeDistanceMM < size.MinEdgeMM {
		res.Messages = append(res.Messages, model.CodedMessage{
			Code: "AISC-J3.4",
			Text: fmt.Sprintf("edge distance %.0f mm below minimum %.0f mm", in.EdgeDistanceMM, size.MinEdgeMM),
		})
	}
	if in.SpacingMM > 0 && in.SpacingMM < 8.0/3.0*d {
		res.Messages = append(res.Messages, model.CodedMessage{
			Code: "AISC-J3.3",
			Text: fmt.Sprintf("bolt spacing %.0f mm below minimum %.0f mm (2-2/3 d)", in.SpacingMM, 8.0/3.0*d),
		})
	}

	res.finish()
	return res, nil
}

func (r *BoltResult) addCheck(name string, capacity, demand float64) {
	ratio := 0.0
	if capacity > 0 {
		ratio = demand / capacity
	} else if demand > 0 {
		ratio = math.Inf(1)
	}
	r.Checks = append(r.Checks, CheckResult{Name: name, CapacityKN: capacity, DemandKN: demand, Ratio: ratio})
}

func (r *BoltResult) finish() {
	for _, c := range r.Checks {
		if c.Ratio > r.Ratio || r.Governing == "" {
			r.Ratio = c.Ratio
			r.Governing = c.Name
		}
	}
	r.Status = model.StatusForRatio(r.Ratio)
}
