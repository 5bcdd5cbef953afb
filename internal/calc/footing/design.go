package footing

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

// ACI 318 strength reduction factors.
const (
	phiFlexure = 0.90
	phiShear   = 0.75
	// Shrinkage and temperature minimum ratio on gross section.
	rhoMinGross = 0.0018
	// Maximum bar spacing for footing flexural steel (mm).
	maxSpacingMM = 300
)

// Metric bar catalog, diameter mm.
var barSizes = []float64{10, 12, 16, 20, 25}

type FlexureInput struct {
	MomentKNmPerM    float64 `json:"moment_knm_per_m"` // Mu per meter strip
	EffectiveDepthMM float64 `json:"effective_depth_mm"`
	TotalDepthMM     float64 `json:"total_depth_mm"`
	FcMPa            float64 `json:"fc_mpa"`
	FyMPa            float64 `json:"fy_mpa"`
}

type FlexureResult struct {
	AsRequiredMM2PerM float64 `json:"as_required_mm2_per_m"`
	AsMinimumMM2PerM  float64 `json:"as_minimum_mm2_per_m"`
	AsProvidedMM2PerM float64 `json:"as_provided_mm2_per_m"`
	BarDiameterMM     float64 `json:"bar_diameter_mm"`
	SpacingMM         float64 `json:"spacing_mm"`
	Messages          []model.CodedMessage `json:"messages,omitempty"`
}

// Flexure sizes the flexural reinforcement of a 1 m strip: strength
// requirement from the rectangular stress block, floored by the shrinkage
// minimum, then the smallest catalog bar that fits inside the spacing cap.
func Flexure(in FlexureInput) (FlexureResult, error) {
	if in.EffectiveDepthMM <= 0 || in.FcMPa <= 0 || in.FyMPa <= 0 {
		return FlexureResult{}, fmt.Errorf("invalid flexure input")
	}
	if in.TotalDepthMM <= 0 {
		in.TotalDepthMM = in.EffectiveDepthMM + 75
	}
	const b = 1000.0 // strip width, mm

	var asReq float64
	if in.MomentKNmPerM > 0 {
		mu := in.MomentKNmPerM * 1e6 // N*mm
		d := in.EffectiveDepthMM
		disc := d*d - 2*mu/(phiFlexure*0.85*in.FcMPa*b)
		if disc < 0 {
			return FlexureResult{}, fmt.Errorf("section too shallow for moment %.1f kNm/m", in.MomentKNmPerM)
		}
		asReq = 0.85 * in.FcMPa * b / in.FyMPa * (d - math.Sqrt(disc))
	}
	asMin := rhoMinGross * b * in.TotalDepthMM

	res := FlexureResult{
		AsRequiredMM2PerM: asReq,
		AsMinimumMM2PerM:  asMin,
	}
	need := math.Max(asReq, asMin)

	for _, dia := range barSizes {
		area := math.Pi * dia * dia / 4
		spacing := math.Floor(area * b / need / 10) * 10
		if spacing > maxSpacingMM {
			spacing = maxSpacingMM
		}
		if spacing < 75 {
			continue // bar too small to fit practically
		}
		res.BarDiameterMM = dia
		res.SpacingMM = spacing
		res.AsProvidedMM2PerM = area * b / spacing
		break
	}
	if res.BarDiameterMM == 0 {
		res.Messages = append(res.Messages, model.CodedMessage{
			Code: "FOUND-REBAR",
			Text: "no catalog bar satisfies the spacing limits; increase depth or bar size range",
		})
	}
	if asMin > asReq {
		res.Messages = append(res.Messages, model.CodedMessage{
			Code: "ACI-7.6.1",
			Text: "minimum shrinkage reinforcement governs over strength requirement",
		})
	}
	return res, nil
}

type ShearInput struct {
	// Factored soil pressure under the footing.
	PressureKPa float64 `json:"pressure_kpa"`

	WidthM  float64 `json:"width_m"`
	LengthM float64 `json:"length_m"`
	// Column plan dimensions.
	ColumnXM float64 `json:"column_x_m"`
	ColumnYM float64 `json:"column_y_m"`

	EffectiveDepthMM float64 `json:"effective_depth_mm"`
	FcMPa            float64 `json:"fc_mpa"`
	// ColumnPosition: interior (default), edge, corner. Sets alpha_s.
	ColumnPosition string `json:"column_position"`
}

type ShearResult struct {
	OneWayDemandKN    float64 `json:"one_way_demand_kn"`
	OneWayCapacityKN  float64 `json:"one_way_capacity_kn"`
	OneWayRatio       float64 `json:"one_way_ratio"`
	PunchingPerimeterM float64 `json:"punching_perimeter_m"`
	PunchingDemandKN   float64 `json:"punching_demand_kn"`
	PunchingCapacityKN float64 `json:"punching_capacity_kn"`
	PunchingRatio      float64 `json:"punching_ratio"`
}

// Shear checks one-way (beam) shear at distance d from the column face and
// two-way (punching) shear on the critical perimeter at d/2.
func Shear(in ShearInput) (ShearResult, error) {
	if in.WidthM <= 0 || in.LengthM <= 0 || in.EffectiveDepthMM <= 0 || in.FcMPa <= 0 {
		return ShearResult{}, fmt.Errorf("invalid shear input")
	}
	if in.ColumnXM <= 0 || in.ColumnYM <= 0 {
		return ShearResult{}, fmt.Errorf("invalid column dimensions")
	}
	d := in.EffectiveDepthMM / 1000 // m
	qu := in.PressureKPa

	var res ShearResult

	// One-way shear across the width, critical section at d from the face.
	cantilever := (in.WidthM - in.ColumnXM) / 2
	shearSpan := cantilever - d
	if shearSpan < 0 {
		shearSpan = 0
	}
	res.OneWayDemandKN = qu * shearSpan * in.LengthM
	vc := 0.17 * math.Sqrt(in.FcMPa) * 1000 // kPa
	res.OneWayCapacityKN = phiShear * vc * in.LengthM * d
	if res.OneWayCapacityKN > 0 {
		res.OneWayRatio = res.OneWayDemandKN / res.OneWayCapacityKN
	}

	// Two-way shear: bo = 2(cx+d) + 2(cy+d).
	bo := 2*(in.ColumnXM+d) + 2*(in.ColumnYM+d)
	res.PunchingPerimeterM = bo
	critArea := (in.ColumnXM + d) * (in.ColumnYM + d)
	res.PunchingDemandKN = qu * (in.WidthM*in.LengthM - critArea)

	beta := math.Max(in.ColumnXM, in.ColumnYM) / math.Min(in.ColumnXM, in.ColumnYM)
	alphaS := 40.0
	switch in.ColumnPosition {
	case "edge":
		alphaS = 30
	case "corner":
		alphaS = 20
	}
	v1 := 0.33 * math.Sqrt(in.FcMPa)
	v2 := 0.17 * (1 + 2/beta) * math.Sqrt(in.FcMPa)
	v3 := 0.083 * (2 + alphaS*d/bo) * math.Sqrt(in.FcMPa)
	vcp := math.Min(v1, math.Min(v2, v3)) * 1000 // kPa
	res.PunchingCapacityKN = phiShear * vcp * bo * d
	if res.PunchingCapacityKN > 0 {
		res.PunchingRatio = res.PunchingDemandKN / res.PunchingCapacityKN
	}
	return res, nil
}
