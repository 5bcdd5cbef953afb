package footing

import (
	"fmt"
	"math"
)

type StabilityInput struct {
	WidthM  float64 `json:"width_m"`
	LengthM float64 `json:"length_m"`

	VerticalKN    float64 `json:"vertical_kn"`    // P, includes footing weight
	HorizontalKN  float64 `json:"horizontal_kn"`  // sliding demand H
	OverturnKNm   float64 `json:"overturn_knm"`   // overturning moment demand

	// Interface properties.
	BaseFrictionDeg float64 `json:"base_friction_deg"`
	AdhesionKPa     float64 `json:"adhesion_kpa"`
	// PassiveKN is an optional passive-pressure resultant credited against
	// sliding.
	PassiveKN float64 `json:"passive_kn"`
}

type StabilityResult struct {
	SlidingResistanceKN float64 `json:"sliding_resistance_kn"`
	SlidingRatio        float64 `json:"sliding_ratio"`
	ResistingMomentKNm  float64 `json:"resisting_moment_knm"`
	OverturnRatio       float64 `json:"overturn_ratio"`
}

// Stability evaluates the sliding and overturning demand/capacity ratios.
// The resisting moment arm is half the smaller plan dimension.
func Stability(in StabilityInput) (StabilityResult, error) {
	if in.WidthM <= 0 || in.LengthM <= 0 {
		return StabilityResult{}, fmt.Errorf("invalid footing dimensions")
	}
	if in.VerticalKN <= 0 {
		return StabilityResult{}, fmt.Errorf("vertical load must be positive")
	}

	friction := in.VerticalKN * math.Tan(in.BaseFrictionDeg*math.Pi/180)
	cohesion := in.AdhesionKPa * in.WidthM * in.LengthM
	slidingRes := friction + cohesion + in.PassiveKN

	arm := math.Min(in.WidthM, in.LengthM) / 2
	resisting := in.VerticalKN * arm

	res := StabilityResult{
		SlidingResistanceKN: slidingRes,
		ResistingMomentKNm:  resisting,
	}
	if in.HorizontalKN > 0 {
		if slidingRes <= 0 {
			res.SlidingRatio = math.Inf(1)
		} else {
			res.SlidingRatio = in.HorizontalKN / slidingRes
		}
	}
	if in.OverturnKNm > 0 {
		if resisting <= 0 {
			res.OverturnRatio = math.Inf(1)
		} else {
			res.OverturnRatio = in.OverturnKNm / resisting
		}
	}
	return res, nil
}
