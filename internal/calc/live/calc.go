package live

import (
	"fmt"
	"math"
)

type occupancy struct {
	BaseKPa   float64
	Reducible bool
	KLL       float64
}

// Occupancy table: uniform live load, reducibility flag and the live-load
// element factor used by the tributary-area reduction.
var occupancies = map[string]occupancy{
	"residential": {1.9, true, 4},
	"office":      {2.4, true, 4},
	"retail":      {4.8, true, 4},
	"classroom":   {1.9, true, 4},
	"assembly":    {4.8, false, 4},
	"storage":     {6.0, false, 4},
	"parking":     {1.9, false, 4},
	"corridor":    {3.8, true, 4},
}

type Input struct {
	Occupancy       string  `json:"occupancy"`
	TributaryAreaM2 float64 `json:"tributary_area_m2"`
	Stories         int     `json:"stories"`
	// Roof inputs; roof live load is occupancy-independent.
	Roof           bool `json:"roof"`
	RoofAccessible bool `json:"roof_accessible"`
}

type Result struct {
	BaseKPa    float64 `json:"base_kpa"`
	DesignKPa  float64 `json:"design_kpa"`
	Reduced    bool    `json:"reduced"`
	Reduction  float64 `json:"reduction_factor"`
	Notes      string  `json:"notes"`
}

// Reduction floor: half the base load for members supporting one floor,
// forty percent for members supporting two or more.
func reductionFloor(stories int) float64 {
	if stories >= 2 {
		return 0.4
	}
	return 0.5
}

func Calculate(in Input) (Result, error) {
	if in.Roof {
		lo := 0.6
		if in.RoofAccessible {
			lo = 1.9
		}
		return Result{
			BaseKPa:   lo,
			DesignKPa: lo,
			Reduction: 1.0,
			Notes:     "Roof live load by accessibility; no area reduction applied.",
		}, nil
	}

	occ, ok := occupancies[in.Occupancy]
	if !ok {
		return Result{}, fmt.Errorf("unknown occupancy %q", in.Occupancy)
	}
	if in.TributaryAreaM2 < 0 {
		return Result{}, fmt.Errorf("invalid tributary area")
	}
	if in.Stories <= 0 {
		in.Stories = 1
	}

	factor := 1.0
	reduced := false
	influence := occ.KLL * in.TributaryAreaM2
	if occ.Reducible && influence > 37.2 {
		factor = 0.25 + 4.57/math.Sqrt(influence)
		floor := reductionFloor(in.Stories)
		if factor < floor {
			factor = floor
		}
		if factor > 1.0 {
			factor = 1.0
		}
		reduced = factor < 1.0
	}

	return Result{
		BaseKPa:   occ.BaseKPa,
		DesignKPa: occ.BaseKPa * factor,
		Reduced:   reduced,
		Reduction: factor,
		Notes:     "Area-based reduction applied only to reducible occupancies.",
	}, nil
}
