package piles

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

type Method string

const (
	// MethodAlpha uses total-stress adhesion for cohesive profiles.
	MethodAlpha Method = "alpha"
	// MethodBeta uses effective-stress friction for granular profiles.
	MethodBeta Method = "beta"
)

type Installation string

const (
	InstallDriven Installation = "driven"
	InstallBored  Installation = "bored"
)

const bearingNc = 9.0

type Layer struct {
	FromDepthM float64 `json:"from_depth_m"`
	ToDepthM   float64 `json:"to_depth_m"`
	// Effective unit weight used for the overburden integral.
	GammaKNM3   float64 `json:"gamma_kn_m3"`
	CohesionKPa float64 `json:"cohesion_kpa"`
	FrictionDeg float64 `json:"friction_deg"`
	// Beta overrides the computed (1-sin phi)*tan(phi) coefficient when
	// nonzero.
	Beta float64 `json:"beta,omitempty"`
}

type Input struct {
	Method       Method       `json:"method"`
	Installation Installation `json:"installation"`

	PileType  string  `json:"pile_type"` // square | round
	SideM     float64 `json:"side_m"`
	DiameterM float64 `json:"diameter_m"`
	LengthM   float64 `json:"length_m"`

	Layers []Layer `json:"layers"`

	// Group layout. Rows*Cols <= 1 means a single pile and no efficiency
	// reduction.
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	SpacingM float64 `json:"spacing_m"`

	DemandKN       float64 `json:"demand_kn"`
	FactorOfSafety float64 `json:"factor_of_safety"` // 0 picks the installation default
}

type Result struct {
	ShaftResistanceKN float64 `json:"shaft_resistance_kn"`
	BaseResistanceKN  float64 `json:"base_resistance_kn"`
	UltimateKN        float64 `json:"ultimate_kn"`
	AllowableKN       float64 `json:"allowable_kn"`

	GroupEfficiency  float64 `json:"group_efficiency"`
	GroupAllowableKN float64 `json:"group_allowable_kn"`

	FactorOfSafety float64 `json:"factor_of_safety"`
	Ratio          float64 `json:"ratio"`
	Status         model.CheckStatus    `json:"status"`
	Messages       []model.CodedMessage `json:"messages,omitempty"`
}

// Calculate evaluates single-pile axial capacity by the alpha or beta method
// and, for a group, applies the Converse-Labarre efficiency to the allowable
// total.
func Calculate(in Input) (Result, error) {
	if in.LengthM <= 0 {
		return Result{}, fmt.Errorf("invalid pile length")
	}
	if in.PileType != "square" && in.PileType != "round" {
		return Result{}, fmt.Errorf("invalid pile type")
	}
	if in.PileType == "square" && in.SideM <= 0 {
		return Result{}, fmt.Errorf("invalid square side")
	}
	if in.PileType == "round" && in.DiameterM <= 0 {
		return Result{}, fmt.Errorf("invalid diameter")
	}
	if len(in.Layers) == 0 {
		return Result{}, fmt.Errorf("no layers provided")
	}
	if in.Method != MethodAlpha && in.Method != MethodBeta {
		return Result{}, fmt.Errorf("unknown method %q", in.Method)
	}

	var perimeter, area, width float64
	if in.PileType == "square" {
		perimeter = 4 * in.SideM
		area = in.SideM * in.SideM
		width = in.SideM
	} else {
		perimeter = math.Pi * in.DiameterM
		area = math.Pi * in.DiameterM * in.DiameterM / 4
		width = in.DiameterM
	}

	toe := in.LengthM
	shaft := 0.0
	for _, layer := range in.Layers {
		overlap := math.Min(layer.ToDepthM, toe) - math.Max(layer.FromDepthM, 0)
		if overlap <= 0 {
			continue
		}
		var fs float64 // unit skin friction, kPa
		switch in.Method {
		case MethodAlpha:
			fs = adhesionFactor(layer.CohesionKPa) * layer.CohesionKPa
		case MethodBeta:
			mid := math.Max(layer.FromDepthM, 0) + overlap/2
			fs = betaCoefficient(layer) * overburden(in.Layers, mid)
		}
		shaft += fs * perimeter * overlap
	}

	toeLayer, err := layerAt(in.Layers, toe)
	if err != nil {
		return Result{}, err
	}
	var base float64
	switch in.Method {
	case MethodAlpha:
		base = bearingNc * toeLayer.CohesionKPa * area
	case MethodBeta:
		base = bearingNq(toeLayer.FrictionDeg) * overburden(in.Layers, toe) * area
	}

	fos := in.FactorOfSafety
	if fos <= 0 {
		if in.Installation == InstallBored {
			fos = 2.5
		} else {
			fos = 2.0
		}
	}

	res := Result{
		ShaftResistanceKN: shaft,
		BaseResistanceKN:  base,
		UltimateKN:        shaft + base,
		FactorOfSafety:    fos,
	}
	res.AllowableKN = res.UltimateKN / fos

	rows, cols := in.Rows, in.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	res.GroupEfficiency = GroupEfficiency(rows, cols, width, in.SpacingM)
	res.GroupAllowableKN = res.GroupEfficiency * float64(rows*cols) * res.AllowableKN
	if res.GroupEfficiency < 1 {
		res.Messages = append(res.Messages, model.CodedMessage{
			Code: "PILE-GROUP",
			Text: fmt.Sprintf("group efficiency %.3f for %dx%d piles at %.2f m spacing", res.GroupEfficiency, rows, cols, in.SpacingM),
		})
	}

	if in.DemandKN > 0 {
		if res.GroupAllowableKN > 0 {
			res.Ratio = in.DemandKN / res.GroupAllowableKN
		} else {
			res.Ratio = math.Inf(1)
		}
	}
	res.Status = model.StatusForRatio(res.Ratio)
	return res, nil
}

// adhesionFactor bands alpha on undrained strength: 1.0 for soft clay up to
// 25 kPa, 0.5 beyond 75 kPa, linear in between.
func adhesionFactor(cuKPa float64) float64 {
	switch {
	case cuKPa <= 25:
		return 1.0
	case cuKPa >= 75:
		return 0.5
	default:
		return 1.0 - 0.5*(cuKPa-25)/50
	}
}

func betaCoefficient(layer Layer) float64 {
	if layer.Beta > 0 {
		return layer.Beta
	}
	phi := layer.FrictionDeg * math.Pi / 180
	return (1 - math.Sin(phi)) * math.Tan(phi)
}

// bearingNq is the Meyerhof end-bearing factor.
func bearingNq(frictionDeg float64) float64 {
	phi := frictionDeg * math.Pi / 180
	t := math.Tan(math.Pi/4 + phi/2)
	return math.Exp(math.Pi*math.Tan(phi)) * t * t
}

// overburden integrates effective vertical stress down to depth, kPa.
func overburden(layers []Layer, depth float64) float64 {
	sigma := 0.0
	for _, layer := range layers {
		h := math.Min(layer.ToDepthM, depth) - math.Max(layer.FromDepthM, 0)
		if h <= 0 {
			continue
		}
		sigma += layer.GammaKNM3 * h
	}
	return sigma
}

func layerAt(layers []Layer, depth float64) (Layer, error) {
	for _, layer := range layers {
		if depth > layer.FromDepthM && depth <= layer.ToDepthM {
			return layer, nil
		}
	}
	return Layer{}, fmt.Errorf("no soil layer covers the pile toe at %.2f m", depth)
}

// GroupEfficiency is the Converse-Labarre reduction for an m x n pile grid,
// capped at 1.0. Single piles and degenerate spacings return 1.0.
func GroupEfficiency(rows, cols int, widthM, spacingM float64) float64 {
	if rows*cols <= 1 {
		return 1.0
	}
	if spacingM <= 0 || widthM <= 0 {
		return 1.0
	}
	theta := math.Atan(widthM/spacingM) * 180 / math.Pi
	m, n := float64(rows), float64(cols)
	eta := 1 - theta*((n-1)*m+(m-1)*n)/(90*m*n)
	if eta > 1 {
		eta = 1
	}
	if eta < 0 {
		eta = 0
	}
	return eta
}
