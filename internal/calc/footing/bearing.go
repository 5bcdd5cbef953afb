// Package footing checks shallow foundations: bearing capacity per the
// classical Terzaghi/Meyerhof formulas, eccentric contact pressures,
// sliding/overturning stability and ACI 318 flexure and shear design.
// Geotechnical quantities are in m, kN, kPa; reinforcement in mm and MPa.
package footing

import (
	"fmt"
	"math"
)

type Method string

const (
	MethodTerzaghi Method = "terzaghi"
	MethodMeyerhof Method = "meyerhof"
)

// Factors are the bearing-capacity factors Nc, Nq, Ngamma.
type Factors struct {
	Nc     float64 `json:"nc"`
	Nq     float64 `json:"nq"`
	Ngamma float64 `json:"ngamma"`
}

const waterUnitWeight = 9.81 // kN/m3

// BearingFactors evaluates the closed-form factors for friction angle phi
// (degrees). The phi = 0 limits are the classical constants: Terzaghi
// Nc = 5.7, Meyerhof Nc = 5.14, Nq = 1 for both.
func BearingFactors(method Method, phiDeg float64) (Factors, error) {
	if phiDeg < 0 || phiDeg > 50 {
		return Factors{}, fmt.Errorf("friction angle %.1f out of range", phiDeg)
	}
	phi := phiDeg * math.Pi / 180

	switch method {
	case MethodTerzaghi:
		if phiDeg < 1e-9 {
			return Factors{Nc: 5.7, Nq: 1.0, Ngamma: 0.0}, nil
		}
		a := math.Exp((0.75*math.Pi - phi/2) * math.Tan(phi))
		nq := a * a / (2 * math.Pow(math.Cos(math.Pi/4+phi/2), 2))
		nc := (nq - 1) / math.Tan(phi)
		// Fit to Terzaghi's Ngamma table.
		ng := 2 * (nq + 1) * math.Tan(phi) / (1 + 0.4*math.Sin(4*phi))
		return Factors{Nc: nc, Nq: nq, Ngamma: ng}, nil
	case MethodMeyerhof:
		if phiDeg < 1e-9 {
			return Factors{Nc: 5.14, Nq: 1.0, Ngamma: 0.0}, nil
		}
		nq := math.Exp(math.Pi*math.Tan(phi)) * math.Pow(math.Tan(math.Pi/4+phi/2), 2)
		nc := (nq - 1) / math.Tan(phi)
		ng := (nq - 1) * math.Tan(1.4*phi)
		return Factors{Nc: nc, Nq: nq, Ngamma: ng}, nil
	default:
		return Factors{}, fmt.Errorf("unknown bearing method %q", method)
	}
}

type BearingInput struct {
	Method Method `json:"method"`

	WidthM  float64 `json:"width_m"`  // B, the smaller plan dimension
	LengthM float64 `json:"length_m"` // L
	DepthM  float64 `json:"depth_m"`  // embedment D

	CohesionKPa   float64 `json:"cohesion_kpa"`
	FrictionDeg   float64 `json:"friction_deg"`
	UnitWeightKNM3 float64 `json:"unit_weight_kn_m3"`
	// SatUnitWeightKNM3 below the water table; defaults to the moist value.
	SatUnitWeightKNM3 float64 `json:"sat_unit_weight_kn_m3"`
	// WaterDepthM measured from the surface; large values mean no water
	// influence. Zero means water at the surface when WaterPresent is set.
	WaterPresent bool    `json:"water_present"`
	WaterDepthM  float64 `json:"water_depth_m"`

	FactorOfSafety float64 `json:"factor_of_safety"` // default 3.0
}

type BearingResult struct {
	Factors      Factors `json:"factors"`
	UltimateKPa  float64 `json:"ultimate_kpa"`
	AllowableKPa float64 `json:"allowable_kpa"`
	// Unit weight effective in the Ngamma term after the water reduction.
	EffectiveGammaKNM3 float64 `json:"effective_gamma_kn_m3"`
	SurchargeKPa       float64 `json:"surcharge_kpa"`
	Notes              string  `json:"notes"`
}

// Bearing computes the ultimate and allowable bearing pressure with shape
// factors and the water-table reduction.
func Bearing(in BearingInput) (BearingResult, error) {
	if in.WidthM <= 0 || in.LengthM <= 0 {
		return BearingResult{}, fmt.Errorf("invalid footing dimensions")
	}
	if in.DepthM < 0 {
		return BearingResult{}, fmt.Errorf("invalid embedment depth")
	}
	if in.UnitWeightKNM3 <= 0 {
		return BearingResult{}, fmt.Errorf("invalid unit weight")
	}
	if in.FactorOfSafety <= 0 {
		in.FactorOfSafety = 3.0
	}
	if in.SatUnitWeightKNM3 <= 0 {
		in.SatUnitWeightKNM3 = in.UnitWeightKNM3
	}
	f, err := BearingFactors(in.Method, in.FrictionDeg)
	if err != nil {
		return BearingResult{}, err
	}

	b, l, d := in.WidthM, in.LengthM, in.DepthM
	if b > l {
		b, l = l, b
	}
	sc := 1 + 0.3*b/l
	sg := 1 - 0.2*b/l

	gammaSub := in.SatUnitWeightKNM3 - waterUnitWeight
	if gammaSub < 0 {
		gammaSub = 0
	}

	// Surcharge at the footing base and the unit weight entering the width
	// term, both reduced when the water table is shallow.
	surcharge := in.UnitWeightKNM3 * d
	gammaEff := in.UnitWeightKNM3
	if in.WaterPresent {
		dw := in.WaterDepthM
		if dw < 0 {
			dw = 0
		}
		if dw < d {
			surcharge = in.UnitWeightKNM3*dw + gammaSub*(d-dw)
			gammaEff = gammaSub
		} else if dw < d+b {
			// Water within the failure wedge: interpolate.
			gammaEff = gammaSub + (in.UnitWeightKNM3-gammaSub)*(dw-d)/b
		}
	}

	qult := in.CohesionKPa*f.Nc*sc + surcharge*f.Nq + 0.5*gammaEff*b*f.Ngamma*sg

	return BearingResult{
		Factors:            f,
		UltimateKPa:        qult,
		AllowableKPa:       qult / in.FactorOfSafety,
		EffectiveGammaKNM3: gammaEff,
		SurchargeKPa:       surcharge,
		Notes:              "q_ult = c*Nc*sc + q*Nq + 0.5*gamma*B*Ng*sg with water-table reduction.",
	}, nil
}
