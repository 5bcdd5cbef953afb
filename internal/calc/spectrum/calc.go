// Package spectrum generates an NCh433-style elastic design spectrum from
// seismic zone and soil classification.
package spectrum

import (
	"fmt"
	"math"
)

const Gravity = 9.81 // m/s2

type soilParams struct {
	S  float64
	T0 float64
	Tp float64
	N  float64
	P  float64
}

// Soil classes A (rock) through E (soft soil).
var soils = map[string]soilParams{
	"A": {0.90, 0.15, 0.20, 1.00, 2.0},
	"B": {1.00, 0.30, 0.35, 1.33, 1.5},
	"C": {1.05, 0.40, 0.45, 1.40, 1.6},
	"D": {1.20, 0.75, 0.85, 1.80, 1.0},
	"E": {1.30, 1.20, 1.35, 1.80, 1.0},
}

// Effective ground acceleration per seismic zone, as a fraction of g.
var zoneA0 = map[string]float64{
	"1": 0.20,
	"2": 0.30,
	"3": 0.40,
}

type Input struct {
	Zone string `json:"zone"`
	Soil string `json:"soil"`
	// R is the response modification factor; I the importance factor.
	// Defaults: R = 7 (frames), I = 1.0.
	R float64 `json:"r"`
	I float64 `json:"i"`
}

// Spectrum is a sampled design spectrum; Sa returns the spectral
// pseudo-acceleration (m/s2) at period T (s).
type Spectrum struct {
	A0   float64 `json:"a0_g"`
	S    float64 `json:"s"`
	T0   float64 `json:"t0_s"`
	R    float64 `json:"r"`
	I    float64 `json:"i"`
	P    float64 `json:"p"`
}

type Result struct {
	Spectrum Spectrum  `json:"spectrum"`
	// Sampled curve for plotting: Sa (m/s2) at 0.05 s steps up to 3 s.
	PeriodsS []float64 `json:"periods_s"`
	SaMS2    []float64 `json:"sa_ms2"`
	Notes    string    `json:"notes"`
}

// Sa evaluates the design spectral acceleration at period t.
func (sp Spectrum) Sa(t float64) float64 {
	if t < 0 {
		t = 0
	}
	ratio := t / sp.T0
	alpha := (1 + 4.5*math.Pow(ratio, sp.P)) / (1 + ratio*ratio*ratio)
	return sp.S * sp.A0 * Gravity * alpha / (sp.R / sp.I)
}

func Generate(in Input) (Spectrum, error) {
	a0, ok := zoneA0[in.Zone]
	if !ok {
		return Spectrum{}, fmt.Errorf("unknown seismic zone %q", in.Zone)
	}
	soil, ok := soils[in.Soil]
	if !ok {
		return Spectrum{}, fmt.Errorf("unknown soil class %q", in.Soil)
	}
	if in.R <= 0 {
		in.R = 7
	}
	if in.I <= 0 {
		in.I = 1.0
	}
	return Spectrum{A0: a0, S: soil.S, T0: soil.T0, R: in.R, I: in.I, P: soil.P}, nil
}

func Calculate(in Input) (Result, error) {
	sp, err := Generate(in)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Spectrum: sp,
		Notes:    "Elastic design spectrum S*A0*alpha/(R/I), alpha keyed by soil class.",
	}
	for t := 0.0; t <= 3.0+1e-9; t += 0.05 {
		res.PeriodsS = append(res.PeriodsS, t)
		res.SaMS2 = append(res.SaMS2, sp.Sa(t))
	}
	return res, nil
}
