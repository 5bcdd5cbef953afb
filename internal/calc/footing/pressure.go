package footing

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

type PressureInput struct {
	WidthM  float64 `json:"width_m"`  // B
	LengthM float64 `json:"length_m"` // L

	VerticalKN float64 `json:"vertical_kn"` // P, compression positive
	// Moments about each plan axis produce eccentricity along the other:
	// MomentBKNm shifts the resultant along B, MomentLKNm along L.
	MomentBKNm float64 `json:"moment_b_knm"`
	MomentLKNm float64 `json:"moment_l_knm"`
}

type PressureResult struct {
	EccentricityBM float64 `json:"eccentricity_b_m"`
	EccentricityLM float64 `json:"eccentricity_l_m"`
	QmaxKPa        float64 `json:"qmax_kpa"`
	QminKPa        float64 `json:"qmin_kpa"`
	// FullContact is true iff both eccentricities stay inside the kern
	// (e <= B/6 and e <= L/6); outside it the distribution goes triangular
	// with qmin pinned at zero, no tension admitted.
	FullContact bool                 `json:"full_contact"`
	Messages    []model.CodedMessage `json:"messages,omitempty"`
}

// Pressure computes the extreme soil contact pressures under an eccentric
// vertical load.
func Pressure(in PressureInput) (PressureResult, error) {
	if in.WidthM <= 0 || in.LengthM <= 0 {
		return PressureResult{}, fmt.Errorf("invalid footing dimensions")
	}
	if in.VerticalKN <= 0 {
		return PressureResult{}, fmt.Errorf("vertical load must be positive")
	}
	b, l, p := in.WidthM, in.LengthM, in.VerticalKN
	eb := math.Abs(in.MomentBKNm) / p
	el := math.Abs(in.MomentLKNm) / p

	if eb >= b/2 || el >= l/2 {
		return PressureResult{}, fmt.Errorf("resultant outside footing (e_b=%.3f, e_l=%.3f)", eb, el)
	}

	res := PressureResult{
		EccentricityBM: eb,
		EccentricityLM: el,
		FullContact:    eb <= b/6+1e-12 && el <= l/6+1e-12,
	}

	if res.FullContact {
		q := p / (b * l)
		res.QmaxKPa = q * (1 + 6*eb/b + 6*el/l)
		res.QminKPa = q * (1 - 6*eb/b - 6*el/l)
		if res.QminKPa < 0 {
			res.QminKPa = 0
		}
		return res, nil
	}

	// Outside the kern: triangular distribution on the exceeded axis, no
	// tension carried. Each axis contributes an amplification over the
	// uniform pressure; exact for single-axis eccentricity, approximate
	// when both axes exceed the kern.
	amplify := func(e, dim float64) float64 {
		if e > dim/6 {
			return 2 * dim / (3 * (dim/2 - e))
		}
		return 1 + 6*e/dim
	}
	res.QminKPa = 0
	res.QmaxKPa = p / (b * l) * amplify(eb, b) * amplify(el, l)
	res.Messages = append(res.Messages, model.CodedMessage{
		Code: "FOUND-ECCENTRIC",
		Text: fmt.Sprintf("eccentricity outside kern (e_b=%.3f m, e_l=%.3f m); partial contact assumed", eb, el),
	})
	return res, nil
}
