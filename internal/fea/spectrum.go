package fea

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

// ModalCombination selects how per-mode peaks are combined.
type ModalCombination string

const (
	// CombinationCQC accounts for closely spaced modes through a damping-
	// dependent cross-correlation term. Default.
	CombinationCQC ModalCombination = "cqc"
	// CombinationSRSS is adequate when modes are well separated.
	CombinationSRSS ModalCombination = "srss"
)

type SpectrumOptions struct {
	// Sa returns the spectral pseudo-acceleration (m/s2) at period T (s).
	Sa          func(periodS float64) float64
	Combination ModalCombination // default CQC
	DampingRatio float64         // default 0.05
}

func (o *SpectrumOptions) defaults() error {
	if o.Sa == nil {
		return fmt.Errorf("spectrum curve is required")
	}
	if o.Combination == "" {
		o.Combination = CombinationCQC
	}
	if o.Combination != CombinationCQC && o.Combination != CombinationSRSS {
		return fmt.Errorf("unknown modal combination %q", o.Combination)
	}
	if o.DampingRatio <= 0 {
		o.DampingRatio = 0.05
	}
	return nil
}

type SpectrumResult struct {
	ModalResults []model.ModalResult
	// Combined peak base shear per direction and their SRSS resultant (kN).
	BaseShearX float64
	BaseShearY float64
	BaseShear  float64
	// Combined peak displacement magnitude per node DOF, X and Y direction
	// responses combined by SRSS.
	Displacements []float64
}

// ResponseSpectrum runs a modal response-spectrum analysis on an already
// extracted modal solution: per-mode spectral response, CQC or SRSS modal
// combination, then SRSS over the two horizontal directions.
func (s *System) ResponseSpectrum(sol *ModalSolution, opt SpectrumOptions) (*SpectrumResult, error) {
	if err := opt.defaults(); err != nil {
		return nil, err
	}
	nm := len(sol.Modes)
	if nm == 0 {
		return nil, fmt.Errorf("no modes available for response spectrum")
	}

	omegas := make([]float64, nm)
	sas := make([]float64, nm)
	for i, m := range sol.Modes {
		omegas[i] = m.OmegaRadS
		sas[i] = opt.Sa(m.PeriodS)
	}

	// Per-direction, per-mode peak values.
	type dirResponse struct {
		baseShear []float64   // per mode, kN (tonnes * m/s2)
		disp      [][]float64 // per mode, per DOF
	}
	responses := make([]dirResponse, 2)
	for d := 0; d < 2; d++ {
		responses[d].baseShear = make([]float64, nm)
		responses[d].disp = make([][]float64, nm)
		for i, m := range sol.Modes {
			gamma := m.GammaX
			if d == 1 {
				gamma = m.GammaY
			}
			responses[d].baseShear[i] = gamma * gamma * sas[i]
			u := make([]float64, s.dim)
			if m.OmegaRadS > 0 {
				scale := gamma * sas[i] / (m.OmegaRadS * m.OmegaRadS)
				for j := 0; j < s.dim; j++ {
					u[j] = scale * m.Shape.AtVec(j)
				}
			}
			responses[d].disp[i] = u
		}
	}

	combine := func(perMode []float64) float64 {
		if opt.Combination == CombinationSRSS {
			sum := 0.0
			for _, v := range perMode {
				sum += v * v
			}
			return math.Sqrt(sum)
		}
		sum := 0.0
		for i := range perMode {
			for j := range perMode {
				sum += cqcCoefficient(omegas[i], omegas[j], opt.DampingRatio) * perMode[i] * perMode[j]
			}
		}
		if sum < 0 {
			sum = 0
		}
		return math.Sqrt(sum)
	}

	vx := combine(responses[0].baseShear)
	vy := combine(responses[1].baseShear)

	disp := make([]float64, s.dim)
	perMode := make([]float64, nm)
	for j := 0; j < s.dim; j++ {
		var total float64
		for d := 0; d < 2; d++ {
			for i := 0; i < nm; i++ {
				perMode[i] = responses[d].disp[i][j]
			}
			v := combine(perMode)
			total += v * v
		}
		disp[j] = math.Sqrt(total)
	}

	res := &SpectrumResult{
		BaseShearX:    vx,
		BaseShearY:    vy,
		BaseShear:     math.Sqrt(vx*vx + vy*vy),
		Displacements: disp,
	}
	for i, mr := range sol.ModalResults() {
		mr.BaseShearKN = math.Sqrt(sq(responses[0].baseShear[i]) + sq(responses[1].baseShear[i]))
		res.ModalResults = append(res.ModalResults, mr)
	}
	return res, nil
}

// cqcCoefficient is the CQC cross-correlation coefficient for constant
// damping ratio zeta and frequency ratio r = wj/wi.
func cqcCoefficient(wi, wj, zeta float64) float64 {
	if wi <= 0 || wj <= 0 {
		if wi == wj {
			return 1
		}
		return 0
	}
	r := wj / wi
	num := 8 * zeta * zeta * (1 + r) * math.Pow(r, 1.5)
	den := (1-r*r)*(1-r*r) + 4*zeta*zeta*r*(1+r)*(1+r)
	return num / den
}

func sq(x float64) float64 { return x * x }
