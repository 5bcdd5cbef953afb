package fea

import (
	"fmt"
	"math"

	"Keystone/internal/model"

	"gonum.org/v1/gonum/mat"
)

type ModalOptions struct {
	NumModes int // default 12, clamped to the available mass DOFs
	// ExtraNodalMass adds superimposed dead mass (tonnes) at nodes, spread
	// over the three translations.
	ExtraNodalMass map[model.NodeID]float64
}

func (o *ModalOptions) defaults() {
	if o.NumModes <= 0 {
		o.NumModes = 12
	}
}

// Mode is one natural mode, mass-normalized (phi' M phi = 1).
type Mode struct {
	Number      int
	OmegaRadS   float64
	FrequencyHz float64
	PeriodS     float64
	// Shape over the full DOF set (restrained entries are zero).
	Shape *mat.VecDense
	// Participation factors per horizontal direction; the effective modal
	// mass is the square of the factor.
	GammaX, GammaY float64
}

type ModalSolution struct {
	Modes []Mode
	// Total translational mass per direction (tonnes), for participation
	// ratios.
	TotalMassX, TotalMassY float64
	massVec                []float64
}

// lumpedMass builds the diagonal translational mass vector (tonnes): half
// the member mass to each end node, the shell mass split evenly over its
// nodes, plus any superimposed nodal mass. Rotational inertia is omitted;
// those DOFs are condensed out of the eigenproblem.
func (s *System) lumpedMass(extra map[model.NodeID]float64) []float64 {
	m := make([]float64, s.dim)
	for _, el := range s.members {
		half := el.rhoA * el.L / 2
		for _, ord := range []int{el.startOrd, el.endOrd} {
			for d := 0; d < 3; d++ {
				m[ord*6+d] += half
			}
		}
	}
	for _, el := range s.shells {
		share := el.rho * el.t * el.area / float64(len(el.ords))
		for _, ord := range el.ords {
			for d := 0; d < 3; d++ {
				m[ord*6+d] += share
			}
		}
	}
	for id, add := range extra {
		if ord, ok := s.snap.NodeOrdinal(id); ok {
			for d := 0; d < 3; d++ {
				m[ord*6+d] += add
			}
		}
	}
	return m
}

// Modal extracts the lowest natural modes of (K - w^2 M) phi = 0. Massless
// free DOFs are condensed out exactly (Guyan reduction is exact when the
// eliminated DOFs carry no mass), then the mass-normalized symmetric
// eigenproblem M^-1/2 K M^-1/2 is solved densely.
func (s *System) Modal(opt ModalOptions) (*ModalSolution, error) {
	opt.defaults()
	mass := s.lumpedMass(opt.ExtraNodalMass)

	var massed, massless []int
	for _, gi := range s.free {
		if mass[gi] > 0 {
			massed = append(massed, gi)
		} else {
			massless = append(massless, gi)
		}
	}
	if len(massed) == 0 {
		return nil, fmt.Errorf("%w: no translational mass in model", ErrSingular)
	}

	na, nb := len(massed), len(massless)
	kaa := mat.NewDense(na, na, nil)
	for i, gi := range massed {
		for j, gj := range massed {
			kaa.Set(i, j, s.k.At(gi, gj))
		}
	}

	var kbbChol mat.Cholesky
	var kba *mat.Dense
	if nb > 0 {
		kbb := mat.NewSymDense(nb, nil)
		for i, gi := range massless {
			for j := i; j < nb; j++ {
				kbb.SetSym(i, j, s.k.At(gi, massless[j]))
			}
		}
		if ok := kbbChol.Factorize(kbb); !ok {
			return nil, ErrSingular
		}
		kba = mat.NewDense(nb, na, nil)
		for i, gi := range massless {
			for j, gj := range massed {
				kba.Set(i, j, s.k.At(gi, gj))
			}
		}
		// Kc = Kaa - Kab Kbb^-1 Kba.
		x := mat.NewDense(nb, na, nil)
		if err := kbbChol.SolveTo(x, kba); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		var corr mat.Dense
		corr.Mul(kba.T(), x)
		kaa.Sub(kaa, &corr)
	}

	// Mass-normalize: A = M^-1/2 Kc M^-1/2.
	a := mat.NewSymDense(na, nil)
	for i, gi := range massed {
		for j := i; j < na; j++ {
			gj := massed[j]
			v := kaa.At(i, j) / math.Sqrt(mass[gi]*mass[gj])
			a.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(a, true); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition failed", ErrNotConverged)
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	n := opt.NumModes
	if n > na {
		n = na
	}

	sol := &ModalSolution{massVec: mass}
	for _, gi := range massed {
		switch gi % 6 {
		case model.DofUX:
			sol.TotalMassX += mass[gi]
		case model.DofUY:
			sol.TotalMassY += mass[gi]
		}
	}

	for i := 0; i < n; i++ {
		lambda := vals[i]
		if lambda < 0 {
			lambda = 0
		}
		omega := math.Sqrt(lambda)
		mode := Mode{Number: i + 1, OmegaRadS: omega}
		if omega > 0 {
			mode.FrequencyHz = omega / (2 * math.Pi)
			mode.PeriodS = 2 * math.Pi / omega
		}

		shape := mat.NewVecDense(s.dim, nil)
		ua := make([]float64, na)
		for j, gj := range massed {
			ua[j] = vecs.At(j, i) / math.Sqrt(mass[gj])
			shape.SetVec(gj, ua[j])
		}
		if nb > 0 {
			// Recover condensed DOFs: ub = -Kbb^-1 Kba ua.
			rhs := mat.NewVecDense(nb, nil)
			rhs.MulVec(kba, mat.NewVecDense(na, ua))
			ub := mat.NewVecDense(nb, nil)
			if err := kbbChol.SolveVecTo(ub, rhs); err == nil {
				for j, gj := range massless {
					shape.SetVec(gj, -ub.AtVec(j))
				}
			}
		}
		mode.Shape = shape

		for _, gi := range massed {
			switch gi % 6 {
			case model.DofUX:
				mode.GammaX += mass[gi] * shape.AtVec(gi)
			case model.DofUY:
				mode.GammaY += mass[gi] * shape.AtVec(gi)
			}
		}
		sol.Modes = append(sol.Modes, mode)
	}
	return sol, nil
}

// ModalResults converts the solution into the result records the reporting
// layer consumes.
func (sol *ModalSolution) ModalResults() []model.ModalResult {
	out := make([]model.ModalResult, 0, len(sol.Modes))
	for _, m := range sol.Modes {
		mr := model.ModalResult{
			Mode:        m.Number,
			FrequencyHz: m.FrequencyHz,
			PeriodS:     m.PeriodS,
		}
		if sol.TotalMassX > 0 {
			mr.ParticipationX = m.GammaX * m.GammaX / sol.TotalMassX
		}
		if sol.TotalMassY > 0 {
			mr.ParticipationY = m.GammaY * m.GammaY / sol.TotalMassY
		}
		out = append(out, mr)
	}
	return out
}
