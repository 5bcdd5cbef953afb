package fea

import (
	"errors"
	"fmt"
	"math"

	"Keystone/internal/model"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingular marks an under-restrained model whose reduced stiffness
	// matrix is not positive definite.
	ErrSingular = errors.New("singular stiffness matrix: model is under-restrained")
	// ErrNotConverged marks a bounded iteration that exhausted its budget.
	ErrNotConverged = errors.New("iteration did not converge")
)

// System is the assembled global stiffness for one snapshot. Building it is
// the Assembling phase; Solve and Recover are separate so callers can honor
// cancellation between phases. A System is safe for concurrent solves only
// if each caller uses its own copy; in practice every run assembles its own.
type System struct {
	snap    *model.Snapshot
	members []*memberElement
	shells  []*shellElement

	dim   int
	k     *mat.Dense // full elastic stiffness, springs included
	free  []int
	fixed []int
}

// NewSystem validates the snapshot and assembles the global elastic
// stiffness matrix.
func NewSystem(snap *model.Snapshot) (*System, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	s := &System{snap: snap, dim: 6 * len(snap.Nodes)}
	s.k = mat.NewDense(s.dim, s.dim, nil)

	for _, m := range snap.Members {
		el, err := newMemberElement(snap, m)
		if err != nil {
			return nil, err
		}
		s.members = append(s.members, el)
		addBlock(s.k, el.globalStiffness(el.kLocal), el.dofIndices())
	}
	for _, sh := range snap.Shells {
		el := newShellElement(snap, sh)
		s.shells = append(s.shells, el)
		addBlockSlice(s.k, el.globalStiffness(), el.dofIndices())
	}

	for ord, n := range snap.Nodes {
		for d := 0; d < 6; d++ {
			idx := ord*6 + d
			if n.Springs[d] > 0 {
				s.k.Set(idx, idx, s.k.At(idx, idx)+n.Springs[d])
			}
			if n.Restraints[d] {
				s.fixed = append(s.fixed, idx)
			} else {
				s.free = append(s.free, idx)
			}
		}
	}
	return s, nil
}

func addBlock(k *mat.Dense, block *mat.Dense, idx [12]int) {
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			k.Set(idx[i], idx[j], k.At(idx[i], idx[j])+block.At(i, j))
		}
	}
}

func addBlockSlice(k *mat.Dense, block *mat.Dense, idx []int) {
	for i := range idx {
		for j := range idx {
			k.Set(idx[i], idx[j], k.At(idx[i], idx[j])+block.At(i, j))
		}
	}
}

type StaticOptions struct {
	// PDelta enables the geometric-stiffness iteration.
	PDelta        bool
	MaxIterations int     // default 10
	Tolerance     float64 // default 1e-6, max-norm of displacement change
}

func (o *StaticOptions) defaults() {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 10
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-6
	}
}

type StaticResult struct {
	Displacements *mat.VecDense // full system, 6 per node
	NodeResults   []model.NodeResult
	MemberResults []model.MemberResult
	ShellResults  []model.ShellResult
	Warnings      []model.Warning
	// PDeltaIterations counts the geometric-stiffness passes taken (zero
	// for a plain linear solve).
	PDeltaIterations int
}

// SolveStatic runs the linear (and optionally P-delta) solve for the given
// assembled load vector.
func (s *System) SolveStatic(lv *LoadVector, opt StaticOptions) (*StaticResult, error) {
	opt.defaults()

	u, err := s.solveLinear(s.k, lv.F)
	if err != nil {
		return nil, err
	}

	iterations := 0
	if opt.PDelta {
		out, err := iterateVec(opt.MaxIterations, opt.Tolerance, u, func(prev *mat.VecDense) (*mat.VecDense, error) {
			kg := s.assembleGeometric(lv, prev)
			kg.Add(kg, s.k)
			return s.solveLinear(kg, lv.F)
		})
		if err != nil {
			return nil, err
		}
		if !out.Converged {
			return nil, fmt.Errorf("p-delta after %d iterations: %w", out.Iterations, ErrNotConverged)
		}
		u = out.Value
		iterations = out.Iterations
	}

	res := &StaticResult{
		Displacements:    u,
		Warnings:         lv.Warnings,
		PDeltaIterations: iterations,
	}
	// Reactions come from the stiffness the displacements equilibrate
	// against: elastic plus, after a P-delta solve, the final geometric
	// part.
	k := s.k
	if iterations > 0 {
		kg := s.assembleGeometric(lv, u)
		kg.Add(kg, s.k)
		k = kg
	}
	s.recover(k, lv, u, res)
	return res, nil
}

// solveLinear reduces K to the free DOFs and solves by Cholesky. The
// stiffness of a stable elastic model is symmetric positive definite; a
// failed factorization means the model is under-restrained (or a mechanism).
func (s *System) solveLinear(k *mat.Dense, f *mat.VecDense) (*mat.VecDense, error) {
	n := len(s.free)
	if n == 0 {
		return mat.NewVecDense(s.dim, nil), nil
	}
	kff := mat.NewSymDense(n, nil)
	for i, gi := range s.free {
		for j := i; j < n; j++ {
			kff.SetSym(i, j, k.At(gi, s.free[j]))
		}
	}
	ff := mat.NewVecDense(n, nil)
	for i, gi := range s.free {
		ff.SetVec(i, f.AtVec(gi))
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(kff); !ok {
		return nil, ErrSingular
	}
	uf := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(uf, ff); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	u := mat.NewVecDense(s.dim, nil)
	for i, gi := range s.free {
		u.SetVec(gi, uf.AtVec(i))
	}
	return u, nil
}

// assembleGeometric builds the global geometric stiffness from the member
// axial forces implied by the displacement state.
func (s *System) assembleGeometric(lv *LoadVector, u *mat.VecDense) *mat.Dense {
	kg := mat.NewDense(s.dim, s.dim, nil)
	for _, el := range s.members {
		n := s.memberAxial(el, lv, u)
		g := el.globalStiffness(geometricStiffness(n, el.L))
		addBlock(kg, g, el.dofIndices())
	}
	return kg
}

// memberAxial recovers the axial force (tension positive) for one member.
func (s *System) memberAxial(el *memberElement, lv *LoadVector, u *mat.VecDense) float64 {
	f := s.memberEndForces(el, lv, u)
	return f[6] // axial component at the end node, positive in tension
}

// memberEndForces computes local end forces k_local*u_local - fef.
func (s *System) memberEndForces(el *memberElement, lv *LoadVector, u *mat.VecDense) [12]float64 {
	var ug [12]float64
	for i, gi := range el.dofIndices() {
		ug[i] = u.AtVec(gi)
	}
	ul := el.toLocal(ug)

	var f [12]float64
	for i := 0; i < 12; i++ {
		sum := 0.0
		for j := 0; j < 12; j++ {
			sum += el.kLocal.At(i, j) * ul[j]
		}
		f[i] = sum
	}
	fef := lv.memberFEF(el.m.ID)
	for i := 0; i < 12; i++ {
		f[i] -= fef[i]
	}
	return f
}

// recover fills nodal displacements/reactions, member end forces and shell
// membrane resultants. k is the stiffness the solve converged under.
func (s *System) recover(k *mat.Dense, lv *LoadVector, u *mat.VecDense, res *StaticResult) {
	// Reactions: K*u - F at restrained DOFs, plus spring forces.
	var r mat.VecDense
	r.MulVec(k, u)

	for ord, n := range s.snap.Nodes {
		nr := model.NodeResult{Node: n.ID}
		for d := 0; d < 6; d++ {
			idx := ord*6 + d
			nr.Displacement[d] = u.AtVec(idx)
			if n.Restraints[d] {
				nr.Reaction[d] = r.AtVec(idx) - lv.F.AtVec(idx)
			} else if n.Springs[d] > 0 {
				nr.Reaction[d] = -n.Springs[d] * u.AtVec(idx)
			}
		}
		res.NodeResults = append(res.NodeResults, nr)
	}

	for _, el := range s.members {
		f := s.memberEndForces(el, lv, u)
		mr := model.MemberResult{Member: el.m.ID}
		copy(mr.StartForces[:], f[:6])
		copy(mr.EndForces[:], f[6:])
		res.MemberResults = append(res.MemberResults, mr)
	}

	for _, el := range s.shells {
		ue := make([]float64, 6*len(el.ords))
		for i, gi := range el.dofIndices() {
			ue[i] = u.AtVec(gi)
		}
		res.ShellResults = append(res.ShellResults, el.membraneResultants(ue))
	}
}

// IterOutcome is the tagged result of a bounded convergence loop.
type IterOutcome struct {
	Value      *mat.VecDense
	Iterations int
	Converged  bool
}

// iterateVec runs step until the max-norm change drops below tol or the
// iteration budget runs out. It never loops unbounded.
func iterateVec(maxIter int, tol float64, initial *mat.VecDense, step func(prev *mat.VecDense) (*mat.VecDense, error)) (IterOutcome, error) {
	prev := initial
	for it := 1; it <= maxIter; it++ {
		next, err := step(prev)
		if err != nil {
			return IterOutcome{}, err
		}
		if maxDiff(prev, next) < tol {
			return IterOutcome{Value: next, Iterations: it, Converged: true}, nil
		}
		prev = next
	}
	return IterOutcome{Value: prev, Iterations: maxIter, Converged: false}, nil
}

func maxDiff(a, b *mat.VecDense) float64 {
	max := 0.0
	for i := 0; i < a.Len(); i++ {
		if d := math.Abs(a.AtVec(i) - b.AtVec(i)); d > max {
			max = d
		}
	}
	return max
}
