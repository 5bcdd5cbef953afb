// Package fea implements the direct-stiffness static solver and the
// modal/response-spectrum solver over a model snapshot.
package fea

import (
	"fmt"
	"math"

	"Keystone/internal/model"

	"gonum.org/v1/gonum/mat"
)

// memberElement caches everything the assembler and the recovery pass need
// for one frame member: length, local triad, the 12x12 local stiffness
// (after end releases) and the material/section scalars.
type memberElement struct {
	m model.Member
	L float64
	// rot maps a global vector into member local axes.
	rot [3][3]float64

	kLocal   *mat.Dense // post-release local stiffness
	released []int      // local DOF indices condensed out
	condense *mat.Dense // Kkr * Krr^-1, used to condense load vectors

	ea, eiy, eiz, gj float64
	rhoA             float64
	startOrd, endOrd int
}

func newMemberElement(snap *model.Snapshot, m model.Member) (*memberElement, error) {
	a, _ := snap.Node(m.StartNode)
	b, _ := snap.Node(m.EndNode)
	sec, _ := snap.Section(m.Section)
	mtl, _ := snap.Material(m.Material)
	props, err := sec.Properties()
	if err != nil {
		return nil, err
	}

	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	l := math.Sqrt(dx*dx + dy*dy + dz*dz)

	e := &memberElement{
		m:    m,
		L:    l,
		ea:   mtl.E * props.Area,
		eiy:  mtl.E * props.Iy,
		eiz:  mtl.E * props.Iz,
		gj:   shearModulus(mtl) * props.J,
		rhoA: mtl.Density * props.Area,
	}
	e.startOrd, _ = snap.NodeOrdinal(m.StartNode)
	e.endOrd, _ = snap.NodeOrdinal(m.EndNode)
	e.rot = localTriad(dx/l, dy/l, dz/l, m.RollAngle)

	k := localStiffness(e.ea, e.eiy, e.eiz, e.gj, l)
	e.released = releasedDOFs(m)
	if len(e.released) > 0 {
		k, e.condense, err = condenseReleases(k, e.released)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", m.ID, err)
		}
	}
	e.kLocal = k
	return e, nil
}

func shearModulus(m model.Material) float64 {
	if m.G > 0 {
		return m.G
	}
	// Isotropic default, nu = 0.3.
	return m.E / 2.6
}

// localTriad builds the rotation matrix rows (local x, y, z expressed in
// global components) for a member with direction cosines cx,cy,cz and a roll
// angle about its axis. Near-vertical members reference global X instead of
// global Z to avoid a degenerate cross product.
func localTriad(cx, cy, cz, roll float64) [3][3]float64 {
	x := [3]float64{cx, cy, cz}
	ref := [3]float64{0, 0, 1}
	if math.Abs(cz) > 0.999 {
		ref = [3]float64{1, 0, 0}
	}
	y := cross(ref, x)
	y = normalize(y)
	z := cross(x, y)

	if roll != 0 {
		c, s := math.Cos(roll), math.Sin(roll)
		y2 := [3]float64{c*y[0] + s*z[0], c*y[1] + s*z[1], c*y[2] + s*z[2]}
		z2 := [3]float64{-s*y[0] + c*z[0], -s*y[1] + c*z[1], -s*y[2] + c*z[2]}
		y, z = y2, z2
	}
	return [3][3]float64{x, y, z}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// localStiffness builds the standard 12x12 space-frame stiffness matrix in
// local axes: axial, torsion, and Euler-Bernoulli bending in both planes.
func localStiffness(ea, eiy, eiz, gj, l float64) *mat.Dense {
	k := mat.NewDense(12, 12, nil)
	l2 := l * l
	l3 := l2 * l

	set := func(i, j int, v float64) {
		k.Set(i, j, v)
		if i != j {
			k.Set(j, i, v)
		}
	}

	// Axial.
	set(0, 0, ea/l)
	set(6, 6, ea/l)
	set(0, 6, -ea/l)

	// Torsion.
	set(3, 3, gj/l)
	set(9, 9, gj/l)
	set(3, 9, -gj/l)

	// Bending about local z (displacement y, rotation z).
	set(1, 1, 12*eiz/l3)
	set(7, 7, 12*eiz/l3)
	set(1, 7, -12*eiz/l3)
	set(1, 5, 6*eiz/l2)
	set(1, 11, 6*eiz/l2)
	set(5, 7, -6*eiz/l2)
	set(7, 11, -6*eiz/l2)
	set(5, 5, 4*eiz/l)
	set(11, 11, 4*eiz/l)
	set(5, 11, 2*eiz/l)

	// Bending about local y (displacement z, rotation y).
	set(2, 2, 12*eiy/l3)
	set(8, 8, 12*eiy/l3)
	set(2, 8, -12*eiy/l3)
	set(2, 4, -6*eiy/l2)
	set(2, 10, -6*eiy/l2)
	set(4, 8, 6*eiy/l2)
	set(8, 10, 6*eiy/l2)
	set(4, 4, 4*eiy/l)
	set(10, 10, 4*eiy/l)
	set(4, 10, 2*eiy/l)

	return k
}

// geometricStiffness is the consistent 12x12 geometric stiffness for axial
// force n (positive in tension). Compression softens the transverse terms.
func geometricStiffness(n, l float64) *mat.Dense {
	k := mat.NewDense(12, 12, nil)
	if l <= 0 {
		return k
	}
	f := n / l
	l2 := l * l

	set := func(i, j int, v float64) {
		k.Set(i, j, v)
		if i != j {
			k.Set(j, i, v)
		}
	}

	// Plane x-y (uy, rz).
	set(1, 1, f*6/5)
	set(7, 7, f*6/5)
	set(1, 7, -f*6/5)
	set(1, 5, f*l/10)
	set(1, 11, f*l/10)
	set(5, 7, -f*l/10)
	set(7, 11, -f*l/10)
	set(5, 5, f*2*l2/15)
	set(11, 11, f*2*l2/15)
	set(5, 11, -f*l2/30)

	// Plane x-z (uz, ry).
	set(2, 2, f*6/5)
	set(8, 8, f*6/5)
	set(2, 8, -f*6/5)
	set(2, 4, -f*l/10)
	set(2, 10, -f*l/10)
	set(4, 8, f*l/10)
	set(8, 10, f*l/10)
	set(4, 4, f*2*l2/15)
	set(10, 10, f*2*l2/15)
	set(4, 10, -f*l2/30)

	return k
}

func releasedDOFs(m model.Member) []int {
	var out []int
	for d := 0; d < 6; d++ {
		if m.ReleasesStart[d] {
			out = append(out, d)
		}
	}
	for d := 0; d < 6; d++ {
		if m.ReleasesEnd[d] {
			out = append(out, 6+d)
		}
	}
	return out
}

// condenseReleases statically condenses the released local DOFs out of k.
// Returns the condensed 12x12 (released rows/cols zeroed) and the matrix
// Kkr*Krr^-1 needed to condense fixed-end load vectors the same way.
func condenseReleases(k *mat.Dense, released []int) (*mat.Dense, *mat.Dense, error) {
	isRel := make(map[int]bool, len(released))
	for _, d := range released {
		isRel[d] = true
	}
	var kept []int
	for d := 0; d < 12; d++ {
		if !isRel[d] {
			kept = append(kept, d)
		}
	}

	nk, nr := len(kept), len(released)
	kkk := mat.NewDense(nk, nk, nil)
	kkr := mat.NewDense(nk, nr, nil)
	krr := mat.NewDense(nr, nr, nil)
	for i, di := range kept {
		for j, dj := range kept {
			kkk.Set(i, j, k.At(di, dj))
		}
		for j, dj := range released {
			kkr.Set(i, j, k.At(di, dj))
		}
	}
	for i, di := range released {
		for j, dj := range released {
			krr.Set(i, j, k.At(di, dj))
		}
	}

	var krrInv mat.Dense
	if err := krrInv.Inverse(krr); err != nil {
		return nil, nil, fmt.Errorf("release condensation: singular released block: %w", err)
	}
	var helper, reduced mat.Dense
	helper.Mul(kkr, &krrInv) // Kkr * Krr^-1
	reduced.Mul(&helper, kkr.T())

	out := mat.NewDense(12, 12, nil)
	for i, di := range kept {
		for j, dj := range kept {
			out.Set(di, dj, kkk.At(i, j)-reduced.At(i, j))
		}
	}

	// Expand helper back to 12-row form for load condensation.
	h12 := mat.NewDense(12, 12, nil)
	for i, di := range kept {
		for j, dj := range released {
			h12.Set(di, dj, helper.At(i, j))
		}
	}
	return out, h12, nil
}

// condenseLoad folds the released-DOF components of a local fixed-end force
// vector into the kept DOFs: fk' = fk - Kkr Krr^-1 fr.
func (e *memberElement) condenseLoad(f *[12]float64) {
	if e.condense == nil {
		return
	}
	var adj [12]float64
	for i := 0; i < 12; i++ {
		for _, j := range e.released {
			adj[i] += e.condense.At(i, j) * f[j]
		}
	}
	for _, j := range e.released {
		f[j] = 0
	}
	for i := 0; i < 12; i++ {
		f[i] -= adj[i]
	}
}

// toLocal rotates a global 12-vector (two nodes' worth of DOFs) into member
// local axes.
func (e *memberElement) toLocal(g [12]float64) [12]float64 {
	var out [12]float64
	for blk := 0; blk < 4; blk++ {
		o := blk * 3
		for i := 0; i < 3; i++ {
			out[o+i] = e.rot[i][0]*g[o+0] + e.rot[i][1]*g[o+1] + e.rot[i][2]*g[o+2]
		}
	}
	return out
}

// toGlobal rotates a local 12-vector back into global axes.
func (e *memberElement) toGlobal(l [12]float64) [12]float64 {
	var out [12]float64
	for blk := 0; blk < 4; blk++ {
		o := blk * 3
		for i := 0; i < 3; i++ {
			out[o+i] = e.rot[0][i]*l[o+0] + e.rot[1][i]*l[o+1] + e.rot[2][i]*l[o+2]
		}
	}
	return out
}

// globalStiffness returns T' k T for any local 12x12 matrix.
func (e *memberElement) globalStiffness(kLocal *mat.Dense) *mat.Dense {
	t := mat.NewDense(12, 12, nil)
	for blk := 0; blk < 4; blk++ {
		o := blk * 3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.Set(o+i, o+j, e.rot[i][j])
			}
		}
	}
	var kt, out mat.Dense
	kt.Mul(kLocal, t)
	out.Mul(t.T(), &kt)
	return &out
}

// dofIndices returns the 12 global DOF indices for the member's two nodes.
func (e *memberElement) dofIndices() [12]int {
	var out [12]int
	for d := 0; d < 6; d++ {
		out[d] = e.startOrd*6 + d
		out[6+d] = e.endOrd*6 + d
	}
	return out
}
