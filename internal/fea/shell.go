package fea

import (
	"math"

	"Keystone/internal/model"

	"gonum.org/v1/gonum/mat"
)

// Drilling DOFs (in-plane rotation) get a small diagonal stabilization so a
// node connected only to shells still has a well-posed stiffness.
const drillingFactor = 1e-3

// shellElement caches the local frame and per-triangle data for one facet.
// Quads are handled as the average of the two diagonal splits, which keeps
// the stiffness symmetric with respect to node ordering.
type shellElement struct {
	s    model.ShellElement
	ords []int // node ordinals
	// Local frame rows: x, y in plane, z normal.
	rot [3][3]float64
	// Projected 2D node coordinates in the local frame.
	xy   [][2]float64
	area float64

	e, nu, t, rho float64
}

func newShellElement(snap *model.Snapshot, s model.ShellElement) *shellElement {
	mtl, _ := snap.Material(s.Material)
	el := &shellElement{s: s, e: mtl.E, t: s.Thickness, rho: mtl.Density, nu: 0.3}
	if mtl.Type == model.MaterialConcrete {
		el.nu = 0.2
	}

	pts := make([][3]float64, len(s.Nodes))
	for i, id := range s.Nodes {
		n, _ := snap.Node(id)
		ord, _ := snap.NodeOrdinal(id)
		el.ords = append(el.ords, ord)
		pts[i] = [3]float64{n.X, n.Y, n.Z}
	}

	// Local frame: x along the first edge, z the facet normal.
	e1 := sub(pts[1], pts[0])
	e2 := sub(pts[len(pts)-1], pts[0])
	z := normalize(cross(e1, e2))
	x := normalize(e1)
	y := cross(z, x)
	el.rot = [3][3]float64{x, y, z}

	el.xy = make([][2]float64, len(pts))
	for i, p := range pts {
		d := sub(p, pts[0])
		el.xy[i] = [2]float64{dot(d, x), dot(d, y)}
	}
	// Quads list both diagonal splits, so the triangle sum covers the
	// facet twice; weight it back to the true area.
	w := el.triWeight()
	for _, t := range el.triangles() {
		el.area += w * triArea2D(el.xy[t[0]], el.xy[t[1]], el.xy[t[2]])
	}
	return el
}

func (el *shellElement) triangles() [][3]int {
	if len(el.ords) == 3 {
		return [][3]int{{0, 1, 2}}
	}
	// Both diagonal splits, weighted half each in stiffness assembly.
	return [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 3}, {1, 2, 3}}
}

func (el *shellElement) triWeight() float64 {
	if len(el.ords) == 3 {
		return 1.0
	}
	return 0.5
}

// localStiffness builds the facet stiffness in the local frame: constant
// strain membrane plus a one-point-integrated Mindlin bending/shear part
// plus drilling stabilization. DOF order is (u,v,w,rx,ry,rz) per node.
func (el *shellElement) localStiffness() *mat.Dense {
	n := len(el.ords)
	k := mat.NewDense(6*n, 6*n, nil)
	w := el.triWeight()
	for _, tri := range el.triangles() {
		el.addTriangle(k, tri, w)
	}
	// Drilling stabilization.
	g := el.e / (2 * (1 + el.nu))
	kd := drillingFactor * g * el.t * el.area / float64(n)
	for i := 0; i < n; i++ {
		d := 6*i + 5
		k.Set(d, d, k.At(d, d)+kd)
	}
	return k
}

func (el *shellElement) addTriangle(k *mat.Dense, tri [3]int, weight float64) {
	p := [3][2]float64{el.xy[tri[0]], el.xy[tri[1]], el.xy[tri[2]]}
	a := triArea2D(p[0], p[1], p[2])
	if a <= 0 {
		return
	}

	// Constant shape-function gradients.
	var bx, by [3]float64
	for i := 0; i < 3; i++ {
		j, m := (i+1)%3, (i+2)%3
		bx[i] = (p[j][1] - p[m][1]) / (2 * a)
		by[i] = (p[m][0] - p[j][0]) / (2 * a)
	}

	dm := el.e / (1 - el.nu*el.nu)
	d11, d12, d33 := dm, dm*el.nu, dm*(1-el.nu)/2

	// Membrane: strain rows ex, ey, gxy over (u,v) per node.
	bm := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		bm.Set(0, 2*i, bx[i])
		bm.Set(1, 2*i+1, by[i])
		bm.Set(2, 2*i, by[i])
		bm.Set(2, 2*i+1, bx[i])
	}
	km := btDB(bm, d11, d12, d33, el.t*a*weight)
	el.scatter(k, tri, km, []int{0, 1})

	// Bending: curvature rows over (rx, ry) per node.
	bb := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		bb.Set(0, 2*i+1, bx[i])  // kx = d(ry)/dx
		bb.Set(1, 2*i, -by[i])   // ky = -d(rx)/dy
		bb.Set(2, 2*i, -bx[i])   // kxy
		bb.Set(2, 2*i+1, by[i])
	}
	tb := el.t * el.t * el.t / 12
	kb := btDB(bb, d11, d12, d33, tb*a*weight)
	el.scatter(k, tri, kb, []int{3, 4})

	// Transverse shear, one-point integration at the centroid.
	g := el.e / (2 * (1 + el.nu))
	bs := mat.NewDense(2, 9, nil)
	for i := 0; i < 3; i++ {
		bs.Set(0, 3*i, bx[i])      // gxz = dw/dx + ry
		bs.Set(0, 3*i+2, 1.0/3.0)
		bs.Set(1, 3*i, by[i])      // gyz = dw/dy - rx
		bs.Set(1, 3*i+1, -1.0/3.0)
	}
	var ks mat.Dense
	ks.Mul(bs.T(), bs)
	ks.Scale(5.0/6.0*g*el.t*a*weight, &ks)
	el.scatter(k, tri, &ks, []int{2, 3, 4})
}

// btDB computes scale * B' D B for the 3x3 constitutive matrix
// [[d11,d12,0],[d12,d11,0],[0,0,d33]].
func btDB(b *mat.Dense, d11, d12, d33, scale float64) *mat.Dense {
	d := mat.NewDense(3, 3, []float64{d11, d12, 0, d12, d11, 0, 0, 0, d33})
	var db, out mat.Dense
	db.Mul(d, b)
	out.Mul(b.T(), &db)
	out.Scale(scale, &out)
	return &out
}

// scatter adds a per-triangle block (ordered by triangle-local node, then
// the listed DOF components) into the facet matrix.
func (el *shellElement) scatter(k *mat.Dense, tri [3]int, block *mat.Dense, comps []int) {
	nc := len(comps)
	for i := 0; i < 3; i++ {
		for ci := 0; ci < nc; ci++ {
			gi := 6*tri[i] + comps[ci]
			for j := 0; j < 3; j++ {
				for cj := 0; cj < nc; cj++ {
					gj := 6*tri[j] + comps[cj]
					k.Set(gi, gj, k.At(gi, gj)+block.At(nc*i+ci, nc*j+cj))
				}
			}
		}
	}
}

// globalStiffness rotates the local facet stiffness into global axes.
func (el *shellElement) globalStiffness() *mat.Dense {
	kl := el.localStiffness()
	n := len(el.ords)
	t := mat.NewDense(6*n, 6*n, nil)
	for blk := 0; blk < 2*n; blk++ {
		o := blk * 3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.Set(o+i, o+j, el.rot[i][j])
			}
		}
	}
	var kt, out mat.Dense
	kt.Mul(kl, t)
	out.Mul(t.T(), &kt)
	return &out
}

// dofIndices returns the global DOF indices for the facet's nodes.
func (el *shellElement) dofIndices() []int {
	out := make([]int, 0, 6*len(el.ords))
	for _, ord := range el.ords {
		for d := 0; d < 6; d++ {
			out = append(out, ord*6+d)
		}
	}
	return out
}

// membraneResultants recovers the constant membrane forces (kN/m) from the
// element displacement vector in global axes, averaged over the triangles.
func (el *shellElement) membraneResultants(uGlobal []float64) model.ShellResult {
	n := len(el.ords)
	// Rotate nodal translations into the local frame.
	local := make([][2]float64, n)
	for i := 0; i < n; i++ {
		gx, gy, gz := uGlobal[6*i], uGlobal[6*i+1], uGlobal[6*i+2]
		local[i][0] = el.rot[0][0]*gx + el.rot[0][1]*gy + el.rot[0][2]*gz
		local[i][1] = el.rot[1][0]*gx + el.rot[1][1]*gy + el.rot[1][2]*gz
	}

	// Area-weighted average of the constant per-triangle stresses.
	dm := el.e / (1 - el.nu*el.nu)
	var nx, ny, nxy, areaSum float64
	for _, tri := range el.triangles() {
		p := [3][2]float64{el.xy[tri[0]], el.xy[tri[1]], el.xy[tri[2]]}
		a := triArea2D(p[0], p[1], p[2])
		if a <= 0 {
			continue
		}
		var bx, by [3]float64
		for i := 0; i < 3; i++ {
			j, m := (i+1)%3, (i+2)%3
			bx[i] = (p[j][1] - p[m][1]) / (2 * a)
			by[i] = (p[m][0] - p[j][0]) / (2 * a)
		}
		var ex, ey, gxy float64
		for i := 0; i < 3; i++ {
			u, v := local[tri[i]][0], local[tri[i]][1]
			ex += bx[i] * u
			ey += by[i] * v
			gxy += by[i]*u + bx[i]*v
		}
		sx := dm * (ex + el.nu*ey)
		sy := dm * (el.nu*ex + ey)
		sxy := dm * (1 - el.nu) / 2 * gxy
		nx += a * sx * el.t
		ny += a * sy * el.t
		nxy += a * sxy * el.t
		areaSum += a
	}
	if areaSum > 0 {
		nx /= areaSum
		ny /= areaSum
		nxy /= areaSum
	}

	sx, sy, sxy := nx/el.t, ny/el.t, nxy/el.t
	vm := math.Sqrt(sx*sx - sx*sy + sy*sy + 3*sxy*sxy)
	return model.ShellResult{Shell: el.s.ID, Nx: nx, Ny: ny, Nxy: nxy, VonMisesKPa: vm}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func triArea2D(a, b, c [2]float64) float64 {
	return math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
}
