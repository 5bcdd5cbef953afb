package fea

import (
	"fmt"
	"math"

	"Keystone/internal/model"

	"gonum.org/v1/gonum/mat"
)

// LoadVector is the assembled global nodal force vector plus the factored
// local fixed-end forces per member, which the recovery pass subtracts from
// k*u to obtain true member end forces.
type LoadVector struct {
	F        *mat.VecDense
	fef      map[model.MemberID]*[12]float64
	Warnings []model.Warning
}

func (lv *LoadVector) warn(code, format string, args ...any) {
	lv.Warnings = append(lv.Warnings, model.Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// AssembleLoads converts every load whose case appears in factors into
// global nodal forces. Loads referencing missing entities are skipped and
// reported as warnings, never silently dropped.
//
// Area loads use an equal-share lumped distribution across the facet nodes
// (no consistent load vector, no induced moments). This mirrors the accuracy
// class of the shell elements and is a documented limitation.
func AssembleLoads(snap *model.Snapshot, factors map[model.LoadCaseID]float64) *LoadVector {
	lv := &LoadVector{
		F:   mat.NewVecDense(6*len(snap.Nodes), nil),
		fef: make(map[model.MemberID]*[12]float64),
	}

	for _, pl := range snap.PointLoads {
		factor, ok := factors[pl.Case]
		if !ok {
			continue
		}
		ord, ok := snap.NodeOrdinal(pl.Node)
		if !ok {
			lv.warn("LOAD-NODE", "point load %d: node %d not found, skipped", pl.ID, pl.Node)
			continue
		}
		for d := 0; d < 6; d++ {
			idx := ord*6 + d
			lv.F.SetVec(idx, lv.F.AtVec(idx)+factor*pl.F[d])
		}
	}

	for _, ml := range snap.MemberLoads {
		factor, ok := factors[ml.Case]
		if !ok {
			continue
		}
		if err := lv.applyMemberLoad(snap, ml, factor); err != nil {
			lv.warn("LOAD-MEMBER", "member load %d: %v, skipped", ml.ID, err)
		}
	}

	for _, al := range snap.AreaLoads {
		factor, ok := factors[al.Case]
		if !ok {
			continue
		}
		lv.applyAreaLoad(snap, al, factor)
	}

	return lv
}

// fixedEndForces returns the local equivalent nodal load vector for one
// member load of unit case factor, transverse direction given by dir.
func fixedEndForces(ml model.MemberLoad, l float64) ([12]float64, error) {
	var f [12]float64

	// Index offsets for the chosen transverse plane: the displacement DOF
	// and the moment DOF bending in that plane. Local-y loads pair with
	// moments about z; local-z loads with moments about y, opposite sign.
	var du, dm int
	msign := 1.0
	switch ml.Direction {
	case model.MemberLocalY, "":
		du, dm = 1, 5
	case model.MemberLocalZ:
		du, dm = 2, 4
		msign = -1.0
	default:
		return f, fmt.Errorf("unknown member load direction %q", ml.Direction)
	}

	addUniform := func(w float64) {
		f[du] += w * l / 2
		f[6+du] += w * l / 2
		f[dm] += msign * w * l * l / 12
		f[6+dm] -= msign * w * l * l / 12
	}
	// Triangular load, zero at the start node rising to w at the end node.
	addTriangular := func(w float64) {
		f[du] += 3 * w * l / 20
		f[6+du] += 7 * w * l / 20
		f[dm] += msign * w * l * l / 30
		f[6+dm] -= msign * w * l * l / 20
	}

	switch ml.Kind {
	case model.MemberLoadUniform:
		addUniform(ml.W1)
	case model.MemberLoadTrapezoidal:
		addUniform(ml.W1)
		addTriangular(ml.W2 - ml.W1)
	case model.MemberLoadPoint:
		a := ml.DistanceM
		if a < 0 || a > l {
			return f, fmt.Errorf("point load position %.3f outside span %.3f", a, l)
		}
		b := l - a
		l3 := l * l * l
		f[du] += ml.P * b * b * (3*a + b) / l3
		f[6+du] += ml.P * a * a * (a + 3*b) / l3
		f[dm] += msign * ml.P * a * b * b / (l * l)
		f[6+dm] -= msign * ml.P * a * a * b / (l * l)
	default:
		return f, fmt.Errorf("unknown member load kind %q", ml.Kind)
	}
	return f, nil
}

func (lv *LoadVector) applyMemberLoad(snap *model.Snapshot, ml model.MemberLoad, factor float64) error {
	m, ok := snap.Member(ml.Member)
	if !ok {
		return fmt.Errorf("member %d not found", ml.Member)
	}
	el, err := newMemberElement(snap, m)
	if err != nil {
		return err
	}
	f, err := fixedEndForces(ml, el.L)
	if err != nil {
		return err
	}
	for i := range f {
		f[i] *= factor
	}
	el.condenseLoad(&f)

	acc, ok := lv.fef[m.ID]
	if !ok {
		acc = &[12]float64{}
		lv.fef[m.ID] = acc
	}
	for i := range f {
		acc[i] += f[i]
	}

	g := el.toGlobal(f)
	idx := el.dofIndices()
	for i, gi := range idx {
		lv.F.SetVec(gi, lv.F.AtVec(gi)+g[i])
	}
	return nil
}

func (lv *LoadVector) applyAreaLoad(snap *model.Snapshot, al model.AreaLoad, factor float64) {
	matched := false
	for _, sh := range snap.Shells {
		if sh.ParentID != al.ParentID {
			continue
		}
		matched = true

		pts := make([][3]float64, 0, len(sh.Nodes))
		ords := make([]int, 0, len(sh.Nodes))
		missing := false
		for _, id := range sh.Nodes {
			n, ok := snap.Node(id)
			if !ok {
				lv.warn("LOAD-SHELL", "area load %d: shell %d node %d not found, element skipped", al.ID, sh.ID, id)
				missing = true
				break
			}
			ord, _ := snap.NodeOrdinal(id)
			pts = append(pts, [3]float64{n.X, n.Y, n.Z})
			ords = append(ords, ord)
		}
		if missing {
			continue
		}

		area := facetArea(pts)
		if area <= 0 {
			lv.warn("LOAD-SHELL", "area load %d: shell %d has zero area, element skipped", al.ID, sh.ID)
			continue
		}

		dir, err := resolveDirection(al, pts)
		if err != nil {
			lv.warn("LOAD-DIR", "area load %d: %v, element skipped", al.ID, err)
			continue
		}

		total := area * math.Abs(al.Intensity) * factor
		share := total / float64(len(ords))
		for _, ord := range ords {
			for d := 0; d < 3; d++ {
				idx := ord*6 + d
				lv.F.SetVec(idx, lv.F.AtVec(idx)+share*dir[d])
			}
		}
	}
	if !matched {
		lv.warn("LOAD-PARENT", "area load %d: no shell has parent %q", al.ID, al.ParentID)
	}
}

// resolveDirection turns the declared load direction into a unit vector,
// flipped when the intensity is negative.
func resolveDirection(al model.AreaLoad, pts [][3]float64) ([3]float64, error) {
	var dir [3]float64
	switch al.Direction {
	case model.AreaGlobalX:
		dir = [3]float64{1, 0, 0}
	case model.AreaGlobalY:
		dir = [3]float64{0, 1, 0}
	case model.AreaGlobalZ:
		dir = [3]float64{0, 0, 1}
	case model.AreaGravity:
		dir = [3]float64{0, 0, -1}
	case model.AreaLocalNormal:
		// Outward normal from two edge (or diagonal) vectors.
		var u, v [3]float64
		if len(pts) == 4 {
			u = sub(pts[2], pts[0])
			v = sub(pts[3], pts[1])
		} else {
			u = sub(pts[1], pts[0])
			v = sub(pts[2], pts[0])
		}
		n := cross(u, v)
		mag := math.Sqrt(dot(n, n))
		if mag == 0 {
			return dir, fmt.Errorf("degenerate normal")
		}
		dir = [3]float64{n[0] / mag, n[1] / mag, n[2] / mag}
	default:
		return dir, fmt.Errorf("unknown area load direction %q", al.Direction)
	}
	if al.Intensity < 0 {
		dir = [3]float64{-dir[0], -dir[1], -dir[2]}
	}
	return dir, nil
}

func facetArea(pts [][3]float64) float64 {
	tri := func(a, b, c [3]float64) float64 {
		n := cross(sub(b, a), sub(c, a))
		return 0.5 * math.Sqrt(dot(n, n))
	}
	if len(pts) == 3 {
		return tri(pts[0], pts[1], pts[2])
	}
	return tri(pts[0], pts[1], pts[2]) + tri(pts[0], pts[2], pts[3])
}

// memberFEF returns the accumulated factored local fixed-end forces for a
// member, zero if it carries no span loads.
func (lv *LoadVector) memberFEF(id model.MemberID) [12]float64 {
	if f, ok := lv.fef[id]; ok {
		return *f
	}
	return [12]float64{}
}
