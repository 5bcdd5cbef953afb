package model

import (
	"fmt"
	"math"
	"sort"
)

// InputError marks a model defect caught before assembly: a dangling
// reference or malformed geometry. The engine rejects these up front instead
// of producing garbage results.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// Arena owns the mutable model state, one keyed store per entity type. The
// editing layer mutates it; the engine only ever sees immutable Snapshots.
type Arena struct {
	nodes     map[NodeID]Node
	members   map[MemberID]Member
	shells    map[ShellID]ShellElement
	materials map[MaterialID]Material
	sections  map[SectionID]Section
	cases     map[LoadCaseID]LoadCase

	pointLoads  []PointLoad
	memberLoads []MemberLoad
	areaLoads   []AreaLoad

	nextNode     NodeID
	nextMember   MemberID
	nextShell    ShellID
	nextMaterial MaterialID
	nextSection  SectionID
	nextCase     LoadCaseID
	nextLoad     int
}

func NewArena() *Arena {
	return &Arena{
		nodes:     make(map[NodeID]Node),
		members:   make(map[MemberID]Member),
		shells:    make(map[ShellID]ShellElement),
		materials: make(map[MaterialID]Material),
		sections:  make(map[SectionID]Section),
		cases:     make(map[LoadCaseID]LoadCase),
	}
}

func (a *Arena) AddNode(n Node) NodeID {
	a.nextNode++
	n.ID = a.nextNode
	a.nodes[n.ID] = n
	return n.ID
}

func (a *Arena) UpdateNode(n Node) error {
	if _, ok := a.nodes[n.ID]; !ok {
		return inputErrorf("node %d not found", n.ID)
	}
	a.nodes[n.ID] = n
	return nil
}

func (a *Arena) AddMember(m Member) MemberID {
	a.nextMember++
	m.ID = a.nextMember
	a.members[m.ID] = m
	return m.ID
}

func (a *Arena) AddShell(s ShellElement) ShellID {
	a.nextShell++
	s.ID = a.nextShell
	a.shells[s.ID] = s
	return s.ID
}

func (a *Arena) AddMaterial(m Material) MaterialID {
	a.nextMaterial++
	m.ID = a.nextMaterial
	a.materials[m.ID] = m
	return m.ID
}

func (a *Arena) AddSection(s Section) SectionID {
	a.nextSection++
	s.ID = a.nextSection
	a.sections[s.ID] = s
	return s.ID
}

func (a *Arena) AddLoadCase(c LoadCase) LoadCaseID {
	a.nextCase++
	c.ID = a.nextCase
	a.cases[c.ID] = c
	return c.ID
}

func (a *Arena) AddPointLoad(p PointLoad) {
	a.nextLoad++
	p.ID = a.nextLoad
	a.pointLoads = append(a.pointLoads, p)
}

func (a *Arena) AddMemberLoad(m MemberLoad) {
	a.nextLoad++
	m.ID = a.nextLoad
	a.memberLoads = append(a.memberLoads, m)
}

func (a *Arena) AddAreaLoad(l AreaLoad) {
	a.nextLoad++
	l.ID = a.nextLoad
	a.areaLoads = append(a.areaLoads, l)
}

// Snapshot copies the arena into an immutable, deterministically ordered
// view. The engine borrows a snapshot for the duration of one analysis or
// check call and never retains it.
func (a *Arena) Snapshot() *Snapshot {
	s := &Snapshot{
		nodeIndex:     make(map[NodeID]int, len(a.nodes)),
		memberIndex:   make(map[MemberID]int, len(a.members)),
		shellIndex:    make(map[ShellID]int, len(a.shells)),
		materialIndex: make(map[MaterialID]int, len(a.materials)),
		sectionIndex:  make(map[SectionID]int, len(a.sections)),
		caseIndex:     make(map[LoadCaseID]int, len(a.cases)),
	}
	for _, n := range a.nodes {
		s.Nodes = append(s.Nodes, n)
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].ID < s.Nodes[j].ID })
	for i, n := range s.Nodes {
		s.nodeIndex[n.ID] = i
	}

	for _, m := range a.members {
		s.Members = append(s.Members, m)
	}
	sort.Slice(s.Members, func(i, j int) bool { return s.Members[i].ID < s.Members[j].ID })
	for i, m := range s.Members {
		s.memberIndex[m.ID] = i
	}

	for _, sh := range a.shells {
		cp := sh
		cp.Nodes = append([]NodeID(nil), sh.Nodes...)
		s.Shells = append(s.Shells, cp)
	}
	sort.Slice(s.Shells, func(i, j int) bool { return s.Shells[i].ID < s.Shells[j].ID })
	for i, sh := range s.Shells {
		s.shellIndex[sh.ID] = i
	}

	for _, m := range a.materials {
		s.Materials = append(s.Materials, m)
	}
	sort.Slice(s.Materials, func(i, j int) bool { return s.Materials[i].ID < s.Materials[j].ID })
	for i, m := range s.Materials {
		s.materialIndex[m.ID] = i
	}

	for _, sec := range a.sections {
		s.Sections = append(s.Sections, sec)
	}
	sort.Slice(s.Sections, func(i, j int) bool { return s.Sections[i].ID < s.Sections[j].ID })
	for i, sec := range s.Sections {
		s.sectionIndex[sec.ID] = i
	}

	for _, c := range a.cases {
		s.Cases = append(s.Cases, c)
	}
	sort.Slice(s.Cases, func(i, j int) bool { return s.Cases[i].ID < s.Cases[j].ID })
	for i, c := range s.Cases {
		s.caseIndex[c.ID] = i
	}

	s.PointLoads = append([]PointLoad(nil), a.pointLoads...)
	s.MemberLoads = append([]MemberLoad(nil), a.memberLoads...)
	s.AreaLoads = append([]AreaLoad(nil), a.areaLoads...)
	sort.Slice(s.PointLoads, func(i, j int) bool { return s.PointLoads[i].ID < s.PointLoads[j].ID })
	sort.Slice(s.MemberLoads, func(i, j int) bool { return s.MemberLoads[i].ID < s.MemberLoads[j].ID })
	sort.Slice(s.AreaLoads, func(i, j int) bool { return s.AreaLoads[i].ID < s.AreaLoads[j].ID })
	return s
}

// Snapshot is a read-only copy of the model, slices sorted by id so that
// assembly order (and therefore floating-point summation order) is stable
// across runs.
type Snapshot struct {
	Nodes     []Node
	Members   []Member
	Shells    []ShellElement
	Materials []Material
	Sections  []Section
	Cases     []LoadCase

	PointLoads  []PointLoad
	MemberLoads []MemberLoad
	AreaLoads   []AreaLoad

	nodeIndex     map[NodeID]int
	memberIndex   map[MemberID]int
	shellIndex    map[ShellID]int
	materialIndex map[MaterialID]int
	sectionIndex  map[SectionID]int
	caseIndex     map[LoadCaseID]int
}

func (s *Snapshot) Node(id NodeID) (Node, bool) {
	i, ok := s.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return s.Nodes[i], true
}

// NodeOrdinal returns the dense 0-based index of a node, used to map node
// DOFs into the global system.
func (s *Snapshot) NodeOrdinal(id NodeID) (int, bool) {
	i, ok := s.nodeIndex[id]
	return i, ok
}

func (s *Snapshot) Member(id MemberID) (Member, bool) {
	i, ok := s.memberIndex[id]
	if !ok {
		return Member{}, false
	}
	return s.Members[i], true
}

func (s *Snapshot) Shell(id ShellID) (ShellElement, bool) {
	i, ok := s.shellIndex[id]
	if !ok {
		return ShellElement{}, false
	}
	return s.Shells[i], true
}

func (s *Snapshot) Material(id MaterialID) (Material, bool) {
	i, ok := s.materialIndex[id]
	if !ok {
		return Material{}, false
	}
	return s.Materials[i], true
}

func (s *Snapshot) Section(id SectionID) (Section, bool) {
	i, ok := s.sectionIndex[id]
	if !ok {
		return Section{}, false
	}
	return s.Sections[i], true
}

func (s *Snapshot) Case(id LoadCaseID) (LoadCase, bool) {
	i, ok := s.caseIndex[id]
	if !ok {
		return LoadCase{}, false
	}
	return s.Cases[i], true
}

// Validate rejects malformed geometry and dangling references before any
// assembly happens.
func (s *Snapshot) Validate() error {
	for _, m := range s.Members {
		if m.StartNode == m.EndNode {
			return inputErrorf("member %d: start and end node are both %d", m.ID, m.StartNode)
		}
		a, ok := s.Node(m.StartNode)
		if !ok {
			return inputErrorf("member %d: start node %d not found", m.ID, m.StartNode)
		}
		b, ok := s.Node(m.EndNode)
		if !ok {
			return inputErrorf("member %d: end node %d not found", m.ID, m.EndNode)
		}
		if a.X == b.X && a.Y == b.Y && a.Z == b.Z {
			return inputErrorf("member %d: zero length (coincident nodes %d, %d)", m.ID, m.StartNode, m.EndNode)
		}
		if _, ok := s.Section(m.Section); !ok {
			return inputErrorf("member %d: section %d not found", m.ID, m.Section)
		}
		if _, ok := s.Material(m.Material); !ok {
			return inputErrorf("member %d: material %d not found", m.ID, m.Material)
		}
	}
	for _, sh := range s.Shells {
		if len(sh.Nodes) != 3 && len(sh.Nodes) != 4 {
			return inputErrorf("shell %d: %d nodes, want 3 or 4", sh.ID, len(sh.Nodes))
		}
		pts := make([][3]float64, 0, len(sh.Nodes))
		for _, id := range sh.Nodes {
			n, ok := s.Node(id)
			if !ok {
				return inputErrorf("shell %d: node %d not found", sh.ID, id)
			}
			pts = append(pts, [3]float64{n.X, n.Y, n.Z})
		}
		if shellArea(pts) <= 1e-12 {
			return inputErrorf("shell %d: zero area (collinear nodes)", sh.ID)
		}
		if _, ok := s.Material(sh.Material); !ok {
			return inputErrorf("shell %d: material %d not found", sh.ID, sh.Material)
		}
	}
	return nil
}

// shellArea computes the facet area: one cross product for a triangle, the
// sum of the two diagonal-split triangles for a quad.
func shellArea(pts [][3]float64) float64 {
	tri := func(a, b, c [3]float64) float64 {
		u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cx := u[1]*v[2] - u[2]*v[1]
		cy := u[2]*v[0] - u[0]*v[2]
		cz := u[0]*v[1] - u[1]*v[0]
		return 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
	}
	if len(pts) == 3 {
		return tri(pts[0], pts[1], pts[2])
	}
	return tri(pts[0], pts[1], pts[2]) + tri(pts[0], pts[2], pts[3])
}
