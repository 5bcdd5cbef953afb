// Package model holds the structural model entities the engine operates on.
// All quantities are SI: lengths in m, forces in kN, pressures in kPa,
// elastic moduli in kPa, densities in t/m3.
package model

// Per-node degrees of freedom, three translations then three rotations.
const (
	DofUX = iota
	DofUY
	DofUZ
	DofRX
	DofRY
	DofRZ
	DofCount = 6
)

type NodeID int
type MemberID int
type ShellID int
type MaterialID int
type SectionID int
type LoadCaseID int

type Node struct {
	ID         NodeID     `json:"id"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Z          float64    `json:"z"`
	Restraints [6]bool    `json:"restraints"`
	// Springs holds an optional support stiffness per DOF (kN/m or kN*m/rad).
	// A zero entry means no spring.
	Springs [6]float64 `json:"springs"`
}

// Fixed returns a fully restrained node at the given coordinates.
func Fixed(id NodeID, x, y, z float64) Node {
	return Node{ID: id, X: x, Y: y, Z: z, Restraints: [6]bool{true, true, true, true, true, true}}
}

// Pinned returns a node with the three translations restrained.
func Pinned(id NodeID, x, y, z float64) Node {
	return Node{ID: id, X: x, Y: y, Z: z, Restraints: [6]bool{true, true, true, false, false, false}}
}

type Member struct {
	ID            MemberID   `json:"id"`
	StartNode     NodeID     `json:"start_node"`
	EndNode       NodeID     `json:"end_node"`
	Section       SectionID  `json:"section"`
	Material      MaterialID `json:"material"`
	ReleasesStart [6]bool    `json:"releases_start"`
	ReleasesEnd   [6]bool    `json:"releases_end"`
	// RollAngle rotates the local y/z axes about the member axis, radians.
	RollAngle float64 `json:"roll_angle"`
}

type ShellElement struct {
	ID        ShellID    `json:"id"`
	Nodes     []NodeID   `json:"nodes"` // 3 (tri3) or 4 (quad4), ordered
	Thickness float64    `json:"thickness_m"`
	Material  MaterialID `json:"material"`
	// ParentID ties the facet back to the wall or slab it was meshed from,
	// used to match area loads.
	ParentID string `json:"parent_id"`
}

type MaterialType string

const (
	MaterialSteel    MaterialType = "steel"
	MaterialConcrete MaterialType = "concrete"
	MaterialTimber   MaterialType = "timber"
)

type Material struct {
	ID      MaterialID   `json:"id"`
	Name    string       `json:"name"`
	Type    MaterialType `json:"type"`
	E       float64      `json:"e_kpa"`
	G       float64      `json:"g_kpa"`
	Density float64      `json:"density_t_m3"`
}

type LoadCategory string

const (
	CategoryDead     LoadCategory = "dead"
	CategoryLive     LoadCategory = "live"
	CategoryRoofLive LoadCategory = "roof_live"
	CategorySnow     LoadCategory = "snow"
	CategoryRain     LoadCategory = "rain"
	CategoryWind     LoadCategory = "wind"
	CategorySeismic  LoadCategory = "seismic"
)

type LoadCase struct {
	ID       LoadCaseID   `json:"id"`
	Name     string       `json:"name"`
	Category LoadCategory `json:"category"`
}

type PointLoad struct {
	ID   int        `json:"id"`
	Case LoadCaseID `json:"case"`
	Node NodeID     `json:"node"`
	// Force and moment components in global axes (kN, kN*m).
	F [6]float64 `json:"f"`
}

type MemberLoadKind string

const (
	MemberLoadUniform     MemberLoadKind = "uniform"
	MemberLoadTrapezoidal MemberLoadKind = "trapezoidal"
	MemberLoadPoint       MemberLoadKind = "point"
)

// MemberLoadDirection selects the local transverse axis the load acts along.
type MemberLoadDirection string

const (
	MemberLocalY MemberLoadDirection = "local-y"
	MemberLocalZ MemberLoadDirection = "local-z"
)

type MemberLoad struct {
	ID        int                 `json:"id"`
	Case      LoadCaseID          `json:"case"`
	Member    MemberID            `json:"member"`
	Kind      MemberLoadKind      `json:"kind"`
	Direction MemberLoadDirection `json:"direction"`
	// W1 is the intensity (kN/m) of a uniform load, or the start intensity of
	// a trapezoidal one; W2 the end intensity. P and DistanceM describe a
	// concentrated load (kN) measured from the start node.
	W1        float64 `json:"w1_kn_m"`
	W2        float64 `json:"w2_kn_m"`
	P         float64 `json:"p_kn"`
	DistanceM float64 `json:"distance_m"`
}

type AreaLoadDirection string

const (
	AreaGlobalX     AreaLoadDirection = "global-x"
	AreaGlobalY     AreaLoadDirection = "global-y"
	AreaGlobalZ     AreaLoadDirection = "global-z"
	AreaGravity     AreaLoadDirection = "gravity"
	AreaLocalNormal AreaLoadDirection = "local-normal"
)

type AreaLoad struct {
	ID       int               `json:"id"`
	Case     LoadCaseID        `json:"case"`
	ParentID string            `json:"parent_id"`
	// Intensity is a signed pressure in kPa; the sign flips the resolved
	// direction vector.
	Intensity float64           `json:"intensity_kpa"`
	Direction AreaLoadDirection `json:"direction"`
}

// CombinationTerm is one factored load case inside a combination.
type CombinationTerm struct {
	Case   LoadCaseID `json:"case"`
	Factor float64    `json:"factor"`
}

// LoadCombination is an ordered list of factored cases plus the formula it
// was generated from. Combinations are persisted as results and never
// mutated after creation.
type LoadCombination struct {
	ID      string            `json:"id"`
	Formula string            `json:"formula"`
	Terms   []CombinationTerm `json:"terms"`
}

// CaseFactors flattens the terms into the factor map the load assembler
// takes. Repeated cases accumulate.
func (c LoadCombination) CaseFactors() map[LoadCaseID]float64 {
	m := make(map[LoadCaseID]float64, len(c.Terms))
	for _, t := range c.Terms {
		m[t.Case] += t.Factor
	}
	return m
}
