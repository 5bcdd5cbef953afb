package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameArena() (*Arena, MaterialID, SectionID) {
	a := NewArena()
	mtl := a.AddMaterial(Material{Name: "steel", Type: MaterialSteel, E: 200e6})
	sec := a.AddSection(Section{
		Name:        "R100x200",
		Type:        SectionRectangular,
		Rectangular: &RectangularDims{Width: 0.1, Depth: 0.2},
	})
	return a, mtl, sec
}

func TestArenaAssignsSequentialIDs(t *testing.T) {
	a, mtl, sec := frameArena()
	n1 := a.AddNode(Fixed(0, 0, 0, 0))
	n2 := a.AddNode(Node{X: 2})
	m1 := a.AddMember(Member{StartNode: n1, EndNode: n2, Section: sec, Material: mtl})

	assert.Equal(t, NodeID(1), n1)
	assert.Equal(t, NodeID(2), n2)
	assert.Equal(t, MemberID(1), m1)

	snap := a.Snapshot()
	n, ok := snap.Node(n2)
	require.True(t, ok)
	assert.Equal(t, 2.0, n.X)

	ord, ok := snap.NodeOrdinal(n1)
	require.True(t, ok)
	assert.Equal(t, 0, ord)

	_, ok = snap.Node(99)
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	a, _, _ := frameArena()
	id := a.AddNode(Node{X: 1})
	snap := a.Snapshot()

	require.NoError(t, a.UpdateNode(Node{ID: id, X: 5}))

	n, _ := snap.Node(id)
	assert.Equal(t, 1.0, n.X)
}

func TestUpdateUnknownNode(t *testing.T) {
	a, _, _ := frameArena()
	err := a.UpdateNode(Node{ID: 42})
	require.Error(t, err)
	var ierr *InputError
	assert.ErrorAs(t, err, &ierr)
}

func TestValidateMemberGeometry(t *testing.T) {
	a, mtl, sec := frameArena()
	n1 := a.AddNode(Fixed(0, 0, 0, 0))
	a.AddMember(Member{StartNode: n1, EndNode: n1, Section: sec, Material: mtl})
	err := a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start and end node")

	a, mtl, sec = frameArena()
	n1 = a.AddNode(Fixed(0, 0, 0, 0))
	n2 := a.AddNode(Node{}) // same coordinates
	a.AddMember(Member{StartNode: n1, EndNode: n2, Section: sec, Material: mtl})
	err = a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero length")
}

func TestValidateDanglingReferences(t *testing.T) {
	a, mtl, sec := frameArena()
	n1 := a.AddNode(Fixed(0, 0, 0, 0))
	n2 := a.AddNode(Node{X: 2})
	a.AddMember(Member{StartNode: n1, EndNode: n2, Section: 99, Material: mtl})
	err := a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section 99 not found")

	a, mtl, sec = frameArena()
	n1 = a.AddNode(Fixed(0, 0, 0, 0))
	n2 = a.AddNode(Node{X: 2})
	a.AddMember(Member{StartNode: n1, EndNode: n2, Section: sec, Material: 99})
	err = a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "material 99 not found")
}

func TestValidateShells(t *testing.T) {
	a, mtl, _ := frameArena()
	n1 := a.AddNode(Node{})
	n2 := a.AddNode(Node{X: 1})
	a.AddShell(ShellElement{Nodes: []NodeID{n1, n2}, Thickness: 0.2, Material: mtl})
	err := a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 3 or 4")

	a, mtl, _ = frameArena()
	n1 = a.AddNode(Node{})
	n2 = a.AddNode(Node{X: 1})
	n3 := a.AddNode(Node{X: 2}) // collinear
	a.AddShell(ShellElement{Nodes: []NodeID{n1, n2, n3}, Thickness: 0.2, Material: mtl})
	err = a.Snapshot().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero area")

	a, mtl, _ = frameArena()
	n1 = a.AddNode(Node{})
	n2 = a.AddNode(Node{X: 1})
	n3 = a.AddNode(Node{X: 1, Y: 1})
	a.AddShell(ShellElement{Nodes: []NodeID{n1, n2, n3}, Thickness: 0.2, Material: mtl})
	require.NoError(t, a.Snapshot().Validate())
}
