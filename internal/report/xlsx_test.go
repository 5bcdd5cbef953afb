package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Keystone/internal/model"
)

func modelWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()

	f.SetSheetName(f.GetSheetName(0), "Nodes")
	f.SetSheetRow("Nodes", "A1", &[]any{"x_m", "y_m", "z_m", "fixity"})
	f.SetSheetRow("Nodes", "A2", &[]any{0, 0, 0, "111111"})
	f.SetSheetRow("Nodes", "A3", &[]any{4, 0, 0, "011000"})
	f.SetSheetRow("Nodes", "A4", &[]any{8, 0, 0})

	f.NewSheet("Materials")
	f.SetSheetRow("Materials", "A1", &[]any{"name", "e_mpa", "density_t_m3"})
	f.SetSheetRow("Materials", "A2", &[]any{"steel", 200000, 7.85})

	f.NewSheet("Sections")
	f.SetSheetRow("Sections", "A1", &[]any{"name", "width_m", "depth_m"})
	f.SetSheetRow("Sections", "A2", &[]any{"R100x200", 0.1, 0.2})

	f.NewSheet("Members")
	f.SetSheetRow("Members", "A1", &[]any{"start_node", "end_node", "section", "material"})
	f.SetSheetRow("Members", "A2", &[]any{1, 2, 1, 1})
	f.SetSheetRow("Members", "A3", &[]any{2, 3, 1, 1})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportModel(t *testing.T) {
	arena, err := ImportModel(modelWorkbook(t))
	require.NoError(t, err)

	snap := arena.Snapshot()
	require.NoError(t, snap.Validate())
	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Members, 2)
	require.Len(t, snap.Materials, 1)
	require.Len(t, snap.Sections, 1)

	n1, _ := snap.Node(1)
	assert.Equal(t, [6]bool{true, true, true, true, true, true}, n1.Restraints)
	n2, _ := snap.Node(2)
	assert.Equal(t, [6]bool{false, true, true, false, false, false}, n2.Restraints)
	n3, _ := snap.Node(3)
	assert.Equal(t, 8.0, n3.X)
	assert.Equal(t, [6]bool{}, n3.Restraints)

	// e_mpa converts to kPa on the way in.
	mtl, _ := snap.Material(1)
	assert.InDelta(t, 200e6, mtl.E, 1e-6)
}

func TestImportModelRejectsBadRows(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Nodes")
	f.SetSheetRow("Nodes", "A1", &[]any{"x_m", "y_m", "z_m"})
	f.SetSheetRow("Nodes", "A2", &[]any{"zero", 0, 0})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ImportModel(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad coordinate")
}

func TestImportModelRequiresSheets(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ImportModel(&buf)
	require.Error(t, err)
}

func TestExportRunSheets(t *testing.T) {
	run := &model.AnalysisRun{
		Type:   model.AnalysisStatic,
		Status: model.RunComplete,
		NodeResults: []model.NodeResult{
			{Node: 1, Displacement: [6]float64{0.001}, Reaction: [6]float64{0, 10}},
		},
		MemberResults: []model.MemberResult{
			{Member: 1, StartForces: [6]float64{5}, EndForces: [6]float64{-5}},
		},
	}

	f, err := ExportRun(run)
	require.NoError(t, err)

	rows, err := f.GetRows("Nodes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "node", rows[0][0])

	rows, err = f.GetRows("Members")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
