package analysis

import (
	"context"
	"testing"

	"Keystone/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comboPayload() ModelPayload {
	return ModelPayload{
		Nodes: []model.Node{
			{Restraints: [6]bool{true, true, true, true, true, true}},
			{X: 2},
		},
		Materials: []model.Material{{Name: "steel", Type: model.MaterialSteel, E: 200e6}},
		Sections: []model.Section{{
			Name:        "R100x200",
			Type:        model.SectionRectangular,
			Rectangular: &model.RectangularDims{Width: 0.1, Depth: 0.2},
		}},
		Members: []model.Member{{StartNode: 1, EndNode: 2, Section: 1, Material: 1}},
		Cases: []model.LoadCase{
			{Name: "D", Category: model.CategoryDead},
			{Name: "L", Category: model.CategoryLive},
		},
		PointLoads: []model.PointLoad{
			{Case: 1, Node: 2, F: [6]float64{0, -4}},
			{Case: 2, Node: 2, F: [6]float64{0, -6}},
		},
	}
}

func TestEngineRequestExpandsLoadCombo(t *testing.T) {
	rr := RunRequest{Type: model.AnalysisStatic, LoadCombo: "LRFD-2", Model: comboPayload()}

	req, err := rr.EngineRequest()
	require.NoError(t, err)

	require.NotNil(t, req.Combo)
	assert.Equal(t, "LRFD-2", req.Combo.ID)
	assert.InDelta(t, 1.2, req.CaseFactors[1], 1e-12)
	assert.InDelta(t, 1.6, req.CaseFactors[2], 1e-12)
}

func TestEngineRequestUnknownLoadCombo(t *testing.T) {
	rr := RunRequest{Type: model.AnalysisStatic, LoadCombo: "LRFD-99", Model: comboPayload()}

	_, err := rr.EngineRequest()
	require.Error(t, err)
	var ierr *model.InputError
	assert.ErrorAs(t, err, &ierr)
}

func TestRunRecordsCombination(t *testing.T) {
	rr := RunRequest{Type: model.AnalysisStatic, LoadCombo: "LRFD-2", Model: comboPayload()}
	req, err := rr.EngineRequest()
	require.NoError(t, err)

	snap := rr.Model.Arena().Snapshot()
	run := NewRunner(nil).Run(context.Background(), snap, req)

	require.Equal(t, model.RunComplete, run.Status)
	require.NotNil(t, run.Combination)
	assert.Equal(t, "LRFD-2", run.Combination.ID)
	require.Len(t, run.Combination.Terms, 2)

	// The factored tip force is 1.2*4 + 1.6*6 = 14.4 kN; the unfactored
	// sum would be 10. Deflection scales accordingly.
	plain := NewRunner(nil).Run(context.Background(), snap, Request{Type: model.AnalysisStatic})
	require.Equal(t, model.RunComplete, plain.Status)
	ratio := run.NodeResults[1].Displacement[model.DofUY] / plain.NodeResults[1].Displacement[model.DofUY]
	assert.InDelta(t, 1.44, ratio, 1e-9)
}
