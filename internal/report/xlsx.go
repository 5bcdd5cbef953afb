package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Keystone/internal/model"
)

// ExportRun writes the run results into a workbook: one sheet per result
// kind that is present.
func ExportRun(run *model.AnalysisRun) (*excelize.File, error) {
	f := excelize.NewFile()

	if len(run.NodeResults) > 0 {
		const sheet = "Nodes"
		f.SetSheetName(f.GetSheetName(0), sheet)
		f.SetSheetRow(sheet, "A1", &[]any{"node", "ux_m", "uy_m", "uz_m", "rx", "ry", "rz", "fx_kn", "fy_kn", "fz_kn"})
		for i, nr := range run.NodeResults {
			cell := fmt.Sprintf("A%d", i+2)
			f.SetSheetRow(sheet, cell, &[]any{
				int(nr.Node),
				nr.Displacement[0], nr.Displacement[1], nr.Displacement[2],
				nr.Displacement[3], nr.Displacement[4], nr.Displacement[5],
				nr.Reaction[0], nr.Reaction[1], nr.Reaction[2],
			})
		}
	}

	if len(run.MemberResults) > 0 {
		const sheet = "Members"
		f.NewSheet(sheet)
		f.SetSheetRow(sheet, "A1", &[]any{"member", "n_start_kn", "vy_start_kn", "vz_start_kn", "t_start_knm", "my_start_knm", "mz_start_knm", "n_end_kn", "mz_end_knm"})
		for i, mr := range run.MemberResults {
			cell := fmt.Sprintf("A%d", i+2)
			f.SetSheetRow(sheet, cell, &[]any{
				int(mr.Member),
				mr.StartForces[0], mr.StartForces[1], mr.StartForces[2],
				mr.StartForces[3], mr.StartForces[4], mr.StartForces[5],
				mr.EndForces[0], mr.EndForces[5],
			})
		}
	}

	if len(run.ModalResults) > 0 {
		const sheet = "Modes"
		f.NewSheet(sheet)
		f.SetSheetRow(sheet, "A1", &[]any{"mode", "frequency_hz", "period_s", "participation_x", "participation_y", "base_shear_kn"})
		for i, mr := range run.ModalResults {
			cell := fmt.Sprintf("A%d", i+2)
			f.SetSheetRow(sheet, cell, &[]any{mr.Mode, mr.FrequencyHz, mr.PeriodS, mr.ParticipationX, mr.ParticipationY, mr.BaseShearKN})
		}
	}

	return f, nil
}

// ImportModel reads a model workbook into an arena. Expected sheets:
//
//	Nodes:     x_m, y_m, z_m, fixity ("111111", translations then rotations)
//	Materials: name, e_mpa, density_t_m3
//	Sections:  name, width_m, depth_m (rectangular)
//	Members:   start_node, end_node, section, material (1-based row order)
//
// The first row of every sheet is a header.
func ImportModel(r io.Reader) (*model.Arena, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	arena := model.NewArena()

	nodeRows, err := sheetRows(f, "Nodes")
	if err != nil {
		return nil, err
	}
	for i, row := range nodeRows {
		if len(row) < 3 {
			return nil, fmt.Errorf("Nodes row %d: want at least x, y, z", i+2)
		}
		x, err1 := toFloat(row[0])
		y, err2 := toFloat(row[1])
		z, err3 := toFloat(row[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("Nodes row %d: bad coordinate", i+2)
		}
		n := model.Node{X: x, Y: y, Z: z}
		if len(row) > 3 {
			fixity := strings.TrimSpace(row[3])
			for d := 0; d < model.DofCount && d < len(fixity); d++ {
				n.Restraints[d] = fixity[d] == '1'
			}
		}
		arena.AddNode(n)
	}

	matRows, err := sheetRows(f, "Materials")
	if err != nil {
		return nil, err
	}
	for i, row := range matRows {
		if len(row) < 3 {
			return nil, fmt.Errorf("Materials row %d: want name, e_mpa, density", i+2)
		}
		e, err1 := toFloat(row[1])
		rho, err2 := toFloat(row[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("Materials row %d: bad value", i+2)
		}
		arena.AddMaterial(model.Material{Name: row[0], E: e * 1000, Density: rho})
	}

	secRows, err := sheetRows(f, "Sections")
	if err != nil {
		return nil, err
	}
	for i, row := range secRows {
		if len(row) < 3 {
			return nil, fmt.Errorf("Sections row %d: want name, width, depth", i+2)
		}
		w, err1 := toFloat(row[1])
		d, err2 := toFloat(row[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("Sections row %d: bad dimension", i+2)
		}
		arena.AddSection(model.Section{
			Name:        row[0],
			Type:        model.SectionRectangular,
			Rectangular: &model.RectangularDims{Width: w, Depth: d},
		})
	}

	memRows, err := sheetRows(f, "Members")
	if err != nil {
		return nil, err
	}
	for i, row := range memRows {
		if len(row) < 4 {
			return nil, fmt.Errorf("Members row %d: want start, end, section, material", i+2)
		}
		vals := make([]int, 4)
		for j := 0; j < 4; j++ {
			v, err := strconv.Atoi(strings.TrimSpace(row[j]))
			if err != nil {
				return nil, fmt.Errorf("Members row %d: bad reference %q", i+2, row[j])
			}
			vals[j] = v
		}
		arena.AddMember(model.Member{
			StartNode: model.NodeID(vals[0]),
			EndNode:   model.NodeID(vals[1]),
			Section:   model.SectionID(vals[2]),
			Material:  model.MaterialID(vals[3]),
		})
	}

	return arena, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s: no data rows", sheet)
	}
	return rows[1:], nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
