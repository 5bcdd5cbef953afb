package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Keystone/internal/analysis"
	"Keystone/internal/model"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// WritePDF renders the design report: run header, warnings, the design-check
// table, and the batch summary.
func WritePDF(w io.Writer, meta Meta, run *model.AnalysisRun, results []model.DesignResult, summary analysis.Summary) error {
	if meta.Title == "" {
		meta.Title = "Structural Design Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if run != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Analysis Run")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 5, fmt.Sprintf("Run %s: %s analysis, status %s", run.ID, run.Type, run.Status))
		pdf.Ln(5)
		if run.Message != "" {
			pdf.Cell(0, 5, fmt.Sprintf("Message: %s", run.Message))
			pdf.Ln(5)
		}
		for _, warn := range run.Warnings {
			pdf.Cell(0, 5, fmt.Sprintf("[%s] %s", warn.Code, warn.Message))
			pdf.Ln(5)
		}
		pdf.Ln(5)
	}

	if len(results) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Design Checks")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, "Element", "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Governing", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "D/C", "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, "Status", "1", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, res := range results {
			key := res.MemberID
			if key == "" {
				key = res.FootingID
			}
			pdf.CellFormat(50, 6, key, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, res.Governing, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%.3f", res.Ratio), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, string(res.Status), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 5, fmt.Sprintf("Summary: %d pass, %d warning, %d fail. Max D/C %.3f (element %s), avg %.3f.",
			summary.Pass, summary.Warning, summary.Fail, summary.MaxRatio, summary.Governing, summary.AvgRatio))
		pdf.Ln(8)
	}

	if meta.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}

	return pdf.Output(w)
}
