package report

import (
	"encoding/json"
	"net/http"

	"Keystone/internal/analysis"
	"Keystone/internal/model"
)

type Handler struct{}

type GenerateRequest struct {
	Meta    Meta                 `json:"meta"`
	Run     *model.AnalysisRun   `json:"run,omitempty"`
	Results []model.DesignResult `json:"results,omitempty"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := WritePDF(w, req.Meta, req.Run, req.Results, analysis.Summarize(req.Results)); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var run model.AnalysisRun
	if err := json.NewDecoder(r.Body).Decode(&run); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	f, err := ExportRun(&run)
	if err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"results.xlsx\"")
	if err := f.Write(w); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}

type ImportResult struct {
	Nodes   int `json:"nodes"`
	Members int `json:"members"`
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	arena, err := ImportModel(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	snap := arena.Snapshot()
	if err := snap.Validate(); err != nil {
		http.Error(w, "Invalid model: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImportResult{Nodes: len(snap.Nodes), Members: len(snap.Members)})
}
