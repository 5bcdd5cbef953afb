package analysis

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Keystone/internal/auth"
	combos "Keystone/internal/calc/combos"
	spectrum "Keystone/internal/calc/spectrum"
	"Keystone/internal/fea"
	"Keystone/internal/model"
	"Keystone/internal/repo"
)

// ModelPayload is the wire form of a structural model. Entities are inserted
// in order, so ids are 1-based positions within each list and references
// between lists use those ids.
type ModelPayload struct {
	Nodes     []model.Node         `json:"nodes"`
	Members   []model.Member       `json:"members,omitempty"`
	Shells    []model.ShellElement `json:"shells,omitempty"`
	Materials []model.Material     `json:"materials"`
	Sections  []model.Section      `json:"sections"`
	Cases     []model.LoadCase     `json:"cases,omitempty"`

	PointLoads  []model.PointLoad  `json:"point_loads,omitempty"`
	MemberLoads []model.MemberLoad `json:"member_loads,omitempty"`
	AreaLoads   []model.AreaLoad   `json:"area_loads,omitempty"`
}

func (p ModelPayload) Arena() *model.Arena {
	arena := model.NewArena()
	for _, n := range p.Nodes {
		arena.AddNode(n)
	}
	for _, m := range p.Materials {
		arena.AddMaterial(m)
	}
	for _, s := range p.Sections {
		arena.AddSection(s)
	}
	for _, m := range p.Members {
		arena.AddMember(m)
	}
	for _, sh := range p.Shells {
		arena.AddShell(sh)
	}
	for _, c := range p.Cases {
		arena.AddLoadCase(c)
	}
	for _, l := range p.PointLoads {
		arena.AddPointLoad(l)
	}
	for _, l := range p.MemberLoads {
		arena.AddMemberLoad(l)
	}
	for _, l := range p.AreaLoads {
		arena.AddAreaLoad(l)
	}
	return arena
}

// RunRequest is the JSON surface of one analysis invocation. The response
// spectrum is given by its code parameters and expanded into a curve server
// side.
type RunRequest struct {
	Type        model.AnalysisType           `json:"type"`
	CaseFactors map[model.LoadCaseID]float64 `json:"case_factors,omitempty"`
	// LoadCombo names a catalog combination (e.g. "LRFD-2") to expand
	// against the model's load cases instead of giving factors directly.
	LoadCombo string `json:"load_combo,omitempty"`

	PDelta      bool                         `json:"p_delta,omitempty"`
	NumModes    int                          `json:"num_modes,omitempty"`
	Combination fea.ModalCombination         `json:"combination,omitempty"`
	Damping     float64                      `json:"damping,omitempty"`
	Spectrum    *spectrum.Input              `json:"spectrum,omitempty"`

	Model ModelPayload `json:"model"`
}

// EngineRequest expands the wire request into engine options; the worker
// and the synchronous handler share it.
func (rr RunRequest) EngineRequest() (Request, error) {
	req := Request{
		Type:        rr.Type,
		CaseFactors: rr.CaseFactors,
		Static:      fea.StaticOptions{PDelta: rr.PDelta},
		Modal:       fea.ModalOptions{NumModes: rr.NumModes},
	}
	if rr.LoadCombo != "" {
		c, ok := combos.ByID(rr.LoadCombo)
		if !ok {
			return Request{}, &model.InputError{Msg: "unknown load combination " + rr.LoadCombo}
		}
		// Case ids are 1-based positions, matching Arena insertion order.
		cases := make([]model.LoadCase, len(rr.Model.Cases))
		for i, cs := range rr.Model.Cases {
			cs.ID = model.LoadCaseID(i + 1)
			cases[i] = cs
		}
		lc := combos.Expand(c, cases)
		req.Combo = &lc
		if len(req.CaseFactors) == 0 {
			req.CaseFactors = lc.CaseFactors()
		}
	}
	if rr.Type == model.AnalysisResponseSpectrum {
		if rr.Spectrum == nil {
			return Request{}, &model.InputError{Msg: "response spectrum parameters required"}
		}
		curve, err := spectrum.Generate(*rr.Spectrum)
		if err != nil {
			return Request{}, err
		}
		req.Spectrum = fea.SpectrumOptions{
			Sa:           curve.Sa,
			Combination:  rr.Combination,
			DampingRatio: rr.Damping,
		}
	}
	return req, nil
}

type Handler struct {
	Runner *Runner
	Repo   repo.Repository
	Log    *zap.Logger
}

// Run executes an analysis synchronously and persists the outcome when a
// repository is configured.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var rr RunRequest
	if err := json.NewDecoder(r.Body).Decode(&rr); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req, err := rr.EngineRequest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := rr.Model.Arena().Snapshot()
	run := h.Runner.Run(r.Context(), snap, req)

	if h.Repo != nil {
		if err := h.Repo.SaveRun(r.Context(), auth.UserID(r.Context()), run); err != nil {
			h.Log.Error("persisting run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// Queue validates the request and stores it for the worker binary instead
// of executing inline. The returned id can be polled via Get.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	var rr RunRequest
	if err := json.NewDecoder(r.Body).Decode(&rr); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if _, err := rr.EngineRequest(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := json.Marshal(rr)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	if err := h.Repo.EnqueueRun(r.Context(), auth.UserID(r.Context()), id, rr.Type, payload); err != nil {
		h.Log.Error("enqueueing run", zap.String("run_id", id), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id, "status": string(model.RunPending)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Run id required", http.StatusBadRequest)
		return
	}
	run, err := h.Repo.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}
