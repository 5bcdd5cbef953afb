package combos

import (
	"encoding/json"
	"net/http"
)

type Request struct {
	Method string     `json:"method"` // lrfd | asd
	Values LoadValues `json:"values"`
}

type Response struct {
	Results     []ComboResult `json:"results"`
	Governing   ComboResult   `json:"governing"`
	EnvelopeMax float64       `json:"envelope_max"`
	EnvelopeMin float64       `json:"envelope_min"`
}

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	catalog := LRFD
	if req.Method == "asd" {
		catalog = ASD
	}
	max, min := Envelope(catalog, req.Values)
	resp := Response{
		Results:     EvaluateAll(catalog, req.Values),
		Governing:   Governing(catalog, req.Values),
		EnvelopeMax: max,
		EnvelopeMin: min,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
