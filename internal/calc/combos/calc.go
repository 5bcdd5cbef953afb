// Package combos evaluates LRFD and ASD load combinations over scalar
// design load values.
package combos

import (
	"math"

	"Keystone/internal/model"
)

// LoadValues are the unfactored scalar effects per load category, in
// whatever consistent unit the caller works in (kN, kN*m, kPa).
type LoadValues struct {
	D  float64 `json:"d"`
	L  float64 `json:"l"`
	Lr float64 `json:"lr"`
	S  float64 `json:"s"`
	R  float64 `json:"r"`
	W  float64 `json:"w"`
	E  float64 `json:"e"`
}

// Combination is one named linear combination with prescribed factors.
type Combination struct {
	ID      string  `json:"id"`
	Formula string  `json:"formula"`
	D       float64 `json:"d,omitempty"`
	L       float64 `json:"l,omitempty"`
	Lr      float64 `json:"lr,omitempty"`
	S       float64 `json:"s,omitempty"`
	R       float64 `json:"r,omitempty"`
	W       float64 `json:"w,omitempty"`
	E       float64 `json:"e,omitempty"`
}

// Evaluate applies the combination's factors to the load values.
func (c Combination) Evaluate(v LoadValues) float64 {
	return c.D*v.D + c.L*v.L + c.Lr*v.Lr + c.S*v.S + c.R*v.R + c.W*v.W + c.E*v.E
}

// LRFD strength-design combinations. The "Lr or S or R" alternatives carry
// the same factor on all three categories; only the governing one of the
// three is normally nonzero in the input.
var LRFD = []Combination{
	{ID: "LRFD-1", Formula: "1.4D", D: 1.4},
	{ID: "LRFD-2", Formula: "1.2D + 1.6L + 0.5(Lr|S|R)", D: 1.2, L: 1.6, Lr: 0.5, S: 0.5, R: 0.5},
	{ID: "LRFD-3", Formula: "1.2D + 1.6(Lr|S|R) + L", D: 1.2, L: 1.0, Lr: 1.6, S: 1.6, R: 1.6},
	{ID: "LRFD-3w", Formula: "1.2D + 1.6(Lr|S|R) + 0.5W", D: 1.2, Lr: 1.6, S: 1.6, R: 1.6, W: 0.5},
	{ID: "LRFD-4", Formula: "1.2D + 1.0W + L + 0.5(Lr|S|R)", D: 1.2, L: 1.0, Lr: 0.5, S: 0.5, R: 0.5, W: 1.0},
	{ID: "LRFD-5", Formula: "1.2D + 1.0E + L + 0.2S", D: 1.2, L: 1.0, S: 0.2, E: 1.0},
	{ID: "LRFD-6", Formula: "0.9D + 1.0W", D: 0.9, W: 1.0},
	{ID: "LRFD-7", Formula: "0.9D + 1.0E", D: 0.9, E: 1.0},
}

// ASD allowable-stress combinations.
var ASD = []Combination{
	{ID: "ASD-1", Formula: "D", D: 1.0},
	{ID: "ASD-2", Formula: "D + L", D: 1.0, L: 1.0},
	{ID: "ASD-3", Formula: "D + (Lr|S|R)", D: 1.0, Lr: 1.0, S: 1.0, R: 1.0},
	{ID: "ASD-4", Formula: "D + 0.75L + 0.75(Lr|S|R)", D: 1.0, L: 0.75, Lr: 0.75, S: 0.75, R: 0.75},
	{ID: "ASD-5", Formula: "D + 0.6W", D: 1.0, W: 0.6},
	{ID: "ASD-5e", Formula: "D + 0.7E", D: 1.0, E: 0.7},
	{ID: "ASD-6", Formula: "D + 0.75L + 0.75(0.6W) + 0.75(Lr|S|R)", D: 1.0, L: 0.75, Lr: 0.75, S: 0.75, R: 0.75, W: 0.45},
	{ID: "ASD-6e", Formula: "D + 0.75L + 0.75(0.7E) + 0.75S", D: 1.0, L: 0.75, S: 0.75, E: 0.525},
	{ID: "ASD-7", Formula: "0.6D + 0.6W", D: 0.6, W: 0.6},
	{ID: "ASD-8", Formula: "0.6D + 0.7E", D: 0.6, E: 0.7},
}

// factor returns the multiplier the combination applies to a load category.
func (c Combination) factor(cat model.LoadCategory) float64 {
	switch cat {
	case model.CategoryDead:
		return c.D
	case model.CategoryLive:
		return c.L
	case model.CategoryRoofLive:
		return c.Lr
	case model.CategorySnow:
		return c.S
	case model.CategoryRain:
		return c.R
	case model.CategoryWind:
		return c.W
	case model.CategorySeismic:
		return c.E
	}
	return 0
}

// ByID looks a combination up across both catalogs.
func ByID(id string) (Combination, bool) {
	for _, catalog := range [][]Combination{LRFD, ASD} {
		for _, c := range catalog {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Combination{}, false
}

// Expand binds a catalog combination to a model's load cases by category,
// producing the persisted term list the analysis layer consumes. Categories
// the combination does not factor are dropped.
func Expand(c Combination, cases []model.LoadCase) model.LoadCombination {
	lc := model.LoadCombination{ID: c.ID, Formula: c.Formula}
	for _, cs := range cases {
		if f := c.factor(cs.Category); f != 0 {
			lc.Terms = append(lc.Terms, model.CombinationTerm{Case: cs.ID, Factor: f})
		}
	}
	return lc
}

// ComboResult pairs a combination with its evaluated value.
type ComboResult struct {
	Combination Combination `json:"combination"`
	Value       float64     `json:"value"`
}

// EvaluateAll returns one result per combination, in catalog order.
func EvaluateAll(catalog []Combination, v LoadValues) []ComboResult {
	out := make([]ComboResult, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, ComboResult{Combination: c, Value: c.Evaluate(v)})
	}
	return out
}

// Governing returns the combination with the maximum absolute value.
func Governing(catalog []Combination, v LoadValues) ComboResult {
	var gov ComboResult
	for i, c := range catalog {
		val := c.Evaluate(v)
		if i == 0 || math.Abs(val) > math.Abs(gov.Value) {
			gov = ComboResult{Combination: c, Value: val}
		}
	}
	return gov
}

// Envelope returns the maximum and minimum values across the catalog.
func Envelope(catalog []Combination, v LoadValues) (max, min float64) {
	for i, c := range catalog {
		val := c.Evaluate(v)
		if i == 0 {
			max, min = val, val
			continue
		}
		if val > max {
			max = val
		}
		if val < min {
			min = val
		}
	}
	return max, min
}

// DriftLimit returns the allowable story drift (m). Structures carrying
// fragile non-structural elements get the tighter limit.
func DriftLimit(hasFragileElements bool, storyHeightM float64) float64 {
	if hasFragileElements {
		return storyHeightM / 500
	}
	return storyHeightM / 400
}
