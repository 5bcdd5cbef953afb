package connections

import (
	"fmt"
	"math"

	"Keystone/internal/model"
)

type WeldType string

const (
	WeldFillet WeldType = "fillet"
	WeldCJP    WeldType = "cjp"
)

// Electrode classification strengths FEXX (MPa).
var electrodes = map[string]float64{
	"E60": 414,
	"E70": 483,
	"E80": 552,
}

const (
	phiFilletWeld = 0.75
	phiCJPWeld    = 0.90
	phiBaseRupture = 0.75
)

type WeldInput struct {
	Type      WeldType `json:"type"`
	Electrode string   `json:"electrode"`

	SizeMM   float64 `json:"size_mm"`   // fillet leg
	LengthMM float64 `json:"length_mm"` // total effective length
	// LoadAngleDeg is the angle between the load and the weld axis, for the
	// directional strength increase (0 = longitudinal, 90 = transverse).
	LoadAngleDeg float64 `json:"load_angle_deg"`

	// Base metal.
	PlateThickMM float64 `json:"plate_thick_mm"`
	FyMPa        float64 `json:"fy_mpa"`
	FuMPa        float64 `json:"fu_mpa"`

	DemandKN float64 `json:"demand_kn"`
}

type WeldResult struct {
	Checks    []CheckResult        `json:"checks"`
	Governing string               `json:"governing_check"`
	Ratio     float64              `json:"ratio"`
	Status    model.CheckStatus    `json:"status"`
	Messages  []model.CodedMessage `json:"messages,omitempty"`
}

// minFilletSize per AISC Table J2.4, keyed by the thinner part joined.
func minFilletSize(t float64) float64 {
	switch {
	case t <= 6:
		return 3
	case t <= 13:
		return 5
	case t <= 19:
		return 6
	default:
		return 8
	}
}

func CheckWeld(in WeldInput) (WeldResult, error) {
	if in.LengthMM <= 0 || in.PlateThickMM <= 0 {
		return WeldResult{}, fmt.Errorf("invalid weld geometry")
	}
	var res WeldResult

	switch in.Type {
	case WeldFillet:
		fexx, ok := electrodes[in.Electrode]
		if !ok {
			return WeldResult{}, &UnknownSpecError{Kind: "electrode", Value: in.Electrode}
		}
		if in.SizeMM <= 0 {
			return WeldResult{}, fmt.Errorf("invalid fillet size")
		}

		// Directional strength increase 1 + 0.5 sin^1.5(theta).
		theta := in.LoadAngleDeg * math.Pi / 180
		dirFactor := 1 + 0.5*math.Pow(math.Sin(theta), 1.5)
		throat := in.SizeMM / math.Sqrt2
		weldCap := phiFilletWeld * 0.6 * fexx * dirFactor * throat * in.LengthMM / 1000
		res.addCheck("weld", weldCap, in.DemandKN)

		if in.FyMPa > 0 {
			baseYield := 0.6 * in.FyMPa * in.PlateThickMM * in.LengthMM / 1000
			res.addCheck("base_metal", baseYield, in.DemandKN)
		}
		if in.FuMPa > 0 {
			baseRupture := phiBaseRupture * 0.6 * in.FuMPa * in.PlateThickMM * in.LengthMM / 1000
			res.addCheck("base_metal_rupture", baseRupture, in.DemandKN)
		}

		// Detailing provisions: message codes only.
		if min := minFilletSize(in.PlateThickMM); in.SizeMM < min {
			res.Messages = append(res.Messages, model.CodedMessage{
				Code: "AISC-J2.4",
				Text: fmt.Sprintf("fillet size %.0f mm below minimum %.0f mm for %.0f mm plate", in.SizeMM, min, in.PlateThickMM),
			})
		}
		maxSize := in.PlateThickMM
		if in.PlateThickMM >= 6 {
			maxSize = in.PlateThickMM - 2
		}
		if in.SizeMM > maxSize {
			res.Messages = append(res.Messages, model.CodedMessage{
				Code: "AISC-J2.2b",
				Text: fmt.Sprintf("fillet size %.0f mm above maximum %.0f mm along plate edge", in.SizeMM, maxSize),
			})
		}
		if in.LengthMM < 4*in.SizeMM {
			res.Messages = append(res.Messages, model.CodedMessage{
				Code: "AISC-J2.2b-L",
				Text: fmt.Sprintf("weld length %.0f mm below minimum %.0f mm (4x size)", in.LengthMM, 4*in.SizeMM),
			})
		}

	case WeldCJP:
		// Complete joint penetration develops the base metal.
		if in.FuMPa <= 0 {
			return WeldResult{}, fmt.Errorf("base metal Fu required for CJP weld")
		}
		cap := phiCJPWeld * in.FuMPa * in.PlateThickMM * in.LengthMM / 1000
		res.addCheck("cjp_base_metal", cap, in.DemandKN)

	default:
		return WeldResult{}, &UnknownSpecError{Kind: "weld type", Value: string(in.Type)}
	}

	res.finish()
	return res, nil
}

func (r *WeldResult) addCheck(name string, capacity, demand float64) {
	ratio := 0.0
	if capacity > 0 {
		ratio = demand / capacity
	} else if demand > 0 {
		ratio = math.Inf(1)
	}
	r.Checks = append(r.Checks, CheckResult{Name: name, CapacityKN: capacity, DemandKN: demand, Ratio: ratio})
}

func (r *WeldResult) finish() {
	for _, c := range r.Checks {
		if c.Ratio > r.Ratio || r.Governing == "" {
			r.Ratio = c.Ratio
			r.Governing = c.Name
		}
	}
	r.Status = model.StatusForRatio(r.Ratio)
}
