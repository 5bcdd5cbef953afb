package footing

import (
	"fmt"

	"Keystone/internal/model"
)

// Input bundles every shallow-foundation sub-check for one footing. Zero
// sub-inputs are skipped; at least the bearing check must be resolvable.
type Input struct {
	FootingID string `json:"footing_id"`

	Bearing   BearingInput    `json:"bearing"`
	Pressure  *PressureInput  `json:"pressure,omitempty"`
	Stability *StabilityInput `json:"stability,omitempty"`
	Flexure   *FlexureInput   `json:"flexure,omitempty"`
	Shear     *ShearInput     `json:"shear,omitempty"`
}

type Result struct {
	FootingID string `json:"footing_id"`

	Bearing   BearingResult    `json:"bearing"`
	Pressure  *PressureResult  `json:"pressure,omitempty"`
	Stability *StabilityResult `json:"stability,omitempty"`
	Flexure   *FlexureResult   `json:"flexure,omitempty"`
	Shear     *ShearResult     `json:"shear,omitempty"`

	Ratio     float64              `json:"ratio"`
	Governing string               `json:"governing_check"`
	Status    model.CheckStatus    `json:"status"`
	Messages  []model.CodedMessage `json:"messages,omitempty"`
}

// Calculate runs every provided sub-check. The overall demand/capacity
// ratio is the worst sub-ratio; coded messages accumulate without affecting
// the status bands.
func Calculate(in Input) (Result, error) {
	bearing, err := Bearing(in.Bearing)
	if err != nil {
		return Result{}, fmt.Errorf("bearing: %w", err)
	}
	res := Result{FootingID: in.FootingID, Bearing: bearing}

	track := func(name string, ratio float64) {
		if ratio > res.Ratio || res.Governing == "" {
			res.Ratio = ratio
			res.Governing = name
		}
	}

	if in.Pressure != nil {
		pr, err := Pressure(*in.Pressure)
		if err != nil {
			return Result{}, fmt.Errorf("pressure: %w", err)
		}
		res.Pressure = &pr
		res.Messages = append(res.Messages, pr.Messages...)
		if bearing.AllowableKPa > 0 {
			track("bearing", pr.QmaxKPa/bearing.AllowableKPa)
		}
	}
	if in.Stability != nil {
		st, err := Stability(*in.Stability)
		if err != nil {
			return Result{}, fmt.Errorf("stability: %w", err)
		}
		res.Stability = &st
		track("sliding", st.SlidingRatio)
		track("overturning", st.OverturnRatio)
	}
	if in.Flexure != nil {
		fl, err := Flexure(*in.Flexure)
		if err != nil {
			return Result{}, fmt.Errorf("flexure: %w", err)
		}
		res.Flexure = &fl
		res.Messages = append(res.Messages, fl.Messages...)
		if fl.AsProvidedMM2PerM > 0 {
			need := fl.AsRequiredMM2PerM
			if fl.AsMinimumMM2PerM > need {
				need = fl.AsMinimumMM2PerM
			}
			track("flexure", need/fl.AsProvidedMM2PerM)
		}
	}
	if in.Shear != nil {
		sh, err := Shear(*in.Shear)
		if err != nil {
			return Result{}, fmt.Errorf("shear: %w", err)
		}
		res.Shear = &sh
		track("one_way_shear", sh.OneWayRatio)
		track("punching_shear", sh.PunchingRatio)
	}

	res.Status = model.StatusForRatio(res.Ratio)
	return res, nil
}

// DesignResult converts the footing outcome into the generic record the
// results layer stores.
func (r Result) DesignResult() model.DesignResult {
	return model.DesignResult{
		FootingID: r.FootingID,
		Ratio:     r.Ratio,
		Status:    r.Status,
		Governing: r.Governing,
		Messages:  r.Messages,
	}
}
