package snow

import (
	"fmt"
	"math"
)

type Input struct {
	// Ground snow load is looked up from altitude and latitude when
	// GroundKPa is zero.
	AltitudeM  float64 `json:"altitude_m"`
	LatitudeDeg float64 `json:"latitude_deg"`
	GroundKPa  float64 `json:"ground_kpa"`

	Exposure   string  `json:"exposure"`   // sheltered | normal | windswept
	Thermal    string  `json:"thermal"`    // heated | unheated | greenhouse
	Importance string  `json:"importance"` // low | normal | high | essential
	SlopeDeg   float64 `json:"slope_deg"`
}

type Result struct {
	GroundKPa   float64 `json:"ground_kpa"`
	Ce          float64 `json:"ce"`
	Ct          float64 `json:"ct"`
	Is          float64 `json:"is"`
	Cs          float64 `json:"cs"`
	FlatRoofKPa float64 `json:"flat_roof_kpa"`
	RoofKPa     float64 `json:"roof_kpa"`
	Notes       string  `json:"notes"`
}

// groundLoad estimates the ground snow load (kPa) from altitude bands, with
// a latitude bump for high-latitude sites. Table values, not a climate model.
func groundLoad(altitudeM, latitudeDeg float64) float64 {
	var pg float64
	switch {
	case altitudeM < 300:
		pg = 0.4
	case altitudeM < 600:
		pg = 0.8
	case altitudeM < 900:
		pg = 1.2
	case altitudeM < 1200:
		pg = 1.8
	case altitudeM < 1500:
		pg = 2.5
	default:
		pg = 3.2
	}
	if math.Abs(latitudeDeg) > 45 {
		pg *= 1.25
	}
	return pg
}

func exposureFactor(e string) (float64, error) {
	switch e {
	case "sheltered":
		return 1.2, nil
	case "", "normal":
		return 1.0, nil
	case "windswept":
		return 0.8, nil
	}
	return 0, fmt.Errorf("unknown exposure %q", e)
}

func thermalFactor(t string) (float64, error) {
	switch t {
	case "", "heated":
		return 1.0, nil
	case "unheated":
		return 1.2, nil
	case "greenhouse":
		return 0.85, nil
	}
	return 0, fmt.Errorf("unknown thermal condition %q", t)
}

func importanceFactor(i string) (float64, error) {
	switch i {
	case "low":
		return 0.8, nil
	case "", "normal":
		return 1.0, nil
	case "high":
		return 1.1, nil
	case "essential":
		return 1.2, nil
	}
	return 0, fmt.Errorf("unknown importance class %q", i)
}

// slopeFactor drops linearly from 1.0 at 30 degrees to 0 at 70 degrees.
func slopeFactor(slopeDeg float64) float64 {
	switch {
	case slopeDeg <= 30:
		return 1.0
	case slopeDeg >= 70:
		return 0.0
	default:
		return (70 - slopeDeg) / 40
	}
}

func Calculate(in Input) (Result, error) {
	pg := in.GroundKPa
	if pg <= 0 {
		pg = groundLoad(in.AltitudeM, in.LatitudeDeg)
	}
	ce, err := exposureFactor(in.Exposure)
	if err != nil {
		return Result{}, err
	}
	ct, err := thermalFactor(in.Thermal)
	if err != nil {
		return Result{}, err
	}
	is, err := importanceFactor(in.Importance)
	if err != nil {
		return Result{}, err
	}
	if in.SlopeDeg < 0 || in.SlopeDeg > 90 {
		return Result{}, fmt.Errorf("invalid roof slope")
	}

	pf := 0.7 * ce * ct * is * pg
	cs := slopeFactor(in.SlopeDeg)

	return Result{
		GroundKPa:   pg,
		Ce:          ce,
		Ct:          ct,
		Is:          is,
		Cs:          cs,
		FlatRoofKPa: pf,
		RoofKPa:     cs * pf,
		Notes:       "Flat-roof load 0.7*Ce*Ct*Is*pg with linear slope reduction above 30 deg.",
	}, nil
}
