package wind

import (
	"fmt"
	"math"
)

type Exposure string

const (
	ExposureB Exposure = "B"
	ExposureC Exposure = "C"
	ExposureD Exposure = "D"
)

type Input struct {
	// Zone selects the basic wind speed when SpeedMS is zero.
	Zone     string   `json:"zone"`
	SpeedMS  float64  `json:"speed_ms"`
	Exposure Exposure `json:"exposure"`
	HeightM  float64  `json:"height_m"`
	// Kzt and Kd default to 1.0 and 0.85.
	Kzt float64 `json:"kzt"`
	Kd  float64 `json:"kd"`
}

type Result struct {
	SpeedMS          float64 `json:"speed_ms"`
	Kz               float64 `json:"kz"`
	QzKPa            float64 `json:"qz_kpa"`
	// Main wind-force-resisting-system design pressures.
	WindwardKPa float64 `json:"windward_kpa"`
	LeewardKPa  float64 `json:"leeward_kpa"`
	SideKPa     float64 `json:"side_kpa"`
	// Components & cladding envelope pressure.
	CladdingKPa float64 `json:"cladding_kpa"`
	Notes       string  `json:"notes"`
}

// basicSpeed maps wind zone tags to basic speeds (m/s).
var basicSpeed = map[string]float64{
	"1": 30,
	"2": 35,
	"3": 40,
	"4": 45,
}

// exposureParams returns the power-law exponent alpha and gradient height zg
// (m) for each exposure category.
func exposureParams(e Exposure) (alpha, zg float64, err error) {
	switch e {
	case ExposureB:
		return 7.0, 365.76, nil
	case ExposureC:
		return 9.5, 274.32, nil
	case ExposureD:
		return 11.5, 213.36, nil
	default:
		return 0, 0, fmt.Errorf("unknown exposure category %q", e)
	}
}

// Kz evaluates the velocity-pressure exposure coefficient at height z,
// clamped below 4.6 m.
func Kz(e Exposure, z float64) (float64, error) {
	alpha, zg, err := exposureParams(e)
	if err != nil {
		return 0, err
	}
	if z < 4.6 {
		z = 4.6
	}
	return 2.01 * math.Pow(z/zg, 2/alpha), nil
}

// Pressure coefficients for a closed rectangular building, MWFRS.
const (
	cpWindward = 0.8
	cpLeeward  = -0.5
	cpSide     = -0.7
	gustFactor = 0.85
	// Components & cladding envelope coefficient (corner zone, small area).
	gcpCladding = -1.4
)

func Calculate(in Input) (Result, error) {
	v := in.SpeedMS
	if v <= 0 {
		s, ok := basicSpeed[in.Zone]
		if !ok {
			return Result{}, fmt.Errorf("unknown wind zone %q", in.Zone)
		}
		v = s
	}
	if in.HeightM <= 0 {
		return Result{}, fmt.Errorf("invalid height")
	}
	if in.Exposure == "" {
		in.Exposure = ExposureC
	}
	if in.Kzt <= 0 {
		in.Kzt = 1.0
	}
	if in.Kd <= 0 {
		in.Kd = 0.85
	}

	kz, err := Kz(in.Exposure, in.HeightM)
	if err != nil {
		return Result{}, err
	}

	// qz = 0.613 Kz Kzt Kd V^2 (N/m2) -> kPa.
	qz := 0.613 * kz * in.Kzt * in.Kd * v * v / 1000.0

	return Result{
		SpeedMS:     v,
		Kz:          kz,
		QzKPa:       qz,
		WindwardKPa: qz * gustFactor * cpWindward,
		LeewardKPa:  qz * gustFactor * cpLeeward,
		SideKPa:     qz * gustFactor * cpSide,
		CladdingKPa: qz * gcpCladding,
		Notes:       "Velocity pressure per exposure power law; closed rectangular building coefficients.",
	}, nil
}
