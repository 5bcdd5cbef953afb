package model

import (
	"fmt"
	"math"
)

type SectionType string

const (
	SectionWShape      SectionType = "w_shape"
	SectionChannel     SectionType = "channel"
	SectionAngle       SectionType = "angle"
	SectionRectHSS     SectionType = "rect_hss"
	SectionRoundHSS    SectionType = "round_hss"
	SectionRectangular SectionType = "rectangular"
)

// Section is a tagged union: Type selects which dimension payload is set.
// Dimensions are in meters.
type Section struct {
	ID   SectionID   `json:"id"`
	Name string      `json:"name"`
	Type SectionType `json:"type"`

	WShape      *WShapeDims      `json:"w_shape,omitempty"`
	Channel     *ChannelDims     `json:"channel,omitempty"`
	Angle       *AngleDims       `json:"angle,omitempty"`
	RectHSS     *RectHSSDims     `json:"rect_hss,omitempty"`
	RoundHSS    *RoundHSSDims    `json:"round_hss,omitempty"`
	Rectangular *RectangularDims `json:"rectangular,omitempty"`
}

type WShapeDims struct {
	Depth          float64 `json:"depth"`
	FlangeWidth    float64 `json:"flange_width"`
	FlangeThick    float64 `json:"flange_thick"`
	WebThick       float64 `json:"web_thick"`
}

type ChannelDims struct {
	Depth       float64 `json:"depth"`
	FlangeWidth float64 `json:"flange_width"`
	FlangeThick float64 `json:"flange_thick"`
	WebThick    float64 `json:"web_thick"`
}

type AngleDims struct {
	LegA  float64 `json:"leg_a"`
	LegB  float64 `json:"leg_b"`
	Thick float64 `json:"thick"`
}

type RectHSSDims struct {
	Depth float64 `json:"depth"`
	Width float64 `json:"width"`
	Thick float64 `json:"thick"`
}

type RoundHSSDims struct {
	Diameter float64 `json:"diameter"`
	Thick    float64 `json:"thick"`
}

// RectangularDims covers solid concrete and timber sections.
type RectangularDims struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// SectionProperties are the derived stiffness-method properties: area (m2),
// second moments about the local z (strong) and y (weak) axes (m4) and the
// torsion constant (m4).
type SectionProperties struct {
	Area float64 `json:"area"`
	Iz   float64 `json:"iz"`
	Iy   float64 `json:"iy"`
	J    float64 `json:"j"`
}

// Properties computes the geometric properties for the active variant.
func (s Section) Properties() (SectionProperties, error) {
	switch s.Type {
	case SectionWShape:
		if s.WShape == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing w_shape dimensions", s.Name)
		}
		return s.WShape.properties(), nil
	case SectionChannel:
		if s.Channel == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing channel dimensions", s.Name)
		}
		return s.Channel.properties(), nil
	case SectionAngle:
		if s.Angle == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing angle dimensions", s.Name)
		}
		return s.Angle.properties(), nil
	case SectionRectHSS:
		if s.RectHSS == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing rect_hss dimensions", s.Name)
		}
		return s.RectHSS.properties(), nil
	case SectionRoundHSS:
		if s.RoundHSS == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing round_hss dimensions", s.Name)
		}
		return s.RoundHSS.properties(), nil
	case SectionRectangular:
		if s.Rectangular == nil {
			return SectionProperties{}, fmt.Errorf("section %q: missing rectangular dimensions", s.Name)
		}
		return s.Rectangular.properties(), nil
	default:
		return SectionProperties{}, fmt.Errorf("unknown section type %q", s.Type)
	}
}

func (d WShapeDims) properties() SectionProperties {
	hw := d.Depth - 2*d.FlangeThick
	area := 2*d.FlangeWidth*d.FlangeThick + hw*d.WebThick
	iz := d.FlangeWidth*cube(d.Depth)/12 - (d.FlangeWidth-d.WebThick)*cube(hw)/12
	iy := 2*d.FlangeThick*cube(d.FlangeWidth)/12 + hw*cube(d.WebThick)/12
	j := (2*d.FlangeWidth*cube(d.FlangeThick) + (d.Depth-d.FlangeThick)*cube(d.WebThick)) / 3
	return SectionProperties{Area: area, Iz: iz, Iy: iy, J: j}
}

func (d ChannelDims) properties() SectionProperties {
	hw := d.Depth - 2*d.FlangeThick
	area := 2*d.FlangeWidth*d.FlangeThick + hw*d.WebThick
	iz := d.FlangeWidth*cube(d.Depth)/12 - (d.FlangeWidth-d.WebThick)*cube(hw)/12
	// Weak axis about the web back face; good enough for stiffness purposes.
	xbar := (2*d.FlangeThick*d.FlangeWidth*d.FlangeWidth/2 + hw*d.WebThick*d.WebThick/2) / area
	iy := 2*(d.FlangeThick*cube(d.FlangeWidth)/12+d.FlangeThick*d.FlangeWidth*sq(d.FlangeWidth/2-xbar)) +
		hw*cube(d.WebThick)/12 + hw*d.WebThick*sq(xbar-d.WebThick/2)
	j := (2*d.FlangeWidth*cube(d.FlangeThick) + d.Depth*cube(d.WebThick)) / 3
	return SectionProperties{Area: area, Iz: iz, Iy: iy, J: j}
}

func (d AngleDims) properties() SectionProperties {
	area := (d.LegA + d.LegB - d.Thick) * d.Thick
	// Thin-legged approximation about each leg's centroidal axis.
	iz := d.Thick * cube(d.LegA) / 3
	iy := d.Thick * cube(d.LegB) / 3
	j := (d.LegA + d.LegB) * cube(d.Thick) / 3
	return SectionProperties{Area: area, Iz: iz, Iy: iy, J: j}
}

func (d RectHSSDims) properties() SectionProperties {
	bi := d.Width - 2*d.Thick
	hi := d.Depth - 2*d.Thick
	area := d.Width*d.Depth - bi*hi
	iz := (d.Width*cube(d.Depth) - bi*cube(hi)) / 12
	iy := (d.Depth*cube(d.Width) - hi*cube(bi)) / 12
	// Closed thin-walled torsion constant.
	bm := d.Width - d.Thick
	hm := d.Depth - d.Thick
	j := 2 * d.Thick * sq(bm) * sq(hm) / (bm + hm)
	return SectionProperties{Area: area, Iz: iz, Iy: iy, J: j}
}

func (d RoundHSSDims) properties() SectionProperties {
	ro := d.Diameter / 2
	ri := ro - d.Thick
	area := math.Pi * (sq(ro) - sq(ri))
	i := math.Pi * (quar(ro) - quar(ri)) / 4
	return SectionProperties{Area: area, Iz: i, Iy: i, J: 2 * i}
}

func (d RectangularDims) properties() SectionProperties {
	area := d.Width * d.Depth
	iz := d.Width * cube(d.Depth) / 12
	iy := d.Depth * cube(d.Width) / 12
	// Saint-Venant constant for a solid rectangle, a >= b.
	a, b := d.Width, d.Depth
	if b > a {
		a, b = b, a
	}
	j := a * cube(b) * (1.0/3.0 - 0.21*(b/a)*(1-quar(b)/(12*quar(a))))
	return SectionProperties{Area: area, Iz: iz, Iy: iy, J: j}
}

func sq(x float64) float64   { return x * x }
func cube(x float64) float64 { return x * x * x }
func quar(x float64) float64 { return x * x * x * x }
