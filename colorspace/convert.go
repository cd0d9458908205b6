// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/vecf"
)

// D65 is the standard sRGB reference white point in XYZ, Y normalized to
// 1.0, used as the default illuminant.
var D65 = vecf.Vec3(0.95047, 1.0, 1.08883)

// sRGB D65 RGB->XYZ and XYZ->RGB matrices (rows as Vector3, applied as
// dot products), matching the standard sRGB primaries.
var rgbToXYZRows = [3]vecf.Vector3{
	vecf.Vec3(0.4124564, 0.3575761, 0.1804375),
	vecf.Vec3(0.2126729, 0.7151522, 0.0721750),
	vecf.Vec3(0.0193339, 0.1191920, 0.9503041),
}

var xyzToRGBRows = [3]vecf.Vector3{
	vecf.Vec3(3.2404542, -1.5371385, -0.4985314),
	vecf.Vec3(-0.9692660, 1.8760108, 0.0415560),
	vecf.Vec3(0.0556434, -0.2040259, 1.0572252),
}

func dot3(row, v vecf.Vector3) float32 { return row.X*v.X + row.Y*v.Y + row.Z*v.Z }

// Converter performs the linear RGB <-> XYZ <-> CIELab <-> LCHab chain
// for a given reference illuminant, defaulting to D65 but configurable
// at construction per spec section 4.B.
type Converter struct {
	WhitePoint vecf.Vector3
}

// NewConverter returns a Converter for the given illuminant (XYZ white
// point). Use D65 for the standard default.
func NewConverter(illuminant vecf.Vector3) *Converter {
	return &Converter{WhitePoint: illuminant}
}

// DefaultConverter is a Converter using the D65 illuminant.
var DefaultConverter = NewConverter(D65)

// SRGBToLinear converts an sRGB triple (gamma-corrected, [0,1]) to
// linear RGB.
func SRGBToLinear(c vecf.Vector3) vecf.Vector3 {
	return vecf.Vec3(SRGBToLinearComp(c.X), SRGBToLinearComp(c.Y), SRGBToLinearComp(c.Z))
}

// SRGBFromLinear converts a linear RGB triple to gamma-corrected sRGB,
// clamped to [0, 1].
func SRGBFromLinear(c vecf.Vector3) vecf.Vector3 {
	return vecf.Vec3(SRGBFromLinearComp(c.X), SRGBFromLinearComp(c.Y), SRGBFromLinearComp(c.Z))
}

// LinearToXYZ converts linear RGB to CIE XYZ.
func LinearToXYZ(rgb vecf.Vector3) vecf.Vector3 {
	return vecf.Vec3(dot3(rgbToXYZRows[0], rgb), dot3(rgbToXYZRows[1], rgb), dot3(rgbToXYZRows[2], rgb))
}

// XYZToLinear converts CIE XYZ to linear RGB.
func XYZToLinear(xyz vecf.Vector3) vecf.Vector3 {
	return vecf.Vec3(dot3(xyzToRGBRows[0], xyz), dot3(xyzToRGBRows[1], xyz), dot3(xyzToRGBRows[2], xyz))
}

func labF(t float32) float32 {
	const delta = float32(6.0 / 29.0)
	if t > delta*delta*delta {
		return math32.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float32) float32 {
	const delta = float32(6.0 / 29.0)
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

// Lab is a CIELab color triple: L in [0,100], a* and b* roughly
// [-128,128].
type Lab struct {
	L, A, B float32
}

// XYZToLab converts CIE XYZ to CIELab using the converter's white point.
func (c *Converter) XYZToLab(xyz vecf.Vector3) Lab {
	fx := labF(xyz.X / c.WhitePoint.X)
	fy := labF(xyz.Y / c.WhitePoint.Y)
	fz := labF(xyz.Z / c.WhitePoint.Z)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToXYZ converts CIELab back to CIE XYZ using the converter's white
// point.
func (c *Converter) LabToXYZ(l Lab) vecf.Vector3 {
	fy := (l.L + 16) / 116
	fx := fy + l.A/500
	fz := fy - l.B/200
	return vecf.Vec3(labFInv(fx)*c.WhitePoint.X, labFInv(fy)*c.WhitePoint.Y, labFInv(fz)*c.WhitePoint.Z)
}

// LCHab is the cylindrical (L, chroma, hue) representation of CIELab.
type LCHab struct {
	L, C, H float32 // H in radians
}

// LabToLCH converts CIELab to LCHab.
func LabToLCH(l Lab) LCHab {
	c := math32.Hypot(l.A, l.B)
	h := math32.Atan2(l.B, l.A)
	if h < 0 {
		h += 2 * math32.Pi
	}
	return LCHab{L: l.L, C: c, H: h}
}

// LCHToLab converts LCHab back to CIELab.
func LCHToLab(l LCHab) Lab {
	return Lab{L: l.L, A: l.C * math32.Cos(l.H), B: l.C * math32.Sin(l.H)}
}

// SRGBToLab converts a gamma-corrected sRGB triple directly to CIELab.
func (c *Converter) SRGBToLab(srgb vecf.Vector3) Lab {
	return c.XYZToLab(LinearToXYZ(SRGBToLinear(srgb)))
}

// LabToSRGB converts CIELab back to gamma-corrected sRGB, clamped to
// [0, 1].
func (c *Converter) LabToSRGB(l Lab) vecf.Vector3 {
	return SRGBFromLinear(XYZToLinear(c.LabToXYZ(l)))
}

// LinearToLab converts linear RGB directly to CIELab.
func (c *Converter) LinearToLab(rgb vecf.Vector3) Lab {
	return c.XYZToLab(LinearToXYZ(rgb))
}

// LabToLinear converts CIELab back to linear RGB (unclamped).
func (c *Converter) LabToLinear(l Lab) vecf.Vector3 {
	return XYZToLinear(c.LabToXYZ(l))
}
