// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colorspace implements the linear RGB <-> XYZ <-> CIELab <->
// LCHab conversion chain and CIEDE2000 color distance used throughout
// the paint-optics and stroke-painter pipeline. Grounded on
// cogentcore.org/core/colors/cam/cie's sRGB gamma conversion, generalized
// here with the XYZ/Lab/LCH legs and CIEDE2000 that the CAM16/HCT
// packages in the teacher only approximate for their own purposes.
package colorspace

import "github.com/chewxy/math32"

// SRGBToLinearComp converts a single sRGB component to linear space,
// removing the piecewise sRGB gamma curve.
func SRGBToLinearComp(srgb float32) float32 {
	if srgb <= 0.04045 {
		return srgb / 12.92
	}
	return math32.Pow((srgb+0.055)/1.055, 2.4)
}

// SRGBFromLinearComp converts a single linear component back to gamma-
// corrected sRGB, clamped to [0, 1].
func SRGBFromLinearComp(lin float32) float32 {
	var gv float32
	if lin <= 0.0031308 {
		gv = 12.92 * lin
	} else {
		gv = 1.055*math32.Pow(lin, 1.0/2.4) - 0.055
	}
	if gv < 0 {
		return 0
	}
	if gv > 1 {
		return 1
	}
	return gv
}
