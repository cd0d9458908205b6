// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/vecf"
)

// OABFParams bundles the orientation-aligned bilateral filter
// parameters of spec section 4.I.
type OABFParams struct {
	SigmaD float32 // spatial sigma
	SigmaR float32 // color sigma, in CIELab units
	Passes int     // number of alternating gradient/tangent passes
}

// OABF performs the two-pass orientation-aligned bilateral smoothing of
// spec section 4.I: at each pixel, walk bidirectionally along the
// gradient direction (pass 0) or the tangent direction (pass 1) for
// +/-2*sigmaD, weighting samples by a Gaussian in distance times a
// Gaussian in CIELab color difference, alternating passes `Passes`
// times. tangent is the edge-tangent flow field computed from the same
// (or a related) image.
func OABF(img *vecf.Matrix[vecf.Vector3], tangent *vecf.Matrix[vecf.Vector2], params OABFParams) *vecf.Matrix[vecf.Vector3] {
	current := img.Clone()
	conv := colorspace.DefaultConverter
	for i := 0; i < params.Passes; i++ {
		useGradient := i%2 == 0
		current = oabfPass(current, tangent, params, useGradient, conv)
	}
	return current
}

func oabfPass(img *vecf.Matrix[vecf.Vector3], tangent *vecf.Matrix[vecf.Vector2], params OABFParams, useGradientDir bool, conv *colorspace.Converter) *vecf.Matrix[vecf.Vector3] {
	out := vecf.NewVector3Matrix(img.Rows, img.Cols)
	radius := int(math32.Ceil(2 * params.SigmaD))
	if radius < 1 {
		radius = 1
	}
	for r := 0; r < img.Rows; r++ {
		for c := 0; c < img.Cols; c++ {
			dir := tangent.AtUnchecked(r, c)
			if useGradientDir {
				dir = dir.Perp()
			}
			out.SetUnchecked(r, c, oabfSample(img, r, c, dir, radius, params, conv))
		}
	}
	return out
}

func oabfSample(img *vecf.Matrix[vecf.Vector3], row, col int, dir vecf.Vector2, radius int, params OABFParams, conv *colorspace.Converter) vecf.Vector3 {
	centerLab := conv.LinearToLab(img.AtUnchecked(row, col))
	var sum vecf.Vector3
	var weightSum float32
	for step := -radius; step <= radius; step++ {
		x := float32(col) + dir.X*float32(step)
		y := float32(row) + dir.Y*float32(step)
		sample := img.Sample(x, y, vecf.BorderReflect)
		lab := conv.LinearToLab(sample)
		spatial := gaussianWeight(float32(step), params.SigmaD)
		colorDist := math32.Sqrt((lab.L-centerLab.L)*(lab.L-centerLab.L) + (lab.A-centerLab.A)*(lab.A-centerLab.A) + (lab.B-centerLab.B)*(lab.B-centerLab.B))
		colorW := gaussianWeight(colorDist, params.SigmaR)
		w := spatial * colorW
		sum = sum.Add(sample.MulScalar(w))
		weightSum += w
	}
	if weightSum < 1e-12 {
		return img.AtUnchecked(row, col)
	}
	return sum.MulScalar(1 / weightSum)
}

func gaussianWeight(x, sigma float32) float32 {
	if sigma <= 0 {
		if x == 0 {
			return 1
		}
		return 0
	}
	return math32.Exp(-(x * x) / (2 * sigma * sigma))
}
