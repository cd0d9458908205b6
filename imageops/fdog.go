// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/vecf"
)

// FDoGParams bundles the flow-based difference-of-Gaussians parameters
// of spec section 4.I, used for optional edge overlays.
type FDoGParams struct {
	SigmaE, SigmaR float32 // the two DoG Gaussian scales along the gradient
	SigmaM         float32 // smoothing sigma along the tangent
	Tau            float32 // DoG blend factor, response = Ge - tau*Gr
	Phi            float32 // XDoG sharpening factor
	Epsilon        float32 // XDoG threshold
}

// FlowBasedDoG computes a single-channel edge-strength field from a
// linear-RGB image and its edge-tangent flow, per spec section 4.I: a
// 1-D DoG along the gradient direction, a 1-D Gaussian smoothing along
// the tangent direction, then the XDoG soft threshold
// 1 + tanh(phi*(response - epsilon)).
func FlowBasedDoG(img *vecf.Matrix[vecf.Vector3], tangent *vecf.Matrix[vecf.Vector2], params FDoGParams) *vecf.Matrix[float32] {
	gray := toGray(img)
	dog := dogAlongGradient(gray, tangent, params)
	smoothed := smoothAlongTangent(dog, tangent, params.SigmaM)
	out := vecf.NewFloat32Matrix(gray.Rows, gray.Cols)
	smoothed.ForEach(func(r, c int, v float32) {
		out.SetUnchecked(r, c, 1+math32.Tanh(params.Phi*(v-params.Epsilon)))
	})
	return out
}

func toGray(img *vecf.Matrix[vecf.Vector3]) *vecf.Matrix[float32] {
	out := vecf.NewFloat32Matrix(img.Rows, img.Cols)
	img.ForEach(func(r, c int, v vecf.Vector3) {
		out.SetUnchecked(r, c, 0.2126*v.X+0.7152*v.Y+0.0722*v.Z)
	})
	return out
}

func gauss1D(x, sigma float32) float32 {
	if sigma <= 0 {
		return 0
	}
	return math32.Exp(-(x*x)/(2*sigma*sigma)) / (sigma * math32.Sqrt(2*math32.Pi))
}

func dogAlongGradient(gray *vecf.Matrix[float32], tangent *vecf.Matrix[vecf.Vector2], params FDoGParams) *vecf.Matrix[float32] {
	out := vecf.NewFloat32Matrix(gray.Rows, gray.Cols)
	radius := int(math32.Ceil(2 * params.SigmaR))
	if radius < 1 {
		radius = 1
	}
	for r := 0; r < gray.Rows; r++ {
		for c := 0; c < gray.Cols; c++ {
			grad := tangent.AtUnchecked(r, c).Perp()
			var sumE, sumR, wE, wR float32
			for step := -radius; step <= radius; step++ {
				x := float32(c) + grad.X*float32(step)
				y := float32(r) + grad.Y*float32(step)
				v := gray.Sample(x, y, vecf.BorderReflect)
				ge := gauss1D(float32(step), params.SigmaE)
				gr := gauss1D(float32(step), params.SigmaR)
				sumE += v * ge
				sumR += v * gr
				wE += ge
				wR += gr
			}
			if wE > 1e-12 {
				sumE /= wE
			}
			if wR > 1e-12 {
				sumR /= wR
			}
			out.SetUnchecked(r, c, sumE-params.Tau*sumR)
		}
	}
	return out
}

func smoothAlongTangent(field *vecf.Matrix[float32], tangent *vecf.Matrix[vecf.Vector2], sigma float32) *vecf.Matrix[float32] {
	out := vecf.NewFloat32Matrix(field.Rows, field.Cols)
	radius := int(math32.Ceil(2 * sigma))
	if radius < 1 {
		radius = 1
	}
	for r := 0; r < field.Rows; r++ {
		for c := 0; c < field.Cols; c++ {
			dir := tangent.AtUnchecked(r, c)
			var sum, wsum float32
			for step := -radius; step <= radius; step++ {
				x := float32(c) + dir.X*float32(step)
				y := float32(r) + dir.Y*float32(step)
				v := field.Sample(x, y, vecf.BorderReflect)
				w := gauss1D(float32(step), sigma)
				sum += v * w
				wsum += w
			}
			if wsum < 1e-12 {
				out.SetUnchecked(r, c, field.AtUnchecked(r, c))
				continue
			}
			out.SetUnchecked(r, c, sum/wsum)
		}
	}
	return out
}
