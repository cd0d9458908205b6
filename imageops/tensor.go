// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"github.com/painty/painty/vecf"
)

// Tensor is a single pixel's 2x2 positive-semidefinite structure tensor,
// stored as its three independent entries (E F; F G).
type Tensor struct {
	E, F, G float32
}

// TensorField is a per-pixel field of structure tensors, per spec
// section 3's "Structure tensor field".
type TensorField = vecf.Matrix[Tensor]

func lerpTensor(a, b Tensor, t float32) Tensor {
	return Tensor{
		E: a.E + (b.E-a.E)*t,
		F: a.F + (b.F-a.F)*t,
		G: a.G + (b.G-a.G)*t,
	}
}

// NewTensorField allocates a zero-filled tensor field of the given size.
func NewTensorField(rows, cols int) *TensorField {
	return vecf.NewMatrix[Tensor](rows, cols, lerpTensor)
}

// sobelGx and sobelGy are the standard 3x3 Sobel kernels.
var sobelGx = [3][3]float32{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
var sobelGy = [3][3]float32{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

func sobelAt(img *vecf.Matrix[vecf.Vector3], row, col int) (gx, gy vecf.Vector3) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			v := img.Sample(float32(col+dc), float32(row+dr), vecf.BorderReflect)
			gx = gx.Add(v.MulScalar(sobelGx[dr+1][dc+1]))
			gy = gy.Add(v.MulScalar(sobelGy[dr+1][dc+1]))
		}
	}
	return
}

// StructureTensorParams bundles the two smoothing stages described in
// spec section 4.I.
type StructureTensorParams struct {
	InnerBlurSigma float32 // smooths the gradients before outer-product
	OuterBlurSigma float32 // smooths the accumulated tensor field
}

// ComputeStructureTensorField computes the per-pixel structure tensor of
// img (expected to already be in a perceptual space such as CIELab,
// packed as a Vector3 matrix), following spec section 4.I: Sobel
// gradients, optional inner Gaussian blur of the gradients, outer-product
// accumulation across channels, optional outer Gaussian blur, then
// normalization so the maximum tensor magnitude is 1.
func ComputeStructureTensorField(img *vecf.Matrix[vecf.Vector3], params StructureTensorParams) *TensorField {
	gx := vecf.NewVector3Matrix(img.Rows, img.Cols)
	gy := vecf.NewVector3Matrix(img.Rows, img.Cols)
	for r := 0; r < img.Rows; r++ {
		for c := 0; c < img.Cols; c++ {
			gxv, gyv := sobelAt(img, r, c)
			gx.SetUnchecked(r, c, gxv)
			gy.SetUnchecked(r, c, gyv)
		}
	}

	if params.InnerBlurSigma > 0 {
		gx = gaussianBlurAffine(gx, params.InnerBlurSigma)
		gy = gaussianBlurAffine(gy, params.InnerBlurSigma)
	}

	field := NewTensorField(img.Rows, img.Cols)
	for r := 0; r < img.Rows; r++ {
		for c := 0; c < img.Cols; c++ {
			gxv := gx.AtUnchecked(r, c)
			gyv := gy.AtUnchecked(r, c)
			var e, f, g float32
			for ch := 0; ch < 3; ch++ {
				x := gxv.At(ch)
				y := gyv.At(ch)
				e += x * x
				f += x * y
				g += y * y
			}
			field.SetUnchecked(r, c, Tensor{E: e, F: f, G: g})
		}
	}

	if params.OuterBlurSigma > 0 {
		field = blurTensorField(field, params.OuterBlurSigma)
	}

	normalizeTensorField(field)
	return field
}

func normalizeTensorField(field *TensorField) {
	var maxMag float32
	field.ForEach(func(r, c int, t Tensor) {
		mag := tensorMagnitude(t)
		if mag > maxMag {
			maxMag = mag
		}
	})
	if maxMag < 1e-12 {
		return
	}
	for r := 0; r < field.Rows; r++ {
		for c := 0; c < field.Cols; c++ {
			t := field.AtUnchecked(r, c)
			field.SetUnchecked(r, c, Tensor{E: t.E / maxMag, F: t.F / maxMag, G: t.G / maxMag})
		}
	}
}

func tensorMagnitude(t Tensor) float32 {
	// Frobenius-style magnitude of the symmetric 2x2 tensor.
	return t.E*t.E + 2*t.F*t.F + t.G*t.G
}

// blurTensorField blurs each of the three independent tensor channels
// (E, F, G) by packing them into a Vector3 field and reusing the same
// Gaussian path as the gradient smoothing.
func blurTensorField(field *TensorField, sigma float32) *TensorField {
	packed := vecf.NewVector3Matrix(field.Rows, field.Cols)
	field.ForEach(func(r, c int, t Tensor) {
		packed.SetUnchecked(r, c, vecf.Vec3(t.E, t.F, t.G))
	})
	blurred := gaussianBlurAffine(packed, sigma)
	out := NewTensorField(field.Rows, field.Cols)
	blurred.ForEach(func(r, c int, v vecf.Vector3) {
		out.SetUnchecked(r, c, Tensor{E: v.X, F: v.Y, G: v.Z})
	})
	return out
}
