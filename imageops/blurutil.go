// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"

	"github.com/painty/painty/vecf"
)

// gaussianBlurAffine Gaussian-blurs an arbitrary (not necessarily [0,1])
// Vector3 field by affinely rescaling it into the [0,1] range bild's
// image-based Gaussian blur expects, blurring, then rescaling back.
// Because Gaussian blur is a linear (averaging) operator, it commutes
// exactly with the affine map, so this recovers the same result a
// float-domain blur would produce without needing a second convolution
// implementation.
func gaussianBlurAffine(m *vecf.Matrix[vecf.Vector3], sigma float32) *vecf.Matrix[vecf.Vector3] {
	if sigma <= 0 || m.Rows == 0 || m.Cols == 0 {
		return m.Clone()
	}
	lo, hi := fieldBounds(m)
	span := hi - lo
	if span < 1e-12 {
		return m.Clone()
	}
	norm := vecf.NewVector3Matrix(m.Rows, m.Cols)
	m.ForEach(func(r, c int, v vecf.Vector3) {
		norm.SetUnchecked(r, c, v.AddScalar(-lo).MulScalar(1/span))
	})
	img := matrixToImageUnclamped(norm)
	blurred := blur.Gaussian(img, float64(sigma))
	blurredMat := ImageToMatrix(blurred)
	out := vecf.NewVector3Matrix(m.Rows, m.Cols)
	blurredMat.ForEach(func(r, c int, v vecf.Vector3) {
		out.SetUnchecked(r, c, v.MulScalar(span).AddScalar(lo))
	})
	return out
}

func fieldBounds(m *vecf.Matrix[vecf.Vector3]) (lo, hi float32) {
	first := true
	m.ForEach(func(r, c int, v vecf.Vector3) {
		for _, x := range [3]float32{v.X, v.Y, v.Z} {
			if first {
				lo, hi = x, x
				first = false
				continue
			}
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
	})
	return
}

// matrixToImageUnclamped is like MatrixToImage but assumes the field is
// already normalized to [0,1] and skips the defensive clamp, so callers
// doing their own affine normalization don't pay for a redundant clamp.
func matrixToImageUnclamped(m *vecf.Matrix[vecf.Vector3]) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.AtUnchecked(r, c)
			img.SetRGBA64(c, r, color.RGBA64{
				R: uint16(v.X * 65535),
				G: uint16(v.Y * 65535),
				B: uint16(v.Z * 65535),
				A: 65535,
			})
		}
	}
	return img
}
