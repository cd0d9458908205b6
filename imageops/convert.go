// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imageops implements the image-analysis operators that drive
// stroke placement: Gaussian-smoothed structure tensors, edge-tangent
// flow, an orientation-aligned bilateral filter, flow-based
// difference-of-Gaussians, and SLICO-style superpixel segmentation, per
// spec section 4.I. Gaussian smoothing is delegated to
// github.com/anthonynsimon/bild/blur, matching its use elsewhere in the
// teacher (cogentcore.org/core/paint's blur_test.go, colors/gradient).
package imageops

import (
	"image"
	"image/color"

	"github.com/painty/painty/vecf"
)

// MatrixToImage converts a linear-RGB Vector3 matrix, assumed already in
// [0, 1], to an image.RGBA64 suitable for passing to bild filters.
func MatrixToImage(m *vecf.Matrix[vecf.Vector3]) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.AtUnchecked(r, c).Clamp(0, 1)
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

// ImageToMatrix converts an image.Image back to a linear-RGB Vector3
// matrix in [0, 1].
func ImageToMatrix(img image.Image) *vecf.Matrix[vecf.Vector3] {
	b := img.Bounds()
	m := vecf.NewVector3Matrix(b.Dy(), b.Dx())
	for r := 0; r < b.Dy(); r++ {
		for c := 0; c < b.Dx(); c++ {
			rr, gg, bb, _ := img.At(b.Min.X+c, b.Min.Y+r).RGBA()
			m.SetUnchecked(r, c, vecf.Vec3(float32(rr)/65535, float32(gg)/65535, float32(bb)/65535))
		}
	}
	return m
}
