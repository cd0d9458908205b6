// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioimg is the thin float-RGB <-> image.Image conversion boundary
// shared by the CLI binaries, grounded on the original's modules/io/src/
// image_io.cpp clamp/float-convert responsibility (see
// original_source/_INDEX.md). PNG/JPEG decode/encode themselves stay on
// image/png and image/jpeg directly in cmd/, per spec section 1's
// non-goals.
package ioimg

import (
	"image"
	"image/color"

	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/vecf"
)

// ToLinearMatrix decodes img (assumed sRGB-encoded, as image.Image always
// is in Go) into a linear-RGB Vector3 matrix of the given size, resampling
// img's native resolution onto (rows, cols) with nearest-neighbor mapping.
func ToLinearMatrix(img image.Image, rows, cols int) *vecf.Matrix[vecf.Vector3] {
	out := vecf.NewVector3Matrix(rows, cols)
	bounds := img.Bounds()
	for r := 0; r < rows; r++ {
		sy := bounds.Min.Y + r*bounds.Dy()/maxInt(rows, 1)
		for c := 0; c < cols; c++ {
			sx := bounds.Min.X + c*bounds.Dx()/maxInt(cols, 1)
			out.SetUnchecked(r, c, pixelToLinear(img.At(sx, sy)))
		}
	}
	return out
}

// ToMaskMatrix decodes img's luminance into a [0,1] float32 matrix at the
// given size, used for the painter's optional stroke mask (spec section
// 4.K / 6): 1 means paintable, 0 means masked out.
func ToMaskMatrix(img image.Image, rows, cols int) *vecf.Matrix[float32] {
	out := vecf.NewFloat32Matrix(rows, cols)
	bounds := img.Bounds()
	for r := 0; r < rows; r++ {
		sy := bounds.Min.Y + r*bounds.Dy()/maxInt(rows, 1)
		for c := 0; c < cols; c++ {
			sx := bounds.Min.X + c*bounds.Dx()/maxInt(cols, 1)
			gray := color.GrayModel.Convert(img.At(sx, sy)).(color.Gray)
			out.SetUnchecked(r, c, float32(gray.Y)/255)
		}
	}
	return out
}

// FromLinearMatrix encodes a linear-RGB Vector3 matrix to an 8-bit sRGB
// image.Image, clamping every channel to [0,1] before gamma encoding.
func FromLinearMatrix(m *vecf.Matrix[vecf.Vector3]) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.AtUnchecked(r, c).Clamp(0, 1)
			srgb := colorspace.SRGBFromLinear(v)
			out.SetNRGBA(c, r, color.NRGBA{
				R: toByte(srgb.X),
				G: toByte(srgb.Y),
				B: toByte(srgb.Z),
				A: 255,
			})
		}
	}
	return out
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func pixelToLinear(c color.Color) vecf.Vector3 {
	r, g, b, _ := c.RGBA()
	srgb := vecf.Vec3(float32(r)/65535, float32(g)/65535, float32(b)/65535)
	return colorspace.SRGBToLinear(srgb)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
