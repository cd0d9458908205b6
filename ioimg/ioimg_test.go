// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioimg

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/vecf"
)

func solidImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestToLinearMatrixBlackAndWhite(t *testing.T) {
	black := solidImage(4, 4, color.NRGBA{A: 255})
	m := ToLinearMatrix(black, 4, 4)
	v := m.AtUnchecked(0, 0)
	assert.InDelta(t, 0, v.X, 1e-6)
	assert.InDelta(t, 0, v.Y, 1e-6)
	assert.InDelta(t, 0, v.Z, 1e-6)

	white := solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	m = ToLinearMatrix(white, 4, 4)
	v = m.AtUnchecked(2, 2)
	assert.InDelta(t, 1, v.X, 1e-3)
	assert.InDelta(t, 1, v.Y, 1e-3)
	assert.InDelta(t, 1, v.Z, 1e-3)
}

func TestToLinearMatrixResamplesToRequestedSize(t *testing.T) {
	src := solidImage(10, 20, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	m := ToLinearMatrix(src, 3, 5)
	require.Equal(t, 3, m.Rows)
	require.Equal(t, 5, m.Cols)
}

func TestToMaskMatrixWhiteIsPaintableBlackIsNot(t *testing.T) {
	white := solidImage(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	m := ToMaskMatrix(white, 2, 2)
	assert.InDelta(t, 1, m.AtUnchecked(0, 0), 1e-6)

	black := solidImage(2, 2, color.NRGBA{A: 255})
	m = ToMaskMatrix(black, 2, 2)
	assert.InDelta(t, 0, m.AtUnchecked(0, 0), 1e-6)
}

func TestFromLinearMatrixClampsOutOfRangeChannels(t *testing.T) {
	m := vecf.NewVector3Matrix(2, 2)
	m.SetUnchecked(0, 0, vecf.Vec3(2, -1, 0.5))
	img := FromLinearMatrix(m)

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(65535), a)
	assert.Equal(t, uint32(65535), r)
	assert.Equal(t, uint32(0), g)
	assert.Greater(t, b, uint32(0))
	assert.Less(t, b, uint32(65535))
}

func TestRoundTripPreservesMidGrayApproximately(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 180, G: 180, B: 180, A: 255})
	linear := ToLinearMatrix(src, 4, 4)
	out := FromLinearMatrix(linear)

	r1, g1, b1, _ := src.At(1, 1).RGBA()
	r2, g2, b2, _ := out.At(1, 1).RGBA()
	assert.InDelta(t, r1>>8, r2>>8, 2)
	assert.InDelta(t, g1>>8, g2>>8, 2)
	assert.InDelta(t, b1>>8, b2>>8, 2)
}
