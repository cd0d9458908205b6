// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package painter

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/mixer"
	"github.com/painty/painty/vecf"
)

func solidTarget(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func blackWhitePigments() *mixer.Palette {
	return mixer.NewPalette([]mixer.Paint{
		{K: vecf.Vec3Scalar(0.01), S: vecf.Vec3Scalar(1)},
		{K: vecf.Vec3Scalar(5), S: vecf.Vec3Scalar(0.1)},
	})
}

func TestRunRejectsEmptyTarget(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err := Run(empty, nil, blackWhitePigments(), Config{})
	assert.Error(t, err)
}

// TestRunOnUniformTargetReturnsTargetSizedCanvas runs the painter on a
// flat target across two brush-size stages and checks that it completes
// without error and returns a canvas of the target's size.
func TestRunOnUniformTargetReturnsTargetSizedCanvas(t *testing.T) {
	target := solidTarget(24, 24, color.NRGBA{R: 235, G: 235, B: 235, A: 255})
	cfg := Config{
		Convergence: ConvergenceParams{
			BrushSizes:    []float32{8, 4},
			MaxIterations: 3,
			RMSLocal:      0.2,
			RMSGlobal:     0.2,
		},
		Input: InputParams{NrColors: 2},
	}

	c, err := Run(target, nil, blackWhitePigments(), cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 24, c.Rows())
	assert.Equal(t, 24, c.Cols())
}

func TestRunHonorsFullyMaskedOutImage(t *testing.T) {
	target := solidTarget(16, 16, color.NRGBA{R: 10, G: 200, B: 50, A: 255})
	mask := solidTarget(16, 16, color.NRGBA{A: 255})
	cfg := Config{
		Convergence: ConvergenceParams{
			BrushSizes:    []float32{8},
			MaxIterations: 2,
			RMSLocal:      0.01,
			RMSGlobal:     0.01,
		},
		Input: InputParams{NrColors: 2},
	}

	c, err := Run(target, mask, blackWhitePigments(), cfg)
	require.NoError(t, err)
	canvasRGB := c.Layer.ComposeOnto(c.R0)
	v := canvasRGB.AtUnchecked(8, 8)
	assert.InDelta(t, 1, v.X, 1e-3)
	assert.InDelta(t, 1, v.Y, 1e-3)
	assert.InDelta(t, 1, v.Z, 1e-3)
}

func TestDiluteWithMediumPullsTowardTransparency(t *testing.T) {
	p := mixer.NewPalette([]mixer.Paint{{K: vecf.Vec3Scalar(1), S: vecf.Vec3Scalar(1)}})
	diluted := diluteWithMedium(p, 3)
	require.Len(t, diluted.Paints, 1)
	assert.Less(t, diluted.Paints[0].K.X, p.Paints[0].K.X)
}

func TestClampOrSkipRadiusRejectsBelowMinimum(t *testing.T) {
	sp := StrokeParams{BrushMin: 2, BrushMax: 10}
	_, ok := clampOrSkipRadius(1, sp)
	assert.False(t, ok)

	r, ok := clampOrSkipRadius(5, sp)
	assert.True(t, ok)
	assert.InDelta(t, 5, r, 1e-6)
}

func TestClampOrSkipRadiusClampsWhenConfigured(t *testing.T) {
	sp := StrokeParams{BrushMin: 2, BrushMax: 10, ClampBrushRadius: true}
	r, ok := clampOrSkipRadius(50, sp)
	assert.True(t, ok)
	assert.InDelta(t, 10, r, 1e-6)
}

func TestBestPaintPrefersCloserMatchOverCanvasColor(t *testing.T) {
	palette := blackWhitePigments()
	white := vecf.Vec3Scalar(1)
	black := vecf.Vec3Scalar(0)

	idx, ok := bestPaint(palette, black, white, 1e9, colorspace.DefaultConverter)
	require.True(t, ok)
	assert.GreaterOrEqual(t, idx, 0)
}

func TestConfigSetDefaultsFillsZeroFields(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.NotEmpty(t, cfg.Convergence.BrushSizes)
	assert.Greater(t, cfg.Convergence.MaxIterations, 0)
	assert.Greater(t, cfg.DryingTimeMillis, float32(0))
	assert.Greater(t, cfg.Input.NrColors, 0)
}
