// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/canvas"
	"github.com/painty/painty/vecf"
)

func flatStrokeSample(rows, cols int, value float32) *BrushStrokeSample {
	thickness := vecf.NewFloat32Matrix(rows, cols)
	thickness.Fill(value)
	return NewBrushStrokeSample(thickness, nil, nil)
}

// TestTextureBrushSinglePointPathRendersNothing covers spec section 8's
// boundary behavior for a one-point stroke.
func TestTextureBrushSinglePointPathRendersNothing(t *testing.T) {
	c := canvas.NewWhite(64, 64)
	before := c.Layer.Clone()

	tb := NewTextureBrush(flatStrokeSample(8, 8, 0.5))
	tb.SetRadius(5)
	tb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))
	tb.PaintStroke([]vecf.Vector2{vecf.Vec2(32, 32)}, c, 0)

	for r := 0; r < 64; r++ {
		for col := 0; col < 64; col++ {
			_, _, v := c.Layer.Get(r, col)
			_, _, vBefore := before.Get(r, col)
			assert.Equal(t, vBefore, v)
		}
	}
}

// TestTextureBrushDipClearsPickupMaps covers spec section 8 invariant 5.
func TestTextureBrushDipClearsPickupMaps(t *testing.T) {
	tb := NewTextureBrush(flatStrokeSample(8, 8, 0.5))
	tb.SetRadius(5)
	tb.src.Set(0, 0, vecf.Vec3(1, 1, 1), vecf.Vec3(1, 1, 1), 0.5)

	tb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))

	_, _, v := tb.src.Get(0, 0)
	assert.Equal(t, float32(0), v)
}

// TestTextureBrushDepositsPaintAlongStroke checks that a straight
// multi-point stroke deposits nonzero volume somewhere beneath it.
func TestTextureBrushDepositsPaintAlongStroke(t *testing.T) {
	c := canvas.NewWhite(64, 64)
	tb := NewTextureBrush(flatStrokeSample(8, 8, 0.6))
	tb.SetRadius(4)
	tb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))

	path := []vecf.Vector2{vecf.Vec2(10, 32), vecf.Vec2(32, 32), vecf.Vec2(54, 32)}
	tb.PaintStroke(path, c, 0)

	var totalV float32
	for r := 0; r < 64; r++ {
		for col := 0; col < 64; col++ {
			_, _, v := c.Layer.Get(r, col)
			totalV += v
		}
	}
	require.Greater(t, totalV, float32(0))
}
