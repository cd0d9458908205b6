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

// TestFootprintBrushSinglePointPathRendersNothing covers spec section 8's
// boundary behavior for a one-point stroke.
func TestFootprintBrushSinglePointPathRendersNothing(t *testing.T) {
	c := canvas.NewWhite(64, 64)
	before := c.Layer.Clone()

	fp := NewUniformFootprint(16)
	fb := NewFootprintBrush(fp, false)
	fb.SetRadius(8)
	fb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))
	fb.PaintStroke([]vecf.Vector2{vecf.Vec2(32, 32)}, c, 0)

	for r := 0; r < 64; r++ {
		for col := 0; col < 64; col++ {
			_, _, v := c.Layer.Get(r, col)
			_, _, vBefore := before.Get(r, col)
			assert.Equal(t, vBefore, v)
		}
	}
}

// TestFootprintBrushDipClearsPickupMap covers spec section 8 invariant 5.
func TestFootprintBrushDipClearsPickupMap(t *testing.T) {
	fp := NewUniformFootprint(16)
	fb := NewFootprintBrush(fp, false)
	fb.pickup.Set(0, 0, vecf.Vec3(1, 1, 1), vecf.Vec3(1, 1, 1), 0.7)

	fb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))

	for r := 0; r < fb.pickup.Rows(); r++ {
		for c := 0; c < fb.pickup.Cols(); c++ {
			_, _, v := fb.pickup.Get(r, c)
			assert.Equal(t, float32(0), v)
		}
	}
	require.NotNil(t, fp)
}

// TestFootprintBrushImprintDepositsPaint checks that a single imprint
// deposits nonzero volume under the footprint's disk.
func TestFootprintBrushImprintDepositsPaint(t *testing.T) {
	c := canvas.NewWhite(64, 64)
	fp := NewUniformFootprint(16)
	fb := NewFootprintBrush(fp, false)
	fb.SetRadius(8)
	fb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))

	fb.Imprint(vecf.Vec2(32, 32), 0, c, 0)

	_, _, v := c.Layer.Get(32, 32)
	assert.Greater(t, v, float32(0))
}

// TestFootprintBrushSnapshotDoesNotSelfSaturate checks that with the
// snapshot buffer enabled, a dense stroke does not let the pickup map
// exceed its configured capacity.
func TestFootprintBrushSnapshotDoesNotSelfSaturate(t *testing.T) {
	c := canvas.NewWhite(64, 64)
	fp := NewUniformFootprint(10)
	fb := NewFootprintBrush(fp, true)
	fb.SetRadius(5)
	fb.Dip(vecf.Vec3(0.2, 0.1, 0.1), vecf.Vec3(0.3, 0.3, 0.3))

	path := make([]vecf.Vector2, 0, 40)
	for i := 0; i < 40; i++ {
		path = append(path, vecf.Vec2(float32(10+i), 32))
	}
	fb.PaintStroke(path, c, 0)

	for r := 0; r < fb.pickup.Rows(); r++ {
		for col := 0; col < fb.pickup.Cols(); col++ {
			_, _, v := fb.pickup.Get(r, col)
			assert.LessOrEqual(t, v, fb.capacity+1e-4)
		}
	}
}
