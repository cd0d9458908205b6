// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brush

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/painty/painty/vecf"
)

// TestWarpToUVSingleVertexReturnsItsValue covers spec section 8's
// boundary behavior: "Polygon with a single vertex returns that
// vertex's value for generalized-barycentric interpolation."
func TestWarpToUVSingleVertexReturnsItsValue(t *testing.T) {
	s := NewBrushStrokeSample(nil, []vecf.Vector2{vecf.Vec2(10, 10)}, []vecf.Vector2{vecf.Vec2(0.5, 0)})
	uv, ok := s.WarpToUV(vecf.Vec2(999, -5))
	assert.True(t, ok)
	assert.Equal(t, vecf.Vec2(0.5, 0), uv)
}

// TestWarpToUVAtVertexReturnsExactValue checks that a query point
// coincident with a polygon vertex returns that vertex's UV exactly,
// regardless of the other vertices.
func TestWarpToUVAtVertexReturnsExactValue(t *testing.T) {
	canvas := []vecf.Vector2{vecf.Vec2(0, 0), vecf.Vec2(10, 0), vecf.Vec2(10, 10), vecf.Vec2(0, 10)}
	uvs := []vecf.Vector2{vecf.Vec2(0, -1), vecf.Vec2(1, -1), vecf.Vec2(1, 1), vecf.Vec2(0, 1)}
	s := NewBrushStrokeSample(nil, canvas, uvs)

	uv, ok := s.WarpToUV(vecf.Vec2(10, 0))
	assert.True(t, ok)
	assert.InDelta(t, float32(1), uv.X, 1e-4)
	assert.InDelta(t, float32(-1), uv.Y, 1e-4)
}

// TestWarpToUVCenterIsAverage checks that the square's center warps to
// the average of the four UV corners, by symmetry.
func TestWarpToUVCenterIsAverage(t *testing.T) {
	canvas := []vecf.Vector2{vecf.Vec2(0, 0), vecf.Vec2(10, 0), vecf.Vec2(10, 10), vecf.Vec2(0, 10)}
	uvs := []vecf.Vector2{vecf.Vec2(0, -1), vecf.Vec2(1, -1), vecf.Vec2(1, 1), vecf.Vec2(0, 1)}
	s := NewBrushStrokeSample(nil, canvas, uvs)

	uv, ok := s.WarpToUV(vecf.Vec2(5, 5))
	assert.True(t, ok)
	assert.InDelta(t, float32(0.5), uv.X, 1e-3)
	assert.InDelta(t, float32(0), uv.Y, 1e-3)
}

func TestThicknessAtOutOfDomainIsZero(t *testing.T) {
	thickness := vecf.NewFloat32Matrix(4, 4)
	thickness.Fill(0.7)
	s := NewBrushStrokeSample(thickness, nil, nil)
	assert.Equal(t, float32(0), s.ThicknessAt(1.5, 0))
	assert.InDelta(t, float32(0.7), s.ThicknessAt(0.5, 0), 1e-3)
}
