// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/painty/painty/vecf"
)

func newTestCanvas() *Canvas {
	c := NewWhite(4, 4)
	c.Layer.Set(1, 1, vecf.Vec3(0.2, 0.1, 0.3), vecf.Vec3(0.5, 0.4, 0.6), 0.7)
	return c
}

func TestDryCanvasZeroesVolumeAndAccumulatesHeight(t *testing.T) {
	c := newTestCanvas()
	c.DryCanvas(10)
	for r := 0; r < c.Rows(); r++ {
		for col := 0; col < c.Cols(); col++ {
			_, _, v := c.Layer.Get(r, col)
			assert.Equal(t, float32(0), v)
		}
	}
	assert.InDelta(t, 0.7, c.H.AtUnchecked(1, 1), 1e-6)
	assert.Equal(t, float32(0), c.H.AtUnchecked(0, 0))
}

func TestDryCanvasIsIdempotent(t *testing.T) {
	c := newTestCanvas()
	c.DryCanvas(10)
	r0Before := c.R0.Clone()
	hBefore := c.H.Clone()
	c.DryCanvas(20)
	for r := 0; r < c.Rows(); r++ {
		for col := 0; col < c.Cols(); col++ {
			assert.Equal(t, r0Before.AtUnchecked(r, col), c.R0.AtUnchecked(r, col))
			assert.Equal(t, hBefore.AtUnchecked(r, col), c.H.AtUnchecked(r, col))
		}
	}
}

func TestCheckDrySameNowTwiceIsNoOp(t *testing.T) {
	c := newTestCanvas()
	c.CheckDry(1, 1, 5)
	kAfterFirst, sAfterFirst, vAfterFirst := c.Layer.Get(1, 1)

	c.CheckDry(1, 1, 5)
	kAfterSecond, sAfterSecond, vAfterSecond := c.Layer.Get(1, 1)

	assert.Equal(t, kAfterFirst, kAfterSecond)
	assert.Equal(t, sAfterFirst, sAfterSecond)
	assert.Equal(t, vAfterFirst, vAfterSecond)
}

func TestCheckDryFullyDriesAfterDuration(t *testing.T) {
	c := newTestCanvas()
	c.CheckDry(1, 1, c.DryingDuration+1)
	_, _, v := c.Layer.Get(1, 1)
	assert.Equal(t, float32(0), v)
	assert.Greater(t, c.H.AtUnchecked(1, 1), float32(0))
}

func TestCheckDryPartiallyDries(t *testing.T) {
	c := newTestCanvas()
	half := c.DryingDuration * 0.5
	c.CheckDry(1, 1, half)
	_, _, v := c.Layer.Get(1, 1)
	assert.Greater(t, v, float32(0))
	assert.Less(t, v, float32(0.7))
	assert.Greater(t, c.H.AtUnchecked(1, 1), float32(0))
}

func TestClearResetsEverything(t *testing.T) {
	c := newTestCanvas()
	c.Clear(42)
	for r := 0; r < c.Rows(); r++ {
		for col := 0; col < c.Cols(); col++ {
			_, _, v := c.Layer.Get(r, col)
			assert.Equal(t, float32(0), v)
			assert.Equal(t, c.Background, c.R0.AtUnchecked(r, col))
			assert.Equal(t, float32(0), c.H.AtUnchecked(r, col))
			assert.Equal(t, float32(42), c.T.AtUnchecked(r, col))
		}
	}
}
