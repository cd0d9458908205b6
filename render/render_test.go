// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/canvas"
	"github.com/painty/painty/vecf"
)

func TestComposeMatchesLayerOverSubstrate(t *testing.T) {
	c := canvas.NewWhite(4, 4)
	c.Layer.Set(1, 1, vecf.Vec3(0.2, 0.1, 0.2), vecf.Vec3(0.5, 0.5, 0.5), 0.5)

	got := Compose(c)
	want := c.Layer.ComposeOnto(c.R0)
	for r := 0; r < 4; r++ {
		for col := 0; col < 4; col++ {
			a := got.AtUnchecked(r, col)
			b := want.AtUnchecked(r, col)
			assert.InDelta(t, b.X, a.X, 1e-9)
		}
	}
}

func TestShadeStaysInUnitRange(t *testing.T) {
	c := canvas.NewWhite(8, 8)
	c.H.SetUnchecked(4, 4, 0.3)
	c.H.SetUnchecked(4, 5, 0.1)
	c.H.SetUnchecked(3, 4, 0.2)

	shaded := Shade(c, vecf.Vec3(0.3, 0.3, 1))
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			v := shaded.AtUnchecked(r, col)
			assert.GreaterOrEqual(t, v.X, float32(0))
			assert.LessOrEqual(t, v.X, float32(1))
			assert.GreaterOrEqual(t, v.Y, float32(0))
			assert.LessOrEqual(t, v.Y, float32(1))
		}
	}
}

func TestRenderThreadRunsTasksInOrderOnOneWorker(t *testing.T) {
	rt := NewRenderThread()
	defer rt.Stop()

	var order []int
	var mu atomic.Int32
	for i := 0; i < 5; i++ {
		i := i
		f := rt.Push(func() error {
			mu.Add(1)
			order = append(order, i)
			return nil
		})
		require.NoError(t, f.Wait())
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, int32(5), mu.Load())
}
