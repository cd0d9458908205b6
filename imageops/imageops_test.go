// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/vecf"
)

func TestTangentAtUniformTensorIsUnitLength(t *testing.T) {
	tangent := TangentAt(Tensor{E: 1, F: 0, G: 0})
	assert.InDelta(t, 1.0, tangent.Length(), 1e-4)
}

func TestTangentAtDegenerateTensorDefaultsToVertical(t *testing.T) {
	tangent := TangentAt(Tensor{})
	assert.Equal(t, vecf.Vec2(0, 1), tangent)
}

func TestStructureTensorFieldIsNormalized(t *testing.T) {
	img := vecf.NewVector3Matrix(20, 20)
	for r := 0; r < 20; r++ {
		for c := 0; c < 20; c++ {
			if c < 10 {
				img.SetUnchecked(r, c, vecf.Vec3(0, 0, 0))
			} else {
				img.SetUnchecked(r, c, vecf.Vec3(1, 1, 1))
			}
		}
	}
	field := ComputeStructureTensorField(img, StructureTensorParams{})
	var maxMag float32
	field.ForEach(func(r, c int, v Tensor) {
		mag := tensorMagnitude(v)
		if mag > maxMag {
			maxMag = mag
		}
	})
	assert.LessOrEqual(t, maxMag, float32(1.0001))
}

func TestSegmentIsAPartitionAnd4Connected(t *testing.T) {
	rows, cols := 32, 32
	lab := vecf.NewVector3Matrix(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lab.SetUnchecked(r, c, vecf.Vec3(float32(r+c)%50, float32(r)%20-10, float32(c)%20-10))
		}
	}
	regions, labels := Segment(lab, SuperpixelParams{CellWidth: 8, MaxIters: 10, RandSeed: 1})
	require.NotEmpty(t, regions)

	seen := make([]bool, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			l := labels.AtUnchecked(r, c)
			assert.GreaterOrEqual(t, l, 0)
			idx := r*cols + c
			assert.False(t, seen[idx])
			seen[idx] = true
		}
	}

	for i := range seen {
		assert.True(t, seen[i])
	}

	total := 0
	for _, reg := range regions {
		total += len(reg.Pixels)
		assertRegionIs4Connected(t, reg)
	}
	assert.Equal(t, rows*cols, total)
}

func assertRegionIs4Connected(t *testing.T, reg *Region) {
	t.Helper()
	if len(reg.Pixels) <= 1 {
		return
	}
	set := map[[2]int]bool{}
	for _, p := range reg.Pixels {
		set[[2]int{int(p.X), int(p.Y)}] = true
	}
	visited := map[[2]int]bool{}
	start := [2]int{int(reg.Pixels[0].X), int(reg.Pixels[0].Y)}
	stack := [][2]int{start}
	visited[start] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := [2]int{cur[0] + d[0], cur[1] + d[1]}
			if set[n] && !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	assert.Equal(t, len(set), len(visited), "region %d is not 4-connected", reg.Label)
}
