// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixAtAndBounds(t *testing.T) {
	m := NewFloat32Matrix(2, 3)
	require.NoError(t, m.Set(1, 2, 5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(5), v)

	_, err = m.At(2, 0)
	assert.Error(t, err)
	_, err = m.At(0, 3)
	assert.Error(t, err)
}

func TestMatrixSampleBilinear(t *testing.T) {
	m := NewFloat32Matrix(2, 2)
	m.SetUnchecked(0, 0, 0)
	m.SetUnchecked(0, 1, 10)
	m.SetUnchecked(1, 0, 0)
	m.SetUnchecked(1, 1, 10)

	assert.InDelta(t, 5.0, m.Sample(0.5, 0, BorderClamp), 1e-5)
	assert.InDelta(t, 0.0, m.Sample(0, 0, BorderClamp), 1e-5)
	assert.InDelta(t, 10.0, m.Sample(1, 0, BorderClamp), 1e-5)
}

func TestMatrixSampleReflectsAtBorder(t *testing.T) {
	m := NewFloat32Matrix(1, 1)
	m.SetUnchecked(0, 0, 7)
	// out of range positions never fail; they reflect.
	assert.Equal(t, float32(7), m.Sample(-5, -5, BorderReflect))
	assert.Equal(t, float32(7), m.Sample(50, 50, BorderReflect))
}

func TestMatrixResizePreservesUniformValue(t *testing.T) {
	m := NewFloat32Matrix(10, 10)
	m.Fill(3)
	out := m.Resize(4, 4)
	require.Equal(t, 4, out.Rows)
	require.Equal(t, 4, out.Cols)
	out.ForEach(func(r, c int, v float32) {
		assert.InDelta(t, 3.0, v, 1e-4)
	})
}

func TestMatrixPad(t *testing.T) {
	m := NewFloat32Matrix(2, 2)
	m.Fill(1)
	out := m.Pad(1, 1, 2, 2, 0)
	assert.Equal(t, 4, out.Rows)
	assert.Equal(t, 6, out.Cols)
	v, _ := out.At(0, 0)
	assert.Equal(t, float32(0), v)
	v, _ = out.At(1, 2)
	assert.Equal(t, float32(1), v)
}

func TestMatrixCloneIsIndependent(t *testing.T) {
	m := NewFloat32Matrix(2, 2)
	m.Fill(1)
	c := m.Clone()
	c.SetUnchecked(0, 0, 9)
	assert.Equal(t, float32(1), m.AtUnchecked(0, 0))
	assert.Equal(t, float32(9), c.AtUnchecked(0, 0))
}

func TestMatrixRotateIdentityAtZeroAngle(t *testing.T) {
	m := NewFloat32Matrix(5, 5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			m.SetUnchecked(r, c, float32(r*5+c))
		}
	}
	out := m.Rotate(0, Vec2(2, 2))
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			assert.InDelta(t, m.AtUnchecked(r, c), out.AtUnchecked(r, c), 1e-3)
		}
	}
}

func TestVector3MatrixLerp(t *testing.T) {
	m := NewVector3Matrix(1, 2)
	m.SetUnchecked(0, 0, Vec3(0, 0, 0))
	m.SetUnchecked(0, 1, Vec3(1, 2, 3))
	got := m.Sample(0.5, 0, BorderClamp)
	assert.InDelta(t, 0.5, got.X, 1e-5)
	assert.InDelta(t, 1.0, got.Y, 1e-5)
	assert.InDelta(t, 1.5, got.Z, 1e-5)
}
