// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas implements the wet paint layer and the canvas it sits
// on: a dry substrate reflectance field, a height field of already-dried
// paint, and the per-cell drying clock, per section 4.D of the
// specification. Grounded on the original painty/renderer/canvas.h and
// painty/renderer/paint_layer.h listed in original_source/_INDEX.md,
// reimplemented on this module's vecf.Matrix primitives.
package canvas

import (
	"github.com/painty/painty/kubelkamunk"
	"github.com/painty/painty/vecf"
)

// PaintLayer is the wet paint carried on the canvas (or in a brush's
// pickup map): a per-cell absorption field K, scattering field S, and
// paint-volume field V. By convention, cells with V == 0 store K and S
// as zero.
type PaintLayer struct {
	K *vecf.Matrix[vecf.Vector3]
	S *vecf.Matrix[vecf.Vector3]
	V *vecf.Matrix[float32]
}

// NewPaintLayer allocates a zero-filled paint layer of the given size.
func NewPaintLayer(rows, cols int) *PaintLayer {
	return &PaintLayer{
		K: vecf.NewVector3Matrix(rows, cols),
		S: vecf.NewVector3Matrix(rows, cols),
		V: vecf.NewFloat32Matrix(rows, cols),
	}
}

// Rows returns the number of rows in the layer.
func (l *PaintLayer) Rows() int { return l.V.Rows }

// Cols returns the number of columns in the layer.
func (l *PaintLayer) Cols() int { return l.V.Cols }

// Get returns the (K, S, V) triple at (row, col).
func (l *PaintLayer) Get(row, col int) (k, s vecf.Vector3, v float32) {
	return l.K.AtUnchecked(row, col), l.S.AtUnchecked(row, col), l.V.AtUnchecked(row, col)
}

// Set assigns the (K, S, V) triple at (row, col).
func (l *PaintLayer) Set(row, col int, k, s vecf.Vector3, v float32) {
	l.K.SetUnchecked(row, col, k)
	l.S.SetUnchecked(row, col, s)
	l.V.SetUnchecked(row, col, v)
}

// Clear zeros all three fields.
func (l *PaintLayer) Clear() {
	l.K.Fill(vecf.Vector3{})
	l.S.Fill(vecf.Vector3{})
	l.V.Fill(0)
}

// ComposeOnto returns, for every cell, the reflectance of this layer's
// wet paint composed over the given substrate field r0 via the
// Kubelka-Munk model.
func (l *PaintLayer) ComposeOnto(r0 *vecf.Matrix[vecf.Vector3]) *vecf.Matrix[vecf.Vector3] {
	out := vecf.NewVector3Matrix(l.Rows(), l.Cols())
	for r := 0; r < l.Rows(); r++ {
		for c := 0; c < l.Cols(); c++ {
			k, s, v := l.Get(r, c)
			base := r0.AtUnchecked(r, c)
			out.SetUnchecked(r, c, kubelkamunk.Reflectance(k, s, base, v))
		}
	}
	return out
}

// Clone returns a deep copy of the layer.
func (l *PaintLayer) Clone() *PaintLayer {
	return &PaintLayer{K: l.K.Clone(), S: l.S.Clone(), V: l.V.Clone()}
}
