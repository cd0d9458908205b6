// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package brush implements the two brush models of the specification
// (section 4.E-G): a texture-warp brush that smudges a stroke-shaped
// thickness texture along a spline path, and a footprint-imprint brush
// that stamps a rotated disk stepwise along a path, each exchanging
// paint with the canvas through a pickup map. Both satisfy the Brush
// interface so the stroke-based painter (painter package) can drive
// either polymorphically, per spec section 9.
package brush

import (
	"github.com/painty/painty/canvas"
	"github.com/painty/painty/vecf"
)

// Brush is the capability shared by both brush flavors, per spec
// section 9: a sum-type / trait the painter depends on without caring
// which concrete brush implements it.
type Brush interface {
	SetRadius(r float32)
	Dip(k, s vecf.Vector3)
	SetThicknessScale(scale float32)
	PaintStroke(path []vecf.Vector2, c *canvas.Canvas, now float32)
}

var (
	_ Brush = (*TextureBrush)(nil)
	_ Brush = (*FootprintBrush)(nil)
)
