// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/vecf"
)

// EdgeTangentFlow computes, for each pixel, the unit eigenvector
// associated with the smaller eigenvalue of the local structure tensor,
// i.e. the tangent direction that runs along image contours rather than
// across them, per spec section 4.I.
func EdgeTangentFlow(field *TensorField) *vecf.Matrix[vecf.Vector2] {
	out := vecf.NewMatrix[vecf.Vector2](field.Rows, field.Cols, func(a, b vecf.Vector2, t float32) vecf.Vector2 { return a.Lerp(b, t) })
	field.ForEach(func(r, c int, t Tensor) {
		out.SetUnchecked(r, c, TangentAt(t))
	})
	return out
}

// TangentAt computes the minor-eigenvector tangent direction of a single
// tensor, defaulting to (0, 1) when the tensor is degenerate.
func TangentAt(t Tensor) vecf.Vector2 {
	det := math32.Sqrt((t.E-t.G)*(t.E-t.G) + 4*t.F*t.F)
	v := vecf.Vec2(2*t.F, t.G-t.E-det)
	n := v.Normal()
	if n.X == 0 && n.Y == 0 {
		return vecf.Vec2(0, 1)
	}
	return n
}
