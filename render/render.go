// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render implements the compositing and optional display shading
// of spec section 4.L: Compose folds the canvas's wet layer over its dry
// substrate via Kubelka-Munk, and Shade applies Cook-Torrance lighting to
// the height field for an interactive preview.
package render

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/canvas"
	"github.com/painty/painty/vecf"
)

// Compose returns, per cell, the Kubelka-Munk reflectance of the canvas's
// wet layer composed over its dry substrate R0, per spec section 4.L.
func Compose(c *canvas.Canvas) *vecf.Matrix[vecf.Vector3] {
	return c.Layer.ComposeOnto(c.R0)
}

// roughness is the fixed Beckmann microfacet roughness (m = 0.5) named in
// spec section 4.L.
const roughness = 0.5

// fresnelF0 is the dielectric base reflectance used by the Schlick
// approximation; "specular color = white" means the tint is uncolored
// (equal across channels), not that F0 itself is 1.
const fresnelF0 = 0.04

// Shade computes a Cook-Torrance-lit preview of the canvas: a single
// directional light, viewed straight-on, with the height field's
// central-difference gradient as the surface normal, per spec section
// 4.L. Result is 80% diffuse (the composed reflectance) + 20% specular +
// a small ambient term, clamped to [0,1].
func Shade(c *canvas.Canvas, light vecf.Vector3) *vecf.Matrix[vecf.Vector3] {
	diffuse := Compose(c)
	out := vecf.NewVector3Matrix(c.Rows(), c.Cols())
	l := normalize3(light)
	v := vecf.Vec3(0, 0, 1) // straight-on view direction

	for r := 0; r < c.Rows(); r++ {
		for col := 0; col < c.Cols(); col++ {
			n := heightNormal(c.H, r, col)
			h := normalize3(v.Add(l))

			ndotl := math32.Max(dot3(n, l), 0)
			ndotv := math32.Max(dot3(n, v), 1e-4)
			ndoth := math32.Max(dot3(n, h), 0)
			vdoth := math32.Max(dot3(v, h), 1e-4)

			d := beckmannD(ndoth, roughness)
			f := fresnelF0 + (1-fresnelF0)*math32.Pow(1-vdoth, 5)
			g := math32.Min(1, math32.Min(2*ndoth*ndotv/vdoth, 2*ndoth*ndotl/vdoth))
			specular := d * f * g / (4 * ndotv * ndotl)
			if ndotl <= 0 || math32.IsNaN(specular) || math32.IsInf(specular, 1) {
				specular = 0
			}

			base := diffuse.AtUnchecked(r, col).MulScalar(ndotl)
			color := base.MulScalar(0.8).Add(vecf.Vec3Scalar(specular * 0.2)).AddScalar(0.02)
			out.SetUnchecked(r, col, color.Clamp(0, 1))
		}
	}
	return out
}

// beckmannD evaluates the Beckmann microfacet distribution at the given
// N.H cosine and roughness m.
func beckmannD(ndoth, m float32) float32 {
	if ndoth <= 0 {
		return 0
	}
	cos2 := ndoth * ndoth
	cos4 := cos2 * cos2
	tan2 := (1 - cos2) / cos2
	return math32.Exp(-tan2/(m*m)) / (math32.Pi * m * m * cos4)
}

// heightNormal computes the surface normal of the height field at (row,
// col) via a central-difference gradient, sampling the height field with
// border reflection at the image edges.
func heightNormal(h *vecf.Matrix[float32], row, col int) vecf.Vector3 {
	hl := h.Sample(float32(col-1), float32(row), vecf.BorderReflect)
	hr := h.Sample(float32(col+1), float32(row), vecf.BorderReflect)
	hu := h.Sample(float32(col), float32(row-1), vecf.BorderReflect)
	hd := h.Sample(float32(col), float32(row+1), vecf.BorderReflect)
	dzdx := (hr - hl) / 2
	dzdy := (hd - hu) / 2
	return normalize3(vecf.Vec3(-dzdx, -dzdy, 1))
}

func dot3(a, b vecf.Vector3) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func normalize3(a vecf.Vector3) vecf.Vector3 {
	l := math32.Sqrt(dot3(a, a))
	if l < 1e-12 {
		return vecf.Vector3{}
	}
	return a.MulScalar(1 / l)
}
