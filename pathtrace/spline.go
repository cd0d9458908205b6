// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pathtrace implements the edge-tangent-flow streamline tracer
// of spec section 4.J, plus the Catmull-Rom spline evaluator shared by
// both the texture brush (section 4.F) and the footprint brush's
// path-to-imprint conversion (section 4.G). The distilled spec names
// Catmull-Rom twice without factoring it out; this module factors it out
// the way the original's painty/core/Spline.hxx does (see
// original_source/_INDEX.md).
package pathtrace

import "github.com/painty/painty/vecf"

// CatmullRomPoint evaluates a uniform-parameterized Catmull-Rom spline
// segment through control points (p0, p1, p2, p3) at
// parameter t in [0, 1], returning the interpolated point and its
// (unnormalized) tangent.
func CatmullRomPoint(p0, p1, p2, p3 vecf.Vector2, t float32) (point, tangent vecf.Vector2) {
	t2 := t * t
	t3 := t2 * t

	// Position: standard Catmull-Rom basis matrix applied per component.
	x := 0.5 * ((2 * p1.X) +
		(-p0.X+p2.X)*t +
		(2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 +
		(-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
	y := 0.5 * ((2 * p1.Y) +
		(-p0.Y+p2.Y)*t +
		(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
		(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)

	// Tangent: derivative of the above w.r.t. t.
	dx := 0.5 * ((-p0.X + p2.X) +
		2*(2*p0.X-5*p1.X+4*p2.X-p3.X)*t +
		3*(-p0.X+3*p1.X-3*p2.X+p3.X)*t2)
	dy := 0.5 * ((-p0.Y + p2.Y) +
		2*(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t +
		3*(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t2)

	return vecf.Vec2(x, y), vecf.Vec2(dx, dy)
}

// Spline is a Catmull-Rom spline fit through an ordered polyline, with
// virtual endpoint control points duplicated from the first and last
// real points (the standard convention for an open Catmull-Rom curve).
type Spline struct {
	pts []vecf.Vector2
}

// NewSpline fits a Catmull-Rom spline through the given vertex polyline.
// A single-point or empty polyline is accepted; Eval then simply returns
// that point.
func NewSpline(pts []vecf.Vector2) *Spline {
	return &Spline{pts: pts}
}

// segmentCount returns the number of interpolatable segments.
func (s *Spline) segmentCount() int {
	if len(s.pts) < 2 {
		return 0
	}
	return len(s.pts) - 1
}

func (s *Spline) control(i int) vecf.Vector2 {
	if i < 0 {
		return s.pts[0]
	}
	if i >= len(s.pts) {
		return s.pts[len(s.pts)-1]
	}
	return s.pts[i]
}

// Eval evaluates the spline at global parameter u in [0, 1] (0 = first
// point, 1 = last point), returning the point and its tangent. For a
// single-point polyline it returns that point with a zero tangent.
func (s *Spline) Eval(u float32) (point, tangent vecf.Vector2) {
	if len(s.pts) == 0 {
		return vecf.Vector2{}, vecf.Vector2{}
	}
	if len(s.pts) == 1 {
		return s.pts[0], vecf.Vector2{}
	}
	n := s.segmentCount()
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	scaled := u * float32(n)
	seg := int(scaled)
	if seg >= n {
		seg = n - 1
	}
	t := scaled - float32(seg)
	p0 := s.control(seg - 1)
	p1 := s.control(seg)
	p2 := s.control(seg + 1)
	p3 := s.control(seg + 2)
	return CatmullRomPoint(p0, p1, p2, p3, t)
}

// Length approximates the arc length of the spline by dense sampling,
// used to choose a step size for stroke rasterization (spec: "sample
// spacing approx r/2").
func (s *Spline) Length(samples int) float32 {
	if samples < 2 {
		samples = 2
	}
	var total float32
	prev, _ := s.Eval(0)
	for i := 1; i <= samples; i++ {
		u := float32(i) / float32(samples)
		p, _ := s.Eval(u)
		total += p.Distance(prev)
		prev = p
	}
	return total
}
