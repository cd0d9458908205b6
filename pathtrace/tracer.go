// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathtrace

import (
	"github.com/painty/painty/imageops"
	"github.com/painty/painty/vecf"
)

// Verdict is the result of evaluating a path-growth predicate at a
// position, per spec section 4.J.
type Verdict int

const (
	// Continue means growth should proceed past this point.
	Continue Verdict = iota
	// StopNext means growth should stop after this point is recorded,
	// provided the minimum length has been reached.
	StopNext
	// StopNow means growth must stop immediately, without recording
	// this point.
	StopNow
)

// Rect is an axis-aligned bounding rectangle in canvas coordinates.
type Rect struct {
	Min, Max vecf.Vector2
}

// Contains reports whether p lies within the rectangle, inclusive.
func (r Rect) Contains(p vecf.Vector2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// TraceOptions bundles the parameters of a single Trace call, per spec
// section 4.J.
type TraceOptions struct {
	MinPoints int
	MaxPoints int
	Step      float32
	Alpha     float32 // curvature blend in [0, 1]
	Bounds    Rect
}

// Predicate evaluates the path-growth stopping condition at a position.
type Predicate func(p vecf.Vector2) Verdict

// Tracer grows bounded-length streamlines of an edge-tangent flow field,
// per spec section 4.J.
type Tracer struct {
	Tangent *vecf.Matrix[vecf.Vector2]
}

// NewTracer constructs a Tracer from a precomputed tensor field,
// reconstructing its edge-tangent flow once up front.
func NewTracer(field *imageops.TensorField) *Tracer {
	return &Tracer{Tangent: imageops.EdgeTangentFlow(field)}
}

// sampleTangent bilinearly samples the tangent field, oriented to agree
// with prevDir (flipping sign if necessary), per spec step 1.
func (tr *Tracer) sampleTangent(p, prevDir vecf.Vector2) vecf.Vector2 {
	t := tr.Tangent.Sample(p.X, p.Y, vecf.BorderReflect)
	if t.Dot(prevDir) < 0 {
		t = t.MulScalar(-1)
	}
	return t
}

// Trace grows a streamline from seed in both directions, independently
// stopping each side per predicate, bounds, and MaxPoints, per spec
// section 4.J. The returned slice orders backward points (reversed) then
// the seed then forward points.
func (tr *Tracer) Trace(seed vecf.Vector2, predicate Predicate, opts TraceOptions) []vecf.Vector2 {
	forward := tr.grow(seed, vecf.Vec2(0, 1), predicate, opts)
	backward := tr.grow(seed, vecf.Vec2(0, -1), predicate, opts)

	out := make([]vecf.Vector2, 0, len(forward)+len(backward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		out = append(out, backward[i])
	}
	out = append(out, seed)
	out = append(out, forward...)

	// The combined path is capped at MaxPoints, keeping its first points.
	if opts.MaxPoints > 0 && len(out) > opts.MaxPoints {
		out = out[:opts.MaxPoints]
	}
	return out
}

// grow advances from seed in a single direction, seeded with an initial
// guess direction that orients the field's eigenvector on the first
// step (the two calls from Trace pass opposite guesses so the two sides
// grow apart). It returns only the newly grown points (not including
// seed itself).
func (tr *Tracer) grow(seed, initialGuess vecf.Vector2, predicate Predicate, opts TraceOptions) []vecf.Vector2 {
	var pts []vecf.Vector2
	pos := seed
	prevDir := initialGuess
	length := 0

	for {
		if opts.MaxPoints > 0 && length >= opts.MaxPoints {
			break
		}
		fieldDir := tr.sampleTangent(pos, prevDir)
		newDir := fieldDir.MulScalar(opts.Alpha).Add(prevDir.MulScalar(1 - opts.Alpha)).Normal()
		if newDir.X == 0 && newDir.Y == 0 {
			newDir = prevDir
		}
		candidate := pos.Add(newDir.MulScalar(opts.Step))

		if !opts.Bounds.Contains(candidate) {
			break
		}
		verdict := predicate(candidate)
		if verdict == StopNow {
			break
		}

		pts = append(pts, candidate)
		length++
		pos = candidate
		prevDir = newDir

		if verdict == StopNext && length >= opts.MinPoints {
			break
		}
	}
	return pts
}
