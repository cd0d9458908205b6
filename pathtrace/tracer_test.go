// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pathtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/imageops"
	"github.com/painty/painty/vecf"
)

func uniformTensorField(rows, cols int, t imageops.Tensor) *imageops.TensorField {
	field := imageops.NewTensorField(rows, cols)
	field.Fill(t)
	return field
}

func alwaysContinue(vecf.Vector2) Verdict { return Continue }

// TestTraceUniformFieldProducesColinearPoints covers spec section 8
// scenario 4: a uniform tensor field yields a straight streamline of
// exactly MaxPoints points (Trace caps the combined path at MaxPoints),
// spaced Step apart, and co-linear along the field's eigenvector.
func TestTraceUniformFieldProducesColinearPoints(t *testing.T) {
	field := uniformTensorField(1000, 1000, imageops.Tensor{E: 1, F: 0, G: 0})
	tracer := NewTracer(field)

	seed := vecf.Vec2(500, 500)
	opts := TraceOptions{
		MinPoints: 3,
		MaxPoints: 15,
		Step:      5,
		Alpha:     1,
		Bounds:    Rect{Min: vecf.Vec2(0, 0), Max: vecf.Vec2(1000, 1000)},
	}

	path := tracer.Trace(seed, alwaysContinue, opts)
	require.Len(t, path, opts.MaxPoints)

	for i := 1; i < len(path); i++ {
		d := path[i].Distance(path[i-1])
		assert.InDelta(t, opts.Step, d, 1e-3)
	}

	for i := 0; i < len(path); i++ {
		assert.InDelta(t, float32(500), path[i].X, 1e-3)
	}
}

// TestTraceStopsAtBounds covers the bounds-clipping edge case: a
// streamline seeded near the boundary must stop rather than leave the
// traceable rectangle.
func TestTraceStopsAtBounds(t *testing.T) {
	field := uniformTensorField(100, 100, imageops.Tensor{E: 1, F: 0, G: 0})
	tracer := NewTracer(field)

	seed := vecf.Vec2(50, 8)
	opts := TraceOptions{
		MinPoints: 0,
		MaxPoints: 100,
		Step:      5,
		Alpha:     1,
		Bounds:    Rect{Min: vecf.Vec2(0, 0), Max: vecf.Vec2(100, 100)},
	}

	path := tracer.Trace(seed, alwaysContinue, opts)
	for _, p := range path {
		assert.True(t, opts.Bounds.Contains(p))
	}
	assert.Less(t, len(path), 2*opts.MaxPoints+1)
}

// TestTraceStopNextHonorsMinPoints covers the StopNext predicate: growth
// continues past a StopNext verdict until MinPoints is satisfied.
func TestTraceStopNextHonorsMinPoints(t *testing.T) {
	field := uniformTensorField(1000, 1000, imageops.Tensor{E: 1, F: 0, G: 0})
	tracer := NewTracer(field)

	calls := 0
	predicate := func(vecf.Vector2) Verdict {
		calls++
		if calls <= 1 {
			return StopNext
		}
		return Continue
	}

	opts := TraceOptions{
		MinPoints: 4,
		MaxPoints: 20,
		Step:      5,
		Alpha:     1,
		Bounds:    Rect{Min: vecf.Vec2(0, 0), Max: vecf.Vec2(1000, 1000)},
	}

	path := tracer.grow(vecf.Vec2(500, 500), vecf.Vec2(0, 1), predicate, opts)
	assert.GreaterOrEqual(t, len(path), opts.MinPoints)
}
