// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/painty/painty/vecf"
)

func TestSRGBRoundTrip(t *testing.T) {
	cases := []vecf.Vector3{
		vecf.Vec3(0, 0, 0),
		vecf.Vec3(1, 1, 1),
		vecf.Vec3(0.5, 0.25, 0.75),
		vecf.Vec3(0.04, 0.9, 0.003),
	}
	for _, c := range cases {
		lin := SRGBToLinear(c)
		back := SRGBFromLinear(lin)
		assert.InDelta(t, c.X, back.X, 1e-5)
		assert.InDelta(t, c.Y, back.Y, 1e-5)
		assert.InDelta(t, c.Z, back.Z, 1e-5)
	}
}

func TestSRGBLabRoundTrip(t *testing.T) {
	conv := DefaultConverter
	cases := []vecf.Vector3{
		vecf.Vec3(0.2, 0.4, 0.6),
		vecf.Vec3(0.9, 0.1, 0.5),
		vecf.Vec3(0.01, 0.01, 0.01),
	}
	for _, c := range cases {
		lab := conv.SRGBToLab(c)
		back := conv.LabToSRGB(lab)
		assert.InDelta(t, c.X, back.X, 1e-4)
		assert.InDelta(t, c.Y, back.Y, 1e-4)
		assert.InDelta(t, c.Z, back.Z, 1e-4)
	}
}

func TestLabLCHRoundTrip(t *testing.T) {
	l := Lab{L: 53, A: 20, B: -30}
	lch := LabToLCH(l)
	back := LCHToLab(lch)
	assert.InDelta(t, l.L, back.L, 1e-3)
	assert.InDelta(t, l.A, back.A, 1e-3)
	assert.InDelta(t, l.B, back.B, 1e-3)
}

func TestCIEDE2000IdenticalColorsAreZero(t *testing.T) {
	l := Lab{L: 50, A: 10, B: -5}
	assert.InDelta(t, 0, CIEDE2000(l, l), 1e-5)
}

func TestCIEDE2000KnownPair(t *testing.T) {
	// Reference values from Sharma et al.'s published CIEDE2000 test
	// table (pair 1).
	l1 := Lab{L: 50.0000, A: 2.6772, B: -79.7751}
	l2 := Lab{L: 50.0000, A: 0.0000, B: -82.7485}
	assert.InDelta(t, 2.0425, CIEDE2000(l1, l2), 1e-3)
}

func TestColorDifferenceNormalizedAndClamped(t *testing.T) {
	l1 := Lab{L: 0, A: 0, B: 0}
	l2 := Lab{L: 100, A: 128, B: 128}
	d := ColorDifference(l1, l2)
	assert.GreaterOrEqual(t, d, float32(0))
	assert.LessOrEqual(t, d, float32(1))
}
