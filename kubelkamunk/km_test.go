// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kubelkamunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painty/painty/vecf"
)

func TestReflectanceZeroThicknessIsSubstrate(t *testing.T) {
	k := vecf.Vec3(0.2, 0.3, 0.1)
	s := vecf.Vec3(0.5, 0.2, 0.4)
	r0 := vecf.Vec3(0.3, 0.6, 0.9)
	got := Reflectance(k, s, r0, 0)
	assert.InDelta(t, r0.X, got.X, 1e-6)
	assert.InDelta(t, r0.Y, got.Y, 1e-6)
	assert.InDelta(t, r0.Z, got.Z, 1e-6)
}

func TestReflectanceStaysInUnitRange(t *testing.T) {
	k := vecf.Vec3(0.1, 0.2, 0.05)
	s := vecf.Vec3(0.3, 0.4, 0.2)
	for _, d := range []float32{0, 0.1, 0.5, 1, 5, 50} {
		for _, r0v := range []vecf.Vector3{vecf.Vec3(0.1, 0.2, 0.3), vecf.Vec3(0.9, 0.8, 0.99), vecf.Vec3(0.01, 0.01, 0.01)} {
			got := Reflectance(k, s, r0v, d)
			assert.GreaterOrEqual(t, got.X, float32(0))
			assert.LessOrEqual(t, got.X, float32(1))
			assert.GreaterOrEqual(t, got.Y, float32(0))
			assert.LessOrEqual(t, got.Y, float32(1))
			assert.GreaterOrEqual(t, got.Z, float32(0))
			assert.LessOrEqual(t, got.Z, float32(1))
		}
	}
}

func TestKMReflectanceMidlayerScenario(t *testing.T) {
	k := vecf.Vec3(0.2, 0.1, 0.22)
	s := vecf.Vec3(0.124, 0.658, 0.123)
	r0 := vecf.Vec3(0.65, 0.2, 0.2146)
	got := Reflectance(k, s, r0, 0.5)
	// Reference values are given to 4 decimal digits, so 1e-4 is the
	// tightest tolerance consistent with their own rounding.
	assert.InDelta(t, 0.5416, got.X, 1e-4)
	assert.InDelta(t, 0.3438, got.Y, 1e-4)
	assert.InDelta(t, 0.2067, got.Z, 1e-4)
}

func TestAbsorptionScatteringRoundTrip(t *testing.T) {
	rBlack := vecf.Vec3(0.05, 0.1, 0.02)
	rWhite := vecf.Vec3(0.6, 0.7, 0.5)
	k, s, err := AbsorptionScattering(rBlack, rWhite)
	require.NoError(t, err)

	white := vecf.Vec3(1, 1, 1)
	black := vecf.Vec3(0, 0, 0)
	gotWhite := Reflectance(k, s, white, 1)
	gotBlack := Reflectance(k, s, black, 1)

	assert.InDelta(t, rWhite.X, gotWhite.X, 1e-3)
	assert.InDelta(t, rWhite.Y, gotWhite.Y, 1e-3)
	assert.InDelta(t, rWhite.Z, gotWhite.Z, 1e-3)
	assert.InDelta(t, rBlack.X, gotBlack.X, 1e-3)
	assert.InDelta(t, rBlack.Y, gotBlack.Y, 1e-3)
	assert.InDelta(t, rBlack.Z, gotBlack.Z, 1e-3)
}

func TestAbsorptionScatteringRejectsInvalidInput(t *testing.T) {
	_, _, err := AbsorptionScattering(vecf.Vec3(0.8, 0.1, 0.1), vecf.Vec3(0.2, 0.5, 0.5))
	assert.Error(t, err)
}
