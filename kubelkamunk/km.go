// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kubelkamunk implements the two-constant Kubelka-Munk model for
// subtractive paint optics: computing the reflectance of a pigmented
// layer over a substrate, and inverting a black/white reflectance pair
// back into (K, S) coefficients. Grounded on the original C++
// painty/core/kubelka_munk.h referenced by original_source/_INDEX.md and
// reimplemented on this module's float32 vecf.Vector3 primitives in the
// style of the teacher's math32 package.
package kubelkamunk

import (
	"github.com/chewxy/math32"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/vecf"
)

const epsilon = 1e-9

// coth returns the hyperbolic cotangent of x, returning 1 for x > 20 as
// the spec's overflow guard.
func coth(x float32) float32 {
	if x > 20 {
		return 1
	}
	if x == 0 {
		return math32.Inf(1)
	}
	return 1 / math32.Tanh(x)
}

func acoth(x float32) float32 {
	// acoth(x) = 0.5 * ln((x+1)/(x-1)), valid for |x| > 1.
	return 0.5 * math32.Log((x+1)/(x-1))
}

// reflectanceChannel computes the reflectance of a single channel given
// scalar K, S, R0, and thickness d, per spec section 4.C.
func reflectanceChannel(k, s, r0, d float32) float32 {
	if math32.Abs(d) < 1e4*epsilon {
		return r0
	}
	if s < 1e-11 {
		s = 1e-11
	}
	a := 1 + k/s
	b := math32.Sqrt(math32.Max(a*a-1, 0))
	c := b * s * d
	cthc := coth(c)
	return (1 - r0*(a-b*cthc)) / (a - r0 + b*cthc)
}

// Reflectance computes the reflectance of an infinitely broad layer of
// (k, s) over substrate r0 at the given thickness, per channel.
func Reflectance(k, s, r0 vecf.Vector3, thickness float32) vecf.Vector3 {
	return vecf.Vec3(
		reflectanceChannel(k.X, s.X, r0.X, thickness),
		reflectanceChannel(k.Y, s.Y, r0.Y, thickness),
		reflectanceChannel(k.Z, s.Z, r0.Z, thickness),
	)
}

func ksChannel(rBlack, rWhite float32) (k, s float32, err error) {
	if !(rBlack > 0 && rBlack < rWhite && rWhite < 1) {
		return 0, 0, perr.Invalid("require 0 < rBlack(%g) < rWhite(%g) < 1", rBlack, rWhite)
	}
	a := 0.5 * (rWhite + (rBlack-rWhite+1)/rBlack)
	b := math32.Sqrt(a*a - 1)
	arg := (b*b - (a-rWhite)*(a-1)) / (b * (1 - rWhite))
	s = (1 / b) * acoth(arg)
	k = s * (a - 1)
	return k, s, nil
}

// AbsorptionScattering inverts a known black/white reflectance pair (the
// paint applied at equal known thickness over black and white
// substrates) into Kubelka-Munk (K, S) coefficients, per channel. It
// fails with ErrInvalidInput if 0 < rBlack < rWhite < 1 does not hold on
// any channel.
func AbsorptionScattering(rBlack, rWhite vecf.Vector3) (k, s vecf.Vector3, err error) {
	kx, sx, err := ksChannel(rBlack.X, rWhite.X)
	if err != nil {
		return vecf.Vector3{}, vecf.Vector3{}, err
	}
	ky, sy, err := ksChannel(rBlack.Y, rWhite.Y)
	if err != nil {
		return vecf.Vector3{}, vecf.Vector3{}, err
	}
	kz, sz, err := ksChannel(rBlack.Z, rWhite.Z)
	if err != nil {
		return vecf.Vector3{}, vecf.Vector3{}, err
	}
	return vecf.Vec3(kx, ky, kz), vecf.Vec3(sx, sy, sz), nil
}
