// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import "github.com/chewxy/math32"

// CIEDE2000 computes the CIEDE2000 color difference between two CIELab
// colors, matching the Sharma/Wu/Dalal reference implementation.
func CIEDE2000(lab1, lab2 Lab) float32 {
	const kL, kC, kH = 1.0, 1.0, 1.0
	const deg2rad = math32.Pi / 180
	const rad2deg = 180 / math32.Pi

	l1, a1, b1 := lab1.L, lab1.A, lab1.B
	l2, a2, b2 := lab2.L, lab2.A, lab2.B

	c1 := math32.Hypot(a1, b1)
	c2 := math32.Hypot(a2, b2)
	cBar := (c1 + c2) / 2

	g := 0.5 * (1 - math32.Sqrt(math32.Pow(cBar, 7)/(math32.Pow(cBar, 7)+math32.Pow(25, 7))))
	a1p := a1 * (1 + g)
	a2p := a2 * (1 + g)

	c1p := math32.Hypot(a1p, b1)
	c2p := math32.Hypot(a2p, b2)

	h1p := hueAngle(a1p, b1)
	h2p := hueAngle(a2p, b2)

	deltaLp := l2 - l1
	deltaCp := c2p - c1p

	var deltahp float32
	if c1p*c2p == 0 {
		deltahp = 0
	} else {
		diff := h2p - h1p
		switch {
		case math32.Abs(diff) <= 180:
			deltahp = diff
		case diff > 180:
			deltahp = diff - 360
		default:
			deltahp = diff + 360
		}
	}
	deltaHp := 2 * math32.Sqrt(c1p*c2p) * math32.Sin(deltahp*deg2rad/2)

	lBarP := (l1 + l2) / 2
	cBarP := (c1p + c2p) / 2

	var hBarP float32
	if c1p*c2p == 0 {
		hBarP = h1p + h2p
	} else {
		sum := h1p + h2p
		diff := math32.Abs(h1p - h2p)
		switch {
		case diff <= 180:
			hBarP = sum / 2
		case sum < 360:
			hBarP = (sum + 360) / 2
		default:
			hBarP = (sum - 360) / 2
		}
	}

	t := 1 - 0.17*math32.Cos((hBarP-30)*deg2rad) +
		0.24*math32.Cos(2*hBarP*deg2rad) +
		0.32*math32.Cos((3*hBarP+6)*deg2rad) -
		0.20*math32.Cos((4*hBarP-63)*deg2rad)

	deltaTheta := 30 * math32.Exp(-math32.Pow((hBarP-275)/25, 2))
	rc := 2 * math32.Sqrt(math32.Pow(cBarP, 7)/(math32.Pow(cBarP, 7)+math32.Pow(25, 7)))
	sl := 1 + (0.015*math32.Pow(lBarP-50, 2))/math32.Sqrt(20+math32.Pow(lBarP-50, 2))
	sc := 1 + 0.045*cBarP
	sh := 1 + 0.015*cBarP*t
	rt := -math32.Sin(2*deltaTheta*deg2rad) * rc

	_ = rad2deg

	dl := deltaLp / (kL * sl)
	dc := deltaCp / (kC * sc)
	dh := deltaHp / (kH * sh)

	return math32.Sqrt(dl*dl + dc*dc + dh*dh + rt*dc*dh)
}

func hueAngle(a, b float32) float32 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math32.Atan2(b, a) * (180 / math32.Pi)
	if h < 0 {
		h += 360
	}
	return h
}

// ColorDifference is the public normalized distance used by the
// painter's region-scoring loop: CIEDE2000 divided by 100 and clamped
// to [0, 1].
func ColorDifference(lab1, lab2 Lab) float32 {
	d := CIEDE2000(lab1, lab2) / 100
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
