// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixer

import (
	"errors"
	"sort"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/vecf"
)

// ExtractPalette runs the Aharoni palette-extraction algorithm of spec
// section 4.H on a linear-RGB image matrix: convert to CIELab, discard
// the brightest/darkest pixels, compute the 2-D convex hull of (a*, b*),
// iteratively remove the vertex contributing least triangle area to its
// neighbors until k-2 remain, then add back the observed darkest and
// lightest Lab colors. Returns k colors in linear RGB.
func ExtractPalette(img *vecf.Matrix[vecf.Vector3], k int) []vecf.Vector3 {
	conv := colorspace.DefaultConverter
	labs := make([]colorspace.Lab, 0, img.Rows*img.Cols)
	img.ForEach(func(r, c int, v vecf.Vector3) {
		labs = append(labs, conv.LinearToLab(v))
	})
	if len(labs) == 0 || k <= 0 {
		return nil
	}

	sorted := append([]colorspace.Lab(nil), labs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].L < sorted[j].L })
	darkest := sorted[0]
	lightest := sorted[len(sorted)-1]

	discard := len(sorted) / 20 // trim the darkest/brightest 5% per side
	mid := sorted
	if discard > 0 && 2*discard < len(sorted) {
		mid = sorted[discard : len(sorted)-discard]
	}

	hull := convexHull2D(mid)
	for len(hull) > maxInt(k-2, 1) {
		hull = removeSmallestTriangle(hull)
	}

	out := make([]vecf.Vector3, 0, k)
	for _, l := range hull {
		out = append(out, conv.LabToLinear(l))
	}
	out = append(out, conv.LabToLinear(darkest), conv.LabToLinear(lightest))
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// convexHull2D computes the convex hull of the (a*, b*) projection of a
// Lab point set via Andrew's monotone chain, returning hull vertices as
// full Lab values (L taken from the hull point itself) in CCW order.
func convexHull2D(points []colorspace.Lab) []colorspace.Lab {
	if len(points) < 3 {
		return append([]colorspace.Lab(nil), points...)
	}
	pts := append([]colorspace.Lab(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].A != pts[j].A {
			return pts[i].A < pts[j].A
		}
		return pts[i].B < pts[j].B
	})

	cross := func(o, a, b colorspace.Lab) float32 {
		return (a.A-o.A)*(b.B-o.B) - (a.B-o.B)*(b.A-o.A)
	}

	var lower []colorspace.Lab
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []colorspace.Lab
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// removeSmallestTriangle removes the hull vertex whose triangle area to
// its two neighbors is smallest, per spec section 4.H.
func removeSmallestTriangle(hull []colorspace.Lab) []colorspace.Lab {
	n := len(hull)
	if n <= 3 {
		return hull
	}
	minArea := float32(-1)
	minIdx := 0
	for i := 0; i < n; i++ {
		prev := hull[(i-1+n)%n]
		cur := hull[i]
		next := hull[(i+1)%n]
		area := triangleArea(prev, cur, next)
		if minArea < 0 || area < minArea {
			minArea = area
			minIdx = i
		}
	}
	out := make([]colorspace.Lab, 0, n-1)
	out = append(out, hull[:minIdx]...)
	out = append(out, hull[minIdx+1:]...)
	return out
}

func triangleArea(a, b, c colorspace.Lab) float32 {
	area := (b.A-a.A)*(c.B-a.B) - (c.A-a.A)*(b.B-a.B)
	if area < 0 {
		area = -area
	}
	return area / 2
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MixPaletteFromImage runs spec section 4.H's full palette-mixing
// pipeline: extracts nrColors representative colors from img via
// ExtractPalette, then for each solves the weights-and-thickness problem
// against a white background and mixes the resulting paint from base.
// Colors the solver fails on still contribute their last-iterate mix
// (section 7: solver failure is not fatal).
func MixPaletteFromImage(img *vecf.Matrix[vecf.Vector3], base *Palette, nrColors int) (*Palette, error) {
	colors := ExtractPalette(img, nrColors)
	white := vecf.Vec3(1, 1, 1)

	paints := make([]Paint, 0, len(colors))
	for _, target := range colors {
		weights, _, err := SolveWeightsAndThickness(target, white, base)
		if err != nil && !errors.Is(err, perr.ErrSolverFailed) {
			continue // invalid input (e.g. an empty base palette); not fatal
		}
		paint, err := Mix(base, weights, true)
		if err != nil {
			continue
		}
		paints = append(paints, paint)
	}
	return NewPalette(paints), nil
}
