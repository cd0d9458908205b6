// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brush

import (
	"bufio"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/vecf"
)

// BrushStrokeSample is a stored height texture plus a quadrilateral-to-UV
// warp, per spec section 4.E: the texture brush's stroke-shaped
// reference, loaded once and reused for every stroke of a given brush.
type BrushStrokeSample struct {
	Thickness *vecf.Matrix[float32]

	// canvasPts and uvPts are the matched polygon vertex lists (canvas
	// space and the sample's own [0,1]x[-1,1] UV space) describing the
	// warp, per spec section 3.
	canvasPts []vecf.Vector2
	uvPts     []vecf.Vector2
}

// NewBrushStrokeSample builds a sample from an explicit thickness map and
// matched (canvas, uv) vertex lists.
func NewBrushStrokeSample(thickness *vecf.Matrix[float32], canvasPts, uvPts []vecf.Vector2) *BrushStrokeSample {
	return &BrushStrokeSample{Thickness: thickness, canvasPts: canvasPts, uvPts: uvPts}
}

// ThicknessAt looks up the sample's own stored thickness texture at UV
// coordinates (u in [0,1], v in [-1,1]), bilinearly, returning 0 outside
// the texture's domain.
func (s *BrushStrokeSample) ThicknessAt(u, v float32) float32 {
	if u < 0 || u > 1 || v < -1 || v > 1 {
		return 0
	}
	tx := u * float32(s.Thickness.Cols-1)
	ty := (v + 1) * 0.5 * float32(s.Thickness.Rows-1)
	return s.Thickness.Sample(tx, ty, vecf.BorderClamp)
}

// WarpToUV maps a canvas-space point p to the sample's UV space via
// generalized (mean-value) barycentric interpolation over the stored
// polygon, per spec section 3's invariant: "the warp must map any point
// on the stroke polygon to its UV, smoothly, via generalized barycentric
// interpolation". Returns ok=false if the polygon is empty or the
// mean-value weights at p sum to (nearly) zero; a p that coincides with a
// vertex returns that vertex's UV with ok=true.
func (s *BrushStrokeSample) WarpToUV(p vecf.Vector2) (uv vecf.Vector2, ok bool) {
	return meanValueWarp(p, s.canvasPts, s.uvPts)
}

// meanValueWarp implements Floater's mean-value coordinates: for a
// polygon with vertices v_i and matched target values t_i, the value at
// an interior point p is the weighted average of t_i with weights
//
//	w_i = (tan(a_{i-1}/2) + tan(a_i/2)) / |p - v_i|
//
// where a_i is the angle at p between v_i and v_{i+1}. A single-vertex
// polygon returns that vertex's value directly (spec section 8 boundary
// behavior).
func meanValueWarp(p vecf.Vector2, canvasPts, uvPts []vecf.Vector2) (vecf.Vector2, bool) {
	n := len(canvasPts)
	if n == 0 || len(uvPts) != n {
		return vecf.Vector2{}, false
	}
	if n == 1 {
		return uvPts[0], true
	}

	weights := make([]float32, n)
	var weightSum float32
	for i := 0; i < n; i++ {
		d := p.Distance(canvasPts[i])
		if d < 1e-6 {
			// p coincides with a vertex: return its value exactly.
			return uvPts[i], true
		}
	}
	for i := 0; i < n; i++ {
		prev := (i - 1 + n) % n
		next := (i + 1) % n
		wPrev := tanHalfAngle(p, canvasPts[prev], canvasPts[i])
		wNext := tanHalfAngle(p, canvasPts[i], canvasPts[next])
		w := (wPrev + wNext) / p.Distance(canvasPts[i])
		weights[i] = w
		weightSum += w
	}
	if weightSum < 1e-12 {
		return vecf.Vector2{}, false
	}
	var out vecf.Vector2
	for i := 0; i < n; i++ {
		out = out.Add(uvPts[i].MulScalar(weights[i] / weightSum))
	}
	return out, true
}

// tanHalfAngle returns tan(angle(a, p, b)/2) using the half-angle
// identity tan(theta/2) = (1-cos(theta)) / sin(theta), avoiding a direct
// call to acos for numerical stability near theta=0 and theta=pi.
func tanHalfAngle(p, a, b vecf.Vector2) float32 {
	u := a.Sub(p)
	v := b.Sub(p)
	lu, lv := u.Length(), v.Length()
	if lu < 1e-9 || lv < 1e-9 {
		return 0
	}
	cosT := u.Dot(v) / (lu * lv)
	if cosT > 1 {
		cosT = 1
	}
	if cosT < -1 {
		cosT = -1
	}
	cross := u.X*v.Y - u.Y*v.X
	sinT := cross / (lu * lv)
	if sinT < 0 {
		sinT = -sinT
	}
	if sinT < 1e-6 {
		if cosT > 0 {
			return 0
		}
		return 1e6
	}
	return (1 - cosT) / sinT
}

// LoadBrushStrokeSample reads a brush-stroke sample directory of the
// shape documented in spec section 6: a spine.txt header-delimited list
// of three matched (canvas, uv) point lists, and a thickness_map.png
// single-channel thickness texture. Only the left/center/right ("l",
// "c", "r") vertex and UV lists are concatenated to build the warp
// polygon, matching the on-disk format's three-ribbon layout.
func LoadBrushStrokeSample(dir string) (*BrushStrokeSample, error) {
	spinePath := filepath.Join(dir, "spine.txt")
	thicknessPath := filepath.Join(dir, "thickness_map.png")

	canvasPts, uvPts, err := parseSpine(spinePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(thicknessPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFound("thickness map %q: %v", thicknessPath, err)
		}
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, perr.Format("decode thickness map %q: %v", thicknessPath, err)
	}
	thickness := decodeThicknessImage(img)

	return &BrushStrokeSample{Thickness: thickness, canvasPts: canvasPts, uvPts: uvPts}, nil
}

// spineSections names the header lines of spine.txt in the order spec
// section 6 documents: three canvas-space lists (txy_*) followed by three
// UV-space lists (puv_*).
var spineSections = []string{"txy_l", "txy_c", "txy_r", "puv_l", "puv_c", "puv_r"}

func parseSpine(path string) (canvasPts, uvPts []vecf.Vector2, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, perr.NotFound("spine file %q: %v", path, err)
		}
		return nil, nil, err
	}
	defer f.Close()

	sections := map[string][]vecf.Vector2{}
	var current string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isSpineHeader(line) {
			current = line
			continue
		}
		if current == "" {
			return nil, nil, perr.Format("spine file %q: data before any header", path)
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, nil, perr.Format("spine file %q: malformed point line %q", path, line)
		}
		x, err1 := strconv.ParseFloat(fields[0], 32)
		y, err2 := strconv.ParseFloat(fields[1], 32)
		if err1 != nil || err2 != nil {
			return nil, nil, perr.Format("spine file %q: non-numeric point line %q", path, line)
		}
		sections[current] = append(sections[current], vecf.Vec2(float32(x), float32(y)))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	canvasPts = concatSections(sections, "txy_l", "txy_c", "txy_r")
	uvPts = concatSections(sections, "puv_l", "puv_c", "puv_r")
	if len(canvasPts) == 0 || len(canvasPts) != len(uvPts) {
		return nil, nil, perr.Format("spine file %q: mismatched canvas/uv point counts (%d vs %d)", path, len(canvasPts), len(uvPts))
	}
	return canvasPts, uvPts, nil
}

func isSpineHeader(line string) bool {
	for _, h := range spineSections {
		if line == h {
			return true
		}
	}
	return false
}

func concatSections(sections map[string][]vecf.Vector2, names ...string) []vecf.Vector2 {
	var out []vecf.Vector2
	for _, n := range names {
		out = append(out, sections[n]...)
	}
	return out
}

// decodeThicknessImage reads a single-channel PNG's gray values into a
// [0,1] float32 thickness field.
func decodeThicknessImage(img image.Image) *vecf.Matrix[float32] {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	out := vecf.NewFloat32Matrix(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gray, _, _, _ := img.At(b.Min.X+c, b.Min.Y+r).RGBA()
			out.SetUnchecked(r, c, float32(gray)/65535)
		}
	}
	return out
}
