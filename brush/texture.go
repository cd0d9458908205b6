// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brush

import (
	"github.com/chewxy/math32"

	"github.com/painty/painty/canvas"
	"github.com/painty/painty/pathtrace"
	"github.com/painty/painty/vecf"
)

// defaultSmudgePickupRate and defaultSmudgeDepositRate are the texture
// brush's smudge transfer rates; the spec names pickup_rate and
// deposit_rate as configurable but only gives concrete defaults for the
// footprint brush (0.9/0.05, section 4.G). The texture brush's smudge
// uses the same defaults absent a stroke-specific override, since both
// brushes exchange paint through the same pickup-map mechanism.
const (
	defaultSmudgePickupRate  = 0.9
	defaultSmudgeDepositRate = 0.05
)

// ribbonSample is a single dense spline sample used to build the stroke
// ribbon and drive the smudge window, per spec section 4.F.
type ribbonSample struct {
	c, t vecf.Vector2 // center, unit tangent
}

// TextureBrush warps a stroke-shaped thickness sample along a spline
// path, smudging wet paint beneath the stroke and depositing the
// sample's own stored paint, per spec section 4.F.
type TextureBrush struct {
	sample *BrushStrokeSample

	k, s           vecf.Vector3
	radius         float32
	thicknessScale float32

	pickupRate, depositRate float32

	// smudge pickup maps, reused across strokes and reallocated only
	// when the radius changes (spec section 5: "Resource scopes").
	src, dst    *canvas.PaintLayer
	windowRad   int
	initialized bool
}

// NewTextureBrush constructs a texture-warp brush around the given
// stroke sample.
func NewTextureBrush(sample *BrushStrokeSample) *TextureBrush {
	return &TextureBrush{
		sample:         sample,
		thicknessScale: 1,
		pickupRate:     defaultSmudgePickupRate,
		depositRate:    defaultSmudgeDepositRate,
	}
}

// SetRadius sets the brush radius, reallocating the smudge pickup maps
// since their size is derived from it.
func (b *TextureBrush) SetRadius(r float32) {
	b.radius = r
	windowRad := int(math32.Ceil(r)) + 2
	if windowRad != b.windowRad || b.src == nil {
		b.windowRad = windowRad
		size := 2*windowRad + 1
		b.src = canvas.NewPaintLayer(size, size)
		b.dst = canvas.NewPaintLayer(size, size)
	}
}

// Dip loads (k, s) as the brush's stored paint and clears the pickup
// maps, per spec section 8 invariant 5.
func (b *TextureBrush) Dip(k, s vecf.Vector3) {
	b.k, b.s = k, s
	if b.src != nil {
		b.src.Clear()
		b.dst.Clear()
	}
}

// SetThicknessScale sets the multiplier applied to the sample's
// thickness texture when depositing.
func (b *TextureBrush) SetThicknessScale(scale float32) { b.thicknessScale = scale }

// PaintStroke warps the brush's stroke sample along path, smudges the
// canvas beneath it, and deposits the stored paint, per spec section
// 4.F. A one-point path renders nothing (spec section 8 boundary
// behavior).
func (b *TextureBrush) PaintStroke(path []vecf.Vector2, c *canvas.Canvas, now float32) {
	if len(path) < 2 || b.sample == nil {
		return
	}
	if b.src == nil {
		b.SetRadius(b.radius)
	}

	spline := pathtrace.NewSpline(path)
	length := spline.Length(64)
	step := b.radius / 2
	if step < 0.5 {
		step = 0.5
	}
	numSamples := int(length/step) + 1
	if numSamples < 2 {
		numSamples = 2
	}

	samples := make([]ribbonSample, numSamples)
	for i := 0; i < numSamples; i++ {
		u := float32(i) / float32(numSamples-1)
		p, tan := spline.Eval(u)
		tan = tan.Normal()
		if tan.X == 0 && tan.Y == 0 {
			tan = vecf.Vec2(1, 0)
		}
		samples[i] = ribbonSample{c: p, t: tan}
	}

	// Step 2-4: ribbons and the canvas-space / UV polygon.
	canvasPts := make([]vecf.Vector2, 0, 2*numSamples)
	uvPts := make([]vecf.Vector2, 0, 2*numSamples)
	minX, minY := samples[0].c.X, samples[0].c.Y
	maxX, maxY := minX, minY
	for i, s := range samples {
		d := s.t.Perp()
		upper := s.c.Sub(d.MulScalar(b.radius))
		u := float32(i) / float32(numSamples-1)
		canvasPts = append(canvasPts, upper)
		uvPts = append(uvPts, vecf.Vec2(u, -1))
		minX, maxX = minMax(minX, maxX, upper.X)
		minY, maxY = minMax(minY, maxY, upper.Y)
	}
	for i := numSamples - 1; i >= 0; i-- {
		s := samples[i]
		d := s.t.Perp()
		lower := s.c.Add(d.MulScalar(b.radius))
		u := float32(i) / float32(numSamples-1)
		canvasPts = append(canvasPts, lower)
		uvPts = append(uvPts, vecf.Vec2(u, 1))
		minX, maxX = minMax(minX, maxX, lower.X)
		minY, maxY = minMax(minY, maxY, lower.Y)
	}

	bx0 := clampI(int(math32.Floor(minX-b.radius)), 0, c.Cols()-1)
	bx1 := clampI(int(math32.Ceil(maxX+b.radius)), 0, c.Cols()-1)
	by0 := clampI(int(math32.Floor(minY-b.radius)), 0, c.Rows()-1)
	by1 := clampI(int(math32.Ceil(maxY+b.radius)), 0, c.Rows()-1)
	if bx1 < bx0 || by1 < by0 {
		return
	}
	w, h := bx1-bx0+1, by1-by0+1

	// Step 5: warp every bbox pixel into the sample's UV space, fetch
	// thickness, and collect the marked, per-stroke thickness map.
	strokeThickness := vecf.NewFloat32Matrix(h, w)
	marked := make([]bool, w*h)
	var maxD float32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := vecf.Vec2(float32(bx0+x), float32(by0+y))
			uv, ok := meanValueWarp(p, canvasPts, uvPts)
			if !ok || uv.X < 0 || uv.X > 1 || uv.Y < -1 || uv.Y > 1 {
				continue
			}
			vtex := b.sample.ThicknessAt(uv.X, uv.Y) * b.thicknessScale
			if vtex <= 0 {
				continue
			}
			strokeThickness.SetUnchecked(y, x, vtex)
			marked[y*w+x] = true
			if vtex > maxD {
				maxD = vtex
			}
		}
	}

	// Step 6: smudge the canvas along the spline using the collected map.
	if maxD > 0 {
		b.smudge(samples, strokeThickness, marked, bx0, by0, w, h, maxD, c, now)
	}

	// Step 7: deposit the stored paint, blended by existing volume.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !marked[y*w+x] {
				continue
			}
			vtex := strokeThickness.AtUnchecked(y, x)
			cx, cy := bx0+x, by0+y
			c.CheckDry(cx, cy, now)
			kOld, sOld, vOld := c.Layer.Get(cy, cx)
			sDen := vOld + vtex
			if sDen < 1e-12 {
				continue
			}
			inv := 1 / sDen
			kNew := kOld.MulScalar(vOld * inv).Add(b.k.MulScalar(vtex * inv))
			sNew := sOld.MulScalar(vOld * inv).Add(b.s.MulScalar(vtex * inv))
			vNew := vtex
			if vOld > vNew {
				vNew = vOld
			}
			c.Layer.Set(cy, cx, kNew, sNew, vNew)
		}
	}
}

// smudge implements spec section 4.F's smudge sub-algorithm: at every
// spline sample, rotates the destination pickup map from the (just
// swapped) source by the incremental yaw change, double-buffered to
// avoid the single-buffer self-aliasing bug the spec's open questions
// flag, then exchanges paint between the pickup map and the canvas
// within the smudge window.
func (b *TextureBrush) smudge(samples []ribbonSample, strokeThickness *vecf.Matrix[float32], marked []bool, bx0, by0, w, h int, maxD float32, c *canvas.Canvas, now float32) {
	windowRad := b.windowRad
	size := 2*windowRad + 1
	prevYaw := float32(0)
	for i, samp := range samples {
		yaw := math32.Atan2(samp.t.Y, samp.t.X)
		dYaw := float32(0)
		if i > 0 {
			dYaw = yaw - prevYaw
		}
		prevYaw = yaw

		rotatePickupCarryThrough(b.dst, b.src, dYaw)
		b.src, b.dst = b.dst, b.src

		cx0 := int(math32.Round(samp.c.X)) - windowRad
		cy0 := int(math32.Round(samp.c.Y)) - windowRad
		for wy := 0; wy < size; wy++ {
			for wx := 0; wx < size; wx++ {
				dx, dy := float32(wx-windowRad), float32(wy-windowRad)
				if math32.Sqrt(dx*dx+dy*dy) > float32(windowRad) {
					continue
				}
				ccx, ccy := cx0+wx, cy0+wy
				if ccx < 0 || ccx >= c.Cols() || ccy < 0 || ccy >= c.Rows() {
					continue
				}
				lx, ly := ccx-bx0, ccy-by0
				if lx < 0 || lx >= w || ly < 0 || ly >= h || !marked[ly*w+lx] {
					continue
				}
				d := strokeThickness.AtUnchecked(ly, lx)
				if d <= 0 {
					continue
				}
				ratio := d / maxD

				c.CheckDry(ccx, ccy, now)
				kCanvas, sCanvas, vCanvas := c.Layer.Get(ccy, ccx)
				kPick, sPick, vPick := b.src.Get(wy, wx)

				vCl := vCanvas * b.pickupRate * ratio
				vCanvasRemain := clampNonNeg(vCanvas - vCl)
				vPl := vPick * b.depositRate * ratio
				vPickRemain := clampNonNeg(vPick - vPl)

				newPickV := vPickRemain + vCl
				kPickNew, sPickNew := kPick, sPick
				if newPickV > 1e-12 {
					kPickNew = kPick.MulScalar(vPickRemain / newPickV).Add(kCanvas.MulScalar(vCl / newPickV))
					sPickNew = sPick.MulScalar(vPickRemain / newPickV).Add(sCanvas.MulScalar(vCl / newPickV))
				}
				newCanvasV := vCanvasRemain + vPl
				kCanvasNew, sCanvasNew := kCanvas, sCanvas
				if newCanvasV > 1e-12 {
					kCanvasNew = kCanvas.MulScalar(vCanvasRemain / newCanvasV).Add(kPick.MulScalar(vPl / newCanvasV))
					sCanvasNew = sCanvas.MulScalar(vCanvasRemain / newCanvasV).Add(sPick.MulScalar(vPl / newCanvasV))
				}

				b.src.Set(wy, wx, kPickNew, sPickNew, newPickV)
				c.Layer.Set(ccy, ccx, kCanvasNew, sCanvasNew, newCanvasV)
			}
		}
	}
}

// rotatePickupCarryThrough fills dst by sampling src at the
// inverse-rotated position for every cell; cells whose pre-image falls
// outside src's bounds carry through dst's own previous value, per spec
// section 4.F (rather than Matrix.Rotate's border-reflect, which would
// fabricate paint at the window edges).
func rotatePickupCarryThrough(dst, src *canvas.PaintLayer, angleRad float32) {
	rows, cols := dst.Rows(), dst.Cols()
	cx, cy := float32(cols-1)/2, float32(rows-1)/2
	cosT, sinT := math32.Cos(-angleRad), math32.Sin(-angleRad)
	for r := 0; r < rows; r++ {
		for cIdx := 0; cIdx < cols; cIdx++ {
			dx := float32(cIdx) - cx
			dy := float32(r) - cy
			srcX := cosT*dx - sinT*dy + cx
			srcY := sinT*dx + cosT*dy + cy
			sx, sy := int(math32.Round(srcX)), int(math32.Round(srcY))
			if sx < 0 || sx >= cols || sy < 0 || sy >= rows {
				continue // carry through dst's existing value
			}
			k, s, v := src.Get(sy, sx)
			dst.Set(r, cIdx, k, s, v)
		}
	}
}

func clampNonNeg(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

func minMax(lo, hi, v float32) (float32, float32) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
