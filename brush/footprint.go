// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brush

import (
	"image"
	"image/png"
	"os"

	"github.com/chewxy/math32"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/canvas"
	"github.com/painty/painty/pathtrace"
	"github.com/painty/painty/vecf"
)

// defaultFootprintPickupRate, defaultFootprintDepositRate, and
// defaultPickupCapacity are the footprint brush's defaults named in
// spec section 4.G.
const (
	defaultFootprintPickupRate  = 0.9
	defaultFootprintDepositRate = 0.05
	defaultPickupCapacity       = 1.0
)

// Footprint is the scalar, radially-symmetric disk image of spec
// section 3, padded to a box wide enough to contain any rotation of the
// unpadded disk.
type Footprint struct {
	Image *vecf.Matrix[float32]
}

// LoadFootprint reads a grayscale PNG footprint (spec section 6:
// data/footprint/footprint.png) and resizes it to the given diameter,
// then pads it to sqrt(2)*diameter so any rotation stays in-bounds.
func LoadFootprint(path string, diameter int) (*Footprint, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFound("footprint %q: %v", path, err)
		}
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, perr.Format("decode footprint %q: %v", path, err)
	}
	return NewFootprintFromImage(img, diameter), nil
}

// NewFootprintFromImage builds a Footprint from an in-memory grayscale
// image, resized to diameter and padded per spec section 3.
func NewFootprintFromImage(img image.Image, diameter int) *Footprint {
	disk := decodeThicknessImage(img).Resize(diameter, diameter)
	padded := math32.Ceil(math32.Sqrt(2) * float32(diameter))
	pad := (int(padded) - diameter) / 2
	if pad < 0 {
		pad = 0
	}
	return &Footprint{Image: disk.Pad(pad, pad, pad, pad, 0)}
}

// NewUniformFootprint builds a synthetic radially-symmetric disk
// footprint (value 1 inside radius, 0 outside, linearly feathered at the
// boundary), for callers without an on-disk texture.
func NewUniformFootprint(diameter int) *Footprint {
	padded := int(math32.Ceil(math32.Sqrt(2) * float32(diameter)))
	img := vecf.NewFloat32Matrix(padded, padded)
	center := float32(padded-1) / 2
	r := float32(diameter) / 2
	for y := 0; y < padded; y++ {
		for x := 0; x < padded; x++ {
			d := vecf.Vec2(float32(x), float32(y)).Distance(vecf.Vec2(center, center))
			v := clampF32(1-(d-r+1), 0, 1)
			img.SetUnchecked(y, x, v)
		}
	}
	return &Footprint{Image: img}
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// At returns the footprint value at offset (col, row) from its center,
// bilinearly sampled, 0 outside the padded box.
func (f *Footprint) At(col, row float32) float32 {
	rows, cols := f.Image.Rows, f.Image.Cols
	cx, cy := float32(cols-1)/2, float32(rows-1)/2
	return f.Image.Sample(cx+col, cy+row, vecf.BorderZero)
}

// halfExtent returns the integer half-size of the padded footprint box.
func (f *Footprint) halfExtent() (int, int) {
	return f.Image.Cols / 2, f.Image.Rows / 2
}

// FootprintBrush imprints a rotated footprint disk stepwise along a
// path, exchanging paint with the canvas through a pickup map, per spec
// section 4.G.
type FootprintBrush struct {
	footprint *Footprint

	k, s           vecf.Vector3
	radius         float32
	thicknessScale float32

	pickupRate, depositRate, capacity float32
	useSnapshot                       bool

	pickup   *canvas.PaintLayer
	snapshot *canvas.PaintLayer // lagged copy of the canvas wet layer, refreshed per imprint

	snapshotOriginX, snapshotOriginY int
	snapshotValid                    bool
}

// NewFootprintBrush constructs a footprint-imprint brush. useSnapshot
// enables the lagged snapshot-buffer pickup source described in spec
// section 4.G.
func NewFootprintBrush(footprint *Footprint, useSnapshot bool) *FootprintBrush {
	fb := &FootprintBrush{
		footprint:      footprint,
		thicknessScale: 1,
		pickupRate:     defaultFootprintPickupRate,
		depositRate:    defaultFootprintDepositRate,
		capacity:       defaultPickupCapacity,
		useSnapshot:    useSnapshot,
	}
	if footprint != nil {
		fb.pickup = canvas.NewPaintLayer(footprint.Image.Rows, footprint.Image.Cols)
	}
	return fb
}

// SetRadius sets the imprint radius. The footprint image itself is
// fixed size (loaded/resized once); radius only scales how imprint
// interprets footprint-cell offsets against canvas cells is not
// supported by resampling here, so radius changes with a differently
// sized footprint require constructing a new brush with a freshly
// loaded/resized Footprint.
func (b *FootprintBrush) SetRadius(r float32) { b.radius = r }

// Dip loads (k, s) as the stored paint and clears the pickup map, per
// spec section 8 invariant 5.
func (b *FootprintBrush) Dip(k, s vecf.Vector3) {
	b.k, b.s = k, s
	if b.pickup != nil {
		b.pickup.Clear()
	}
}

// SetThicknessScale sets the deposit-volume multiplier.
func (b *FootprintBrush) SetThicknessScale(scale float32) { b.thicknessScale = scale }

// PaintStroke evaluates a Catmull-Rom interpolation through consecutive
// path triples (p0, p1, p2) and imprints at each integer step along
// segment p1->p2, per spec section 4.G's "Stroke from a path". A
// one-point path renders nothing; a two-point path is imprinted as a
// single degenerate triple (p0=p1).
func (b *FootprintBrush) PaintStroke(path []vecf.Vector2, c *canvas.Canvas, now float32) {
	if len(path) < 2 || b.footprint == nil {
		return
	}
	if len(path) == 2 {
		b.imprintSegment(path[0], path[0], path[1], c, now)
		return
	}
	for i := 0; i+2 < len(path); i++ {
		b.imprintSegment(path[i], path[i+1], path[i+2], c, now)
	}
}

// imprintSegment walks integer steps along p1->p2 using a Catmull-Rom
// interpolation with control points (p0, p1, p2, p2), calling imprint at
// each step with theta = atan2(tangent), per spec section 4.G.
func (b *FootprintBrush) imprintSegment(p0, p1, p2 vecf.Vector2, c *canvas.Canvas, now float32) {
	dist := p1.Distance(p2)
	steps := int(math32.Ceil(dist))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		pos, tangent := pathtrace.CatmullRomPoint(p0, p1, p2, p2, t)
		tangent = tangent.Normal()
		theta := math32.Atan2(tangent.Y, tangent.X)
		b.Imprint(pos, theta, c, now)
	}
}

// Imprint stamps the footprint once at center, rotated by theta,
// exchanging paint with the canvas per spec section 4.G steps 1-5.
func (b *FootprintBrush) Imprint(center vecf.Vector2, theta float32, c *canvas.Canvas, now float32) {
	hw, hh := b.footprint.halfExtent()

	if b.useSnapshot {
		b.refreshSnapshot(center, c)
	}

	cosT, sinT := math32.Cos(-theta), math32.Sin(-theta)
	for row := -hh; row <= hh; row++ {
		for col := -hw; col <= hw; col++ {
			footprintVal := b.footprint.At(float32(col), float32(row))
			if footprintVal <= 0 {
				continue
			}
			ccx := int(math32.Round(center.X)) + col
			ccy := int(math32.Round(center.Y)) + row
			if ccx < 0 || ccx >= c.Cols() || ccy < 0 || ccy >= c.Rows() {
				continue
			}

			// Rotate (col, row) by -theta about the footprint center to
			// find the pickup-map cell, per spec step 2.
			rx := cosT*float32(col) - sinT*float32(row)
			ry := sinT*float32(col) + cosT*float32(row)
			pmx := int(math32.Round(rx)) + hw
			pmy := int(math32.Round(ry)) + hh
			if pmx < 0 || pmx >= b.pickup.Cols() || pmy < 0 || pmy >= b.pickup.Rows() {
				continue
			}

			c.CheckDry(ccx, ccy, now)
			b.pickupAt(ccx, ccy, pmx, pmy, footprintVal, c)
			b.depositAt(ccx, ccy, pmx, pmy, footprintVal, c)
		}
	}
}

// pickupAt transfers paint from the canvas (or the lagged snapshot, if
// enabled) into the pickup-map cell, per spec section 4.G step 4.
func (b *FootprintBrush) pickupAt(ccx, ccy, pmx, pmy int, footprintVal float32, c *canvas.Canvas) {
	var kSrc, sSrc vecf.Vector3
	var vSrc float32
	if b.useSnapshot && b.snapshotValid {
		sy, sx := ccy-b.snapshotOriginY, ccx-b.snapshotOriginX
		if sy >= 0 && sy < b.snapshot.Rows() && sx >= 0 && sx < b.snapshot.Cols() {
			kSrc, sSrc, vSrc = b.snapshot.Get(sy, sx)
		} else {
			kSrc, sSrc, vSrc = c.Layer.Get(ccy, ccx)
		}
	} else {
		kSrc, sSrc, vSrc = c.Layer.Get(ccy, ccx)
	}

	vLeave := b.pickupRate * vSrc * footprintVal
	if vLeave <= 0 {
		return
	}

	kPick, sPick, vPick := b.pickup.Get(pmy, pmx)
	newV := vPick + vLeave
	if newV > 1e-12 {
		kPick = kPick.MulScalar(vPick / newV).Add(kSrc.MulScalar(vLeave / newV))
		sPick = sPick.MulScalar(vPick / newV).Add(sSrc.MulScalar(vLeave / newV))
	}
	if newV > b.capacity {
		newV = b.capacity
	}
	b.pickup.Set(pmy, pmx, kPick, sPick, newV)

	if !b.useSnapshot {
		kCanvas, sCanvas, vCanvas := c.Layer.Get(ccy, ccx)
		c.Layer.Set(ccy, ccx, kCanvas, sCanvas, clampNonNeg(vCanvas-vLeave))
	}
}

// depositAt composes the effective source paint from the pickup map and
// the brush's stored paint, then blends it into the canvas cell, per
// spec section 4.G step 5.
func (b *FootprintBrush) depositAt(ccx, ccy, pmx, pmy int, footprintVal float32, c *canvas.Canvas) {
	kPick, sPick, vPick := b.pickup.Get(pmy, pmx)

	var kSrc, sSrc vecf.Vector3
	remaining := b.capacity - vPick
	if remaining < 0 {
		remaining = 0
	}
	total := vPick + remaining
	if total > 1e-12 {
		kSrc = kPick.MulScalar(vPick / total).Add(b.k.MulScalar(remaining / total))
		sSrc = sPick.MulScalar(vPick / total).Add(b.s.MulScalar(remaining / total))
	} else {
		kSrc, sSrc = b.k, b.s
	}

	vDeposit := b.capacity * footprintVal * b.thicknessScale
	vPickNew := clampNonNeg(vPick - b.depositRate*vPick*footprintVal)
	b.pickup.Set(pmy, pmx, kPick, sPick, vPickNew)

	kCanvas, sCanvas, vCanvas := c.Layer.Get(ccy, ccx)
	newV := vCanvas + vDeposit
	kNew, sNew := kCanvas, sCanvas
	if newV > 1e-12 {
		kNew = kCanvas.MulScalar(vCanvas / newV).Add(kSrc.MulScalar(vDeposit / newV))
		sNew = sCanvas.MulScalar(vCanvas / newV).Add(sSrc.MulScalar(vDeposit / newV))
	}
	c.Layer.Set(ccy, ccx, kNew, sNew, newV)
}

// refreshSnapshot recenters the snapshot window on the current imprint
// center and refreshes every cell outside the current footprint's own
// bounding box, per spec section 4.G's "Snapshot buffer": the window is
// twice the footprint's extent, so a ring around the footprint is
// refreshed from the live canvas on every imprint, while the footprint's
// own footprint-sized interior keeps whatever it held from the previous
// imprint (lagging exactly long enough that a just-deposited cell is not
// immediately re-picked-up within the same imprint).
func (b *FootprintBrush) refreshSnapshot(center vecf.Vector2, c *canvas.Canvas) {
	hw, hh := b.footprint.halfExtent()
	windowHW, windowHH := 2*hw, 2*hh
	rows, cols := 2*windowHH+1, 2*windowHW+1
	originX := int(math32.Round(center.X)) - windowHW
	originY := int(math32.Round(center.Y)) - windowHH

	prev := b.snapshot
	prevOriginX, prevOriginY := b.snapshotOriginX, b.snapshotOriginY
	next := canvas.NewPaintLayer(rows, cols)

	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			dx, dy := col-windowHW, r-windowHH
			ccx, ccy := originX+col, originY+r
			insideFootprintBBox := dx >= -hw && dx <= hw && dy >= -hh && dy <= hh
			if insideFootprintBBox && b.snapshotValid && prev != nil {
				if k, s, v, ok := lookup(prev, ccx-prevOriginX, ccy-prevOriginY); ok {
					next.Set(r, col, k, s, v)
					continue
				}
			}
			if ccx < 0 || ccx >= c.Cols() || ccy < 0 || ccy >= c.Rows() {
				continue
			}
			k, s, v := c.Layer.Get(ccy, ccx)
			next.Set(r, col, k, s, v)
		}
	}

	b.snapshot = next
	b.snapshotOriginX, b.snapshotOriginY = originX, originY
	b.snapshotValid = true
}

func lookup(layer *canvas.PaintLayer, x, y int) (k, s vecf.Vector3, v float32, ok bool) {
	if x < 0 || x >= layer.Cols() || y < 0 || y >= layer.Rows() {
		return k, s, v, false
	}
	k, s, v = layer.Get(y, x)
	return k, s, v, true
}
