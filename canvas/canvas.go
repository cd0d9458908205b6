// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"image"
	"image/color"
	"time"

	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/kubelkamunk"
	"github.com/painty/painty/vecf"
)

// DefaultDryingDuration is the default time a cell's wet paint takes to
// fully dry, matching the 15 second default named in spec section 4.D.
const DefaultDryingDuration = 15 * time.Second

// Canvas composes a wet paint layer with a dry substrate reflectance
// field R0, a height field of already-dried paint, and a per-cell
// last-touch timestamp, per section 4.D of the specification.
type Canvas struct {
	Layer *PaintLayer
	R0    *vecf.Matrix[vecf.Vector3]
	H     *vecf.Matrix[float32]
	T     *vecf.Matrix[float32] // seconds since an arbitrary epoch

	Background vecf.Vector3
	// DryingDuration is the configured drying time D, in seconds. A
	// value of 0 disables drying.
	DryingDuration float32
}

// New creates a canvas of the given size with the given background
// color, initializing R0 to background, H to zero, and T to 0.
func New(rows, cols int, background vecf.Vector3) *Canvas {
	c := &Canvas{
		Layer:          NewPaintLayer(rows, cols),
		R0:             vecf.NewVector3Matrix(rows, cols),
		H:              vecf.NewFloat32Matrix(rows, cols),
		T:              vecf.NewFloat32Matrix(rows, cols),
		Background:     background,
		DryingDuration: float32(DefaultDryingDuration.Seconds()),
	}
	c.R0.Fill(background)
	return c
}

// NewWhite creates a canvas with a white background, the spec's default.
func NewWhite(rows, cols int) *Canvas {
	return New(rows, cols, vecf.Vec3(1, 1, 1))
}

// Rows returns the canvas height in cells.
func (c *Canvas) Rows() int { return c.Layer.Rows() }

// Cols returns the canvas width in cells.
func (c *Canvas) Cols() int { return c.Layer.Cols() }

// DryCanvas instantly merges the entire wet layer into the substrate:
// for every cell, R0 becomes the composed reflectance, H accumulates the
// prior V, and the wet layer is cleared. Idempotent: a second call finds
// V == 0 everywhere and is a no-op.
func (c *Canvas) DryCanvas(now float32) {
	rows, cols := c.Rows(), c.Cols()
	for r := 0; r < rows; r++ {
		for ci := 0; ci < cols; ci++ {
			k, s, v := c.Layer.Get(r, ci)
			if v == 0 {
				c.T.SetUnchecked(r, ci, now)
				continue
			}
			r0 := c.R0.AtUnchecked(r, ci)
			newR0 := kubelkamunk.Reflectance(k, s, r0, v)
			c.R0.SetUnchecked(r, ci, newR0)
			c.H.SetUnchecked(r, ci, c.H.AtUnchecked(r, ci)+v)
			c.Layer.Set(r, ci, vecf.Vector3{}, vecf.Vector3{}, 0)
			c.T.SetUnchecked(r, ci, now)
		}
	}
}

// CheckDry must be called by a brush before it modifies cell (x, y). It
// computes the elapsed time since the cell was last touched and, per
// spec section 4.D, either fully dries the cell, partially dries it, or
// leaves it untouched, always stamping T(x, y) to now afterward.
func (c *Canvas) CheckDry(x, y int, now float32) {
	if x < 0 || x >= c.Cols() || y < 0 || y >= c.Rows() {
		return
	}
	k, s, v := c.Layer.Get(y, x)
	if v > 0.001 && c.DryingDuration > 0 {
		dt := now - c.T.AtUnchecked(y, x)
		switch {
		case dt >= c.DryingDuration:
			r0 := c.R0.AtUnchecked(y, x)
			newR0 := kubelkamunk.Reflectance(k, s, r0, v)
			c.R0.SetUnchecked(y, x, newR0)
			c.H.SetUnchecked(y, x, c.H.AtUnchecked(y, x)+v)
			c.Layer.Set(y, x, vecf.Vector3{}, vecf.Vector3{}, 0)
		case dt/c.DryingDuration > 0.01:
			vl := (dt / c.DryingDuration) * v
			r0 := c.R0.AtUnchecked(y, x)
			newR0 := kubelkamunk.Reflectance(k, s, r0, vl)
			c.R0.SetUnchecked(y, x, newR0)
			c.H.SetUnchecked(y, x, c.H.AtUnchecked(y, x)+vl)
			c.Layer.Set(y, x, k, s, v-vl)
		}
	}
	c.T.SetUnchecked(y, x, now)
}

// Clear zeros the wet layer, resets R0 to the background color, zeros
// the height field, and stamps every cell's time to now.
func (c *Canvas) Clear(now float32) {
	c.Layer.Clear()
	c.R0.Fill(c.Background)
	c.H.Fill(0)
	c.T.Fill(now)
}

// SetBackground clears the canvas and then copies img into R0, converted
// from sRGB to linear RGB.
func (c *Canvas) SetBackground(img image.Image, now float32) {
	c.Clear(now)
	c.Background = averageSRGBLinear(img)
	bounds := img.Bounds()
	rows, cols := c.Rows(), c.Cols()
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			sx := bounds.Min.X + col*bounds.Dx()/maxInt(cols, 1)
			sy := bounds.Min.Y + r*bounds.Dy()/maxInt(rows, 1)
			c.R0.SetUnchecked(r, col, srgbPixelToLinear(img.At(sx, sy)))
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func srgbPixelToLinear(c color.Color) vecf.Vector3 {
	r, g, b, _ := c.RGBA()
	srgb := vecf.Vec3(float32(r)/65535, float32(g)/65535, float32(b)/65535)
	return colorspace.SRGBToLinear(srgb)
}

func averageSRGBLinear(img image.Image) vecf.Vector3 {
	b := img.Bounds()
	if b.Empty() {
		return vecf.Vec3(1, 1, 1)
	}
	var sum vecf.Vector3
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y += maxInt(1, b.Dy()/16) {
		for x := b.Min.X; x < b.Max.X; x += maxInt(1, b.Dx()/16) {
			sum = sum.Add(srgbPixelToLinear(img.At(x, y)))
			n++
		}
	}
	if n == 0 {
		return vecf.Vec3(1, 1, 1)
	}
	return sum.MulScalar(1 / float32(n))
}
