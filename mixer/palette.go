// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mixer implements paint mixing and palette extraction, per
// spec section 4.H: a weighted-sum mix of base pigments, a constrained
// non-linear least-squares solve for the weights (and, for reflectance
// targets, layer thickness) that best approximate a target, and the
// Aharoni palette-extraction pipeline that derives a base palette from
// an input image. Grounded on painty/image/Optimizer.hxx and
// painty/MixPaint.hxx (see original_source/_INDEX.md) and this module's
// own colorspace/kubelkamunk packages for the optics.
package mixer

import (
	"encoding/json"
	"io"
	"os"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/vecf"
)

// Paint is a Kubelka-Munk absorption/scattering pair, the unit of a
// Palette, per spec section 3.
type Paint struct {
	K vecf.Vector3
	S vecf.Vector3
}

// Palette is an ordered sequence of paints; insertion order defines the
// paint indices used throughout the mixer and painter packages.
type Palette struct {
	Paints []Paint
}

// NewPalette wraps a paint slice as a Palette.
func NewPalette(paints []Paint) *Palette { return &Palette{Paints: paints} }

// Len returns the number of paints in the palette.
func (p *Palette) Len() int { return len(p.Paints) }

// paletteJSON is the on-disk shape of spec section 6: a JSON array of
// {"K": [r,g,b], "S": [r,g,b]} objects.
type paletteJSON []struct {
	K [3]float32 `json:"K"`
	S [3]float32 `json:"S"`
}

// MarshalJSON writes the palette in the spec section 6 wire format.
func (p *Palette) MarshalJSON() ([]byte, error) {
	out := make(paletteJSON, len(p.Paints))
	for i, paint := range p.Paints {
		out[i].K = [3]float32{paint.K.X, paint.K.Y, paint.K.Z}
		out[i].S = [3]float32{paint.S.X, paint.S.Y, paint.S.Z}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the spec section 6 wire format, failing with
// *invalid-format* on malformed input.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var in paletteJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return perr.Format("parse palette: %v", err)
	}
	paints := make([]Paint, len(in))
	for i, e := range in {
		paints[i] = Paint{
			K: vecf.Vec3(e.K[0], e.K[1], e.K[2]),
			S: vecf.Vec3(e.S[0], e.S[1], e.S[2]),
		}
	}
	p.Paints = paints
	return nil
}

// LoadPalette reads a palette JSON file from path.
func LoadPalette(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFound("palette %q: %v", path, err)
		}
		return nil, err
	}
	defer f.Close()
	return DecodePalette(f)
}

// DecodePalette reads a palette JSON document from r.
func DecodePalette(r io.Reader) (*Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var p Palette
	if err := p.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePalette writes the palette as indented JSON to path.
func SavePalette(path string, p *Palette) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
