// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/vecf"
)

func samplePalette() *Palette {
	return NewPalette([]Paint{
		{K: vecf.Vec3(0.1, 0.2, 0.3), S: vecf.Vec3(0.5, 0.5, 0.5)},
		{K: vecf.Vec3(0.4, 0.1, 0.1), S: vecf.Vec3(0.6, 0.4, 0.3)},
	})
}

func TestMixWeightedSum(t *testing.T) {
	p := samplePalette()
	mix, err := Mix(p, []float32{0.5, 0.5}, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, mix.K.X, 1e-6)
	assert.InDelta(t, 0.15, mix.K.Y, 1e-6)
}

func TestMixEmptyPaletteIsInvalidInput(t *testing.T) {
	_, err := Mix(NewPalette(nil), nil, false)
	assert.ErrorIs(t, err, perr.ErrInvalidInput)
}

func TestMixWrongWeightCountIsInvalidInput(t *testing.T) {
	p := samplePalette()
	_, err := Mix(p, []float32{1}, false)
	assert.ErrorIs(t, err, perr.ErrInvalidInput)
}

func TestSolveWeightsEmptyPaletteIsInvalidInput(t *testing.T) {
	_, err := SolveWeights(Paint{}, NewPalette(nil))
	assert.ErrorIs(t, err, perr.ErrInvalidInput)
}

func TestSolveWeightsRecoversKnownMixture(t *testing.T) {
	p := samplePalette()
	target, err := Mix(p, []float32{0.3, 0.7}, false)
	require.NoError(t, err)

	weights, err := SolveWeights(target, p)
	require.NoError(t, err)
	require.Len(t, weights, 2)

	recovered, err := Mix(p, weights, false)
	require.NoError(t, err)
	assert.InDelta(t, target.K.X, recovered.K.X, 0.05)
	assert.InDelta(t, target.S.X, recovered.S.X, 0.05)
}

func TestHoyerSparsityRangeAndExtremes(t *testing.T) {
	sparse := hoyerSparsity([]float32{1, 0, 0, 0})
	dense := hoyerSparsity([]float32{0.25, 0.25, 0.25, 0.25})
	assert.InDelta(t, float32(0), sparse, 1e-3)
	assert.InDelta(t, float32(1), dense, 1e-3)
}

func TestPaletteJSONRoundTrip(t *testing.T) {
	p := samplePalette()
	data, err := p.MarshalJSON()
	require.NoError(t, err)

	got, err := DecodePalette(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got.Paints, 2)
	for i := range p.Paints {
		assert.InDelta(t, p.Paints[i].K.X, got.Paints[i].K.X, 1e-9)
		assert.InDelta(t, p.Paints[i].S.Z, got.Paints[i].S.Z, 1e-9)
	}
}

func TestDecodePaletteMalformedIsInvalidFormat(t *testing.T) {
	_, err := DecodePalette(bytes.NewReader([]byte("not json")))
	assert.ErrorIs(t, err, perr.ErrInvalidFormat)
}

func TestExtractPaletteReturnsRequestedCount(t *testing.T) {
	img := vecf.NewVector3Matrix(40, 40)
	for r := 0; r < 40; r++ {
		for c := 0; c < 40; c++ {
			img.SetUnchecked(r, c, vecf.Vec3(float32(r)/40, float32(c)/40, 0.5))
		}
	}
	colors := ExtractPalette(img, 6)
	assert.LessOrEqual(t, len(colors), 6)
	assert.Greater(t, len(colors), 0)
}
