// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixer

import (
	"github.com/chewxy/math32"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/vecf"
)

// Mix computes the weighted linear combination of a palette's paints,
// per spec section 4.H: K = sum(w_i*K_i), S = sum(w_i*S_i), optionally
// renormalized so the weights sum to 1 first.
func Mix(palette *Palette, weights []float32, normalize bool) (Paint, error) {
	if len(palette.Paints) == 0 {
		return Paint{}, perr.Invalid("mix: empty palette")
	}
	if len(weights) != len(palette.Paints) {
		return Paint{}, perr.Invalid("mix: %d weights for %d paints", len(weights), len(palette.Paints))
	}

	w := weights
	if normalize {
		var sum float32
		for _, wi := range weights {
			sum += wi
		}
		if sum > 1e-9 {
			w = make([]float32, len(weights))
			for i, wi := range weights {
				w[i] = wi / sum
			}
		}
	}

	var k, s vecf.Vector3
	for i, paint := range palette.Paints {
		k = k.Add(paint.K.MulScalar(w[i]))
		s = s.Add(paint.S.MulScalar(w[i]))
	}
	return Paint{K: k, S: s}, nil
}

// hoyerSparsity computes the Hoyer sparsity criterion of spec section
// 4.H: 1 - (sqrt(n) - ||w||_1/||w||_2) / (sqrt(n) - 1), in [0, 1]: 0 when
// a single weight is nonzero and 1 when all weights are equal. It returns
// 0 for w=0, where the ratio is undefined.
func hoyerSparsity(w []float32) float32 {
	n := len(w)
	if n <= 1 {
		return 0
	}
	var l1, l2sq float32
	for _, wi := range w {
		a := math32.Abs(wi)
		l1 += a
		l2sq += a * a
	}
	l2 := math32.Sqrt(l2sq)
	if l2 < 1e-12 {
		return 0
	}
	sqrtN := math32.Sqrt(float32(n))
	return 1 - (sqrtN-l1/l2)/(sqrtN-1)
}
