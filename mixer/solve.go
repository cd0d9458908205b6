// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixer

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/kubelkamunk"
	"github.com/painty/painty/vecf"
)

// Regularization weights named in spec section 4.H.
const (
	lambdaSum    = 1.0
	lambdaSparse = 0.1
	maxSolverIterations = 200
)

// sigmoid and its use below reparameterize each weight w_i = sigmoid(x_i)
// in (0,1), turning the box-constrained problem into an unconstrained
// one solvable by gonum's BFGS, per spec section 4.H's "0 <= w_i <= 1".
func sigmoid(x float32) float32 { return 1 / (1 + math32.Exp(-x)) }

func weightsFromParams(x []float64) []float32 {
	w := make([]float32, len(x))
	for i, xi := range x {
		w[i] = sigmoid(float32(xi))
	}
	return w
}

// SolveWeights finds the palette weights that best approximate a target
// paint (K*, S*), per spec section 4.H: minimizes
//
//	sum((sum w_i K_i - K*)^2 + (sum w_i S_i - S*)^2) +
//	  lambdaSum*(1-sum w_i)^2 + lambdaSparse*hoyerSparsity(w)
//
// subject to 0 <= w_i <= 1, via gonum's BFGS quasi-Newton line-search
// minimizer over a sigmoid-reparameterized unconstrained problem, with
// finite-difference gradients. It is not a Levenberg-Marquardt or
// trust-region method. A solver that fails to converge reports
// ErrSolverFailed but still returns the last iterate (uniform weights if
// the solver produced none), per spec section 7's propagation policy.
func SolveWeights(target Paint, palette *Palette) ([]float32, error) {
	n := palette.Len()
	if n == 0 {
		return nil, perr.Invalid("solve weights: empty palette")
	}

	objective := func(x []float64) float64 {
		w := weightsFromParams(x)
		return float64(weightedResidual(w, palette, target))
	}

	x0 := make([]float64, n)
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}

	result, err := optimize.Minimize(problem, x0, &optimize.Settings{
		MajorIterations: maxSolverIterations,
	}, &optimize.BFGS{})

	weights := uniformWeights(n)
	if result != nil {
		weights = weightsFromParams(result.X)
	}
	if err != nil {
		return weights, perr.SolverFailed("solve weights: %v", err)
	}
	return weights, nil
}

// weightedResidual computes the spec section 4.H objective for a given
// weight vector.
func weightedResidual(w []float32, palette *Palette, target Paint) float32 {
	var k, s vecf.Vector3
	var sum float32
	for i, paint := range palette.Paints {
		k = k.Add(paint.K.MulScalar(w[i]))
		s = s.Add(paint.S.MulScalar(w[i]))
		sum += w[i]
	}
	dk := k.Sub(target.K)
	ds := s.Sub(target.S)
	residual := dk.X*dk.X + dk.Y*dk.Y + dk.Z*dk.Z + ds.X*ds.X + ds.Y*ds.Y + ds.Z*ds.Z
	residual += lambdaSum * (1 - sum) * (1 - sum)
	residual += lambdaSparse * hoyerSparsity(w)
	return residual
}

// uniformWeights returns the initial-iterate fallback of spec section
// 7: "a neutral mixture" when the solver fails before producing any
// iterate at all.
func uniformWeights(n int) []float32 {
	w := make([]float32, n)
	if n == 0 {
		return w
	}
	v := float32(1) / float32(n)
	for i := range w {
		w[i] = v
	}
	return w
}

// SolveWeightsAndThickness finds the palette weights and layer thickness
// that best approximate a target reflectance targetR over background
// r0, per spec section 4.H: the optimized reflectance is
// ReflectanceFromKM(sum(w*K), sum(w*S), r0, d), bounds 1e-9 <= d <= 5.0,
// with the same regularizers on w.
func SolveWeightsAndThickness(targetR, r0 vecf.Vector3, palette *Palette) ([]float32, float32, error) {
	n := palette.Len()
	if n == 0 {
		return nil, 0, perr.Invalid("solve weights and thickness: empty palette")
	}

	const (
		minD  = 1e-9
		maxD  = 5.0
		dSpan = maxD - minD
	)
	// The last parameter maps through a clamped sigmoid into [minD, maxD].
	toD := func(x float64) float32 { return minD + dSpan*sigmoid(float32(x)) }

	objective := func(x []float64) float64 {
		w := weightsFromParams(x[:n])
		d := toD(x[n])
		var k, s vecf.Vector3
		var sum float32
		for i, paint := range palette.Paints {
			k = k.Add(paint.K.MulScalar(w[i]))
			s = s.Add(paint.S.MulScalar(w[i]))
			sum += w[i]
		}
		r := kubelkamunk.Reflectance(k, s, r0, d)
		diff := r.Sub(targetR)
		residual := diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z
		residual += lambdaSum * (1 - sum) * (1 - sum)
		residual += lambdaSparse * hoyerSparsity(w)
		return float64(residual)
	}

	x0 := make([]float64, n+1)
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}

	result, err := optimize.Minimize(problem, x0, &optimize.Settings{
		MajorIterations: maxSolverIterations,
	}, &optimize.BFGS{})

	weights := uniformWeights(n)
	thickness := float32(1.0)
	if result != nil {
		weights = weightsFromParams(result.X[:n])
		thickness = toD(result.X[n])
	}
	if err != nil {
		return weights, thickness, perr.SolverFailed("solve weights and thickness: %v", err)
	}
	return weights, thickness, nil
}
