// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vecf provides the numeric primitives of the painting engine:
// small fixed-size float32 vectors and a generic 2-D matrix container
// with bilinear sampling, resizing, padding, and rotation. Modeled on
// cogentcore.org/core/math32's Vector2/Vector3 API.
package vecf

import "github.com/chewxy/math32"

// Vector2 is a 2-component float32 vector, used for canvas positions,
// spline control points, and UV coordinates.
type Vector2 struct {
	X, Y float32
}

// Vec2 returns a new Vector2 with the given components.
func Vec2(x, y float32) Vector2 { return Vector2{x, y} }

// Add returns a+b.
func (a Vector2) Add(b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }

// Sub returns a-b.
func (a Vector2) Sub(b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }

// MulScalar returns a*s.
func (a Vector2) MulScalar(s float32) Vector2 { return Vector2{a.X * s, a.Y * s} }

// Dot returns the dot product of a and b.
func (a Vector2) Dot(b Vector2) float32 { return a.X*b.X + a.Y*b.Y }

// Length returns the Euclidean norm of a.
func (a Vector2) Length() float32 { return math32.Sqrt(a.Dot(a)) }

// Normal returns a normalized to unit length, or the zero vector if a is
// (near) zero.
func (a Vector2) Normal() Vector2 {
	l := a.Length()
	if l < 1e-12 {
		return Vector2{}
	}
	return a.MulScalar(1 / l)
}

// Perp returns the vector rotated 90 degrees counter-clockwise,
// i.e. (-y, x), used to build ribbon offsets in the texture brush.
func (a Vector2) Perp() Vector2 { return Vector2{-a.Y, a.X} }

// Distance returns the Euclidean distance between a and b.
func (a Vector2) Distance(b Vector2) float32 { return a.Sub(b).Length() }

// Lerp returns the linear interpolation between a and b at parameter t.
func (a Vector2) Lerp(b Vector2, t float32) Vector2 {
	return Vector2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Vector3 is a 3-component float32 vector used throughout for linear-RGB
// reflectances and Kubelka-Munk (K, S) coefficients.
type Vector3 struct {
	X, Y, Z float32
}

// Vec3 returns a new Vector3 with the given components.
func Vec3(x, y, z float32) Vector3 { return Vector3{x, y, z} }

// Vec3Scalar returns a Vector3 with all three components set to s.
func Vec3Scalar(s float32) Vector3 { return Vector3{s, s, s} }

// Add returns a+b.
func (a Vector3) Add(b Vector3) Vector3 { return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a-b.
func (a Vector3) Sub(b Vector3) Vector3 { return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Mul returns the component-wise product of a and b.
func (a Vector3) Mul(b Vector3) Vector3 { return Vector3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

// Div returns the component-wise quotient of a and b.
func (a Vector3) Div(b Vector3) Vector3 { return Vector3{a.X / b.X, a.Y / b.Y, a.Z / b.Z} }

// MulScalar returns a*s.
func (a Vector3) MulScalar(s float32) Vector3 { return Vector3{a.X * s, a.Y * s, a.Z * s} }

// AddScalar returns a+s per component.
func (a Vector3) AddScalar(s float32) Vector3 { return Vector3{a.X + s, a.Y + s, a.Z + s} }

// At returns the i'th component (0=X, 1=Y, 2=Z).
func (a Vector3) At(i int) float32 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// SetAt sets the i'th component (0=X, 1=Y, 2=Z).
func (a *Vector3) SetAt(i int, v float32) {
	switch i {
	case 0:
		a.X = v
	case 1:
		a.Y = v
	default:
		a.Z = v
	}
}

// Map applies f to each component and returns the result.
func (a Vector3) Map(f func(float32) float32) Vector3 {
	return Vector3{f(a.X), f(a.Y), f(a.Z)}
}

// MapWith applies f component-wise between a and b.
func (a Vector3) MapWith(b Vector3, f func(x, y float32) float32) Vector3 {
	return Vector3{f(a.X, b.X), f(a.Y, b.Y), f(a.Z, b.Z)}
}

// Clamp clamps every component to [lo, hi].
func (a Vector3) Clamp(lo, hi float32) Vector3 {
	return a.Map(func(v float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	})
}

// MaxComponent returns the largest of the three components.
func (a Vector3) MaxComponent() float32 {
	m := a.X
	if a.Y > m {
		m = a.Y
	}
	if a.Z > m {
		m = a.Z
	}
	return m
}

// Lerp returns the linear interpolation between a and b at parameter t.
func (a Vector3) Lerp(b Vector3, t float32) Vector3 {
	return a.MulScalar(1 - t).Add(b.MulScalar(t))
}

// IsZero reports whether every component is exactly zero.
func (a Vector3) IsZero() bool { return a.X == 0 && a.Y == 0 && a.Z == 0 }
