// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mat3 implements the dense 3×3 matrix and 3-vector algebra that
// the snow solver needs for deformation-gradient bookkeeping: basic
// matrix algebra, the cofactor matrix and its directional derivative, the
// double contraction, and (in svd.go) a Jacobi-style singular value
// decomposition with full U and V.
package mat3

import "math"

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Mat3 is a row-major 3×3 matrix: M[row][col].
type Mat3 [3][3]float64

// Identity returns the 3×3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Add returns a+b.
func (a Mat3) Add(b Mat3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][j] + b[i][j]
		}
	}
	return
}

// Sub returns a-b.
func (a Mat3) Sub(b Mat3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][j] - b[i][j]
		}
	}
	return
}

// Scale returns s·a.
func (a Mat3) Scale(s float64) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = s * a[i][j]
		}
	}
	return
}

// Mul returns the matrix product a·b.
func (a Mat3) Mul(b Mat3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return
}

// MulVec returns a·v.
func (a Mat3) MulVec(v Vec3) (r Vec3) {
	for i := 0; i < 3; i++ {
		r[i] = a[i][0]*v[0] + a[i][1]*v[1] + a[i][2]*v[2]
	}
	return
}

// Transpose returns aᵀ.
func (a Mat3) Transpose() (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[j][i] = a[i][j]
		}
	}
	return
}

// Trace returns the sum of the diagonal entries.
func (a Mat3) Trace() float64 {
	return a[0][0] + a[1][1] + a[2][2]
}

// Det returns the determinant of a.
func (a Mat3) Det() float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// Outer returns the outer product u⊗v (Outer(u,v)[i][j] = u[i]*v[j]).
func Outer(u, v Vec3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = u[i] * v[j]
		}
	}
	return
}

// Ddot returns the double contraction Σ_ij A_ij·B_ij.
func Ddot(a, b Mat3) (s float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += a[i][j] * b[i][j]
		}
	}
	return
}

// Diag builds a diagonal matrix from a vector of singular/eigen values.
func Diag(d Vec3) Mat3 {
	return Mat3{
		{d[0], 0, 0},
		{0, d[1], 0},
		{0, 0, d[2]},
	}
}

// Cofactor returns cof(F) = det(F)·F⁻ᵀ, computed directly from the 2×2
// minors (never inverts F, so it stays well-defined even when F is
// singular).
func Cofactor(f Mat3) Mat3 {
	return Mat3{
		{
			f[1][1]*f[2][2] - f[1][2]*f[2][1],
			-(f[1][0]*f[2][2] - f[1][2]*f[2][0]),
			f[1][0]*f[2][1] - f[1][1]*f[2][0],
		},
		{
			-(f[0][1]*f[2][2] - f[0][2]*f[2][1]),
			f[0][0]*f[2][2] - f[0][2]*f[2][0],
			-(f[0][0]*f[2][1] - f[0][1]*f[2][0]),
		},
		{
			f[0][1]*f[1][2] - f[0][2]*f[1][1],
			-(f[0][0]*f[1][2] - f[0][2]*f[1][0]),
			f[0][0]*f[1][1] - f[0][1]*f[1][0],
		},
	}
}

// CofactorDeriv returns the directional derivative of cof(F) along df,
// obtained by differentiating each 2×2-minor term with the product rule
// (used by the implicit force differential, spec §4.7 step 3).
func CofactorDeriv(f, df Mat3) Mat3 {
	minor2 := func(a00, a01, a10, a11, d00, d01, d10, d11 float64) float64 {
		return d00*a11 + a00*d11 - d01*a10 - a01*d10
	}
	return Mat3{
		{
			minor2(f[1][1], f[1][2], f[2][1], f[2][2], df[1][1], df[1][2], df[2][1], df[2][2]),
			-minor2(f[1][0], f[1][2], f[2][0], f[2][2], df[1][0], df[1][2], df[2][0], df[2][2]),
			minor2(f[1][0], f[1][1], f[2][0], f[2][1], df[1][0], df[1][1], df[2][0], df[2][1]),
		},
		{
			-minor2(f[0][1], f[0][2], f[2][1], f[2][2], df[0][1], df[0][2], df[2][1], df[2][2]),
			minor2(f[0][0], f[0][2], f[2][0], f[2][2], df[0][0], df[0][2], df[2][0], df[2][2]),
			-minor2(f[0][0], f[0][1], f[2][0], f[2][1], df[0][0], df[0][1], df[2][0], df[2][1]),
		},
		{
			minor2(f[0][1], f[0][2], f[1][1], f[1][2], df[0][1], df[0][2], df[1][1], df[1][2]),
			-minor2(f[0][0], f[0][2], f[1][0], f[1][2], df[0][0], df[0][2], df[1][0], df[1][2]),
			minor2(f[0][0], f[0][1], f[1][0], f[1][1], df[0][0], df[0][1], df[1][0], df[1][1]),
		},
	}
}

// IsFinite reports whether every entry of a is finite (no NaN/Inf),
// the check spec §7 requires for NumericalError detection.
func (a Mat3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(a[i][j]) || math.IsInf(a[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// Add returns u+v.
func (u Vec3) Add(v Vec3) Vec3 { return Vec3{u[0] + v[0], u[1] + v[1], u[2] + v[2]} }

// Sub returns u-v.
func (u Vec3) Sub(v Vec3) Vec3 { return Vec3{u[0] - v[0], u[1] - v[1], u[2] - v[2]} }

// Scale returns s·u.
func (u Vec3) Scale(s float64) Vec3 { return Vec3{s * u[0], s * u[1], s * u[2]} }

// Dot returns u·v.
func (u Vec3) Dot(v Vec3) float64 { return u[0]*v[0] + u[1]*v[1] + u[2]*v[2] }

// Norm returns the Euclidean length of u.
func (u Vec3) Norm() float64 { return math.Sqrt(u.Dot(u)) }

// IsFinite reports whether every component of u is finite.
func (u Vec3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(u[i]) || math.IsInf(u[i], 0) {
			return false
		}
	}
	return true
}
