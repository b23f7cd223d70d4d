// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat3

// PolarDecompose returns the right polar decomposition M = R·S, with R
// orthogonal (R=U·Vᵀ) and S symmetric positive-semidefinite
// (S=V·diag(Σ)·Vᵀ), via the SVD of M.
func PolarDecompose(m Mat3) (r, s Mat3) {
	u, v, sigma := SVD(m)
	r = u.Mul(v.Transpose())
	s = v.Mul(Diag(sigma)).Mul(v.Transpose())
	return
}

// PolarRot returns only the rotation part R=U·Vᵀ of the polar
// decomposition of m.
func PolarRot(m Mat3) Mat3 {
	u, v, _ := SVD(m)
	return u.Mul(v.Transpose())
}

// RotationDifferential returns dR, the directional derivative of the
// rotation factor of m=R·S along a perturbation dM, given the already
// computed R and S of m (the McAdams/Selle/Teran skew-system solve used
// by corotational solid solvers to linearize the polar decomposition
// without re-running the SVD). With W = Rᵀ·dR = skew(w), it solves
//
//	W·S + S·W = Rᵀ·dM − dMᵀ·R
//
// (a symmetric 3×3 system with diagonal S_jj+S_kk and off-diagonals
// −S_ij) for the skew-vector w=(w0,w1,w2), then returns dR = R·skew(w).
func RotationDifferential(r, s, dm Mat3) Mat3 {
	rt := r.Transpose()
	asym := rt.Mul(dm).Sub(dm.Transpose().Mul(r))
	b := Vec3{asym[2][1], asym[0][2], asym[1][0]}
	g := Mat3{
		{s[1][1] + s[2][2], -s[0][1], -s[0][2]},
		{-s[0][1], s[0][0] + s[2][2], -s[1][2]},
		{-s[0][2], -s[1][2], s[0][0] + s[1][1]},
	}
	w := solveSym3(g, b)
	skew := Mat3{
		{0, -w[2], w[1]},
		{w[2], 0, -w[0]},
		{-w[1], w[0], 0},
	}
	return r.Mul(skew)
}

// solveSym3 solves a·w=b for a 3×3 system via Cramer's rule, using Det
// and column substitution rather than a general LU factorization since
// the system is always exactly 3×3.
func solveSym3(a Mat3, b Vec3) Vec3 {
	det := a.Det()
	if det == 0 {
		return Vec3{}
	}
	col := func(k int) (c Mat3) {
		c = a
		c[0][k], c[1][k], c[2][k] = b[0], b[1], b[2]
		return
	}
	return Vec3{col(0).Det() / det, col(1).Det() / det, col(2).Det() / det}
}
