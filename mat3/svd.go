// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat3

import "math"

// svdSweeps bounds the one-sided Jacobi iteration; 3×3 matrices converge
// in a handful of sweeps (each sweep zeroes all 3 off-diagonal pairs).
const svdSweeps = 40

// svdTol is the off-diagonal convergence tolerance on AᵀA.
const svdTol = 1e-15

// SVD returns the singular value decomposition F = U·diag(Σ)·Vᵀ with full
// U and V, Σ sorted in decreasing order and det(U)=det(V)=+1. A one-sided
// Jacobi sweep is used instead of a QR-preconditioned bidiagonalization:
// for the 3×3, possibly near-singular deformation gradients this solver
// works with, Jacobi stays accurate without a separate rank-revealing
// preconditioning step.
func SVD(f Mat3) (u, v Mat3, sigma Vec3) {
	a := f
	v = Identity()

	colDot := func(m Mat3, p, q int) float64 {
		return m[0][p]*m[0][q] + m[1][p]*m[1][q] + m[2][p]*m[2][q]
	}
	rotateCols := func(m *Mat3, p, q int, c, s float64) {
		for i := 0; i < 3; i++ {
			ap, aq := m[i][p], m[i][q]
			m[i][p] = c*ap - s*aq
			m[i][q] = s*ap + c*aq
		}
	}

	pairs := [3][2]int{{0, 1}, {0, 2}, {1, 2}}
	for sweep := 0; sweep < svdSweeps; sweep++ {
		offSum := 0.0
		for _, pq := range pairs {
			p, q := pq[0], pq[1]
			alpha := colDot(a, p, p)
			beta := colDot(a, q, q)
			gamma := colDot(a, p, q)
			offSum += gamma * gamma
			if math.Abs(gamma) < 1e-300 {
				continue
			}
			zeta := (beta - alpha) / (2 * gamma)
			var t float64
			if zeta >= 0 {
				t = 1.0 / (zeta + math.Sqrt(1+zeta*zeta))
			} else {
				t = -1.0 / (-zeta + math.Sqrt(1+zeta*zeta))
			}
			c := 1.0 / math.Sqrt(1+t*t)
			s := c * t
			rotateCols(&a, p, q, c, s)
			rotateCols(&v, p, q, c, s)
		}
		if offSum < svdTol {
			break
		}
	}

	// column norms of a are the singular values; normalize columns into u
	for j := 0; j < 3; j++ {
		nrm := math.Sqrt(colDot(a, j, j))
		sigma[j] = nrm
		if nrm > 1e-300 {
			for i := 0; i < 3; i++ {
				u[i][j] = a[i][j] / nrm
			}
		}
	}
	completeDegenerateColumns(&u, sigma)
	sortDescending(&u, &v, &sigma)
	fixSigns(&u, &v, &sigma)
	return
}

// completeDegenerateColumns replaces any near-zero singular-value column
// of u (left undefined by the normalization above) with a unit vector
// completing the other two columns into an orthonormal basis.
func completeDegenerateColumns(u *Mat3, sigma Vec3) {
	col := func(m Mat3, j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }
	setCol := func(m *Mat3, j int, v Vec3) {
		m[0][j], m[1][j], m[2][j] = v[0], v[1], v[2]
	}
	cross := func(a, b Vec3) Vec3 {
		return Vec3{
			a[1]*b[2] - a[2]*b[1],
			a[2]*b[0] - a[0]*b[2],
			a[0]*b[1] - a[1]*b[0],
		}
	}
	for j := 0; j < 3; j++ {
		if sigma[j] > 1e-300 {
			continue
		}
		j1, j2 := (j+1)%3, (j+2)%3
		c := cross(col(*u, j1), col(*u, j2))
		n := c.Norm()
		if n < 1e-300 {
			// both other columns degenerate too (F == 0); fall back to
			// the standard basis vector not already in use.
			c = Vec3{}
			c[j] = 1
			n = 1
		}
		setCol(u, j, c.Scale(1/n))
	}
}

// sortDescending reorders the columns of u, v and the entries of sigma so
// that sigma[0] >= sigma[1] >= sigma[2].
func sortDescending(u, v *Mat3, sigma *Vec3) {
	swapCol := func(m *Mat3, i, j int) {
		m[0][i], m[0][j] = m[0][j], m[0][i]
		m[1][i], m[1][j] = m[1][j], m[1][i]
		m[2][i], m[2][j] = m[2][j], m[2][i]
	}
	idx := [3]int{0, 1, 2}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2-i; j++ {
			if sigma[idx[j]] < sigma[idx[j+1]] {
				idx[j], idx[j+1] = idx[j+1], idx[j]
			}
		}
	}
	if idx == [3]int{0, 1, 2} {
		return
	}
	// apply the permutation via successive column swaps
	placed := [3]bool{}
	order := idx
	for dst := 0; dst < 3; dst++ {
		if placed[dst] {
			continue
		}
		src := order[dst]
		if src == dst {
			placed[dst] = true
			continue
		}
		swapCol(u, dst, src)
		swapCol(v, dst, src)
		sigma[dst], sigma[src] = sigma[src], sigma[dst]
		// the element that was at dst is now at src; track it
		for k := range order {
			if order[k] == dst {
				order[k] = src
			}
		}
		placed[dst] = true
	}
}

// fixSigns enforces det(u)=det(v)=+1 by flipping the sign of the
// smallest-singular-value column (index 2, after sorting) together with
// the corresponding entry of sigma, which leaves u·diag(sigma)·vᵀ
// unchanged. For F with det(F) > 0 (the only case the elastic
// deformation gradient is allowed to be in, spec §3) det(u) and det(v)
// are always equal before this correction, so sigma[2] ends up
// nonnegative again once both flips (if any) are applied.
func fixSigns(u, v *Mat3, sigma *Vec3) {
	negCol := func(m *Mat3, j int) {
		m[0][j] = -m[0][j]
		m[1][j] = -m[1][j]
		m[2][j] = -m[2][j]
	}
	negU := u.Det() < 0
	negV := v.Det() < 0
	if negU {
		negCol(u, 2)
		sigma[2] = -sigma[2]
	}
	if negV {
		negCol(v, 2)
		sigma[2] = -sigma[2]
	}
}
