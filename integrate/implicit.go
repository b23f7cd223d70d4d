// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/snowmpm/bspline"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/snow"
)

// particleLin is the per-particle linearization data the implicit
// operator needs every conjugate-residual iteration: the elastic
// deformation gradient, its polar factors, its cofactor matrix, and the
// hardened Lamé constants, all frozen at the start of the solve (only
// the trial grid velocity changes from one application of the operator
// to the next, per spec §4.7).
type particleLin struct {
	fe, feT, r, s, cof mat3.Mat3
	je                 float64
	mu, lambda         float64
	volume0            float64
}

func precompute(set *particle.Set, mat snow.Params) []particleLin {
	out := make([]particleLin, set.Len())
	for i := range set.Items {
		p := &set.Items[i]
		fe := p.DeformElastic
		r, s := mat3.PolarDecompose(fe)
		mu, lambda := mat.Lame(p.DeformPlastic.Det())
		out[i] = particleLin{
			fe: fe, feT: fe.Transpose(), r: r, s: s,
			cof: mat3.Cofactor(fe), je: fe.Det(),
			mu: mu, lambda: lambda, volume0: p.Volume0,
		}
	}
	return out
}

// deltaForce computes the differential nodal force δf_g induced by the
// trial grid velocity field currently stored in every node's VNext
// (spec §4.7 steps 1-4): δF_E = Δt·(Σ_g v_g⊗∇w)·F_E, its rotation and
// Jacobian differentials, the resulting δP, and its scatter to the grid
// as δf_g -= volume0·δP·F_Eᵀ·∇w — mirroring force.Accumulate's
// stress-then-scatter shape, but differentiated.
func deltaForce(g *grid.Grid, set *particle.Set, pre []particleLin, dt float64) []mat3.Vec3 {
	out := make([]mat3.Vec3, len(g.Nodes))
	for pi := range set.Items {
		p := &set.Items[pi]
		lin := pre[pi]
		win := bspline.Eval3D(p.Position, g.H, g.InvH)

		var gradV mat3.Mat3
		win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, _ float64, gradW mat3.Vec3) {
			if gradW == (mat3.Vec3{}) {
				return
			}
			gradV = gradV.Add(mat3.Outer(g.At(ix, iy, iz).VNext, gradW))
		})

		dFe := gradV.Scale(dt).Mul(lin.fe)
		dP := deltaStress(lin, dFe)
		scaled := dP.Mul(lin.feT).Scale(lin.volume0)

		win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, _ float64, gradW mat3.Vec3) {
			if gradW == (mat3.Vec3{}) {
				return
			}
			i := g.Index(ix, iy, iz)
			out[i] = out[i].Sub(scaled.MulVec(gradW))
		})
	}
	return out
}

// deltaStress returns δP, the directional derivative spec §4.7 step 4
// specifies at the frozen linearization point lin along a
// deformation-gradient perturbation dFe:
// δP = 2μ·(δF_E−δR) + λ·(cof(F_E)·δJ_E + (J_E−1)·δcof(F_E)).
// The trailing F_Eᵀ factor of the §4.5 stress is deliberately left
// un-differentiated here — it is applied separately, against the
// frozen F_Eᵀ, when deltaForce scatters δP to the grid.
func deltaStress(lin particleLin, dFe mat3.Mat3) mat3.Mat3 {
	dR := mat3.RotationDifferential(lin.r, lin.s, dFe)
	dJe := mat3.Ddot(lin.cof, dFe)
	dCof := mat3.CofactorDeriv(lin.fe, dFe)
	term1 := dFe.Sub(dR).Scale(2 * lin.mu)
	term2 := lin.cof.Scale(dJe).Add(dCof.Scale(lin.je - 1)).Scale(lin.lambda)
	return term1.Add(term2)
}

func setNodeVNext(g *grid.Grid, flat []float64) {
	for i := range g.Nodes {
		g.Nodes[i].VNext = mat3.Vec3{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
}

// applyOperator evaluates A(x) = x - βΔt·M⁻¹·δf(x) on the flattened
// grid-velocity vector x. δf already carries one factor of Δt through
// δF_E, so this is the matrix-free operator the implicit system
// (I − βΔt²M⁻¹∂f/∂x)v = v* solves (spec §4.7).
func applyOperator(g *grid.Grid, set *particle.Set, pre []particleLin, dt, beta float64, x []float64) []float64 {
	setNodeVNext(g, x)
	df := deltaForce(g, set, pre, dt)
	out := make([]float64, len(x))
	for i := range g.Nodes {
		m := g.Nodes[i].Mass
		if m > 0 {
			coeff := beta * dt / m
			v := g.Nodes[i].VNext.Sub(df[i].Scale(coeff))
			out[3*i], out[3*i+1], out[3*i+2] = v[0], v[1], v[2]
		} else {
			v := g.Nodes[i].VNext
			out[3*i], out[3*i+1], out[3*i+2] = v[0], v[1], v[2]
		}
	}
	return out
}

func dot(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

// ImplicitSolve produces v^{n+1} from the post-collision v* (spec §4.7).
// When mat.Beta<=0 the implicit correction is a no-op and v^{n+1}=v*
// exactly, matching the reference's default-disabled implicit path
// (design note "Commented-out implicit solve in the driver"). Otherwise
// it runs a matrix-free conjugate-residual solve of
// (I − βΔt²M⁻¹∂f/∂x)v = v*, following fem/s_linimp.go's
// predictor-then-pluggable-linear-solve shape, capped at maxIter
// iterations and using gosl/la's vector ops for the flattened
// grid-velocity algebra.
func ImplicitSolve(g *grid.Grid, set *particle.Set, mat snow.Params, dt float64, maxIter int, tol float64) error {
	if mat.Beta <= 0 {
		for i := range g.Nodes {
			g.Nodes[i].VNext = g.Nodes[i].VStar
		}
		return nil
	}

	n := len(g.Nodes)
	pre := precompute(set, mat)

	b := make([]float64, 3*n)
	for i := range g.Nodes {
		v := g.Nodes[i].VStar
		b[3*i], b[3*i+1], b[3*i+2] = v[0], v[1], v[2]
	}

	x := make([]float64, 3*n)
	la.VecCopy(x, 1, b)

	r := make([]float64, 3*n)
	ax := applyOperator(g, set, pre, dt, mat.Beta, x)
	for i := range r {
		r[i] = b[i] - ax[i]
	}

	zero := make([]float64, 3*n)
	la.VecFill(zero, 0)
	if la.VecNorm(r) == 0 {
		setNodeVNext(g, x)
		return nil
	}

	p := make([]float64, 3*n)
	la.VecCopy(p, 1, r)
	ar := applyOperator(g, set, pre, dt, mat.Beta, r)
	ap := make([]float64, 3*n)
	la.VecCopy(ap, 1, ar)
	rAr := dot(r, ar)

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		apNormSq := dot(ap, ap)
		if apNormSq == 0 {
			converged = true
			break
		}
		alpha := rAr / apNormSq
		la.VecAdd(x, alpha, p)
		la.VecAdd(r, -alpha, ap)

		if la.VecRmsError(r, zero, tol, tol, b) < 1 {
			converged = true
			break
		}

		arNew := applyOperator(g, set, pre, dt, mat.Beta, r)
		rArNew := dot(r, arNew)
		if rAr == 0 {
			converged = true
			break
		}
		betaCR := rArNew / rAr

		la.VecAdd2(p, 1, r, betaCR, p)
		la.VecAdd2(ap, 1, arNew, betaCR, ap)
		rAr = rArNew
	}
	if !converged {
		io.PfYel("integrate: conjugate-residual solve did not reach tolerance %v in %d iterations\n", tol, maxIter)
	}

	setNodeVNext(g, x)
	return nil
}
