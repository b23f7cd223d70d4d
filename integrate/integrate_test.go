// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/snowmpm/collide"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/snow"
)

func Test_explicit01(tst *testing.T) {

	chk.PrintTitle("explicit01: v* = v + dt*f/m on a massive node, zero on a massless one")

	g := grid.New(2, 2, 2, 0.1)
	g.Nodes[0].Mass = 2.0
	g.Nodes[0].VCurr = mat3.Vec3{1, 0, 0}
	g.Nodes[0].Force = mat3.Vec3{0, 0, -4.0}

	Explicit(g, 0.5)

	chk.Vector(tst, "vstar massive", 1e-12, g.Nodes[0].VStar[:], []float64{1, 0, -1})
	chk.Vector(tst, "vstar massless", 1e-12, g.Nodes[1].VStar[:], []float64{0, 0, 0})
}

func Test_collide01_floor_stick(tst *testing.T) {

	chk.PrintTitle("collide01: a node sinking into the floor sticks (scenario S2 flavor)")

	g := grid.New(2, 2, 2, 0.1)
	g.Nodes[0].Location = [3]int{0, 0, 0}
	g.Nodes[0].Mass = 1.0
	g.Nodes[0].VStar = mat3.Vec3{0.5, 0, -1.0}

	floor := collide.NewFloor(0.0, 1.0)
	Collide(g, []collide.Collider{floor})

	chk.Vector(tst, "vstar after collision", 1e-12, g.Nodes[0].VStar[:], []float64{0, 0, 0})
}

// reducedStress computes spec §4.5 step 3's stress with the trailing
// F_Eᵀ factor taken off both terms (P·F_E⁻ᵀ, using J_E·I = cof(F_E)·F_Eᵀ):
// 2μ·(F_E−R_E) + λ·(J_E−1)·cof(F_E). deltaStress is the literal
// directional derivative of exactly this reduced quantity (spec §4.7
// step 4), not of force.Stress's full F_Eᵀ-multiplied P.
func reducedStress(fe mat3.Mat3, jp float64, mat snow.Params) mat3.Mat3 {
	je := fe.Det()
	mu, lambda := mat.Lame(jp)
	re := mat3.PolarRot(fe)
	return fe.Sub(re).Scale(2 * mu).Add(mat3.Cofactor(fe).Scale(lambda * (je - 1)))
}

func Test_deltastress01_finite_difference(tst *testing.T) {

	chk.PrintTitle("deltastress01: finite-difference check of deltaStress against the literal spec reduced-stress formula (not force.Stress's full tangent)")

	mat := snow.Default()
	fe0 := mat3.Mat3{
		{1.05, 0.02, 0.0},
		{0.0, 0.97, 0.01},
		{-0.01, 0.0, 1.02},
	}
	jp := 1.0
	pre := precompute(&particle.Set{Items: []particle.Particle{{
		DeformElastic: fe0,
		DeformPlastic: mat3.Identity(),
		Volume0:       1.0,
	}}}, mat)
	lin := pre[0]

	dFeDir := mat3.Mat3{
		{0.01, 0.0, 0.002},
		{0.003, -0.02, 0.0},
		{0.0, 0.001, 0.015},
	}
	analytic := deltaStress(lin, dFeDir)

	var fd mat3.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			i, j := i, j
			deriv, err := num.DerivCentral(func(t float64, args ...interface{}) float64 {
				fe := fe0.Add(dFeDir.Scale(t))
				return reducedStress(fe, jp, mat)[i][j]
			}, 0, 1e-3)
			if err != nil {
				tst.Fatalf("num.DerivCentral failed: %v", err)
			}
			fd[i][j] = deriv
		}
	}

	chk.Vector(tst, "deltaStress vs num.DerivCentral",
		1e-4,
		[]float64{analytic[0][0], analytic[0][1], analytic[0][2], analytic[1][0], analytic[1][1], analytic[1][2], analytic[2][0], analytic[2][1], analytic[2][2]},
		[]float64{fd[0][0], fd[0][1], fd[0][2], fd[1][0], fd[1][1], fd[1][2], fd[2][0], fd[2][1], fd[2][2]},
	)
}

func Test_implicitsolve01_disabled_passthrough(tst *testing.T) {

	chk.PrintTitle("implicitsolve01: beta<=0 leaves v_next == v_star untouched")

	g := grid.New(3, 3, 3, 0.1)
	g.Nodes[0].Mass = 1.0
	g.Nodes[0].VStar = mat3.Vec3{1, 2, 3}

	mat := snow.Default()
	mat.Beta = 0
	var set particle.Set
	if err := ImplicitSolve(g, &set, mat, 1e-3, 20, 1e-8); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "vnext == vstar", 1e-15, g.Nodes[0].VNext[:], g.Nodes[0].VStar[:])
}

func Test_implicitsolve02_converges_with_particles(tst *testing.T) {

	chk.PrintTitle("implicitsolve02: conjugate-residual solve runs to convergence on a small cloud")

	h := 0.1
	g := grid.New(8, 8, 8, h)
	var set particle.Set
	for i := 2; i < 5; i++ {
		for j := 2; j < 5; j++ {
			for k := 2; k < 5; k++ {
				pos := mat3.Vec3{(float64(i) + 0.3) * h, (float64(j) + 0.6) * h, (float64(k) + 0.1) * h}
				pp := particle.New(pos, mat3.Vec3{}, 1.0)
				pp.Volume0 = h * h * h
				pp.DeformElastic = mat3.Mat3{
					{1.01, 0, 0},
					{0, 0.99, 0},
					{0, 0, 1.0},
				}
				pp.DeformPlastic = mat3.Identity()
				set.Add(pp)
			}
		}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Location[0] >= 2 && g.Nodes[i].Location[0] <= 5 {
			g.Nodes[i].Mass = 1.0
			g.Nodes[i].VStar = mat3.Vec3{0.01, 0, -0.02}
		}
	}

	mat := snow.Default()
	mat.Beta = 0.5
	if err := ImplicitSolve(g, &set, mat, 1e-3, 50, 1e-6); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	for i := range g.Nodes {
		if g.Nodes[i].Mass > 0 && !g.Nodes[i].VNext.IsFinite() {
			tst.Errorf("node %d produced a non-finite velocity: %v", i, g.Nodes[i].VNext)
		}
	}
}
