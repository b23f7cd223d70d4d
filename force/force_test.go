// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package force

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/snow"
)

func Test_initgravity01(tst *testing.T) {

	chk.PrintTitle("initgravity01: massive nodes get f=(0,0,-9.8m), massless nodes get zero")

	g := grid.New(4, 4, 4, 0.1)
	g.Nodes[0].Mass = 2.0
	InitGravity(g)

	chk.Vector(tst, "massive node force", 1e-12, g.Nodes[0].Force[:], []float64{0, 0, gravityZ * 2.0})
	chk.Vector(tst, "massless node force", 1e-12, g.Nodes[1].Force[:], []float64{0, 0, 0})
}

func Test_stress01_undeformed(tst *testing.T) {

	chk.PrintTitle("stress01: F_E=I, J_P=1 gives zero stress (no deformation, no hardening)")

	mat := snow.Default()
	p, err := Stress(mat3.Identity(), 1.0, mat)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
	}
	chk.Matrix(tst, "P", 1e-12, [][]float64{p[0][:], p[1][:], p[2][:]}, [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
}

func Test_stress02_singular_fails(tst *testing.T) {

	chk.PrintTitle("stress02: det(F_E)<=0 returns a NumericalError")

	mat := snow.Default()
	singular := mat3.Mat3{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	_, err := Stress(singular, 1.0, mat)
	if err == nil {
		tst.Errorf("expected an error for a singular deformation gradient")
	}
}

func Test_accumulate01_parallel_matches_serial(tst *testing.T) {

	chk.PrintTitle("accumulate01: chunked parallel force accumulation matches serial")

	h := 0.1
	mat := snow.Default()

	build := func() (*grid.Grid, *particle.Set) {
		g := grid.New(12, 12, 12, h)
		var set particle.Set
		for i := 3; i < 8; i++ {
			for j := 3; j < 8; j++ {
				for k := 3; k < 8; k++ {
					pos := mat3.Vec3{(float64(i) + 0.4) * h, (float64(j) + 0.2) * h, (float64(k) + 0.7) * h}
					pp := particle.New(pos, mat3.Vec3{}, 1.0)
					pp.Volume0 = h * h * h
					pp.DeformElastic = mat3.Mat3{
						{1.05, 0.01, 0},
						{0, 0.97, 0},
						{0, 0, 1.02},
					}
					pp.DeformPlastic = mat3.Identity()
					set.Add(pp)
				}
			}
		}
		return g, &set
	}

	g1, set1 := build()
	g2, set2 := build()

	InitGravity(g1)
	InitGravity(g2)
	if err := Accumulate(g1, set1, mat, 1); err != nil {
		tst.Errorf("serial accumulate failed: %v", err)
	}
	if err := Accumulate(g2, set2, mat, 4); err != nil {
		tst.Errorf("parallel accumulate failed: %v", err)
	}

	for i := range g1.Nodes {
		chk.Vector(tst, "node force", 1e-9, g1.Nodes[i].Force[:], g2.Nodes[i].Force[:])
	}
}
