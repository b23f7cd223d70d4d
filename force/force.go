// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package force implements the constitutive force stage (spec §4.5):
// per-particle hardening of the Lamé parameters, the fixed-corotated
// stress, and its scatter to nodal force. The structure — compute scalar
// invariants, then the stress, then scatter — follows
// msolid/hyperelast1.go's CalcSig, translated from the teacher's
// Mandel-vector strain energy model to spec.md's dense 3×3
// fixed-corotated one.
package force

import (
	"sync"

	"github.com/cpmech/snowmpm/bspline"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/simerr"
	"github.com/cpmech/snowmpm/snow"
)

// gravityZ is the reference scene's gravity: the z axis is "up", so
// gravity acts along -z (spec §4.5).
const gravityZ = -9.8

// InitGravity sets every massive node's force to gravity, the
// initialization spec §4.5 requires before the stress contribution is
// accumulated.
func InitGravity(g *grid.Grid) {
	for i := range g.Nodes {
		g.Nodes[i].Force = mat3.Vec3{0, 0, gravityZ * g.Nodes[i].Mass}
	}
}

// Stress returns the fixed-corotated first Piola-Kirchhoff-like stress P
// for a particle with elastic deformation gradient fe, plastic
// determinant jp, and hardened material constants from mat.
func Stress(fe mat3.Mat3, jp float64, mat snow.Params) (mat3.Mat3, error) {
	je := fe.Det()
	if je <= 0 {
		return mat3.Mat3{}, simerr.NewNumericalError("force: det(F_E)=%v is not positive", je)
	}
	mu, lambda := mat.Lame(jp)
	re := mat3.PolarRot(fe)
	term1 := fe.Sub(re).Scale(2 * mu).Mul(fe.Transpose())
	term2 := mat3.Identity().Scale(lambda * (je - 1) * je)
	return term1.Add(term2), nil
}

// Accumulate adds the stress-driven nodal force contribution of every
// particle on top of the gravity already set by InitGravity (spec §4.5
// step 4: f_g -= volume0·P·∇w). When workers > 1 particles are chunked
// across goroutines, each writing into a private per-node force
// accumulator that is reduced sequentially afterward (spec §5).
func Accumulate(g *grid.Grid, set *particle.Set, mat snow.Params, workers int) error {
	n := len(g.Nodes)
	np := set.Len()
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || np < workers {
		acc := make([]mat3.Vec3, n)
		if err := accumulateRange(g, set, 0, np, mat, acc); err != nil {
			return err
		}
		mergeForce(g, acc)
		return nil
	}

	chunk := (np + workers - 1) / workers
	accs := make([][]mat3.Vec3, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > np {
			end = np
		}
		if start >= end {
			continue
		}
		accs[w] = make([]mat3.Vec3, n)
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = accumulateRange(g, set, start, end, mat, accs[w])
		}(w, start, end)
	}
	wg.Wait()
	for w := range errs {
		if errs[w] != nil {
			return errs[w]
		}
	}
	for w := range accs {
		if accs[w] != nil {
			mergeForce(g, accs[w])
		}
	}
	return nil
}

func accumulateRange(g *grid.Grid, set *particle.Set, start, end int, mat snow.Params, acc []mat3.Vec3) error {
	for pi := start; pi < end; pi++ {
		p := &set.Items[pi]
		jp := p.DeformPlastic.Det()
		stress, err := Stress(p.DeformElastic, jp, mat)
		if err != nil {
			return err
		}
		scaled := stress.Scale(p.Volume0)
		win := bspline.Eval3D(p.Position, g.H, g.InvH)
		win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, _ float64, gradW mat3.Vec3) {
			if gradW == (mat3.Vec3{}) {
				return
			}
			i := g.Index(ix, iy, iz)
			acc[i] = acc[i].Sub(scaled.MulVec(gradW))
		})
	}
	return nil
}

func mergeForce(g *grid.Grid, acc []mat3.Vec3) {
	for i := range g.Nodes {
		if acc[i] == (mat3.Vec3{}) {
			continue
		}
		g.Nodes[i].Force = g.Nodes[i].Force.Add(acc[i])
	}
}
