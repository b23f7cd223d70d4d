// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xfer implements the particle↔grid transfer stage (spec §4.3,
// §4.4): P2G mass/momentum rasterization, the n==0 volume initialization
// tick, and the grid→particle gather helpers the particle update (§4.9)
// shares with it. The parallel path follows the snapshot +
// per-worker-scratch + sync.WaitGroup chunking pattern used for
// data-parallel per-entity updates elsewhere in the example corpus,
// giving each worker a private grid-sized accumulator so concurrent
// writes to a shared node never race (spec §5).
package xfer

import (
	"sync"

	"github.com/cpmech/snowmpm/bspline"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
)

// massMomentum is a private per-worker accumulator, one entry per grid
// node, merged into the shared grid after the parallel phase.
type massMomentum struct {
	mass     []float64
	momentum []mat3.Vec3
}

func newMassMomentum(n int) massMomentum {
	return massMomentum{mass: make([]float64, n), momentum: make([]mat3.Vec3, n)}
}

func (a *massMomentum) add(i int, m float64, mv mat3.Vec3) {
	a.mass[i] += m
	a.momentum[i] = a.momentum[i].Add(mv)
}

// P2G rasterizes particle mass and momentum onto the grid and converts
// the accumulated momentum into nodal velocity (spec §4.3). The grid is
// assumed freshly zeroed (grid.Grid.Reset). When workers > 1 particles
// are partitioned into contiguous chunks, each processed by its own
// goroutine into a private accumulator; the accumulators are then
// reduced sequentially, satisfying the per-thread-private-accumulation
// contract of spec §5 without atomics.
func P2G(g *grid.Grid, set *particle.Set, workers int) {
	n := len(g.Nodes)
	if workers < 1 {
		workers = 1
	}
	np := set.Len()
	if np == 0 {
		finalizeVelocities(g)
		return
	}
	if workers == 1 || np < workers {
		acc := newMassMomentum(n)
		accumulateRange(g, set, 0, np, &acc)
		merge(g, &acc)
		finalizeVelocities(g)
		return
	}

	chunk := (np + workers - 1) / workers
	accs := make([]massMomentum, workers)
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
		accs[w] = newMassMomentum(n)
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			accumulateRange(g, set, start, end, &accs[w])
		}(w, start, end)
	}
	wg.Wait()
	for w := range accs {
		if accs[w].mass != nil {
			merge(g, &accs[w])
		}
	}
	finalizeVelocities(g)
}

func accumulateRange(g *grid.Grid, set *particle.Set, start, end int, acc *massMomentum) {
	for pi := start; pi < end; pi++ {
		p := &set.Items[pi]
		win := bspline.Eval3D(p.Position, g.H, g.InvH)
		mv := p.VCurr.Scale(p.Mass)
		win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, w float64, _ mat3.Vec3) {
			if w == 0 {
				return
			}
			i := g.Index(ix, iy, iz)
			acc.add(i, p.Mass*w, mv.Scale(w))
		})
	}
}

func merge(g *grid.Grid, acc *massMomentum) {
	for i := range g.Nodes {
		if acc.mass[i] == 0 {
			continue
		}
		g.Nodes[i].Mass += acc.mass[i]
		g.Nodes[i].VCurr = g.Nodes[i].VCurr.Add(acc.momentum[i])
	}
}

// finalizeVelocities converts the accumulated (m·v) momentum held in
// VCurr into actual velocity: v_g = (m·v)_g/m_g, or 0 where m_g==0.
func finalizeVelocities(g *grid.Grid) {
	for i := range g.Nodes {
		node := &g.Nodes[i]
		if node.Mass > 0 {
			node.VCurr = node.VCurr.Scale(1 / node.Mass)
		} else {
			node.VCurr = mat3.Vec3{}
		}
	}
}

// InitVolumes executes the n==0 initialization tick (spec §4.4): nodal
// density ρ_g=m_g/h³, gathered to each particle as ρ_p=Σ_g ρ_g·w, giving
// volume0_p = m_p/ρ_p. Must run exactly once, after P2G, before any
// other particle carries a stale Volume0.
func InitVolumes(g *grid.Grid, set *particle.Set) {
	h3 := g.H * g.H * g.H
	density := make([]float64, len(g.Nodes))
	for i := range g.Nodes {
		if g.Nodes[i].Mass > 0 {
			density[i] = g.Nodes[i].Mass / h3
		}
	}
	for pi := range set.Items {
		p := &set.Items[pi]
		win := bspline.Eval3D(p.Position, g.H, g.InvH)
		rho := 0.0
		win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, w float64, _ mat3.Vec3) {
			rho += density[g.Index(ix, iy, iz)] * w
		})
		if rho > 0 {
			p.Volume0 = p.Mass / rho
		}
	}
}

// VelocityGradient gathers Σ_g v_g⊗∇w(g,p) for particle p, reading the
// node velocity selected by useNext (true selects v^{n+1}, false v^n).
// The outer-product accumulation mirrors gosl/la.VecOuterAdd, the same
// operation gosl/la exposes for assembling outer-product contributions
// in FEM residual/stiffness work.
func VelocityGradient(g *grid.Grid, p *particle.Particle, useNext bool) mat3.Mat3 {
	win := bspline.Eval3D(p.Position, g.H, g.InvH)
	var sum mat3.Mat3
	win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, w float64, gradW mat3.Vec3) {
		if gradW == (mat3.Vec3{}) {
			return
		}
		node := g.At(ix, iy, iz)
		v := node.VCurr
		if useNext {
			v = node.VNext
		}
		sum = sum.Add(mat3.Outer(v, gradW))
	})
	return sum
}

// PICFLIPGather computes the PIC estimate (Σ_g v^{n+1}_g·w) and the FLIP
// increment (Σ_g (v^{n+1}_g − v^n_g)·w) for particle p in one pass over
// its window (spec §4.9 step 5).
func PICFLIPGather(g *grid.Grid, p *particle.Particle) (vPic, flipDelta mat3.Vec3) {
	win := bspline.Eval3D(p.Position, g.H, g.InvH)
	win.ForEach(g.Nx, g.Ny, g.Nz, func(ix, iy, iz int, w float64, _ mat3.Vec3) {
		if w == 0 {
			return
		}
		node := g.At(ix, iy, iz)
		vPic = vPic.Add(node.VNext.Scale(w))
		flipDelta = flipDelta.Add(node.VNext.Sub(node.VCurr).Scale(w))
	})
	return
}
