// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate implements the grid velocity update stage (spec
// §4.6, §4.7): the explicit Euler step that every tick takes, collision
// projection against the tick's colliders, and an optional matrix-free
// conjugate-residual implicit correction. The time-loop/linear-solve
// split follows fem/s_linimp.go's SolverLinearImplicit.Run, which also
// keeps an explicit predictor and an optional implicit correction behind
// one flag.
package integrate

import (
	"github.com/cpmech/snowmpm/collide"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
)

// Explicit computes v* = v + Δt·f/m for every massive node (spec §4.6).
// Massless nodes get v*=0: no particle carries nonzero weight to a node
// with zero mass, so their v* is never read during G2P.
func Explicit(g *grid.Grid, dt float64) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Mass > 0 {
			n.VStar = n.VCurr.Add(n.Force.Scale(dt / n.Mass))
		} else {
			n.VStar = mat3.Vec3{}
		}
	}
}

// Collide projects every massive node's v* against each collider in
// order (spec §4.8), overwriting VStar in place.
func Collide(g *grid.Grid, colliders []collide.Collider) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Mass <= 0 {
			continue
		}
		x := g.Position(n.Location[0], n.Location[1], n.Location[2])
		for _, c := range colliders {
			n.VStar = collide.Apply(n.VStar, x, c)
		}
	}
}
