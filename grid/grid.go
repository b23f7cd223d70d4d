// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the uniform Eulerian lattice the MPM solver
// rasterizes particle quantities onto (spec §3). Following design note 9,
// the velocity/force state shared between grid nodes and particles is a
// composed KinematicState record rather than a base "Node" class.
package grid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/snowmpm/mat3"
)

// KinematicState is the velocity bookkeeping shared by grid nodes and
// particles: double-buffered velocity at tick n and n+1, plus the
// transient velocity_star used between the explicit/implicit update and
// the collision pass.
type KinematicState struct {
	VCurr mat3.Vec3 // velocity at tick n
	VNext mat3.Vec3 // velocity at tick n+1
	VStar mat3.Vec3 // transient v* between integration and collision
}

// Node is one sample of the Eulerian lattice.
type Node struct {
	KinematicState
	Location [3]int     // integer lattice location (ix,iy,iz)
	Mass     float64    // recomputed every tick
	Force    mat3.Vec3  // recomputed every tick
	Density0 float64    // set once, during the n==0 initialization tick
}

// Grid owns the flat Nx·Ny·Nz array of nodes on a uniform lattice of
// spacing H.
type Grid struct {
	Nx, Ny, Nz int
	H          float64
	InvH       float64
	Nodes      []Node
}

// New allocates a grid of shape (nx,ny,nz) with spacing h. h must be
// positive and the grid must have positive extent in every direction;
// otherwise New panics through chk.Panic. It returns no ConfigError, and
// solver.New and snapshot.Load pass their arguments to it unchecked.
func New(nx, ny, nz int, h float64) *Grid {
	if h <= 0 {
		chk.Panic("grid: spacing h must be positive, got %v", h)
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		chk.Panic("grid: shape must be positive in every direction, got (%d,%d,%d)", nx, ny, nz)
	}
	g := &Grid{Nx: nx, Ny: ny, Nz: nz, H: h, InvH: 1.0 / h}
	g.Nodes = make([]Node, nx*ny*nz)
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				g.Nodes[g.Index(ix, iy, iz)].Location = [3]int{ix, iy, iz}
			}
		}
	}
	return g
}

// Index returns the flat index i = ix + Nx·(iy + Ny·iz) of node
// (ix,iy,iz). The caller must ensure the location is in bounds; use
// Valid to check first.
func (g *Grid) Index(ix, iy, iz int) int {
	return ix + g.Nx*(iy+g.Ny*iz)
}

// Valid reports whether (ix,iy,iz) is within [0,Nx)×[0,Ny)×[0,Nz).
func (g *Grid) Valid(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.Nx && iy >= 0 && iy < g.Ny && iz >= 0 && iz < g.Nz
}

// At returns a pointer to node (ix,iy,iz); panics if out of bounds
// (callers on the hot path should have already checked with Valid, as
// bspline.Window.ForEach does).
func (g *Grid) At(ix, iy, iz int) *Node {
	if !g.Valid(ix, iy, iz) {
		chk.Panic("grid: location (%d,%d,%d) out of bounds (%d,%d,%d)", ix, iy, iz, g.Nx, g.Ny, g.Nz)
	}
	return &g.Nodes[g.Index(ix, iy, iz)]
}

// Position returns the spatial coordinate h·location of node (ix,iy,iz).
func (g *Grid) Position(ix, iy, iz int) mat3.Vec3 {
	return mat3.Vec3{float64(ix) * g.H, float64(iy) * g.H, float64(iz) * g.H}
}

// Reset zeroes the per-tick fields (mass, force, velocities) of every
// node, leaving Location and Density0 untouched.
func (g *Grid) Reset() {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.Mass = 0
		n.Force = mat3.Vec3{}
		n.VCurr = mat3.Vec3{}
		n.VNext = mat3.Vec3{}
		n.VStar = mat3.Vec3{}
	}
}
