// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package particle implements the flat, stably-ordered population of
// Lagrangian samples the MPM solver advects (spec §3).
package particle

import (
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
)

// Particle is one Lagrangian sample.
type Particle struct {
	grid.KinematicState
	Position mat3.Vec3

	Mass    float64 // constant for the life of the particle
	Volume0 float64 // frozen after the n==0 initialization tick

	DeformElastic mat3.Mat3 // F_E, initialized to identity
	DeformPlastic mat3.Mat3 // F_P, initialized to identity
}

// New returns a particle at position with initial velocity (stored in
// VCurr) and the given mass,
// identity deformation gradients, and Volume0 left at zero (frozen in
// by the solver's n==0 initialization tick).
func New(position, velocity mat3.Vec3, mass float64) Particle {
	p := Particle{
		Position:      position,
		Mass:          mass,
		DeformElastic: mat3.Identity(),
		DeformPlastic: mat3.Identity(),
	}
	p.VCurr = velocity
	return p
}

// Set is the flat, order-stable array of particles the solver owns.
type Set struct {
	Items []Particle
}

// Add appends p to the set and returns its index.
func (s *Set) Add(p Particle) int {
	s.Items = append(s.Items, p)
	return len(s.Items) - 1
}

// Len returns the number of particles in the set.
func (s *Set) Len() int { return len(s.Items) }
