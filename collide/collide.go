// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collide implements the collision handler (spec §4.8) as a
// small capability-set interface rather than a hard-coded floor, per
// design note 9: a Collider need only answer signed distance, outward
// normal, velocity, and friction at a point, so new obstacles (a wedge,
// here, in addition to the reference floor) plug in without touching the
// solver.
package collide

import "github.com/cpmech/snowmpm/mat3"

// Collider is the capability set the solver needs from any obstacle.
type Collider interface {
	// SignedDistance returns the signed distance from x to the collider
	// surface; negative means x is inside/behind the surface.
	SignedDistance(x mat3.Vec3) float64
	// OutwardNormal returns the outward unit normal at (or near) x.
	OutwardNormal(x mat3.Vec3) mat3.Vec3
	// VelocityAt returns the collider's own velocity at x.
	VelocityAt(x mat3.Vec3) mat3.Vec3
	// Friction returns the collider's Coulomb friction coefficient.
	Friction() float64
}

// Apply projects velocity v* at position x against collider c, following
// spec §4.8 exactly: sticks when the tangential slip is within the
// friction cone, slides (clamped Coulomb friction) otherwise, and leaves
// v* untouched when the point is separating or not yet in contact.
func Apply(v, x mat3.Vec3, c Collider) mat3.Vec3 {
	if c.SignedDistance(x) > 0 {
		return v
	}
	n := c.OutwardNormal(x)
	vco := c.VelocityAt(x)
	vrel := v.Sub(vco)
	vn := vrel.Dot(n)
	if vn >= 0 {
		return v
	}
	vt := vrel.Sub(n.Scale(vn))
	muF := c.Friction()
	vtNorm := vt.Norm()
	if vtNorm <= -muF*vn {
		vrel = mat3.Vec3{}
	} else {
		vrel = vt.Add(vt.Scale(muF * vn / vtNorm))
	}
	return vrel.Add(vco)
}

// Floor is an infinite static plane collider with normal (0,0,1).
type Floor struct {
	Z  float64 // height of the floor, e.g. 0.1 in the reference scene
	Mu float64 // Coulomb friction coefficient
}

// NewFloor returns a floor collider at height z with Coulomb friction mu.
func NewFloor(z, mu float64) *Floor { return &Floor{Z: z, Mu: mu} }

func (f *Floor) SignedDistance(x mat3.Vec3) float64  { return x[2] - f.Z }
func (f *Floor) OutwardNormal(x mat3.Vec3) mat3.Vec3 { return mat3.Vec3{0, 0, 1} }
func (f *Floor) VelocityAt(x mat3.Vec3) mat3.Vec3    { return mat3.Vec3{} }
func (f *Floor) Friction() float64                   { return f.Mu }

// Wedge is a static half-space collider defined by a point on its plane
// and an (already unit) outward normal; it generalizes Floor to an
// arbitrary planar obstacle (SPEC_FULL.md supplement 1).
type Wedge struct {
	Point  mat3.Vec3
	Normal mat3.Vec3
	Mu     float64
}

// NewWedge returns a static planar collider through point with the given
// outward unit normal and Coulomb friction mu.
func NewWedge(point, normal mat3.Vec3, mu float64) *Wedge {
	return &Wedge{Point: point, Normal: normal, Mu: mu}
}

func (w *Wedge) SignedDistance(x mat3.Vec3) float64 {
	return x.Sub(w.Point).Dot(w.Normal)
}
func (w *Wedge) OutwardNormal(x mat3.Vec3) mat3.Vec3 { return w.Normal }
func (w *Wedge) VelocityAt(x mat3.Vec3) mat3.Vec3    { return mat3.Vec3{} }
func (w *Wedge) Friction() float64                   { return w.Mu }
