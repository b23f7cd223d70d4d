// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/snowmpm/mat3"
)

func Test_floor01_stick(tst *testing.T) {

	chk.PrintTitle("floor01: falling straight down into a mu=1 floor sticks")

	f := NewFloor(0.1, 1.0)
	x := mat3.Vec3{0.5, 0.5, 0.1}
	v := mat3.Vec3{0, 0, -2.0}
	out := Apply(v, x, f)
	chk.Vector(tst, "stick", 1e-15, out[:], []float64{0, 0, 0})
}

func Test_floor02_slide(tst *testing.T) {

	chk.PrintTitle("floor02: low-friction floor lets tangential velocity survive")

	f := NewFloor(0.1, 0.1)
	x := mat3.Vec3{0.5, 0.5, 0.1}
	v := mat3.Vec3{5, 0, -2.0}
	out := Apply(v, x, f)
	if out[0] <= 0 {
		tst.Errorf("expected leftover tangential velocity, got %v", out)
	}
	if out[2] != 0 {
		tst.Errorf("normal velocity should be fully absorbed, got %v", out[2])
	}
}

func Test_floor03_separating(tst *testing.T) {

	chk.PrintTitle("floor03: moving away from the floor is untouched")

	f := NewFloor(0.1, 1.0)
	x := mat3.Vec3{0.5, 0.5, 0.1}
	v := mat3.Vec3{1, 2, 3}
	out := Apply(v, x, f)
	chk.Vector(tst, "unchanged", 1e-15, out[:], v[:])
}

func Test_floor04_aboveSurface_untouched(tst *testing.T) {

	chk.PrintTitle("floor04: a point well above the floor never collides")

	f := NewFloor(0.1, 1.0)
	x := mat3.Vec3{0.5, 0.5, 0.5}
	v := mat3.Vec3{0, 0, -5}
	out := Apply(v, x, f)
	chk.Vector(tst, "unchanged", 1e-15, out[:], v[:])
}

func Test_floor05_idempotent(tst *testing.T) {

	chk.PrintTitle("floor05: applying collision twice equals applying it once (property 6)")

	f := NewFloor(0.1, 1.0)
	x := mat3.Vec3{0.5, 0.5, 0.1}
	v := mat3.Vec3{3, -1, -4}
	once := Apply(v, x, f)
	twice := Apply(once, x, f)
	chk.Vector(tst, "idempotent", 1e-15, twice[:], once[:])
}

func Test_wedge01(tst *testing.T) {

	chk.PrintTitle("wedge01: an angled static plane sticks on direct impact")

	n := mat3.Vec3{0, 1, 1}
	nrm := n.Scale(1 / n.Norm())
	w := NewWedge(mat3.Vec3{0, 0, 0}, nrm, 1.0)
	x := mat3.Vec3{0, 0, 0}
	v := nrm.Scale(-1)
	out := Apply(v, x, w)
	chk.Vector(tst, "stick", 1e-12, out[:], []float64{0, 0, 0})
}
