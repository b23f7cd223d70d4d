// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/snowmpm/mat3"
)

func Test_new01_shape_and_locations(tst *testing.T) {

	chk.PrintTitle("new01: New allocates Nx*Ny*Nz nodes with the expected (ix,iy,iz) locations")

	g := New(2, 3, 4, 0.1)
	if len(g.Nodes) != 2*3*4 {
		tst.Fatalf("expected %d nodes, got %d", 2*3*4, len(g.Nodes))
	}
	if g.InvH != 10.0 {
		tst.Errorf("InvH: got %v, want 10.0", g.InvH)
	}
	for iz := 0; iz < 4; iz++ {
		for iy := 0; iy < 3; iy++ {
			for ix := 0; ix < 2; ix++ {
				n := g.At(ix, iy, iz)
				if n.Location != [3]int{ix, iy, iz} {
					tst.Errorf("node (%d,%d,%d): location=%v", ix, iy, iz, n.Location)
				}
			}
		}
	}
}

func Test_index01_roundtrips_through_at(tst *testing.T) {

	chk.PrintTitle("index01: Index/At agree on the flat layout ix + Nx*(iy + Ny*iz)")

	g := New(3, 5, 2, 0.02)
	want := 2 + 3*(4+5*1)
	got := g.Index(2, 4, 1)
	if got != want {
		tst.Errorf("Index(2,4,1): got %d, want %d", got, want)
	}
	g.At(2, 4, 1).Mass = 7.5
	if g.Nodes[want].Mass != 7.5 {
		tst.Errorf("At did not return a pointer into Nodes[Index(...)]")
	}
}

func Test_valid01_bounds(tst *testing.T) {

	chk.PrintTitle("valid01: Valid rejects every out-of-range coordinate")

	g := New(4, 4, 4, 0.1)
	cases := []struct {
		ix, iy, iz int
		want       bool
	}{
		{0, 0, 0, true},
		{3, 3, 3, true},
		{-1, 0, 0, false},
		{0, 4, 0, false},
		{0, 0, 4, false},
	}
	for _, c := range cases {
		if got := g.Valid(c.ix, c.iy, c.iz); got != c.want {
			tst.Errorf("Valid(%d,%d,%d): got %v, want %v", c.ix, c.iy, c.iz, got, c.want)
		}
	}
}

func Test_position01_scales_by_h(tst *testing.T) {

	chk.PrintTitle("position01: Position(ix,iy,iz) = h*(ix,iy,iz)")

	g := New(4, 4, 4, 0.25)
	p := g.Position(2, 1, 3)
	want := [3]float64{0.5, 0.25, 0.75}
	if p[0] != want[0] || p[1] != want[1] || p[2] != want[2] {
		tst.Errorf("Position(2,1,3): got %v, want %v", p, want)
	}
}

func Test_reset01_clears_per_tick_fields_only(tst *testing.T) {

	chk.PrintTitle("reset01: Reset zeroes mass/force/velocities but leaves Location and Density0")

	g := New(2, 2, 2, 0.1)
	n := g.At(1, 1, 1)
	n.Mass = 3.0
	n.Density0 = 400.0
	n.Force[0] = 1.0
	n.VCurr[0] = 1.0
	n.VNext[0] = 1.0
	n.VStar[0] = 1.0

	g.Reset()

	n = g.At(1, 1, 1)
	zero := mat3.Vec3{}
	if n.Mass != 0 || n.Force != zero || n.VCurr != zero || n.VNext != zero || n.VStar != zero {
		tst.Errorf("Reset left a per-tick field non-zero: %+v", n)
	}
	if n.Density0 != 400.0 {
		tst.Errorf("Reset must not clear Density0, got %v", n.Density0)
	}
	if n.Location != [3]int{1, 1, 1} {
		tst.Errorf("Reset must not clear Location, got %v", n.Location)
	}
}
