// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bspline implements the cubic B-spline interpolation kernel used
// to couple particles to the background grid (spec §4.1): the 1-D
// cardinal function N and its derivative, and the 3-D weight/gradient
// window each particle casts over its 4³ neighborhood of grid nodes.
package bspline

import (
	"math"

	"github.com/cpmech/snowmpm/mat3"
)

// N evaluates the cubic B-spline cardinal function at x.
func N(x float64) float64 {
	ax := math.Abs(x)
	switch {
	case ax < 1:
		return 0.5*ax*ax*ax - ax*ax + 2.0/3.0
	case ax < 2:
		return -ax*ax*ax/6.0 + ax*ax - 2.0*ax + 4.0/3.0
	default:
		return 0
	}
}

// Nderiv evaluates the derivative N'(x).
func Nderiv(x float64) float64 {
	ax := math.Abs(x)
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	switch {
	case ax < 1:
		return sign * (1.5*ax*ax - 2.0*ax)
	case ax < 2:
		return sign * (-0.5*ax*ax + 2.0*ax - 2.0)
	default:
		return 0
	}
}

// Axis1D holds the 1-D weights and weight-derivatives of the 4 grid
// nodes a particle couples to along one axis, plus the index (in grid
// units) of the first of those 4 nodes.
type Axis1D struct {
	Base int
	W    [4]float64
	DW   [4]float64 // dN/dp, already scaled by 1/h
}

// Eval1D computes the 1-D window for a particle coordinate pAxis on a
// uniform axis of spacing h (invH = 1/h).
func Eval1D(pAxis, h, invH float64) (a Axis1D) {
	a.Base = int(math.Floor(pAxis*invH)) - 1
	for i := 0; i < 4; i++ {
		gx := float64(a.Base+i) * h
		d := (pAxis - gx) * invH
		a.W[i] = N(d)
		a.DW[i] = Nderiv(d) * invH
	}
	return
}

// Window is the full 3-D coupling window of a particle: one Axis1D per
// coordinate axis.
type Window struct {
	X, Y, Z Axis1D
}

// Eval3D builds the 3-D window for particle position p on a grid with
// spacing h (invH = 1/h).
func Eval3D(p mat3.Vec3, h, invH float64) Window {
	return Window{
		X: Eval1D(p[0], h, invH),
		Y: Eval1D(p[1], h, invH),
		Z: Eval1D(p[2], h, invH),
	}
}

// ForEach calls fn(ix, iy, iz, w, gradW) for every grid node in the
// window whose integer location lies within [0,nx)×[0,ny)×[0,nz)
// (spec §3: "Nodes outside [0, N·-1] are invalid and skipped").
func (w Window) ForEach(nx, ny, nz int, fn func(ix, iy, iz int, weight float64, grad mat3.Vec3)) {
	for li := 0; li < 4; li++ {
		ix := w.X.Base + li
		if ix < 0 || ix >= nx {
			continue
		}
		for lj := 0; lj < 4; lj++ {
			iy := w.Y.Base + lj
			if iy < 0 || iy >= ny {
				continue
			}
			for lk := 0; lk < 4; lk++ {
				iz := w.Z.Base + lk
				if iz < 0 || iz >= nz {
					continue
				}
				weight := w.X.W[li] * w.Y.W[lj] * w.Z.W[lk]
				grad := mat3.Vec3{
					w.X.DW[li] * w.Y.W[lj] * w.Z.W[lk],
					w.X.W[li] * w.Y.DW[lj] * w.Z.W[lk],
					w.X.W[li] * w.Y.W[lj] * w.Z.DW[lk],
				}
				fn(ix, iy, iz, weight, grad)
			}
		}
	}
}
