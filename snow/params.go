// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snow holds the constitutive parameters of the fixed-corotated
// snow model (spec §3, §4.5): the two Lamé constants at zero plastic
// strain, the hardening coefficient, the plastic clamp limits, and the
// PIC/FLIP and implicit-solve blend factors. Parameters are built from
// gosl/fun.Prms the way mdl/fluid.Model.Init/GetPrms build a fluid
// model's parameters.
package snow

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// Params holds the material and blend constants of one simulation.
type Params struct {
	Mu0     float64 // initial shear modulus
	Lambda0 float64 // initial first Lamé parameter
	Xi      float64 // hardening coefficient
	ThetaC  float64 // critical compression
	ThetaS  float64 // critical stretch
	Alpha   float64 // PIC/FLIP blend, 0=PIC, 1=FLIP
	Beta    float64 // implicit-solve blend, 0=explicit-only operator
}

// Default returns the parameter set used by the reference simulator
// (Stomakhin et al.'s snow example constants).
func Default() Params {
	return Params{
		Mu0:     3.846e4,
		Lambda0: 5.769e4,
		Xi:      10,
		ThetaC:  2.5e-2,
		ThetaS:  7.5e-3,
		Alpha:   0.95,
		Beta:    0.5,
	}
}

// Init sets Params from a gosl/fun.Prms list, following mdl/fluid.Model's
// switch-on-name pattern. Unrecognized names are ignored.
func (p *Params) Init(prms fun.Prms) {
	for _, prm := range prms {
		switch prm.N {
		case "mu0":
			p.Mu0 = prm.V
		case "lambda0":
			p.Lambda0 = prm.V
		case "xi":
			p.Xi = prm.V
		case "thetaC":
			p.ThetaC = prm.V
		case "thetaS":
			p.ThetaS = prm.V
		case "alpha":
			p.Alpha = prm.V
		case "beta":
			p.Beta = prm.V
		}
	}
}

// GetPrms returns p (or, if example is true, Default()) as a gosl/fun.Prms
// list, mirroring mdl/fluid.Model.GetPrms(example bool).
func (p Params) GetPrms(example bool) fun.Prms {
	src := p
	if example {
		src = Default()
	}
	return fun.Prms{
		&fun.Prm{N: "mu0", V: src.Mu0},
		&fun.Prm{N: "lambda0", V: src.Lambda0},
		&fun.Prm{N: "xi", V: src.Xi},
		&fun.Prm{N: "thetaC", V: src.ThetaC},
		&fun.Prm{N: "thetaS", V: src.ThetaS},
		&fun.Prm{N: "alpha", V: src.Alpha},
		&fun.Prm{N: "beta", V: src.Beta},
	}
}

// Lame returns the hardened shear and first Lamé parameters for a
// particle whose plastic determinant is jp (spec §4.5 step 2):
// e = exp(ξ·(1−J_P)), μ=μ0·e, λ=λ0·e.
func (p Params) Lame(jp float64) (mu, lambda float64) {
	e := math.Exp(p.Xi * (1 - jp))
	return p.Mu0 * e, p.Lambda0 * e
}

// Clamp restricts x to [1-ThetaC, 1+ThetaS], the yield surface limits on
// F_E's singular values (spec §4.9 step 3).
func (p Params) Clamp(x float64) float64 {
	lo, hi := 1-p.ThetaC, 1+p.ThetaS
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
